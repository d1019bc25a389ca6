package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/g1c/g1c/internal/models"
	"github.com/g1c/g1c/internal/view"
	"github.com/g1c/g1c/ui/styles"
)

// RenderStatusBar draws the bottom line: transient status messages, the
// active filter and search, and an activity indicator while operations run.
func RenderStatusBar(st *models.InteractionState, proj view.RenderModel, dots int) string {
	parts := make([]string, 0, 4)

	if st.StatusMsg != "" && time.Now().Before(st.StatusUntil) {
		parts = append(parts, st.StatusMsg)
	}
	if st.FilterActive != "" {
		parts = append(parts, "filter: "+st.FilterActive)
	}
	if st.SearchActive != "" {
		n := len(proj.MatchRows)
		if n > 0 {
			parts = append(parts, fmt.Sprintf("search: %s (%d/%d)", st.SearchActive, proj.CurrentMatch+1, n))
		} else {
			parts = append(parts, "search: "+st.SearchActive+" (no matches)")
		}
	}
	if dots > 0 {
		parts = append(parts, "working"+strings.Repeat(".", dots))
	}
	if len(parts) == 0 {
		parts = append(parts, "? help · f filter · / search · q quit")
	}

	return styles.StatusBarStyle(st.Width).Render(strings.Join(parts, "  ·  "))
}
