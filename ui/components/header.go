package components

import (
	"fmt"

	"github.com/g1c/g1c/internal/view"
	"github.com/g1c/g1c/ui/styles"
)

// RenderHeader draws the title bar and, when the last poll failed, the
// stale-data banner under it.
func RenderHeader(project, region, version string, proj view.RenderModel, width int) string {
	regionLabel := region
	if regionLabel == "" {
		regionLabel = "all regions"
	}
	title := fmt.Sprintf("g1c — %s · %s · %d/%d instances · %s",
		project, regionLabel, len(proj.Rows), proj.Total, version)
	out := styles.HeaderStyle(width).Render(title)

	if proj.Stale {
		banner := "STALE DATA — last poll failed: " + proj.StaleReason
		if !proj.LastSync.IsZero() {
			banner += " · showing state from " + proj.LastSync.Format("15:04:05")
		}
		out += "\n" + styles.StaleBannerStyle(width).Render(banner)
	}
	return out
}
