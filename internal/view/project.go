// Package view derives the renderable model from a store snapshot and the
// interaction state. Projection is a pure function: no I/O, no hidden
// timers, identical inputs give identical output.
package view

import (
	"sort"
	"time"

	"github.com/g1c/g1c/internal/models"
	"github.com/g1c/g1c/internal/store"
)

// Row is one visible table row.
type Row struct {
	Instance models.Instance
	Op       *models.PendingOperation
	// Matched marks a search hit for highlighting.
	Matched bool
}

// RenderModel is everything the presentation layer needs to draw a frame.
type RenderModel struct {
	Rows          []Row
	SelectedIndex int // -1 when no rows are visible
	SelectedID    string
	MatchRows     []int // row indexes matching the search query, in order
	CurrentMatch  int   // index into MatchRows, -1 without matches
	Stale         bool
	StaleReason   string
	LastSync      time.Time
	Total         int // instance count before filtering
}

// Selected returns the selected row, if any.
func (m RenderModel) Selected() (Row, bool) {
	if m.SelectedIndex < 0 || m.SelectedIndex >= len(m.Rows) {
		return Row{}, false
	}
	return m.Rows[m.SelectedIndex], true
}

// Project applies the active filter, the search highlighting and the stable
// ordering, then resolves the selection against the visible rows.
func Project(snap store.Snapshot, st models.InteractionState) RenderModel {
	filter, err := CompileFilter(st.FilterActive)
	if err != nil {
		// Only validated expressions are promoted to FilterActive; an
		// error here means a stale expression, treated as no filter.
		filter = nil
	}
	search := CompileSearch(st.SearchActive)

	m := RenderModel{
		SelectedIndex: -1,
		CurrentMatch:  -1,
		Stale:         snap.Stale,
		StaleReason:   snap.StaleReason,
		LastSync:      snap.LastSync,
		Total:         len(snap.Entries),
	}

	for _, e := range snap.Entries {
		if !filter.Match(e.Instance) {
			continue
		}
		m.Rows = append(m.Rows, Row{
			Instance: e.Instance,
			Op:       e.Op,
			Matched:  search.Match(e.Instance),
		})
	}

	sort.SliceStable(m.Rows, func(i, j int) bool {
		a, b := m.Rows[i].Instance, m.Rows[j].Instance
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})

	for i, r := range m.Rows {
		if r.Matched {
			m.MatchRows = append(m.MatchRows, i)
		}
	}
	if n := len(m.MatchRows); n > 0 {
		m.CurrentMatch = ((st.CurrentMatch % n) + n) % n
	}

	if len(m.Rows) > 0 {
		m.SelectedIndex = 0
		for i, r := range m.Rows {
			if r.Instance.ID == st.SelectedID {
				m.SelectedIndex = i
				break
			}
		}
		m.SelectedID = m.Rows[m.SelectedIndex].Instance.ID
	}
	return m
}
