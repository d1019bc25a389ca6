package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g1c/g1c/internal/models"
	"github.com/g1c/g1c/internal/store"
)

func snapOf(entries ...store.Entry) store.Snapshot {
	return store.Snapshot{Entries: entries}
}

func entry(id, name string, status models.Status) store.Entry {
	return store.Entry{Instance: models.Instance{ID: id, Name: name, Status: status, Zone: "us-east1-b"}}
}

func TestCompileFilter(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr bool
	}{
		{"", false},
		{"running", false},
		{"status=Running", false},
		{"name=/^vm-[0-9]+$/", false},
		{"zone=us-east1", false},
		{"flavor=big", true},     // unknown field
		{"name=/[unclosed/", true}, // bad regex
	}
	for _, tt := range tests {
		_, err := CompileFilter(tt.expr)
		if tt.wantErr {
			assert.Error(t, err, "expr %q", tt.expr)
		} else {
			assert.NoError(t, err, "expr %q", tt.expr)
		}
	}
}

func TestFilterStatusScenario(t *testing.T) {
	snap := snapOf(
		entry("a", "vm-a", models.StatusRunning),
		entry("b", "vm-b", models.StatusStopped),
	)

	m := Project(snap, models.InteractionState{FilterActive: "status=Running"})
	require.Len(t, m.Rows, 1)
	assert.Equal(t, "a", m.Rows[0].Instance.ID)
	assert.Equal(t, 0, m.SelectedIndex)
	assert.Equal(t, 2, m.Total)
}

func TestFilterRegexAndSubstring(t *testing.T) {
	snap := snapOf(
		entry("1", "web-1", models.StatusRunning),
		entry("2", "web-2", models.StatusRunning),
		entry("3", "db-1", models.StatusStopped),
	)

	m := Project(snap, models.InteractionState{FilterActive: "name=/^web-/"})
	assert.Len(t, m.Rows, 2)

	m = Project(snap, models.InteractionState{FilterActive: "DB"})
	require.Len(t, m.Rows, 1)
	assert.Equal(t, "db-1", m.Rows[0].Instance.Name)
}

func TestProjectIsIdempotent(t *testing.T) {
	snap := snapOf(
		entry("b", "bravo", models.StatusRunning),
		entry("a", "alpha", models.StatusStopped),
	)
	st := models.InteractionState{SelectedID: "b", SearchActive: "bravo"}

	first := Project(snap, st)
	second := Project(snap, st)
	assert.Equal(t, first, second)
}

func TestProjectOrdersByNameThenID(t *testing.T) {
	snap := snapOf(
		entry("2", "same", models.StatusRunning),
		entry("1", "same", models.StatusRunning),
		entry("3", "aaa", models.StatusRunning),
	)

	m := Project(snap, models.InteractionState{})
	require.Len(t, m.Rows, 3)
	assert.Equal(t, "aaa", m.Rows[0].Instance.Name)
	assert.Equal(t, "1", m.Rows[1].Instance.ID)
	assert.Equal(t, "2", m.Rows[2].Instance.ID)
}

func TestSelectionFallsBackToFirstVisibleRow(t *testing.T) {
	snap := snapOf(
		entry("a", "alpha", models.StatusRunning),
		entry("b", "bravo", models.StatusRunning),
	)

	m := Project(snap, models.InteractionState{SelectedID: "b"})
	assert.Equal(t, 1, m.SelectedIndex)

	// Selected id evicted between polls.
	m = Project(snapOf(entry("a", "alpha", models.StatusRunning)), models.InteractionState{SelectedID: "b"})
	assert.Equal(t, 0, m.SelectedIndex)
	assert.Equal(t, "a", m.SelectedID)

	// No rows at all.
	m = Project(snapOf(), models.InteractionState{SelectedID: "b"})
	assert.Equal(t, -1, m.SelectedIndex)
	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestSearchHighlightsAndWraps(t *testing.T) {
	snap := snapOf(
		entry("1", "api-1", models.StatusRunning),
		entry("2", "db-1", models.StatusRunning),
		entry("3", "api-2", models.StatusRunning),
	)

	st := models.InteractionState{SearchActive: "api"}
	m := Project(snap, st)
	require.Equal(t, []int{0, 1}, m.MatchRows) // rows sorted: api-1, api-2, db-1
	assert.Equal(t, 0, m.CurrentMatch)

	st.CurrentMatch = 1
	assert.Equal(t, 1, Project(snap, st).CurrentMatch)

	// The match cursor wraps; row navigation elsewhere clamps.
	st.CurrentMatch = 2
	assert.Equal(t, 0, Project(snap, st).CurrentMatch)
}

func TestSearchNeverHidesRows(t *testing.T) {
	snap := snapOf(
		entry("1", "api-1", models.StatusRunning),
		entry("2", "db-1", models.StatusRunning),
	)

	m := Project(snap, models.InteractionState{SearchActive: "api"})
	assert.Len(t, m.Rows, 2)
	assert.True(t, m.Rows[0].Matched)
	assert.False(t, m.Rows[1].Matched)
}
