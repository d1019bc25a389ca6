package core

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g1c/g1c/internal/cloud"
	"github.com/g1c/g1c/internal/config"
	"github.com/g1c/g1c/internal/eventbus"
	"github.com/g1c/g1c/internal/models"
)

func testSettings() config.Settings {
	s := config.Default()
	s.Project = "demo-project"
	s.RefreshInterval = time.Hour // only explicit pokes poll during tests
	return s
}

func drainUntil[T eventbus.CoreEvent](t *testing.T, bus *eventbus.EventBus) T {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-bus.CoreToUI():
			if typed, ok := ev.(T); ok {
				return typed
			}
		case <-deadline:
			t.Fatal("timed out waiting for core event")
		}
	}
}

func TestStartFailsFastOnFatalFirstPoll(t *testing.T) {
	tests := []struct {
		name string
		kind cloud.ErrorKind
	}{
		{"unauthenticated", cloud.KindUnauthenticated},
		{"fatal", cloud.KindFatal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &cloud.FakeProvider{
				ListResults: []cloud.ListResult{{Err: &cloud.Error{Kind: tt.kind, Message: "nope"}}},
			}
			svc := NewDashboardService(testSettings(), fake, eventbus.NewEventBus(), zerolog.Nop())
			err := svc.Start()
			require.Error(t, err)
			svc.Stop()
		})
	}
}

func TestStartToleratesTransientFirstPoll(t *testing.T) {
	fake := &cloud.FakeProvider{
		ListResults: []cloud.ListResult{{Err: &cloud.Error{Kind: cloud.KindTransient, Message: "flake"}}},
	}
	svc := NewDashboardService(testSettings(), fake, eventbus.NewEventBus(), zerolog.Nop())
	require.NoError(t, svc.Start())
	defer svc.Stop()

	assert.True(t, svc.Store().Snapshot().Stale)
}

func TestCommandIntentFlowsToProvider(t *testing.T) {
	bus := eventbus.NewEventBus()
	fake := &cloud.FakeProvider{
		ListResults: []cloud.ListResult{
			{Instances: []models.Instance{{ID: "a", Name: "vm-a", Status: models.StatusStopped}}},
		},
	}
	svc := NewDashboardService(testSettings(), fake, bus, zerolog.Nop())
	require.NoError(t, svc.Start())
	defer svc.Stop()

	require.NoError(t, bus.SendToCore(eventbus.CommandIntentEvent{ID: "a", Kind: models.OpStart}))

	require.Eventually(t, func() bool {
		e, ok := svc.Store().Snapshot().Get("a")
		return ok && e.Op != nil && e.Op.Phase == models.PhaseSucceeded
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRejectionSurfacesToUI(t *testing.T) {
	bus := eventbus.NewEventBus()
	fake := &cloud.FakeProvider{
		ListResults: []cloud.ListResult{
			{Instances: []models.Instance{{ID: "a", Name: "vm-a", Status: models.StatusRunning}}},
		},
	}
	svc := NewDashboardService(testSettings(), fake, bus, zerolog.Nop())
	require.NoError(t, svc.Start())
	defer svc.Stop()

	require.NoError(t, bus.SendToCore(eventbus.CommandIntentEvent{ID: "ghost", Kind: models.OpStop}))

	rej := drainUntil[eventbus.RejectedEvent](t, bus)
	assert.Equal(t, "ghost", rej.ID)
	assert.Contains(t, rej.Reason, "no longer exists")
}

func TestDismissFailurePushesState(t *testing.T) {
	bus := eventbus.NewEventBus()
	fake := &cloud.FakeProvider{
		ListResults: []cloud.ListResult{
			{Instances: []models.Instance{{ID: "a", Name: "vm-a", Status: models.StatusStopped}}},
		},
		OpErr: &cloud.Error{Kind: cloud.KindTransient, Message: "boom"},
	}
	svc := NewDashboardService(testSettings(), fake, bus, zerolog.Nop())
	require.NoError(t, svc.Start())
	defer svc.Stop()

	require.NoError(t, bus.SendToCore(eventbus.CommandIntentEvent{ID: "a", Kind: models.OpStart}))
	require.Eventually(t, func() bool {
		e, ok := svc.Store().Snapshot().Get("a")
		return ok && e.Op != nil && e.Op.Phase == models.PhaseFailed
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, bus.SendToCore(eventbus.DismissFailureEvent{ID: "a"}))
	require.Eventually(t, func() bool {
		e, ok := svc.Store().Snapshot().Get("a")
		return ok && e.Op == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStopReturnsPromptly(t *testing.T) {
	fake := &cloud.FakeProvider{
		ListResults: []cloud.ListResult{
			{Instances: []models.Instance{{ID: "a", Name: "vm-a", Status: models.StatusRunning}}},
		},
		OpBlock: true,
	}
	bus := eventbus.NewEventBus()
	svc := NewDashboardService(testSettings(), fake, bus, zerolog.Nop())
	require.NoError(t, svc.Start())
	require.NoError(t, bus.SendToCore(eventbus.CommandIntentEvent{ID: "a", Kind: models.OpStop}))

	start := time.Now()
	svc.Stop()
	assert.Less(t, time.Since(start), 5*time.Second)
}
