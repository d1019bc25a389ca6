// Package dispatcher turns user command intents into asynchronous provider
// calls and reconciles their outcomes back into the store.
package dispatcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/g1c/g1c/internal/cloud"
	"github.com/g1c/g1c/internal/eventbus"
	"github.com/g1c/g1c/internal/models"
	"github.com/g1c/g1c/internal/store"
)

// Refresher lets a completed operation request an immediate poll so the
// visible status converges without waiting for the next tick.
type Refresher interface {
	Poke()
}

// Dispatcher runs lifecycle commands. One goroutine per accepted command,
// bounded by the store's single-pending-operation-per-id invariant.
type Dispatcher struct {
	provider cloud.Provider
	store    *store.Store
	bus      *eventbus.EventBus
	refresh  Refresher
	timeout  time.Duration
	log      zerolog.Logger
	wg       sync.WaitGroup
}

// New creates a dispatcher with the given per-operation timeout.
func New(provider cloud.Provider, st *store.Store, bus *eventbus.EventBus, refresh Refresher, timeout time.Duration, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		provider: provider,
		store:    st,
		bus:      bus,
		refresh:  refresh,
		timeout:  timeout,
		log:      log.With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch validates the intent against the store and, if accepted, issues
// the provider call asynchronously. Rejections are returned synchronously
// and must be surfaced to the operator.
func (d *Dispatcher) Dispatch(ctx context.Context, id string, kind models.OpKind) error {
	tok, err := d.store.BeginOperation(id, kind)
	if err != nil {
		d.log.Info().Str("instance", id).Str("kind", string(kind)).Err(err).Msg("command rejected")
		return err
	}

	d.log.Info().Str("instance", id).Str("kind", string(kind)).Msg("command accepted")
	d.pushState()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.execute(ctx, tok, kind)
	}()
	return nil
}

func (d *Dispatcher) execute(ctx context.Context, tok store.Token, kind models.OpKind) {
	opCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	d.store.MarkInFlight(tok)
	d.pushState()

	err := d.call(opCtx, tok.ID(), kind)
	switch {
	case err == nil && kind == models.OpDelete:
		// Cloud deletions are asynchronous server-side: the adapter's
		// acknowledgment is not proof the instance is gone. The operation
		// stays in flight until a merge no longer lists the id.
		d.log.Info().Str("instance", tok.ID()).Msg("delete acknowledged, awaiting absence")
		d.refresh.Poke()
	case err == nil:
		d.store.CompleteOperation(tok, models.PhaseSucceeded, "")
		d.log.Info().Str("instance", tok.ID()).Str("kind", string(kind)).Msg("operation succeeded")
		d.refresh.Poke()
	case errors.Is(opCtx.Err(), context.DeadlineExceeded):
		d.store.CompleteOperation(tok, models.PhaseFailed, "timeout after "+d.timeout.String())
		d.log.Warn().Str("instance", tok.ID()).Str("kind", string(kind)).Msg("operation timed out")
	default:
		d.store.CompleteOperation(tok, models.PhaseFailed, err.Error())
		d.log.Warn().Str("instance", tok.ID()).Str("kind", string(kind)).Err(err).Msg("operation failed")
	}
	d.pushState()
}

func (d *Dispatcher) call(ctx context.Context, id string, kind models.OpKind) error {
	switch kind {
	case models.OpStart:
		return d.provider.Start(ctx, id)
	case models.OpStop:
		return d.provider.Stop(ctx, id)
	case models.OpRestart:
		return d.provider.Restart(ctx, id)
	case models.OpDelete:
		return d.provider.Delete(ctx, id)
	}
	return errors.New("unknown operation kind " + string(kind))
}

// Wait blocks until in-flight operations finish or the grace period runs
// out. Shutdown must never hang on a stuck provider call.
func (d *Dispatcher) Wait(grace time.Duration) {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(grace):
		d.log.Warn().Msg("abandoning in-flight operations after grace period")
	}
}

func (d *Dispatcher) pushState() {
	if err := d.bus.SendToUI(eventbus.StateUpdateEvent{Snapshot: d.store.Snapshot()}); err != nil {
		d.log.Warn().Err(err).Msg("dropping state update")
	}
}
