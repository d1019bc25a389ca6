// Package core wires the store, poller and dispatcher into one service
// behind the event bus. Every store mutation is followed by a state push,
// so the UI always renders a consistent snapshot.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/g1c/g1c/internal/cloud"
	"github.com/g1c/g1c/internal/config"
	"github.com/g1c/g1c/internal/dispatcher"
	"github.com/g1c/g1c/internal/eventbus"
	"github.com/g1c/g1c/internal/poller"
	"github.com/g1c/g1c/internal/store"
)

// shutdownGrace bounds how long Stop waits for in-flight work.
const shutdownGrace = 2 * time.Second

// DashboardService owns the background half of the dashboard.
type DashboardService struct {
	settings   config.Settings
	provider   cloud.Provider
	store      *store.Store
	poller     *poller.Poller
	dispatcher *dispatcher.Dispatcher
	bus        *eventbus.EventBus
	log        zerolog.Logger
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewDashboardService assembles the service around a provider and the
// immutable settings value.
func NewDashboardService(settings config.Settings, provider cloud.Provider, bus *eventbus.EventBus, log zerolog.Logger) *DashboardService {
	ctx, cancel := context.WithCancel(context.Background())

	st := store.New(settings.EvictionMisses)
	pol := poller.New(provider, st, bus, settings.RefreshInterval, log)
	disp := dispatcher.New(provider, st, bus, pol, settings.CommandTimeout, log)

	return &DashboardService{
		settings:   settings,
		provider:   provider,
		store:      st,
		poller:     pol,
		dispatcher: disp,
		bus:        bus,
		log:        log.With().Str("component", "core").Logger(),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Store exposes the instance store for confirm-time re-validation.
func (s *DashboardService) Store() *store.Store {
	return s.store
}

// Start runs the first poll synchronously so startup can fail fast when no
// useful view can ever be rendered, then launches the poller and the UI
// event loop.
func (s *DashboardService) Start() error {
	if err := s.poller.PollOnce(s.ctx); err != nil {
		if cloud.IsFatal(err) {
			return fmt.Errorf("initial poll failed: %w", err)
		}
		// Transient first poll: start anyway with a stale banner.
		s.log.Warn().Err(err).Msg("initial poll failed, starting with stale view")
	}

	go s.poller.Run(s.ctx)
	go s.eventLoop()
	return nil
}

// Stop cancels background work and waits a bounded grace period for it.
func (s *DashboardService) Stop() {
	s.cancel()
	s.dispatcher.Wait(shutdownGrace)
	select {
	case <-s.poller.Done():
	case <-time.After(shutdownGrace):
		s.log.Warn().Msg("abandoning poller after grace period")
	}
}

func (s *DashboardService) eventLoop() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-s.bus.UIToCore():
			if !ok {
				return
			}
			s.handleUIEvent(event)
		}
	}
}

func (s *DashboardService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.RefreshRequestEvent:
		s.poller.Poke()
	case eventbus.CommandIntentEvent:
		s.handleCommand(e)
	case eventbus.DismissFailureEvent:
		if s.store.ClearFailed(e.ID) {
			s.pushState()
		}
	}
}

func (s *DashboardService) handleCommand(e eventbus.CommandIntentEvent) {
	err := s.dispatcher.Dispatch(s.ctx, e.ID, e.Kind)
	if err == nil {
		return
	}

	reason := err.Error()
	switch {
	case errors.Is(err, store.ErrAlreadyPending):
		reason = "an operation is already in flight"
	case errors.Is(err, store.ErrUnknownInstance):
		reason = "instance no longer exists"
	}
	if err := s.bus.SendToUI(eventbus.RejectedEvent{ID: e.ID, Kind: e.Kind, Reason: reason}); err != nil {
		s.log.Warn().Err(err).Msg("dropping rejection event")
	}
}

func (s *DashboardService) pushState() {
	if err := s.bus.SendToUI(eventbus.StateUpdateEvent{Snapshot: s.store.Snapshot()}); err != nil {
		s.log.Warn().Err(err).Msg("dropping state update")
	}
}
