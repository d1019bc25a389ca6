// Package poller drives the periodic reconciliation of remote instance
// state into the store.
package poller

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/g1c/g1c/internal/cloud"
	"github.com/g1c/g1c/internal/eventbus"
	"github.com/g1c/g1c/internal/store"
)

// backoffFactor caps the backed-off interval at this multiple of the base.
const backoffFactor = 8

// Poller fetches the instance set on a timer and merges it into the store.
// Failed polls keep last-known-good data, flag the view stale, and back the
// interval off geometrically until a fetch succeeds again.
type Poller struct {
	provider    cloud.Provider
	store       *store.Store
	bus         *eventbus.EventBus
	log         zerolog.Logger
	base        time.Duration
	ceiling     time.Duration
	pollTimeout time.Duration
	failures    int
	poke        chan struct{}
	done        chan struct{}
}

// New creates a poller with the given base interval.
func New(provider cloud.Provider, st *store.Store, bus *eventbus.EventBus, base time.Duration, log zerolog.Logger) *Poller {
	return &Poller{
		provider:    provider,
		store:       st,
		bus:         bus,
		log:         log.With().Str("component", "poller").Logger(),
		base:        base,
		ceiling:     base * backoffFactor,
		pollTimeout: 30 * time.Second,
		poke:        make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
}

// PollOnce performs a single fetch-and-merge. On failure the store keeps
// its data and is flagged stale with the failure reason.
func (p *Poller) PollOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.pollTimeout)
	defer cancel()

	instances, err := p.provider.List(ctx)
	if err != nil {
		p.failures++
		p.store.SetStale(err.Error())
		p.log.Warn().Err(err).Int("consecutive_failures", p.failures).Msg("poll failed")
		p.pushState()
		return err
	}

	p.failures = 0
	p.store.Merge(instances)
	p.log.Debug().Int("instances", len(instances)).Msg("poll merged")
	p.pushState()
	return nil
}

// Interval returns the delay before the next poll given the current
// consecutive-failure count: base doubled per failure, capped at the
// ceiling.
func (p *Poller) Interval() time.Duration {
	return backoffInterval(p.base, p.ceiling, p.failures)
}

func backoffInterval(base, ceiling time.Duration, failures int) time.Duration {
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= ceiling {
			return ceiling
		}
	}
	return d
}

// Poke requests an immediate poll. Non-blocking; coalesces with an already
// pending request.
func (p *Poller) Poke() {
	select {
	case p.poke <- struct{}{}:
	default:
	}
}

// Run loops until ctx is cancelled. A poll in flight when cancellation
// arrives is abandoned by its own timeout; shutdown never blocks on it.
func (p *Poller) Run(ctx context.Context) {
	defer close(p.done)

	timer := time.NewTimer(p.Interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("poller stopped")
			return
		case <-timer.C:
		case <-p.poke:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}

		if err := p.PollOnce(ctx); err != nil && ctx.Err() != nil {
			return
		}
		timer.Reset(p.Interval())
	}
}

// Done is closed once Run has returned.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

func (p *Poller) pushState() {
	if err := p.bus.SendToUI(eventbus.StateUpdateEvent{Snapshot: p.store.Snapshot()}); err != nil {
		p.log.Warn().Err(err).Msg("dropping state update")
	}
}
