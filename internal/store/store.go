// Package store holds the authoritative in-memory view of the remote
// instance set plus the pending operation attached to each instance.
package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/g1c/g1c/internal/models"
)

var (
	// ErrAlreadyPending is returned when an operation is already in flight
	// for the instance. Commands are rejected, never queued.
	ErrAlreadyPending = errors.New("an operation is already in flight for this instance")
	// ErrUnknownInstance is returned for ids the store does not know.
	ErrUnknownInstance = errors.New("unknown instance")
)

// Token identifies one begun operation. Completions carrying a stale token
// are ignored, which makes the dispatcher's timeout path idempotent.
type Token struct {
	id  string
	seq uint64
}

// ID returns the instance id the token was issued for.
func (t Token) ID() string { return t.id }

// Entry pairs an instance with its pending operation, if any.
type Entry struct {
	Instance models.Instance
	Op       *models.PendingOperation
}

// Snapshot is an immutable copy of the store, ordered by name then id.
type Snapshot struct {
	Entries     []Entry
	Stale       bool
	StaleReason string
	LastSync    time.Time
}

// Get finds an entry by id.
func (s Snapshot) Get(id string) (Entry, bool) {
	for _, e := range s.Entries {
		if e.Instance.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

type record struct {
	inst   models.Instance
	op     *models.PendingOperation
	opSeq  uint64
	misses int
}

// Store is the single shared mutable resource. All mutation happens under
// one mutex so a poll merge and an operation completion can never be
// observed half-applied.
type Store struct {
	mu          sync.Mutex
	evictAfter  int
	records     map[string]*record
	stale       bool
	staleReason string
	lastSync    time.Time
	seq         uint64
}

// New creates a store that evicts an instance after evictAfter consecutive
// polls omit it.
func New(evictAfter int) *Store {
	if evictAfter < 1 {
		evictAfter = 1
	}
	return &Store{
		evictAfter: evictAfter,
		records:    make(map[string]*record),
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Entries:     make([]Entry, 0, len(s.records)),
		Stale:       s.stale,
		StaleReason: s.staleReason,
		LastSync:    s.lastSync,
	}
	for _, r := range s.records {
		e := Entry{Instance: r.inst}
		if r.inst.Labels != nil {
			e.Instance.Labels = make(map[string]string, len(r.inst.Labels))
			for k, v := range r.inst.Labels {
				e.Instance.Labels[k] = v
			}
		}
		if r.op != nil {
			op := *r.op
			e.Op = &op
		}
		snap.Entries = append(snap.Entries, e)
	}
	sort.Slice(snap.Entries, func(i, j int) bool {
		a, b := snap.Entries[i].Instance, snap.Entries[j].Instance
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return snap
}

// Merge reconciles a successful poll result into the store: upsert every
// remote instance, count misses for stored ids the poll omitted, and evict
// at the miss threshold. An absent instance with a delete in flight is the
// expected success signal and is evicted immediately.
func (s *Store) Merge(remote []models.Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	seen := make(map[string]bool, len(remote))
	for _, inst := range remote {
		seen[inst.ID] = true
		inst.LastSeen = now
		if r, ok := s.records[inst.ID]; ok {
			r.inst = inst
			r.misses = 0
			// A finished operation is reflected by this poll; only
			// failures stick around until dismissed.
			if r.op != nil && r.op.Phase == models.PhaseSucceeded {
				r.op = nil
			}
		} else {
			s.records[inst.ID] = &record{inst: inst}
		}
	}

	for id, r := range s.records {
		if seen[id] {
			continue
		}
		if r.op != nil && r.op.Kind == models.OpDelete && !r.op.Terminal() {
			// Deletion confirmed by absence.
			delete(s.records, id)
			continue
		}
		r.misses++
		if r.misses >= s.evictAfter {
			delete(s.records, id)
		}
	}

	s.stale = false
	s.staleReason = ""
	s.lastSync = now
}

// SetStale flags the whole view as stale after a failed poll. Last-known
// instance data is retained untouched.
func (s *Store) SetStale(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale = true
	s.staleReason = reason
}

// BeginOperation registers intent to run kind against id. It fails with
// ErrAlreadyPending while another operation is in flight and with
// ErrUnknownInstance for ids the store does not hold. A terminal (failed or
// succeeded) operation is replaced.
func (s *Store) BeginOperation(id string, kind models.OpKind) (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return Token{}, ErrUnknownInstance
	}
	if r.op != nil && !r.op.Terminal() {
		return Token{}, ErrAlreadyPending
	}

	s.seq++
	r.op = &models.PendingOperation{
		Kind:        kind,
		Phase:       models.PhaseSubmitted,
		SubmittedAt: time.Now(),
	}
	r.opSeq = s.seq
	return Token{id: id, seq: s.seq}, nil
}

// MarkInFlight records that the provider call for tok has been issued.
func (s *Store) MarkInFlight(tok Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r := s.holder(tok); r != nil {
		r.op.Phase = models.PhaseInFlight
	}
}

// CompleteOperation finishes the operation tok with phase Succeeded or
// Failed. Stale tokens and already-terminal operations are ignored.
func (s *Store) CompleteOperation(tok Token, phase models.OpPhase, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.holder(tok)
	if r == nil || r.op.Terminal() {
		return
	}
	r.op.Phase = phase
	r.op.FailReason = reason
}

// holder returns the record whose current operation matches tok, or nil.
// Callers must hold the mutex.
func (s *Store) holder(tok Token) *record {
	r, ok := s.records[tok.id]
	if !ok || r.op == nil || r.opSeq != tok.seq {
		return nil
	}
	return r
}

// ClearFailed dismisses a failed operation on id. It reports whether
// anything was cleared.
func (s *Store) ClearFailed(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok || r.op == nil || r.op.Phase != models.PhaseFailed {
		return false
	}
	r.op = nil
	return true
}

// Lookup returns the instance for id, if present.
func (s *Store) Lookup(id string) (models.Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return models.Instance{}, false
	}
	return r.inst, true
}
