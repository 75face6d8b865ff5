package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
)

// Service coordinates mutations against the remote collections and keeps
// the local mirror in agreement with the server.
//
// A mutation is acknowledged to its caller as soon as the single remote
// call resolves; bringing the mirror back in sync happens afterwards, in
// the background, and its failures are logged rather than surfaced. The
// mirror is therefore "possibly stale" after a failed resync, never torn.
type Service struct {
	store   Store
	fetcher Fetcher
	mutator Mutator
	creds   CredentialProvider
	bcast   Broadcaster
	logger  *slog.Logger

	guard *resyncGuard
}

// NewService wires a Service from its collaborators. A nil broadcaster
// disables fan-out; a nil logger falls back to slog.Default().
func NewService(store Store, fetcher Fetcher, mutator Mutator, creds CredentialProvider, bcast Broadcaster, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		fetcher: fetcher,
		mutator: mutator,
		creds:   creds,
		bcast:   bcast,
		logger:  logger,
		guard:   newResyncGuard(),
	}
}

// Mutate executes one create/update/delete against the remote service and
// returns the outcome before the mirror is resynchronized.
//
// Validation and credential failures short-circuit without a network call.
// Exactly one remote request is issued per invocation. On success a
// background resync is scheduled for the affected kind; at most one resync
// per kind is in flight at a time, and a mutation arriving while one runs
// schedules the next rather than starting a parallel fetch.
func (s *Service) Mutate(ctx context.Context, kind Kind, op Op, note Note) error {
	if !kind.Valid() {
		return &ParameterError{Field: "kind"}
	}
	if !op.Valid() {
		return &ParameterError{Field: "operation"}
	}
	if note == nil || note.Key() == "" {
		return &ParameterError{Field: "key"}
	}
	if note.NoteKind() != kind {
		return &ParameterError{Field: "kind"}
	}

	token, err := s.creds.Token(ctx)
	if err != nil {
		return fmt.Errorf("resolve credential: %w", err)
	}
	if token == "" {
		return ErrUnauthenticated
	}

	if err := s.mutator.Mutate(ctx, kind, op, note, token); err != nil {
		return err
	}

	s.scheduleResync(kind, token)
	return nil
}

// Refresh pulls the complete remote collection for kind and commits it to
// the mirror, broadcasting the fresh snapshot. It is the explicit
// self-heal path for consumers that missed a broadcast.
//
// If a resync for kind is already in flight, Refresh queues a follow-up
// run instead of fetching in parallel and returns nil.
func (s *Service) Refresh(ctx context.Context, kind Kind) error {
	if !kind.Valid() {
		return &ParameterError{Field: "kind"}
	}

	token, err := s.creds.Token(ctx)
	if err != nil {
		return fmt.Errorf("resolve credential: %w", err)
	}
	if token == "" {
		return ErrUnauthenticated
	}

	if !s.guard.acquire(kind, token) {
		s.logger.Debug("refresh collapsed into in-flight resync", "kind", kind)
		return nil
	}

	err = s.resyncOnce(ctx, kind, token)
	s.releaseAndDrain(kind)
	return err
}

// Notes returns the last committed snapshot for kind. The result is nil
// until the first successful fetch.
func (s *Service) Notes(kind Kind) []Note {
	return s.store.Get(kind)
}

// UpsertLocal applies an advisory edit to the caller's own mirror for UI
// responsiveness. The next resync overwrites it if the server disagrees.
func (s *Service) UpsertLocal(kind Kind, note Note) {
	s.store.UpsertOne(kind, note)
}

// RemoveLocal applies an advisory removal to the caller's own mirror.
func (s *Service) RemoveLocal(kind Kind, key string) {
	s.store.RemoveOne(kind, key)
}

// ClearCache drops the mirrored collection for kind.
func (s *Service) ClearCache(kind Kind) {
	s.store.Clear(kind)
}

// ClearAllCache drops every mirrored collection.
func (s *Service) ClearAllCache() {
	s.store.ClearAll()
}

// scheduleResync starts a background resync for kind, or queues a
// follow-up if one is already running.
func (s *Service) scheduleResync(kind Kind, token string) {
	if !s.guard.acquire(kind, token) {
		s.logger.Debug("resync already in flight, queued follow-up", "kind", kind)
		return
	}

	// Detached context: the mutation caller's ctx may be cancelled the
	// moment its outcome is returned.
	lifecycle.Go(context.Background(), func(ctx context.Context) error {
		if err := s.resyncOnce(ctx, kind, token); err != nil {
			s.logger.Error("resync failed, mirror left as-is", "kind", kind, "error", err)
		}
		s.releaseAndDrain(kind)
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		s.guard.release(kind)
		s.logger.Error("resync panic", "kind", kind, "error", err)
	}))
}

// resyncOnce fetches the whole collection and, only if the fetch
// succeeded, replaces the mirror and broadcasts the snapshot.
func (s *Service) resyncOnce(ctx context.Context, kind Kind, token string) error {
	notes, err := s.fetcher.FetchAll(ctx, kind, token)
	if err != nil {
		return &ResyncError{Kind: kind, Err: err}
	}

	s.store.Replace(kind, notes)
	s.logger.Debug("mirror replaced", "kind", kind, "count", len(notes))

	if s.bcast != nil {
		s.bcast.Broadcast(kind, notes)
	}
	return nil
}

// releaseAndDrain releases the in-flight slot for kind and, if a follow-up
// was queued while the fetch ran, starts it.
func (s *Service) releaseAndDrain(kind Kind) {
	if token, again := s.guard.releasePending(kind); again {
		lifecycle.Go(context.Background(), func(ctx context.Context) error {
			if err := s.resyncOnce(ctx, kind, token); err != nil {
				s.logger.Error("queued resync failed", "kind", kind, "error", err)
			}
			s.releaseAndDrain(kind)
			return nil
		}, lifecycle.WithErrorHandler(func(err error) {
			s.guard.release(kind)
			s.logger.Error("queued resync panic", "kind", kind, "error", err)
		}))
	}
}

// resyncGuard enforces the single-flight discipline: at most one fetch per
// kind in flight, with concurrent requests collapsing into one queued
// follow-up (the freshest token wins).
type resyncGuard struct {
	mu    sync.Mutex
	state map[Kind]*flightState
}

type flightState struct {
	inFlight     bool
	pending      bool
	pendingToken string
}

func newResyncGuard() *resyncGuard {
	return &resyncGuard{state: make(map[Kind]*flightState)}
}

func (g *resyncGuard) get(kind Kind) *flightState {
	st, ok := g.state[kind]
	if !ok {
		st = &flightState{}
		g.state[kind] = st
	}
	return st
}

// acquire claims the in-flight slot for kind. When the slot is taken it
// records a pending follow-up instead and reports false.
func (g *resyncGuard) acquire(kind Kind, token string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	st := g.get(kind)
	if st.inFlight {
		st.pending = true
		st.pendingToken = token
		return false
	}
	st.inFlight = true
	return true
}

// releasePending frees the slot. If a follow-up was queued it re-claims
// the slot immediately and returns its token.
func (g *resyncGuard) releasePending(kind Kind) (token string, again bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	st := g.get(kind)
	if st.pending {
		st.pending = false
		token = st.pendingToken
		st.pendingToken = ""
		return token, true // slot stays claimed for the follow-up
	}
	st.inFlight = false
	return "", false
}

func (g *resyncGuard) release(kind Kind) {
	g.mu.Lock()
	defer g.mu.Unlock()
	st := g.get(kind)
	st.inFlight = false
	st.pending = false
	st.pendingToken = ""
}

// inFlightCount reports how many kinds currently have a fetch in flight.
func (g *resyncGuard) inFlightCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, st := range g.state {
		if st.inFlight {
			n++
		}
	}
	return n
}

// WaitIdle blocks until no resync is in flight or the timeout elapses.
// Intended for tests and orderly shutdown.
func (s *Service) WaitIdle(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.guard.inFlightCount() == 0 {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return s.guard.inFlightCount() == 0
}
