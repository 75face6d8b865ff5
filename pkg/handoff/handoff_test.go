package handoff

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScheduler records scheduled calls and runs them on demand, so tests
// drive the retry machinery without timers.
type fakeScheduler struct {
	delays []time.Duration
	queue  []func()
}

func (s *fakeScheduler) After(d time.Duration, fn func()) {
	s.delays = append(s.delays, d)
	s.queue = append(s.queue, fn)
}

// runAll drains the queue, including calls scheduled by the drained calls.
func (s *fakeScheduler) runAll() {
	for len(s.queue) > 0 {
		fn := s.queue[0]
		s.queue = s.queue[1:]
		fn()
	}
}

type fakeSurface struct {
	openErr    error
	openCalls  int
	failBefore int // Deliver fails while deliverCalls < failBefore

	deliverCalls int
	delivered    []PanelData
}

func (s *fakeSurface) Open(req OpenRequest) error {
	s.openCalls++
	return s.openErr
}

func (s *fakeSurface) Deliver(payload PanelData) error {
	s.deliverCalls++
	if s.deliverCalls <= s.failBefore {
		return errors.New("no listener yet")
	}
	s.delivered = append(s.delivered, payload)
	return nil
}

func newTestHandoff(t *testing.T, surface *fakeSurface, sched *fakeScheduler) *Handoff {
	t.Helper()
	h, err := New(Config{Surface: surface, Scheduler: sched, BaseDelay: 200 * time.Millisecond})
	require.NoError(t, err)
	return h
}

func TestOpenReturnsBeforeDelivery(t *testing.T) {
	surface := &fakeSurface{}
	sched := &fakeScheduler{}
	h := newTestHandoff(t, surface, sched)

	err := h.Open(OpenRequest{TargetTabID: 7, Data: map[string]any{"twitter_id": "123"}})

	require.NoError(t, err)
	assert.Equal(t, 1, surface.openCalls)
	assert.Equal(t, 0, surface.deliverCalls, "delivery is deferred, not awaited")
	require.Len(t, sched.queue, 1, "first attempt scheduled")
}

func TestOpenSurfacesOpenFailure(t *testing.T) {
	surface := &fakeSurface{openErr: errors.New("window gone")}
	sched := &fakeScheduler{}
	h := newTestHandoff(t, surface, sched)

	err := h.Open(OpenRequest{TargetTabID: 7})

	require.Error(t, err)
	assert.Empty(t, sched.queue, "no delivery scheduled when opening failed")
}

func TestDeliverySucceedsOnFifthAttempt(t *testing.T) {
	// Attempts 1-4 find no listener; attempt 5 lands. The consumer gets
	// exactly one payload, after linearly growing delays.
	surface := &fakeSurface{failBefore: 4}
	sched := &fakeScheduler{}
	h := newTestHandoff(t, surface, sched)

	require.NoError(t, h.Open(OpenRequest{TargetTabID: 42, Data: map[string]any{"address": "0xabc"}}))
	sched.runAll()

	assert.Equal(t, 5, surface.deliverCalls)
	require.Len(t, surface.delivered, 1, "exactly one payload received")

	payload := surface.delivered[0]
	assert.Equal(t, MessageType, payload.Type)
	assert.Equal(t, 42, payload.TargetTabID)

	assert.Equal(t, []time.Duration{
		200 * time.Millisecond,
		400 * time.Millisecond,
		600 * time.Millisecond,
		800 * time.Millisecond,
		1000 * time.Millisecond,
	}, sched.delays)
}

func TestDeliveryAbandonedAtAttemptCeiling(t *testing.T) {
	surface := &fakeSurface{failBefore: 100}
	sched := &fakeScheduler{}
	h := newTestHandoff(t, surface, sched)

	require.NoError(t, h.Open(OpenRequest{TargetTabID: 1}), "open outcome already reported as success")
	sched.runAll()

	assert.Equal(t, 5, surface.deliverCalls, "exactly maxAttempts tries")
	assert.Empty(t, surface.delivered)
	assert.Empty(t, sched.queue, "nothing scheduled past the ceiling")
}

func TestNewRequiresSurface(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}
