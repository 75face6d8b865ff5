// Package handoff opens a user-visible surface synchronously inside a
// user-gesture window and delivers its data payload separately, with
// bounded retry.
//
// The opening call must not await anything: the host platform revokes
// gesture privileges once control yields to an asynchronous continuation.
// The payload delivery that follows is inherently racy (the fresh surface
// needs time to install its listener), so it retries on a linear backoff
// up to a fixed attempt ceiling and then gives up with a warning.
package handoff

import (
	"fmt"
	"log/slog"
	"time"
)

const (
	// DefaultBaseDelay spaces delivery attempts: attempt n fires after
	// n*DefaultBaseDelay.
	DefaultBaseDelay = 200 * time.Millisecond

	// DefaultMaxAttempts bounds the delivery retries.
	DefaultMaxAttempts = 5
)

// PanelData is the payload delivered to the opened surface.
type PanelData struct {
	Type        string         `json:"type"` // always "SIDE_PANEL_DATA"
	Data        map[string]any `json:"data"`
	TargetTabID int            `json:"targetTabId"`
}

// MessageType is the type tag carried by every PanelData payload.
const MessageType = "SIDE_PANEL_DATA"

// OpenRequest asks for a surface attached to a tab, with the payload to
// hand over once the surface is listening.
type OpenRequest struct {
	TargetTabID int
	Data        map[string]any
}

// Surface is the host-side panel being opened and fed.
type Surface interface {
	// Open issues the surface-opening call. It must return promptly; the
	// surface initializes in the background.
	Open(req OpenRequest) error

	// Deliver hands the payload to the surface. It fails while the
	// surface has no listener yet.
	Deliver(payload PanelData) error
}

// Scheduler defers a function call. Injected so tests run without timers.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// TimerScheduler is the production Scheduler backed by time.AfterFunc.
type TimerScheduler struct{}

func (TimerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// Config configures a Handoff.
type Config struct {
	Surface     Surface
	Scheduler   Scheduler
	BaseDelay   time.Duration
	MaxAttempts int
	Logger      *slog.Logger
}

// Handoff coordinates the open-then-deliver sequence.
type Handoff struct {
	surface     Surface
	sched       Scheduler
	baseDelay   time.Duration
	maxAttempts int
	logger      *slog.Logger
}

// New creates a Handoff, filling unset config fields with defaults.
func New(cfg Config) (*Handoff, error) {
	if cfg.Surface == nil {
		return nil, fmt.Errorf("handoff: surface is required")
	}
	sched := cfg.Scheduler
	if sched == nil {
		sched = TimerScheduler{}
	}
	baseDelay := cfg.BaseDelay
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handoff{
		surface:     cfg.Surface,
		sched:       sched,
		baseDelay:   baseDelay,
		maxAttempts: maxAttempts,
		logger:      logger,
	}, nil
}

// Open issues the surface-opening call synchronously and schedules the
// payload delivery. The returned outcome reflects only the opening call;
// delivery degrades independently and is never reported back.
func (h *Handoff) Open(req OpenRequest) error {
	if err := h.surface.Open(req); err != nil {
		return fmt.Errorf("open surface: %w", err)
	}

	payload := PanelData{
		Type:        MessageType,
		Data:        req.Data,
		TargetTabID: req.TargetTabID,
	}
	h.scheduleDelivery(payload, 1)
	return nil
}

// scheduleDelivery arms one delivery attempt. Attempt n fires after
// n*baseDelay; a failed attempt schedules exactly one more until the
// ceiling, where the handoff is abandoned with a warning.
func (h *Handoff) scheduleDelivery(payload PanelData, attempt int) {
	h.sched.After(time.Duration(attempt)*h.baseDelay, func() {
		err := h.surface.Deliver(payload)
		if err == nil {
			h.logger.Debug("panel payload delivered",
				"tab", payload.TargetTabID, "attempt", attempt)
			return
		}

		if attempt >= h.maxAttempts {
			h.logger.Warn("panel payload abandoned after retries",
				"tab", payload.TargetTabID, "attempts", attempt, "error", err)
			return
		}

		h.logger.Debug("panel not listening yet, retrying",
			"tab", payload.TargetTabID, "attempt", attempt, "error", err)
		h.scheduleDelivery(payload, attempt+1)
	})
}
