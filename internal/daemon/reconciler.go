package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/tagtile/internal/models"
	"github.com/1broseidon/tagtile/internal/wm"
)

// PointerLocator returns the window currently under the pointer.
type PointerLocator func() (models.WindowHandle, error)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// FocusReconciler periodically reports the window under the pointer so sloppy
// focus converges after missed enter events.
type FocusReconciler struct {
	interval time.Duration
	locate   PointerLocator
	logger   *slog.Logger
}

// NewFocusReconciler creates a reconciler polling locate every interval.
func NewFocusReconciler(cfg ReconcilerConfig, locate PointerLocator) *FocusReconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &FocusReconciler{
		interval: interval,
		locate:   locate,
		logger:   logger,
	}
}

// Run emits VerifyFocusedAt events on out. Blocks until ctx is cancelled.
// A tick is skipped while the previous event is still unread.
func (r *FocusReconciler) Run(ctx context.Context, out chan<- wm.Event) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("focus reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("focus reconciler stopped")
			return
		case <-ticker.C:
			ev, ok := r.check()
			if !ok {
				continue
			}
			select {
			case out <- ev:
			default:
			}
		}
	}
}

func (r *FocusReconciler) check() (ev wm.Event, ok bool) {
	// Recover from panics to prevent crashing the window manager
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("focus reconciler panic recovered", "error", err)
			ev, ok = nil, false
		}
	}()

	handle, err := r.locate()
	if err != nil {
		r.logger.Debug("focus reconciler: pointer query failed", "error", err)
		return nil, false
	}
	return wm.VerifyFocusedAt{Handle: handle}, true
}

// CheckNow performs a single pointer query.
func (r *FocusReconciler) CheckNow() (wm.Event, bool) {
	return r.check()
}
