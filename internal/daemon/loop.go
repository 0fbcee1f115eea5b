// Package daemon runs the window manager's serial event loop.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/tagtile/internal/action"
	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/wm"
)

var (
	// ErrSoftReload asks the caller to restart, keeping the saved state.
	ErrSoftReload = errors.New("soft reload requested")
	// ErrHardReload asks the caller to restart from scratch.
	ErrHardReload = errors.New("hard reload requested")
	// ErrEventsClosed means the display adapter stopped producing events.
	ErrEventsClosed = errors.New("display event stream closed")
)

// LoopConfig wires the collaborators of a Loop.
type LoopConfig struct {
	Config  wm.Config
	Display wm.DisplayServer
	Layout  wm.LayoutEngine
	Spawner wm.Spawner
	// Events is the display adapter's event stream.
	Events <-chan wm.Event
	// Calls may be nil when no command pipe is running.
	Calls      <-chan *ipc.Call
	Reconciler *FocusReconciler
	Logger     *slog.Logger
}

// Loop owns the Manager. Every event runs to completion and is followed by a
// flush of the action queue.
type Loop struct {
	manager    *wm.Manager
	display    *reloadWatcher
	events     <-chan wm.Event
	calls      <-chan *ipc.Call
	reconciler *FocusReconciler
	logger     *slog.Logger
	started    time.Time
}

// NewLoop builds the manager and restores any state saved by a soft reload.
func NewLoop(cfg LoopConfig) *Loop {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	display := &reloadWatcher{next: cfg.Display}
	m := wm.New(cfg.Config, display, wm.Options{Layout: cfg.Layout, Spawner: cfg.Spawner, Logger: logger})
	m.LoadState()

	return &Loop{
		manager:    m,
		display:    display,
		events:     cfg.Events,
		calls:      cfg.Calls,
		reconciler: cfg.Reconciler,
		logger:     logger,
		started:    time.Now(),
	}
}

// Manager returns the manager the loop drives. Only use it from the loop's
// goroutine or before Run.
func (l *Loop) Manager() *wm.Manager { return l.manager }

// Run processes events until ctx is cancelled, the event stream closes or a
// reload is requested. A cancelled ctx returns nil.
func (l *Loop) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var verify chan wm.Event
	if l.reconciler != nil {
		verify = make(chan wm.Event, 1)
		go l.reconciler.Run(ctx, verify)
	}

	// Key grabs start from the configured bindings.
	l.Handle(wm.KeyGrabReload{})

	for {
		if err := l.display.reload; err != nil {
			l.logger.Info("leaving event loop", "reason", err)
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-l.events:
			if !ok {
				return ErrEventsClosed
			}
			l.Handle(ev)
		case ev := <-verify:
			l.Handle(ev)
		case call := <-l.calls:
			l.answer(call)
		}
	}
}

// Handle runs one event and flushes the resulting actions.
func (l *Loop) Handle(ev wm.Event) wm.Outcome {
	out := l.manager.Handle(ev)
	l.logger.Debug("event handled", "event", fmt.Sprintf("%T", ev), "outcome", out)
	if err := l.manager.Flush(); err != nil {
		l.logger.Warn("display actions failed", "error", err)
	}
	return out
}

func (l *Loop) answer(call *ipc.Call) {
	switch call.Request.Command {
	case ipc.CommandSendCommand:
		out := l.Handle(wm.SendCommand{Command: call.Command})
		resp, err := ipc.NewOKResponse(ipc.SendCommandData{Outcome: out.String()})
		if err != nil {
			resp = ipc.NewErrorResponse(err.Error())
		}
		call.Reply(resp)
	case ipc.CommandGetState:
		resp, err := ipc.NewOKResponse(ipc.NewStateData(l.manager.State(), l.started))
		if err != nil {
			resp = ipc.NewErrorResponse(err.Error())
		}
		call.Reply(resp)
	default:
		call.Reply(ipc.NewErrorResponse(fmt.Sprintf("Unknown command: %s", call.Request.Command)))
	}
}

// reloadWatcher notes reload actions on their way to the display server.
type reloadWatcher struct {
	next   wm.DisplayServer
	reload error
}

func (w *reloadWatcher) Execute(a action.Action) error {
	switch a.(type) {
	case action.SoftReload:
		w.reload = ErrSoftReload
	case action.HardReload:
		w.reload = ErrHardReload
	}
	if w.next == nil {
		return nil
	}
	return w.next.Execute(a)
}

func (w *reloadWatcher) Flush() error {
	if w.next == nil {
		return nil
	}
	return w.next.Flush()
}
