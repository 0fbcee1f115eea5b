package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/daemon"
	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/statefile"
	"github.com/1broseidon/tagtile/internal/x11"
)

func runWM(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/tagtile/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tagtile run [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the window manager on $DISPLAY (or the configured display).")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	err = serve(cfg, logger)
	switch {
	case errors.Is(err, daemon.ErrSoftReload), errors.Is(err, daemon.ErrHardReload):
		logger.Info("restarting", "reason", err)
		if err := restart(); err != nil {
			logger.Error("restart failed", "error", err)
			return 1
		}
		return 0
	case err != nil:
		logger.Error("window manager stopped", "error", err)
		return 1
	}
	logger.Info("window manager stopped")
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// serve runs until a signal or reload. The X event loop owns the main
// goroutine; the daemon loop runs beside it.
func serve(cfg *config.Config, logger *slog.Logger) error {
	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}
	conn, err := x11.NewConnection(cfg.Display)
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	defer conn.Close()
	if err := conn.BecomeWM(); err != nil {
		return err
	}

	border, _ := config.ParseColor(cfg.BorderColor)
	focused, _ := config.ParseColor(cfg.FocusedBorderColor)
	adapter := x11.NewAdapter(conn, x11.AdapterConfig{
		TagLabels:          cfg.Tags,
		MouseKey:           cfg.MouseKey,
		ClickToFocus:       cfg.FocusBehaviour.IsClickTo(),
		BorderColor:        border,
		FocusedBorderColor: focused,
		Logger:             logger,
	})

	store, err := statefile.DefaultStore()
	if err != nil {
		return err
	}
	provider, err := config.NewProvider(cfg, store, logger)
	if err != nil {
		return err
	}

	server, err := ipc.NewServer()
	if err != nil {
		return err
	}
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start command pipe: %w", err)
	}
	defer server.Stop()

	var reconciler *daemon.FocusReconciler
	if cfg.FocusBehaviour.IsSloppy() && cfg.FocusCheckIntervalMS > 0 {
		reconciler = daemon.NewFocusReconciler(daemon.ReconcilerConfig{
			Interval: time.Duration(cfg.FocusCheckIntervalMS) * time.Millisecond,
			Logger:   logger,
		}, adapter.Locate)
	}

	loop := daemon.NewLoop(daemon.LoopConfig{
		Config:     provider,
		Display:    adapter,
		Layout:     cfg.LayoutEngine(logger),
		Spawner:    &daemon.ShellSpawner{Logger: logger},
		Events:     adapter.Events(),
		Calls:      server.Calls(),
		Reconciler: reconciler,
		Logger:     logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go reloadOnHangup(ctx, logger)

	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx)
		adapter.Stop()
		conn.Quit()
	}()

	if err := adapter.Start(); err != nil {
		stop()
		<-done
		return err
	}
	logger.Info("tagtile started", "tags", len(cfg.Tags), "layouts", cfg.Layouts)
	conn.EventLoop()
	stop()
	return <-done
}

// reloadOnHangup turns SIGHUP into a SoftReload through the command pipe.
func reloadOnHangup(ctx context.Context, logger *slog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			logger.Info("received SIGHUP, reloading")
			if _, err := ipc.NewClient().SendCommand("SoftReload"); err != nil {
				logger.Warn("reload request failed", "error", err)
			}
		}
	}
}

func restart() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to find executable: %w", err)
	}
	return syscall.Exec(exe, os.Args, os.Environ())
}
