package daemon

import (
	"fmt"
	"log/slog"
	"os/exec"
	"syscall"
)

// ShellSpawner runs commands through sh -c in their own session.
type ShellSpawner struct {
	Shell  string
	Logger *slog.Logger
}

func (s *ShellSpawner) Spawn(command string) (int, error) {
	shell := s.Shell
	if shell == "" {
		shell = "/bin/sh"
	}
	cmd := exec.Command(shell, "-c", command)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to spawn %q: %w", command, err)
	}
	// Do not wait; reap in the background.
	go func() {
		if err := cmd.Wait(); err != nil && s.Logger != nil {
			s.Logger.Debug("spawned command exited", "cmd", command, "error", err)
		}
	}()
	return cmd.Process.Pid, nil
}
