// Package runtimepath locates the per-user directory holding the command
// pipe socket and the reload snapshot.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	socketName = "tagtile.sock"
	stateName  = "tagtile-state.json"
)

// Dir picks $XDG_RUNTIME_DIR, then an existing /run/user/<uid>. Without
// either it creates /tmp/tagtile-runtime-<uid> with mode 0700.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}

	uid := os.Getuid()
	if dir := fmt.Sprintf("/run/user/%d", uid); isDir(dir) {
		return dir, nil
	}

	fallback := fmt.Sprintf("/tmp/tagtile-runtime-%d", uid)
	if err := os.MkdirAll(fallback, 0700); err != nil {
		return "", fmt.Errorf("create runtime dir %s: %w", fallback, err)
	}
	return fallback, nil
}

// SocketPath is where the daemon listens for commands.
func SocketPath() (string, error) { return join(socketName) }

// StatePath is where a soft reload leaves the manager snapshot.
func StatePath() (string, error) { return join(stateName) }

func join(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
