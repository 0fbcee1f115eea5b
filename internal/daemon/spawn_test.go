package daemon

import "testing"

func TestShellSpawner(t *testing.T) {
	s := &ShellSpawner{}
	pid, err := s.Spawn("exit 0")
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if pid <= 0 {
		t.Fatalf("expected a pid, got %d", pid)
	}

	bad := &ShellSpawner{Shell: "/nonexistent/shell"}
	if _, err := bad.Spawn("true"); err == nil {
		t.Fatalf("expected error for missing shell")
	}
}
