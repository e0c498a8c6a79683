package strata

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIsProjectFile(t *testing.T) {
	tests := map[string]bool{
		"project.yaml":  true,
		"a/b.YML":       true,
		"scene.json":    true,
		"notes.txt":     false,
		"project.yaml~": false,
		"Makefile":      false,
	}
	for path, want := range tests {
		if got := isProjectFile(path); got != want {
			t.Errorf("isProjectFile(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestWatcherReportsProjectWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "project.yaml")
	if err := os.WriteFile(path, []byte("scenes: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Events:
		if got != path {
			t.Errorf("event path = %q, want %q", got, path)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a watcher event")
	}
}

func TestWatcherCloseIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Error("Events should be closed")
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestScenePollReloads(t *testing.T) {
	s, rec := newTestScene(t)
	rec["background"].reset()

	path := writeFile(t, t.TempDir(), "project.yaml", `
scenes:
  - name: level1
    layers:
      - name: background
        effects:
          - name: blur
            parameters:
              radius: 3
`)
	w := &Watcher{Events: make(chan string, 2), Errors: make(chan error, 1)}
	w.Events <- path
	w.Events <- filepath.Join(filepath.Dir(path), "missing.yaml")
	s.Poll(w)

	calls := rec["background"].calls
	if len(calls) != 1 || calls[0].value != NumberParam(3) {
		t.Errorf("calls = %+v, want one radius 3 push", calls)
	}
	if len(w.Events) != 0 {
		t.Error("Poll should drain pending events")
	}
}
