package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherDeliversChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "termpane.toml")
	if err := os.WriteFile(path, []byte("[demo]\npanes = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := Watch(path, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close() //nolint:errcheck

	if err := os.WriteFile(path, []byte("[demo]\npanes = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev, ok := <-w.Events():
		if !ok {
			t.Fatal("events channel closed unexpectedly")
		}
		if filepath.Clean(ev.Path) != path {
			t.Errorf("expected event for %s, got %s", path, ev.Path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "termpane.toml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := Watch(path, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close() //nolint:errcheck

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-w.Events():
		t.Errorf("unexpected event for sibling write: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherCloseIsFinal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "termpane.toml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != ErrWatcherClosed {
		t.Errorf("expected ErrWatcherClosed on double close, got %v", err)
	}
}
