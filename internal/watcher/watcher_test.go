package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func waitForCount(t *testing.T, counter *atomic.Int32, want int32, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if counter.Load() >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("onChange count: got %d, want at least %d", counter.Load(), want)
}

func TestWatcherFiresOnCatalogueWrite(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w := NewWatcher(dir, func() { calls.Add(1) }, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "hotel_catalogue.json")
	if err := os.WriteFile(path, []byte(`{"hotels": []}`), 0644); err != nil {
		t.Fatal(err)
	}
	waitForCount(t, &calls, 1, 3*time.Second)
}

func TestWatcherCoalescesBurst(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w := NewWatcher(dir, func() { calls.Add(1) }, WithDebounce(150*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for i := 0; i < 5; i++ {
		path := filepath.Join(dir, "flight_catalogue.json")
		if err := os.WriteFile(path, []byte(`{"flights": []}`), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	waitForCount(t, &calls, 1, 3*time.Second)

	// The burst settled well inside one debounce window, so it must not
	// have produced one callback per write.
	time.Sleep(300 * time.Millisecond)
	if got := calls.Load(); got > 2 {
		t.Errorf("onChange fired %d times for one burst", got)
	}
}

func TestWatcherIgnoresNonCatalogueFiles(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w := NewWatcher(dir, func() { calls.Add(1) }, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for _, name := range []string{"notes.txt", ".hidden.json", "dump.csv"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	time.Sleep(300 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("onChange fired %d times for non-catalogue files", got)
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "absent"), func() {})
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Fatal("expected error for missing directory")
	}
}

func TestIsCatalogueFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"seed/hotel_catalogue.json", true},
		{"seed/FLIGHT_CATALOGUE.JSON", true},
		{"seed/.swap.json", false},
		{"seed/readme.md", false},
		{"seed/data.json.bak", false},
	}
	for _, tt := range tests {
		if got := isCatalogueFile(tt.path); got != tt.want {
			t.Errorf("isCatalogueFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher(dir, func() {})
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}
