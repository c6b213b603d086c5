package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ha1tch/sqlview/pkg/log"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "settings.yaml")
	if err := os.WriteFile(path, []byte("results:\n  prettyPrintJSON: false\n"), 0644); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}

	logger := log.New(log.Config{DefaultLevel: log.LevelError})

	var mu sync.Mutex
	var reloaded []*ViperProvider

	watcher, err := NewWatcher(path, logger, func(p *ViperProvider) {
		mu.Lock()
		reloaded = append(reloaded, p)
		mu.Unlock()
	}, WithDebounceDelay(50*time.Millisecond))
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	if err := watcher.Start(); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer watcher.Stop()

	// Give watcher time to set up
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("results:\n  prettyPrintJSON: true\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite settings file: %v", err)
	}

	// Wait for debounce + processing
	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(reloaded)
		mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(reloaded) == 0 {
		t.Fatal("expected at least one reload callback")
	}
	if !reloaded[len(reloaded)-1].GetBool(KeyPrettyPrintJSON) {
		t.Error("reloaded provider did not pick up the new option value")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "settings.yaml")
	if err := os.WriteFile(path, []byte("results:\n  prettyPrintJSON: false\n"), 0644); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}

	logger := log.New(log.Config{DefaultLevel: log.LevelError})

	var mu sync.Mutex
	var reloads int

	watcher, err := NewWatcher(path, logger, func(p *ViperProvider) {
		mu.Lock()
		reloads++
		mu.Unlock()
	}, WithDebounceDelay(50*time.Millisecond))
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	if err := watcher.Start(); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer watcher.Stop()

	time.Sleep(100 * time.Millisecond)

	// A sibling file changing must not trigger a reload.
	other := filepath.Join(tmpDir, "notes.txt")
	if err := os.WriteFile(other, []byte("unrelated"), 0644); err != nil {
		t.Fatalf("failed to write sibling file: %v", err)
	}

	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if reloads != 0 {
		t.Errorf("expected no reloads for unrelated file, got %d", reloads)
	}
}

func TestWatcher_StartStopIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "settings.yaml")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}

	logger := log.New(log.Config{DefaultLevel: log.LevelError})

	watcher, err := NewWatcher(path, logger, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	if err := watcher.Start(); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	if err := watcher.Start(); err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	if err := watcher.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := watcher.Stop(); err != nil {
		t.Fatalf("second Stop failed: %v", err)
	}
}
