package config

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestWatch_InitialConfig(t *testing.T) {
	path := writeFile(t, "inferkit.json", `{"baseURL": "http://localhost:11434"}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := Watch(ctx, path)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	select {
	case cfg := <-ch:
		if cfg.BaseURL != "http://localhost:11434" {
			t.Errorf("BaseURL = %q", cfg.BaseURL)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no initial config delivered")
	}
}

func TestWatch_Reload(t *testing.T) {
	path := writeFile(t, "inferkit.json", `{"baseURL": "http://localhost:11434"}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := Watch(ctx, path, WithHeader("X-Test", "1"))
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	<-ch // initial

	// Give the watcher a moment to establish before the write.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte(`{"baseURL": "http://other:8080"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg, ok := <-ch:
			if !ok {
				t.Fatal("channel closed before reload was observed")
			}
			if cfg.BaseURL == "http://other:8080" {
				// Overrides are re-applied on reload.
				if cfg.DefaultHeaders["X-Test"] != "1" {
					t.Errorf("override lost on reload: %v", cfg.DefaultHeaders)
				}
				return
			}
		case <-deadline:
			t.Fatal("reload not observed")
		}
	}
}

func TestWatch_MissingFile(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := Watch(ctx, "/does/not/exist.json"); err == nil {
		t.Fatal("Watch() should fail when the initial load fails")
	}
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	path := writeFile(t, "inferkit.json", `{"baseURL": "http://localhost:11434"}`)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := Watch(ctx, path)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	<-ch // initial
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			// A reload may have raced the cancel; the close must follow.
			if _, ok := <-ch; ok {
				t.Fatal("channel should close after cancellation")
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close after cancellation")
	}
}
