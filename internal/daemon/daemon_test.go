package daemon

import (
	"context"
	"testing"

	"clipplex/internal/catalog"
	"clipplex/internal/clips"
	"clipplex/internal/config"
	"clipplex/internal/logging"
)

func newTestDaemon(t *testing.T, cfg *config.Config) *Daemon {
	t.Helper()
	engine := &stubEngine{}
	creator := clips.NewCreator(clips.Options{
		VideosDir: cfg.VideosDir(),
		ImagesDir: cfg.ImagesDir(),
	}, engine, logging.NewNop())
	cat := catalog.New(cfg.Paths.MediaDir, engine, logging.NewNop())

	d, err := New(cfg, &fakeDirectory{}, creator, cat, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestDaemonStartStop(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.MediaDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Paths.APIBind = "127.0.0.1:0"

	d := newTestDaemon(t, &cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !d.Status().Running {
		t.Fatal("daemon should report running")
	}
	if err := d.Start(ctx); err == nil {
		t.Fatal("second Start on a running daemon must fail")
	}

	d.Stop()
	if d.Status().Running {
		t.Fatal("daemon should report stopped")
	}
}

func TestDaemonSingleInstance(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.MediaDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Paths.APIBind = "127.0.0.1:0"

	first := newTestDaemon(t, &cfg)
	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer first.Stop()

	second := newTestDaemon(t, &cfg)
	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("second instance sharing the lock file must be refused")
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	cfg := config.Default()
	if _, err := New(&cfg, nil, nil, nil, logging.NewNop()); err == nil {
		t.Fatal("expected constructor error for missing dependencies")
	}
}
