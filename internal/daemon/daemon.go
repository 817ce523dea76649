package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"clipplex/internal/catalog"
	"clipplex/internal/clips"
	"clipplex/internal/config"
	"clipplex/internal/deps"
	"clipplex/internal/logging"
	"clipplex/internal/plex"
)

// Directory resolves playback state from the Plex server.
type Directory interface {
	ActiveSessions(ctx context.Context) ([]plex.Session, error)
	SessionForViewer(ctx context.Context, viewer string) (plex.Session, error)
	MediaDetails(ctx context.Context, mediaKey string) (plex.MediaItem, error)
}

// Daemon owns the HTTP API and enforces single-instance execution through a
// lock file.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	directory Directory
	creator   *clips.Creator
	catalog   *catalog.Catalog

	lockPath string
	lock     *flock.Flock
	api      *apiServer

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running        bool
	PID            int
	LockFilePath   string
	MediaDir       string
	MediaFreeBytes uint64
	Dependencies   []deps.Status
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, directory Directory, creator *clips.Creator, cat *catalog.Catalog, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || directory == nil || creator == nil || cat == nil {
		return nil, errors.New("daemon requires config, directory, creator, and catalog")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "clipplexd.lock")
	d := &Daemon{
		cfg:       cfg,
		logger:    logger,
		directory: directory,
		creator:   creator,
		catalog:   cat,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}
	d.api = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock and brings up the API server. The server
// shuts down when ctx is cancelled or Stop is called.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another clipplex daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	if err := d.api.start(runCtx); err != nil {
		_ = d.lock.Unlock()
		cancel()
		d.cancel = nil
		return err
	}

	d.running.Store(true)
	d.logger.Info("clipplex daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops the API server and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("clipplex daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Status returns the current daemon status, including external tool
// availability and remaining space on the media volume.
func (d *Daemon) Status() Status {
	requirements := deps.Requirements(d.cfg.FFmpeg.FFmpegBinary, d.cfg.FFmpeg.FFprobeBinary)
	return Status{
		Running:        d.running.Load(),
		PID:            os.Getpid(),
		LockFilePath:   d.lockPath,
		MediaDir:       d.cfg.Paths.MediaDir,
		MediaFreeBytes: freeBytes(d.cfg.Paths.MediaDir),
		Dependencies:   deps.CheckBinaries(requirements),
	}
}

// freeBytes reports available space on the volume holding dir; zero when the
// probe fails.
func freeBytes(dir string) uint64 {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return 0
	}
	return stat.Bavail * uint64(stat.Bsize)
}
