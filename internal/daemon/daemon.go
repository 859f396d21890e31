package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"roughcut/internal/config"
	"roughcut/internal/logging"
	"roughcut/internal/queue"
	"roughcut/internal/services/whisper"
)

// Daemon coordinates the background services and enforces single-instance
// execution per projects root.
type Daemon struct {
	cfg         *config.Config
	logger      *slog.Logger
	store       *queue.Store
	transcriber whisper.Service

	lockPath string
	lock     *flock.Flock

	mu      sync.Mutex
	running bool

	// quit stops workers from claiming new jobs; hardCancel kills jobs
	// still running when the drain deadline passes.
	quit       chan struct{}
	hardCancel context.CancelFunc
	group      *errgroup.Group
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *queue.Store, transcriber whisper.Service, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || transcriber == nil {
		return nil, errors.New("daemon requires config, store, and transcriber")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "roughcutd.lock")
	return &Daemon{
		cfg:         cfg,
		logger:      logger,
		store:       store,
		transcriber: transcriber,
		lockPath:    lockPath,
		lock:        flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock, requeues jobs stranded by a previous
// process, and launches the watcher and worker pool.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another daemon instance is already running")
	}

	reset, err := d.store.ResetStale(ctx)
	if err != nil {
		_ = d.lock.Unlock()
		return err
	}
	if reset > 0 {
		d.logger.Info("requeued stale jobs", logging.Int("count", reset))
	}

	jobCtx, hardCancel := context.WithCancel(context.WithoutCancel(ctx))
	d.quit = make(chan struct{})
	d.hardCancel = hardCancel

	group, groupCtx := errgroup.WithContext(jobCtx)
	d.group = group

	quit := d.quit
	watch := newWatcher(d.cfg, d.store, d.logger)
	group.Go(func() error { return watch.run(groupCtx, quit) })

	workers := d.cfg.Transcription.Workers
	if workers <= 0 {
		workers = 4
	}
	for i := 0; i < workers; i++ {
		group.Go(func() error { return d.transcriptionWorker(groupCtx, quit) })
	}
	group.Go(func() error { return d.roughCutWorker(groupCtx, quit) })

	d.running = true
	d.logger.Info("daemon started",
		logging.String("lock", d.lockPath),
		logging.Int("transcription_workers", workers),
	)
	return nil
}

// Stop lets workers finish their current job, drains for up to the
// shutdown timeout, then cancels whatever is still running.
func (d *Daemon) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	quit := d.quit
	group := d.group
	hardCancel := d.hardCancel
	d.quit = nil
	d.group = nil
	d.hardCancel = nil
	d.mu.Unlock()

	close(quit)

	done := make(chan struct{})
	go func() {
		_ = group.Wait()
		close(done)
	}()

	timeout := time.Duration(d.cfg.Workflow.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	select {
	case <-done:
	case <-time.After(timeout):
		d.logger.Warn("drain deadline passed, cancelling running jobs")
		hardCancel()
		<-done
	}
	hardCancel()

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.logger.Info("daemon stopped")
}

// Close stops the daemon and releases the job store.
func (d *Daemon) Close() error {
	d.Stop()
	return d.store.Close()
}

// Running reports whether background processing is active.
func (d *Daemon) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

func (d *Daemon) pollInterval() time.Duration {
	interval := time.Duration(d.cfg.Workflow.QueuePollInterval) * time.Second
	if interval <= 0 {
		interval = time.Second
	}
	return interval
}
