package daemon

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"roughcut/internal/config"
	"roughcut/internal/logging"
	"roughcut/internal/markers"
	"roughcut/internal/queue"
	"roughcut/internal/transcript"
)

const footageDirName = "01_footage"

// watcher polls the projects root, enqueues transcription jobs for media
// without transcripts, and triggers a rough cut once a footage directory
// is fully transcribed.
type watcher struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger

	// triggered remembers the media set a rough cut was last enqueued
	// for, so an unchanged directory does not retrigger every tick.
	triggered map[string]string
}

func newWatcher(cfg *config.Config, store *queue.Store, logger *slog.Logger) *watcher {
	return &watcher{
		cfg:       cfg,
		store:     store,
		logger:    logging.WithComponent(logger, "watcher"),
		triggered: make(map[string]string),
	}
}

func (w *watcher) run(ctx context.Context, quit <-chan struct{}) error {
	interval := time.Duration(w.cfg.Workflow.WatchInterval) * time.Second
	if interval <= 0 {
		interval = 10 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.scan(ctx)
	for {
		select {
		case <-quit:
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

func (w *watcher) scan(ctx context.Context) {
	for _, project := range w.projects() {
		footageDir := filepath.Join(project, footageDirName)
		media, err := CollectMedia(footageDir)
		if err != nil {
			w.logger.Warn("footage scan failed",
				logging.String(logging.FieldProject, project),
				logging.Error(err),
			)
			continue
		}
		if len(media) == 0 {
			continue
		}

		complete := true
		for _, path := range media {
			if hasTranscripts(path) {
				continue
			}
			complete = false
			if _, coalesced, err := w.store.Enqueue(ctx, queue.Job{
				Kind:       queue.KindTranscription,
				InputPath:  path,
				ProjectDir: project,
			}); err != nil {
				w.logger.Error("enqueue transcription failed",
					logging.String(logging.FieldSource, path),
					logging.Error(err),
				)
			} else if !coalesced {
				w.logger.Info("transcription queued", logging.String(logging.FieldSource, path))
			}
		}
		if complete {
			w.maybeTrigger(ctx, project, footageDir, media)
		}
	}
}

// projects lists the watched project roots: every direct child of the
// projects dir containing 01_footage, or the projects dir itself.
func (w *watcher) projects() []string {
	root := w.cfg.Paths.ProjectsDir
	if root == "" {
		return nil
	}
	if info, err := os.Stat(filepath.Join(root, footageDirName)); err == nil && info.IsDir() {
		return []string{root}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var projects []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		candidate := filepath.Join(root, entry.Name())
		if info, err := os.Stat(filepath.Join(candidate, footageDirName)); err == nil && info.IsDir() {
			projects = append(projects, candidate)
		}
	}
	sort.Strings(projects)
	return projects
}

// maybeTrigger enqueues one rough-cut job per distinct media set.
func (w *watcher) maybeTrigger(ctx context.Context, project, footageDir string, media []string) {
	signature := strings.Join(media, "\n")
	if w.triggered[footageDir] == signature {
		return
	}

	_, coalesced, err := w.store.Enqueue(ctx, queue.Job{
		Kind:            queue.KindRoughCut,
		InputPath:       footageDir,
		ProjectDir:      project,
		Style:           w.cfg.RoughCut.DefaultStyle,
		UseAudioMarkers: anyMarkers(media),
	})
	if err != nil {
		w.logger.Error("enqueue rough cut failed",
			logging.String(logging.FieldProject, project),
			logging.Error(err),
		)
		return
	}
	w.triggered[footageDir] = signature
	if !coalesced {
		w.logger.Info("rough cut queued",
			logging.String(logging.FieldProject, project),
			logging.Int("clips", len(media)),
		)
	}
}

// CollectMedia walks a footage tree and returns original media files in
// lexicographic order. Normalized siblings are analysis inputs, not
// footage, and are skipped.
func CollectMedia(dir string) ([]string, error) {
	var media []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !transcript.IsMediaFile(path) {
			return nil
		}
		if isNormalizedName(path) {
			return nil
		}
		media = append(media, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(media)
	return media, nil
}

func isNormalizedName(path string) bool {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.HasSuffix(stem, "_normalized")
}

func hasTranscripts(mediaPath string) bool {
	if _, err := os.Stat(transcript.SRTPath(mediaPath)); err != nil {
		return false
	}
	if _, err := os.Stat(transcript.TranscriptPath(mediaPath)); err != nil {
		return false
	}
	return true
}

// anyMarkers reports whether at least one transcript in the set contains
// detectable audio markers.
func anyMarkers(media []string) bool {
	for _, path := range media {
		tr, err := transcript.Load(transcript.TranscriptPath(path))
		if err != nil {
			continue
		}
		if len(markers.Detect(tr, logging.NewNop())) > 0 {
			return true
		}
	}
	return false
}
