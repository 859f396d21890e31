package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"roughcut/internal/logging"
	"roughcut/internal/media/ffprobe"
	"roughcut/internal/media/loudness"
	"roughcut/internal/queue"
	"roughcut/internal/roughcut"
	"roughcut/internal/timeline"
)

// transcriptionWorker drains the transcription queue until quit closes.
func (d *Daemon) transcriptionWorker(ctx context.Context, quit <-chan struct{}) error {
	logger := logging.WithComponent(d.logger, "transcription")
	for {
		select {
		case <-quit:
			return nil
		case <-ctx.Done():
			return nil
		default:
		}

		job, err := d.store.ClaimNext(ctx, queue.KindTranscription)
		if errors.Is(err, queue.ErrNoPendingJobs) {
			if !sleepOrQuit(ctx, quit, d.pollInterval()) {
				return nil
			}
			continue
		}
		if err != nil {
			logger.Error("claim transcription job failed", logging.Error(err))
			if !sleepOrQuit(ctx, quit, d.errorRetryInterval()) {
				return nil
			}
			continue
		}

		result, err := d.transcriber.Transcribe(ctx, job.InputPath)
		if err != nil {
			logger.Error("transcription failed",
				logging.String(logging.FieldJobID, job.UUID),
				logging.String(logging.FieldSource, job.InputPath),
				logging.Error(err),
			)
			if markErr := d.store.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
				logger.Error("record job failure", logging.Error(markErr))
			}
			continue
		}
		if err := d.store.MarkCompleted(ctx, job.ID, result.JSONPath); err != nil {
			logger.Error("record job completion", logging.Error(err))
			continue
		}
		logger.Info("transcription complete",
			logging.String(logging.FieldJobID, job.UUID),
			logging.String(logging.FieldSource, job.InputPath),
		)
	}
}

// roughCutWorker runs rough-cut jobs strictly sequentially so generated
// timelines within a project never interleave.
func (d *Daemon) roughCutWorker(ctx context.Context, quit <-chan struct{}) error {
	logger := logging.WithComponent(d.logger, "roughcut")
	for {
		select {
		case <-quit:
			return nil
		case <-ctx.Done():
			return nil
		default:
		}

		job, err := d.store.ClaimNext(ctx, queue.KindRoughCut)
		if errors.Is(err, queue.ErrNoPendingJobs) {
			if !sleepOrQuit(ctx, quit, d.pollInterval()) {
				return nil
			}
			continue
		}
		if err != nil {
			logger.Error("claim rough-cut job failed", logging.Error(err))
			if !sleepOrQuit(ctx, quit, d.errorRetryInterval()) {
				return nil
			}
			continue
		}

		edlPath, err := d.runRoughCut(ctx, job)
		if err != nil {
			logger.Error("rough cut failed",
				logging.String(logging.FieldJobID, job.UUID),
				logging.String(logging.FieldProject, job.ProjectDir),
				logging.Error(err),
			)
			if markErr := d.store.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
				logger.Error("record job failure", logging.Error(markErr))
			}
			continue
		}
		if err := d.store.MarkCompleted(ctx, job.ID, edlPath); err != nil {
			logger.Error("record job completion", logging.Error(err))
			continue
		}
		logger.Info("rough cut complete",
			logging.String(logging.FieldJobID, job.UUID),
			logging.String("edl", edlPath),
		)
	}
}

// runRoughCut analyzes every clip in the job's footage directory and
// writes the EDL artifacts into the project's export tree.
func (d *Daemon) runRoughCut(ctx context.Context, job queue.Job) (string, error) {
	media, err := CollectMedia(job.InputPath)
	if err != nil {
		return "", fmt.Errorf("scan footage: %w", err)
	}

	engine := roughcut.NewEngine(d.cfg, d.logger,
		roughcut.WithProber(ffprobe.NewProber(
			d.cfg.FFprobeBinary(),
			time.Duration(d.cfg.Workflow.FFprobeTimeout)*time.Second)),
		roughcut.WithNormalizer(loudness.New(
			d.cfg.FFmpegBinary(),
			d.cfg.RoughCut.LoudnessTarget,
			d.cfg.RoughCut.LoudnessTolerance,
			time.Duration(d.cfg.Workflow.FFmpegCutTimeout)*time.Second)),
	)
	for _, path := range media {
		if err := engine.AddMedia(ctx, path); err != nil {
			return "", err
		}
	}

	styleName := job.Style
	if styleName == "" {
		styleName = d.cfg.RoughCut.DefaultStyle
	}
	plan, err := engine.CreateRoughCut(roughcut.Options{
		Style:           styleName,
		UseSmartFeature: true,
		UseAudioMarkers: job.UseAudioMarkers,
	})
	if err != nil {
		return "", err
	}

	style, err := roughcut.StyleFor(styleName)
	if err != nil {
		return "", err
	}
	opts := timeline.EDLOptions{
		Title:      fmt.Sprintf("ROUGH CUT %s", style.Name),
		FrameRate:  d.cfg.RoughCut.FrameRate,
		PreHandle:  style.PreHandle,
		PostHandle: style.PostHandle,
	}

	edlPath := ExportEDLPath(job.ProjectDir, style.Name)
	if err := timeline.WriteEDLFile(edlPath, plan, opts); err != nil {
		return "", err
	}
	if err := d.writeHookEDL(plan, job.ProjectDir, style.Name, opts); err != nil {
		d.logger.Warn("hook EDL not written", logging.Error(err))
	}
	return edlPath, nil
}

func (d *Daemon) writeHookEDL(plan *roughcut.Plan, projectDir, styleName string, opts timeline.EDLOptions) error {
	if len(roughcut.HookSegments(plan)) == 0 {
		return nil
	}
	path := HookEDLPath(projectDir, styleName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return timeline.WriteHookEDL(file, plan, opts)
}

// ExportEDLPath is where the auto-generated rough cut for a project lands.
func ExportEDLPath(projectDir, styleName string) string {
	return filepath.Join(projectDir, "03_exports", "rough_cuts",
		fmt.Sprintf("rough_cut_auto_%s.edl", styleName))
}

// HookEDLPath is where hook-test timelines land.
func HookEDLPath(projectDir, styleName string) string {
	return filepath.Join(projectDir, "04_TIMELINES", "02_HOOK_TESTS",
		fmt.Sprintf("hook_tests_%s.edl", styleName))
}

func (d *Daemon) errorRetryInterval() time.Duration {
	interval := time.Duration(d.cfg.Workflow.ErrorRetryInterval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return interval
}

// sleepOrQuit waits for the interval and reports whether the worker
// should keep running.
func sleepOrQuit(ctx context.Context, quit <-chan struct{}, interval time.Duration) bool {
	select {
	case <-quit:
		return false
	case <-ctx.Done():
		return false
	case <-time.After(interval):
		return true
	}
}
