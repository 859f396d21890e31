package roughcut

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"roughcut/internal/analysis"
	"roughcut/internal/config"
	"roughcut/internal/logging"
	"roughcut/internal/markers"
	"roughcut/internal/transcript"
)

// ErrNoClips is returned when a cut is requested with nothing analyzed.
var ErrNoClips = errors.New("no clips analyzed")

// Prober reads media durations, typically through ffprobe.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Normalizer produces loudness-normalized siblings of media files. It
// returns the path to analyze, which is the input when no work was needed
// or normalization is unavailable.
type Normalizer interface {
	EnsureNormalized(ctx context.Context, path string) (string, error)
}

// Transcriber is the external speech-to-text boundary: it writes the SRT
// and word-level JSON next to the media and returns their paths.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath string) (srtPath, jsonPath string, err error)
}

// Engine runs one rough-cut generation. It is single-threaded:
// callers wanting parallel cuts create one engine per cut so the caches
// stay independent.
type Engine struct {
	logger   *slog.Logger
	analyzer *analysis.Analyzer
	clips    []*analysis.ClipAnalysis

	duplicateOverlapPct float64
	autoNormalize       bool
	autoTranscribe      bool

	prober      Prober
	normalizer  Normalizer
	transcriber Transcriber
}

// Option configures an Engine's external collaborators.
type Option func(*Engine)

// WithProber supplies the duration prober.
func WithProber(p Prober) Option { return func(e *Engine) { e.prober = p } }

// WithNormalizer supplies the loudness normalizer.
func WithNormalizer(n Normalizer) Option { return func(e *Engine) { e.normalizer = n } }

// WithTranscriber supplies the transcription backend.
func WithTranscriber(t Transcriber) Option { return func(e *Engine) { e.transcriber = t } }

// NewEngine builds an engine from configuration. All collaborators are
// optional; without them the engine degrades per the error policy (no
// durations, no normalization, no auto-transcription).
func NewEngine(cfg *config.Config, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	e := &Engine{
		logger:              logger.With(logging.String(logging.FieldComponent, "engine")),
		analyzer:            analysis.NewAnalyzer(),
		duplicateOverlapPct: cfg.RoughCut.DuplicateOverlapPct,
		autoNormalize:       cfg.RoughCut.AutoNormalize,
		autoTranscribe:      cfg.RoughCut.AutoTranscribe,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Options selects how one cut is generated.
type Options struct {
	Style           string
	TargetDuration  float64
	UseSmartFeature bool
	UseAudioMarkers bool
}

// AddMedia analyzes one media file and registers it with the engine.
// Per-file failures degrade the clip rather than failing the call: a
// missing transcript leaves has_speech false, a probe failure leaves
// duration zero.
func (e *Engine) AddMedia(ctx context.Context, path string) error {
	path = e.pickSource(ctx, path)

	clip := &analysis.ClipAnalysis{FilePath: path}
	analysis.ParseFilename(path).Apply(clip)

	if e.prober != nil {
		duration, err := e.prober.Duration(ctx, path)
		if err != nil {
			e.logger.Warn("duration probe failed",
				logging.String(logging.FieldSource, path),
				logging.Error(err),
			)
		} else {
			clip.Duration = duration
		}
	}

	e.attachTranscript(ctx, clip)
	if clip.HasSpeech {
		e.analyzeSpeech(clip)
	}

	e.clips = append(e.clips, clip)
	return nil
}

// pickSource prefers an existing _normalized sibling and, when configured,
// asks the normalizer to create one.
func (e *Engine) pickSource(ctx context.Context, path string) string {
	if isNormalizedPath(path) {
		return path
	}
	ext := filepath.Ext(path)
	sibling := strings.TrimSuffix(path, ext) + "_normalized" + ext
	if _, err := os.Stat(sibling); err == nil {
		return sibling
	}
	if e.autoNormalize && e.normalizer != nil {
		normalized, err := e.normalizer.EnsureNormalized(ctx, path)
		if err != nil {
			e.logger.Warn("loudness normalization unavailable",
				logging.String(logging.FieldSource, path),
				logging.Error(err),
			)
			return path
		}
		return normalized
	}
	return path
}

func (e *Engine) attachTranscript(ctx context.Context, clip *analysis.ClipAnalysis) {
	jsonPath := transcript.TranscriptPath(clip.FilePath)
	srtPath := transcript.SRTPath(clip.FilePath)

	if _, err := os.Stat(jsonPath); err != nil {
		if !e.autoTranscribe || e.transcriber == nil {
			return
		}
		srt, jsn, terr := e.transcriber.Transcribe(ctx, clip.FilePath)
		if terr != nil {
			e.logger.Warn("transcription failed, continuing without speech",
				logging.String(logging.FieldSource, clip.FilePath),
				logging.Error(terr),
			)
			return
		}
		srtPath, jsonPath = srt, jsn
	}

	tr, err := transcript.Load(jsonPath)
	if err != nil {
		e.logger.Warn("transcript unreadable",
			logging.String(logging.FieldSource, jsonPath),
			logging.Error(err),
		)
		return
	}
	tr.SourceFile = clip.FilePath

	clip.Transcript = tr
	clip.TranscriptJSONPath = jsonPath
	clip.HasSpeech = len(tr.Words) > 0

	if entries, err := transcript.ParseSRT(srtPath); err == nil {
		clip.Entries = entries
		clip.TranscriptPath = srtPath
	}

	clip.Markers = markers.Detect(tr, e.logger)
}

func (e *Engine) analyzeSpeech(clip *analysis.ClipAnalysis) {
	clip.BestMoments = e.analyzer.BestMoments(clip)
	clip.EditPoints = e.analyzer.NaturalEditPoints(clip.Entries)
	clip.SilenceRegions = analysis.SilenceRegions(clip.Entries, 1.0)
	clip.FillerRegions = analysis.FillerRegions(clip.Entries)
}

// Clips returns the analyzed clip list.
func (e *Engine) Clips() []*analysis.ClipAnalysis {
	return e.clips
}

// CreateRoughCut produces a plan from the analyzed clips. Dispatch order:
// audio markers when present and requested, the narrative arc for smart
// documentary cuts, and the quality pipeline otherwise.
func (e *Engine) CreateRoughCut(opts Options) (*Plan, error) {
	if len(e.clips) == 0 {
		return nil, ErrNoClips
	}
	style, err := StyleFor(opts.Style)
	if err != nil {
		return nil, err
	}

	target := opts.TargetDuration
	if target <= 0 && style.TargetRatio > 0 {
		target = e.totalSourceDuration() * style.TargetRatio
	}

	plan := &Plan{Style: style.Name, Clips: e.clips}
	switch {
	case opts.UseAudioMarkers && e.anyMarkers():
		plan.Segments, plan.Removed = e.markerPipeline(style)
	case style.NarrativeArc && opts.UseSmartFeature:
		var themes []string
		plan.Segments, plan.Removed, themes = e.narrativePipeline(style, target)
		plan.Themes = themes
		plan.NarrativeArc = strings.Join(style.Sections, " -> ")
	default:
		plan.Segments, plan.Removed = e.qualityPipeline(style, target)
	}

	plan.Segments = mergeAdjacent(plan.Segments, style.MergeGapThreshold)
	var trimmed []analysis.RemovedSegment
	plan.Segments, trimmed = enforceDuration(plan.Segments, style)
	plan.Removed = append(plan.Removed, trimmed...)

	plan.finalize(style)
	e.logger.Info("rough cut assembled",
		logging.String("style", style.Name),
		logging.Int("segments", len(plan.Segments)),
		logging.Int("removed", len(plan.Removed)),
		logging.Float64("total_duration", plan.TotalDuration),
	)
	return plan, nil
}

// markerPipeline extracts marker-driven segments per clip. A failure on
// one clip never aborts the plan.
func (e *Engine) markerPipeline(style StyleConfig) ([]analysis.Segment, []analysis.RemovedSegment) {
	var segments []analysis.Segment
	for _, clip := range e.clips {
		if !clip.HasMarkers() || clip.Transcript == nil {
			continue
		}
		segments = append(segments, analysis.ExtractSegments(clip.Markers, clip.Transcript, clip.Duration, e.logger)...)
	}
	kept, removed := dedupe(segments, e.duplicateOverlapPct)
	sort.SliceStable(kept, func(i, j int) bool { return analysis.KeyLess(kept[i], kept[j]) })
	return kept, removed
}

func (e *Engine) anyMarkers() bool {
	for _, clip := range e.clips {
		if clip.HasMarkers() {
			return true
		}
	}
	return false
}

func (e *Engine) totalSourceDuration() float64 {
	var total float64
	for _, clip := range e.clips {
		total += clip.Duration
	}
	return total
}

// HookSegments returns the plan segments flagged as hooks, for hook-test
// timeline export.
func HookSegments(plan *Plan) []analysis.Segment {
	var hooks []analysis.Segment
	for _, seg := range plan.Segments {
		if seg.Marker != nil && seg.Marker.Hook != "" {
			hooks = append(hooks, seg)
		}
	}
	return hooks
}

// Describe renders a one-line summary for logs and CLI output.
func Describe(plan *Plan) string {
	return fmt.Sprintf("%s: %d segments, %.1fs total, %d removed",
		plan.Style, len(plan.Segments), plan.TotalDuration, len(plan.Removed))
}
