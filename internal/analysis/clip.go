package analysis

import (
	"path/filepath"
	"strings"

	"roughcut/internal/markers"
	"roughcut/internal/transcript"
)

// ClipAnalysis is the per-source-file record built during the analysis
// pass. The analyzer and marker detector populate it; everything after
// reads it without mutation.
type ClipAnalysis struct {
	FilePath           string
	Duration           float64
	TranscriptPath     string
	TranscriptJSONPath string

	Entries    []transcript.SRTEntry
	Transcript *transcript.Transcript
	Markers    []markers.AudioMarker

	HasSpeech         bool
	IsScreenRecording bool
	IsHook            bool
	IsCTA             bool
	IsMistake         bool

	ShotType       string
	ContentType    string
	QualityScore   float64
	AudioLevel     float64
	IsShaky        bool
	ExposureRating string

	StepNumber   *int
	TopicTag     string
	HookFlowType string
	TakeNumber   *int

	BestMoments    []Segment
	SilenceRegions []TimeRange
	FillerRegions  []TimeRange
	EditPoints     []EditPoint
}

// TimeRange is a half-open [Start, End) span in clip seconds.
type TimeRange struct {
	Start float64
	End   float64
}

// HasMarkers reports whether the detector found any slate regions.
func (c *ClipAnalysis) HasMarkers() bool {
	return len(c.Markers) > 0
}

// BaseName returns the clip's basename without extension.
func (c *ClipAnalysis) BaseName() string {
	base := filepath.Base(c.FilePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// NormalizedStem strips the _normalized suffix so a clip and its loudness-
// normalized sibling share an identity for deduplication.
func (c *ClipAnalysis) NormalizedStem() string {
	return strings.TrimSuffix(c.BaseName(), "_normalized")
}

// IsNormalized reports whether the clip is a loudness-normalized sibling.
func (c *ClipAnalysis) IsNormalized() bool {
	return strings.HasSuffix(c.BaseName(), "_normalized")
}
