package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Word is a single transcribed word with optional timing. Words without a
// start time are invisible to marker detection.
type Word struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
}

// HasTiming reports whether the word carries both timestamps.
func (w Word) HasTiming() bool {
	return w.Start != nil && w.End != nil
}

// StartTime returns the start timestamp or 0 when absent.
func (w Word) StartTime() float64 {
	if w.Start == nil {
		return 0
	}
	return *w.Start
}

// EndTime returns the end timestamp or 0 when absent.
func (w Word) EndTime() float64 {
	if w.End == nil {
		return 0
	}
	return *w.End
}

// Segment is a sentence-level grouping from the transcription service.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

// Transcript is the word-timestamped output of the transcription service.
// Only the flat Words list is required for marker detection.
type Transcript struct {
	Text     string    `json:"text"`
	Language string    `json:"language,omitempty"`
	Duration float64   `json:"duration,omitempty"`
	Words    []Word    `json:"words"`
	Segments []Segment `json:"segments,omitempty"`

	// SourceFile is the media file this transcript belongs to. Not part of
	// the JSON contract; derived from the transcript path on load.
	SourceFile string `json:"-"`
}

// Load reads a transcript JSON file. The source media path is inferred from
// the transcript name (<stem>_transcript.json sits next to <stem>.<ext>).
func Load(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	var tr Transcript
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("parse transcript %s: %w", filepath.Base(path), err)
	}
	tr.SourceFile = InferMediaPath(path)
	return &tr, nil
}

// TimedWords returns the words carrying full timing, in transcript order.
func (t *Transcript) TimedWords() []Word {
	out := make([]Word, 0, len(t.Words))
	for _, w := range t.Words {
		if w.HasTiming() {
			out = append(out, w)
		}
	}
	return out
}

// LastWordEnd returns the end time of the final timed word, or 0.
func (t *Transcript) LastWordEnd() float64 {
	var last float64
	for _, w := range t.Words {
		if w.End != nil && *w.End > last {
			last = *w.End
		}
	}
	return last
}

// TranscriptPath returns the expected word-level JSON path for a media file.
func TranscriptPath(mediaPath string) string {
	stem := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
	return stem + "_transcript.json"
}

// SRTPath returns the expected SRT path for a media file.
func SRTPath(mediaPath string) string {
	stem := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
	return stem + ".srt"
}

// InferMediaPath maps a transcript artifact path back to its media stem.
// The extension is unknown, so the stem alone is returned when no sibling
// media file can be found.
func InferMediaPath(transcriptPath string) string {
	stem := strings.TrimSuffix(transcriptPath, filepath.Ext(transcriptPath))
	stem = strings.TrimSuffix(stem, "_transcript")
	for _, ext := range MediaExtensions {
		candidate := stem + ext
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return stem
}

// MediaExtensions lists the media file extensions the watcher recognizes.
var MediaExtensions = []string{".mov", ".mp4", ".mkv", ".mxf", ".avi", ".m4v"}

// IsMediaFile reports whether a path looks like raw footage.
func IsMediaFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, known := range MediaExtensions {
		if ext == known {
			return true
		}
	}
	return false
}
