package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"roughcut/internal/config"
	"roughcut/internal/transcript"
)

// Result reports where one transcription landed on disk.
type Result struct {
	SRTPath  string
	JSONPath string
	Language string
	Duration float64
}

// Service is the external transcription boundary. Implementations write
// the SRT and word-level JSON next to the media file with predictable
// names (<stem>.srt, <stem>_transcript.json).
type Service interface {
	Transcribe(ctx context.Context, mediaPath string) (Result, error)
}

// Config selects and tunes a transcription backend.
type Config struct {
	Backend  string
	Binary   string
	Model    string
	Language string
	Timeout  time.Duration
	APIKey   string
}

// FromAppConfig maps the application configuration onto a backend config.
// The OpenAI key falls back to the OPENAI_API_KEY environment variable.
func FromAppConfig(cfg *config.Config) Config {
	key := strings.TrimSpace(cfg.Transcription.OpenAIAPIKey)
	if key == "" {
		key = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	return Config{
		Backend:  cfg.Transcription.Backend,
		Binary:   cfg.WhisperBinary(),
		Model:    cfg.Transcription.Model,
		Language: cfg.Transcription.Language,
		Timeout:  time.Duration(cfg.Transcription.TimeoutSeconds) * time.Second,
		APIKey:   key,
	}
}

// New builds the configured backend. The whisper CLI is the default.
func New(cfg Config) (Service, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "whisper":
		return NewLocal(cfg), nil
	case "openai":
		return NewOpenAI(cfg)
	default:
		return nil, fmt.Errorf("unknown transcription backend %q", cfg.Backend)
	}
}

// writeArtifacts persists a transcript as the two sibling files the rest
// of the system expects and returns the Result describing them.
func writeArtifacts(tr *transcript.Transcript, mediaPath string) (Result, error) {
	jsonPath := transcript.TranscriptPath(mediaPath)
	srtPath := transcript.SRTPath(mediaPath)

	data, err := json.MarshalIndent(tr, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("encode transcript: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return Result{}, fmt.Errorf("write transcript json: %w", err)
	}
	if err := os.WriteFile(srtPath, []byte(renderSRT(tr)), 0o644); err != nil {
		return Result{}, fmt.Errorf("write srt: %w", err)
	}
	return Result{
		SRTPath:  srtPath,
		JSONPath: jsonPath,
		Language: tr.Language,
		Duration: tr.Duration,
	}, nil
}

// renderSRT builds subtitle cues from the transcript's segments, or from
// the flat word list when no segments exist.
func renderSRT(tr *transcript.Transcript) string {
	var b strings.Builder
	if len(tr.Segments) > 0 {
		for i, seg := range tr.Segments {
			writeCue(&b, i+1, seg.Start, seg.End, seg.Text)
		}
		return b.String()
	}

	// Word-only transcripts: group words into short cues.
	const maxCueWords = 12
	words := tr.TimedWords()
	index := 1
	for start := 0; start < len(words); start += maxCueWords {
		end := start + maxCueWords
		if end > len(words) {
			end = len(words)
		}
		chunk := words[start:end]
		var texts []string
		for _, w := range chunk {
			texts = append(texts, strings.TrimSpace(w.Word))
		}
		writeCue(&b, index, chunk[0].StartTime(), chunk[len(chunk)-1].EndTime(), strings.Join(texts, " "))
		index++
	}
	return b.String()
}

func writeCue(b *strings.Builder, index int, start, end float64, text string) {
	fmt.Fprintf(b, "%d\n%s --> %s\n%s\n\n",
		index,
		transcript.FormatSRTTimestamp(start),
		transcript.FormatSRTTimestamp(end),
		strings.TrimSpace(text))
}
