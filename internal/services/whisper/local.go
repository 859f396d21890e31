package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"roughcut/internal/transcript"
)

// Local shells out to the whisper CLI with word timestamps enabled and
// converts its JSON output into the repository transcript contract.
type Local struct {
	binary   string
	model    string
	language string
	timeout  time.Duration

	// commandRunner is replaceable for testing.
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewLocal builds the CLI backend.
func NewLocal(cfg Config) *Local {
	binary := strings.TrimSpace(cfg.Binary)
	if binary == "" {
		binary = "whisper"
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "base"
	}
	return &Local{
		binary:   binary,
		model:    model,
		language: strings.TrimSpace(cfg.Language),
		timeout:  cfg.Timeout,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (l *Local) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	l.commandRunner = runner
}

// whisperOutput is the shape of the whisper CLI's --output_format json file.
type whisperOutput struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		ID    int     `json:"id"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
		Words []struct {
			Word  string  `json:"word"`
			Start float64 `json:"start"`
			End   float64 `json:"end"`
		} `json:"words"`
	} `json:"segments"`
}

// Transcribe runs the CLI into a temp directory, then rewrites the
// output as <stem>_transcript.json and <stem>.srt next to the media.
func (l *Local) Transcribe(ctx context.Context, mediaPath string) (Result, error) {
	mediaPath = strings.TrimSpace(mediaPath)
	if mediaPath == "" {
		return Result{}, fmt.Errorf("transcribe: empty media path")
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	outputDir, err := os.MkdirTemp("", "whisper-*")
	if err != nil {
		return Result{}, fmt.Errorf("transcribe: %w", err)
	}
	defer os.RemoveAll(outputDir)

	args := []string{
		mediaPath,
		"--model", l.model,
		"--output_format", "json",
		"--output_dir", outputDir,
		"--word_timestamps", "True",
	}
	if l.language != "" {
		args = append(args, "--language", l.language)
	}
	if err := l.run(ctx, l.binary, args...); err != nil {
		return Result{}, fmt.Errorf("whisper %s: %w", filepath.Base(mediaPath), err)
	}

	stem := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	raw, err := os.ReadFile(filepath.Join(outputDir, stem+".json"))
	if err != nil {
		return Result{}, fmt.Errorf("whisper output: %w", err)
	}
	tr, err := convertWhisperOutput(raw)
	if err != nil {
		return Result{}, err
	}
	tr.SourceFile = mediaPath
	return writeArtifacts(tr, mediaPath)
}

func (l *Local) run(ctx context.Context, name string, args ...string) error {
	if l.commandRunner != nil {
		return l.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, tail(string(output)))
	}
	return nil
}

// convertWhisperOutput flattens the CLI's segment-nested words into the
// transcript contract's flat word list.
func convertWhisperOutput(raw []byte) (*transcript.Transcript, error) {
	var out whisperOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}
	tr := &transcript.Transcript{
		Text:     strings.TrimSpace(out.Text),
		Language: out.Language,
	}
	for _, seg := range out.Segments {
		tr.Segments = append(tr.Segments, transcript.Segment{
			ID:    seg.ID,
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		})
		for _, w := range seg.Words {
			start, end := w.Start, w.End
			tr.Words = append(tr.Words, transcript.Word{
				Word:  strings.TrimSpace(w.Word),
				Start: &start,
				End:   &end,
			})
		}
		if seg.End > tr.Duration {
			tr.Duration = seg.End
		}
	}
	return tr, nil
}

// tail keeps error output readable by trimming to the last few lines.
func tail(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, "\n")
}
