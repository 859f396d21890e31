package whisper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"roughcut/internal/transcript"
)

// audioTranscriber is the slice of the OpenAI client the backend needs.
// *openai.Client satisfies it implicitly.
type audioTranscriber interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// OpenAI sends media to the hosted transcription API and writes the same
// artifact pair the local backend produces.
type OpenAI struct {
	client   audioTranscriber
	model    string
	language string
	timeout  time.Duration
}

// NewOpenAI builds the hosted backend. The API key is required.
func NewOpenAI(cfg Config) (*OpenAI, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, errors.New("openai backend requires an API key")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" || !strings.HasPrefix(model, "whisper") {
		model = openai.Whisper1
	}
	return &OpenAI{
		client:   openai.NewClient(key),
		model:    model,
		language: strings.TrimSpace(cfg.Language),
		timeout:  cfg.Timeout,
	}, nil
}

// WithClient replaces the API client (for testing).
func (o *OpenAI) WithClient(client audioTranscriber) {
	o.client = client
}

// Transcribe uploads the media file and converts the verbose JSON
// response, including word-level timestamps, into the transcript contract.
func (o *OpenAI) Transcribe(ctx context.Context, mediaPath string) (Result, error) {
	mediaPath = strings.TrimSpace(mediaPath)
	if mediaPath == "" {
		return Result{}, fmt.Errorf("transcribe: empty media path")
	}
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.model,
		FilePath: mediaPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: o.language,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularityWord,
			openai.TranscriptionTimestampGranularitySegment,
		},
	})
	if err != nil {
		return Result{}, classifyAPIError(filepath.Base(mediaPath), err)
	}

	tr := convertAPIResponse(resp)
	tr.SourceFile = mediaPath
	return writeArtifacts(tr, mediaPath)
}

func convertAPIResponse(resp openai.AudioResponse) *transcript.Transcript {
	tr := &transcript.Transcript{
		Text:     strings.TrimSpace(resp.Text),
		Language: resp.Language,
		Duration: resp.Duration,
	}
	var lastEnd float64
	for _, seg := range resp.Segments {
		tr.Segments = append(tr.Segments, transcript.Segment{
			ID:    seg.ID,
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		})
		if seg.End > lastEnd {
			lastEnd = seg.End
		}
	}
	if tr.Duration == 0 {
		tr.Duration = lastEnd
	}
	for _, w := range resp.Words {
		start, end := w.Start, w.End
		tr.Words = append(tr.Words, transcript.Word{
			Word:  strings.TrimSpace(w.Word),
			Start: &start,
			End:   &end,
		})
	}
	return tr
}

// classifyAPIError keeps API failures actionable without leaking the
// full response body into logs.
func classifyAPIError(name string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("transcribe %s: invalid OpenAI API key", name)
		case http.StatusTooManyRequests:
			return fmt.Errorf("transcribe %s: rate limited: %w", name, err)
		case http.StatusRequestEntityTooLarge:
			return fmt.Errorf("transcribe %s: file exceeds the API upload limit", name)
		}
	}
	return fmt.Errorf("transcribe %s: %w", name, err)
}
