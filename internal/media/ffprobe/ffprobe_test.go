package ffprobe

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestInspectParsesRunnerOutput(t *testing.T) {
	p := NewProber("", 5*time.Second)
	p.WithOutputRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if name != "ffprobe" {
			t.Fatalf("binary: %s", name)
		}
		if args[len(args)-1] != "clip.mov" {
			t.Fatalf("path arg: %v", args)
		}
		return []byte(`{
			"streams": [
				{"codec_type": "video", "width": 1920, "height": 1080},
				{"codec_type": "audio", "channels": 2}
			],
			"format": {"duration": "12.500", "format_name": "mov"}
		}`), nil
	})

	result, err := p.Inspect(context.Background(), "clip.mov")
	if err != nil {
		t.Fatal(err)
	}
	if result.DurationSeconds() != 12.5 {
		t.Fatalf("duration: %f", result.DurationSeconds())
	}
	if !result.HasAudio() {
		t.Fatal("audio stream missing")
	}
	if w, h := result.VideoDimensions(); w != 1920 || h != 1080 {
		t.Fatalf("dimensions: %dx%d", w, h)
	}
}

func TestDurationFallsBackToStreams(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", Duration: "9.8"},
			{CodecType: "audio", Duration: "10.1"},
		},
	}
	if result.DurationSeconds() != 10.1 {
		t.Fatalf("duration: %f", result.DurationSeconds())
	}
}

func TestDurationInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad"}}
	if result.DurationSeconds() != 0 {
		t.Fatalf("expected 0 for unparseable duration, got %f", result.DurationSeconds())
	}
}

func TestInspectEmptyPath(t *testing.T) {
	p := NewProber("ffprobe", 0)
	if _, err := p.Inspect(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestInspectRunnerFailure(t *testing.T) {
	p := NewProber("ffprobe", 0)
	p.WithOutputRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, fmt.Errorf("exit status 1")
	})
	if _, err := p.Duration(context.Background(), "clip.mov"); err == nil {
		t.Fatal("expected probe error to surface")
	}
}
