package loudness

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const loudnormOutput = `[Parsed_loudnorm_0 @ 0x5555]
{
	"input_i" : "-23.10",
	"input_tp" : "-5.20",
	"input_lra" : "6.40",
	"input_thresh" : "-33.50",
	"output_i" : "-14.02",
	"normalization_type" : "dynamic"
}`

func TestMeasureParsesAndCaches(t *testing.T) {
	calls := 0
	n := New("", -14, 0.5, time.Minute)
	n.WithOutputRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		calls++
		return []byte(loudnormOutput), nil
	})

	m, err := n.Measure(context.Background(), "clip.mov")
	if err != nil {
		t.Fatal(err)
	}
	if m.InputI != -23.1 || m.InputTP != -5.2 {
		t.Fatalf("measurement: %+v", m)
	}

	if _, err := n.Measure(context.Background(), "clip.mov"); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("expected cached second measure, ffmpeg ran %d times", calls)
	}
}

func TestEnsureNormalizedWithinTolerance(t *testing.T) {
	n := New("", -14, 0.5, time.Minute)
	n.WithOutputRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte(strings.Replace(loudnormOutput, "-23.10", "-14.30", 1)), nil
	})
	got, err := n.EnsureNormalized(context.Background(), filepath.Join(t.TempDir(), "clip.mov"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(got, "clip.mov") || strings.Contains(got, "_normalized") {
		t.Fatalf("in-tolerance file should pass through: %s", got)
	}
}

func TestEnsureNormalizedRendersSibling(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "clip.mov")

	renderArgs := [][]string{}
	n := New("", -14, 0.5, time.Minute)
	n.WithOutputRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		renderArgs = append(renderArgs, args)
		return []byte(loudnormOutput), nil
	})

	got, err := n.EnsureNormalized(context.Background(), source)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "clip_normalized.mov")
	if got != want {
		t.Fatalf("normalized path: %s", got)
	}
	if len(renderArgs) != 2 {
		t.Fatalf("expected measure + render, got %d calls", len(renderArgs))
	}
	filter := strings.Join(renderArgs[1], " ")
	if !strings.Contains(filter, "measured_I=-23.1") {
		t.Fatalf("render args missing measurement: %s", filter)
	}
}

func TestEnsureNormalizedPrefersExistingSibling(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "clip.mov")
	sibling := filepath.Join(dir, "clip_normalized.mov")
	if err := os.WriteFile(sibling, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	n := New("", -14, 0.5, time.Minute)
	n.WithOutputRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		t.Fatal("ffmpeg must not run when a sibling exists")
		return nil, nil
	})
	got, err := n.EnsureNormalized(context.Background(), source)
	if err != nil {
		t.Fatal(err)
	}
	if got != sibling {
		t.Fatalf("existing sibling not preferred: %s", got)
	}
}

func TestParseLoudnormMissingSummary(t *testing.T) {
	if _, err := parseLoudnorm([]byte("frame= 100 fps=25")); err == nil {
		t.Fatal("expected error for output without summary")
	}
}
