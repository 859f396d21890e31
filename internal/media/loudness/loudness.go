package loudness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Measurement is the loudnorm filter's analysis of one file.
type Measurement struct {
	InputI      float64
	InputTP     float64
	InputLRA    float64
	InputThresh float64
}

// Normalizer measures integrated loudness and produces _normalized
// siblings targeting a reference level. Measurements are cached per path
// for the lifetime of the instance, so repeated cuts do not re-invoke
// ffmpeg.
type Normalizer struct {
	binary    string
	target    float64
	tolerance float64
	timeout   time.Duration

	cache        map[string]Measurement
	outputRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// New builds a normalizer. Empty binary means "ffmpeg" on PATH; the
// conventional target is -14 LUFS with 0.5 LUFS tolerance.
func New(binary string, target, tolerance float64, timeout time.Duration) *Normalizer {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Normalizer{
		binary:    binary,
		target:    target,
		tolerance: tolerance,
		timeout:   timeout,
		cache:     make(map[string]Measurement),
	}
}

// WithOutputRunner sets a custom command runner (for testing).
func (n *Normalizer) WithOutputRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	n.outputRunner = runner
}

var loudnormJSONPattern = regexp.MustCompile(`(?s)\{[^{}]*"input_i"[^{}]*\}`)

// Measure runs a loudnorm analysis pass and parses the JSON summary the
// filter prints on stderr.
func (n *Normalizer) Measure(ctx context.Context, path string) (Measurement, error) {
	if cached, ok := n.cache[path]; ok {
		return cached, nil
	}
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	output, err := n.run(ctx, n.binary,
		"-hide_banner", "-nostats", "-i", path,
		"-af", fmt.Sprintf("loudnorm=I=%g:TP=-1.5:LRA=11:print_format=json", n.target),
		"-f", "null", "-")
	if err != nil {
		return Measurement{}, fmt.Errorf("loudness measure: %w", err)
	}

	measurement, err := parseLoudnorm(output)
	if err != nil {
		return Measurement{}, err
	}
	n.cache[path] = measurement
	return measurement, nil
}

func parseLoudnorm(output []byte) (Measurement, error) {
	block := loudnormJSONPattern.Find(output)
	if block == nil {
		return Measurement{}, errors.New("loudness measure: no loudnorm summary in output")
	}
	var raw struct {
		InputI      string `json:"input_i"`
		InputTP     string `json:"input_tp"`
		InputLRA    string `json:"input_lra"`
		InputThresh string `json:"input_thresh"`
	}
	if err := json.Unmarshal(block, &raw); err != nil {
		return Measurement{}, fmt.Errorf("loudness parse: %w", err)
	}
	return Measurement{
		InputI:      parseDB(raw.InputI),
		InputTP:     parseDB(raw.InputTP),
		InputLRA:    parseDB(raw.InputLRA),
		InputThresh: parseDB(raw.InputThresh),
	}, nil
}

func parseDB(value string) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return parsed
}

// NormalizedPath returns the _normalized sibling name for a media path.
func NormalizedPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_normalized" + ext
}

// EnsureNormalized returns the path the engine should analyze: the input
// itself when it is already within tolerance of the target, an existing
// _normalized sibling, or a freshly rendered one.
func (n *Normalizer) EnsureNormalized(ctx context.Context, path string) (string, error) {
	sibling := NormalizedPath(path)
	if _, err := os.Stat(sibling); err == nil {
		return sibling, nil
	}

	measurement, err := n.Measure(ctx, path)
	if err != nil {
		return path, err
	}
	if math.Abs(measurement.InputI-n.target) <= n.tolerance {
		return path, nil
	}

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}
	_, err = n.run(ctx, n.binary,
		"-hide_banner", "-nostats", "-y", "-i", path,
		"-af", fmt.Sprintf(
			"loudnorm=I=%g:TP=-1.5:LRA=11:measured_I=%g:measured_TP=%g:measured_LRA=%g:measured_thresh=%g:linear=true",
			n.target, measurement.InputI, measurement.InputTP, measurement.InputLRA, measurement.InputThresh),
		"-c:v", "copy",
		sibling)
	if err != nil {
		return path, fmt.Errorf("loudness normalize: %w", err)
	}
	return sibling, nil
}

func (n *Normalizer) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if n.outputRunner != nil {
		return n.outputRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, tail(string(output)))
	}
	return output, nil
}

// tail keeps error output readable by trimming to the last few lines.
func tail(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, "\n")
}
