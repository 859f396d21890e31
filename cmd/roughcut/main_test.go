package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"roughcut/internal/markers"
	"roughcut/internal/testsupport"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := executeCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("output missing target path: %s", out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	for _, section := range []string{"[paths]", "[transcription]", "[roughcut]", "[workflow]"} {
		if !strings.Contains(string(data), section) {
			t.Fatalf("sample config missing %s", section)
		}
	}

	// A second init without --overwrite refuses to clobber.
	if _, err := executeCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error for existing config")
	}
}

func TestMarkersCommandRendersTable(t *testing.T) {
	dir := t.TempDir()
	transcriptPath := filepath.Join(dir, "clip_transcript.json")
	const content = `{
		"text": "Slate scene one take two done. First take.",
		"words": [
			{"word": "Slate", "start": 1.0, "end": 1.4},
			{"word": "scene", "start": 1.6, "end": 1.9},
			{"word": "one", "start": 2.0, "end": 2.3},
			{"word": "take", "start": 2.4, "end": 2.6},
			{"word": "two", "start": 2.7, "end": 2.9},
			{"word": "done", "start": 3.1, "end": 3.4},
			{"word": "First", "start": 4.0, "end": 4.3},
			{"word": "take.", "start": 4.4, "end": 4.8}
		]
	}`
	if err := os.WriteFile(transcriptPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(t, "markers", transcriptPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "START") {
		t.Fatalf("expected START marker in output:\n%s", out)
	}
	if !strings.Contains(out, "1.00") {
		t.Fatalf("expected slate timestamp in output:\n%s", out)
	}
}

func TestMarkersCommandNoMarkers(t *testing.T) {
	dir := t.TempDir()
	transcriptPath := filepath.Join(dir, "plain_transcript.json")
	const content = `{
		"text": "Just talking.",
		"words": [
			{"word": "Just", "start": 0.5, "end": 0.8},
			{"word": "talking.", "start": 0.9, "end": 1.4}
		]
	}`
	if err := os.WriteFile(transcriptPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(t, "markers", transcriptPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No audio markers detected.") {
		t.Fatalf("output: %s", out)
	}
}

func TestResolveMediaExpandsDirectories(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "b.mov"), 8)
	testsupport.WriteFile(t, filepath.Join(dir, "a.mp4"), 8)
	testsupport.WriteFile(t, filepath.Join(dir, "notes.txt"), 8)
	testsupport.WriteFile(t, filepath.Join(dir, "a_normalized.mp4"), 8)

	media, err := resolveMedia([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(media) != 2 {
		t.Fatalf("media: %v", media)
	}
	if filepath.Base(media[0]) != "a.mp4" || filepath.Base(media[1]) != "b.mov" {
		t.Fatalf("order: %v", media)
	}

	if _, err := resolveMedia([]string{filepath.Join(dir, "missing.mov")}); err == nil {
		t.Fatal("expected stat error")
	}
}

func TestMarkerSummaryRendersTitles(t *testing.T) {
	parsed := markers.ParseCommands([]string{"type", "intro", "title", "full", "my", "product", "review"})
	summary := markerSummary(markers.AudioMarker{Parsed: parsed})
	if !strings.Contains(summary, "type=intro") {
		t.Fatalf("summary: %s", summary)
	}
	if !strings.Contains(summary, "title=My Product Review") {
		t.Fatalf("summary: %s", summary)
	}
}
