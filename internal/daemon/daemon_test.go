package daemon

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"roughcut/internal/queue"
	"roughcut/internal/services/whisper"
	"roughcut/internal/testsupport"
	"roughcut/internal/transcript"
)

const markeredTranscriptJSON = `{
	"text": "Slate scene one done. Keep this part.",
	"language": "en",
	"duration": 6.0,
	"words": [
		{"word": "Slate", "start": 1.0, "end": 1.4},
		{"word": "scene", "start": 1.6, "end": 1.9},
		{"word": "one", "start": 2.0, "end": 2.3},
		{"word": "done", "start": 2.5, "end": 2.8},
		{"word": "Keep", "start": 3.5, "end": 3.8},
		{"word": "this", "start": 3.9, "end": 4.2},
		{"word": "part", "start": 4.3, "end": 5.5}
	]
}`

const plainSRT = `1
00:00:03,500 --> 00:00:05,500
Keep this part.

`

// fakeTranscriber writes the artifact pair the way a real backend would.
type fakeTranscriber struct {
	calls chan string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, mediaPath string) (whisper.Result, error) {
	jsonPath := transcript.TranscriptPath(mediaPath)
	srtPath := transcript.SRTPath(mediaPath)
	if err := os.WriteFile(jsonPath, []byte(markeredTranscriptJSON), 0o644); err != nil {
		return whisper.Result{}, err
	}
	if err := os.WriteFile(srtPath, []byte(plainSRT), 0o644); err != nil {
		return whisper.Result{}, err
	}
	if f.calls != nil {
		f.calls <- mediaPath
	}
	return whisper.Result{SRTPath: srtPath, JSONPath: jsonPath, Language: "en", Duration: 6.0}, nil
}

func writeTranscribedClip(t *testing.T, footageDir, name string) string {
	t.Helper()
	path := filepath.Join(footageDir, name)
	testsupport.WriteFile(t, path, 64)
	if err := os.WriteFile(transcript.TranscriptPath(path), []byte(markeredTranscriptJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(transcript.SRTPath(path), []byte(plainSRT), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWatcherEnqueuesMissingTranscripts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	footage := filepath.Join(cfg.Paths.ProjectsDir, "demo", footageDirName)

	testsupport.WriteFile(t, filepath.Join(footage, "b_raw.mov"), 64)
	testsupport.WriteFile(t, filepath.Join(footage, "a_raw.mov"), 64)
	writeTranscribedClip(t, footage, "c_done.mov")
	// Normalized siblings are never footage of their own.
	testsupport.WriteFile(t, filepath.Join(footage, "a_raw_normalized.mov"), 64)

	w := newWatcher(cfg, store, nil)
	w.scan(context.Background())

	jobs, err := store.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var paths []string
	for _, job := range jobs {
		if job.Kind != queue.KindTranscription {
			t.Fatalf("unexpected job kind: %+v", job)
		}
		paths = append(paths, filepath.Base(job.InputPath))
	}
	// List is newest first; enqueue order was lexicographic.
	if len(paths) != 2 || paths[0] != "b_raw.mov" || paths[1] != "a_raw.mov" {
		t.Fatalf("queued: %v", paths)
	}
}

func TestWatcherTriggersRoughCutOnce(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	footage := filepath.Join(cfg.Paths.ProjectsDir, "demo", footageDirName)
	writeTranscribedClip(t, footage, "a.mov")
	writeTranscribedClip(t, footage, "b.mov")

	w := newWatcher(cfg, store, nil)
	w.scan(context.Background())
	w.scan(context.Background())

	jobs, err := store.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected a single rough-cut job, got %d", len(jobs))
	}
	job := jobs[0]
	if job.Kind != queue.KindRoughCut || job.InputPath != footage {
		t.Fatalf("job: %+v", job)
	}
	if !job.UseAudioMarkers {
		t.Fatal("markered transcripts must enable audio markers")
	}
	if job.Style != cfg.RoughCut.DefaultStyle {
		t.Fatalf("style: %s", job.Style)
	}
}

func TestWatcherRetriggersWhenFootageChanges(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	footage := filepath.Join(cfg.Paths.ProjectsDir, "demo", footageDirName)
	writeTranscribedClip(t, footage, "a.mov")

	w := newWatcher(cfg, store, nil)
	ctx := context.Background()
	w.scan(ctx)

	// Complete the first job so coalescing does not mask the retrigger.
	job, err := store.ClaimNext(ctx, queue.KindRoughCut)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.MarkCompleted(ctx, job.ID, "out.edl"); err != nil {
		t.Fatal(err)
	}

	writeTranscribedClip(t, footage, "b.mov")
	w.scan(ctx)

	stats, err := store.StatsByKind(ctx, queue.KindRoughCut)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Pending != 1 || stats.Completed != 1 {
		t.Fatalf("stats after footage change: %+v", stats)
	}
}

func TestRunRoughCutWritesEDL(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	store := testsupport.MustOpenStore(t, cfg)
	project := filepath.Join(cfg.Paths.ProjectsDir, "demo")
	footage := filepath.Join(project, footageDirName)
	writeTranscribedClip(t, footage, "a.mov")

	d, err := New(cfg, store, &fakeTranscriber{}, nil)
	if err != nil {
		t.Fatal(err)
	}

	edlPath, err := d.runRoughCut(context.Background(), queue.Job{
		Kind:            queue.KindRoughCut,
		InputPath:       footage,
		ProjectDir:      project,
		Style:           "episode",
		UseAudioMarkers: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if edlPath != ExportEDLPath(project, "episode") {
		t.Fatalf("edl path: %s", edlPath)
	}
	data, err := os.ReadFile(edlPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "TITLE: ROUGH CUT EPISODE") {
		t.Fatalf("edl content:\n%s", data)
	}
}

func TestDaemonLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	store := testsupport.MustOpenStore(t, cfg)
	footage := filepath.Join(cfg.Paths.ProjectsDir, "demo", footageDirName)
	testsupport.WriteFile(t, filepath.Join(footage, "a.mov"), 64)

	calls := make(chan string, 4)
	d, err := New(cfg, store, &fakeTranscriber{calls: calls}, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer d.Stop()

	if !d.Running() {
		t.Fatal("daemon should report running")
	}

	// Single-instance lock.
	other, err := New(cfg, store, &fakeTranscriber{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := other.Start(ctx); err == nil {
		other.Stop()
		t.Fatal("second instance must fail to start")
	}

	select {
	case got := <-calls:
		if filepath.Base(got) != "a.mov" {
			t.Fatalf("transcribed: %s", got)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("transcription worker never ran")
	}

	// The rough cut follows once the transcript exists.
	deadline := time.Now().Add(20 * time.Second)
	for {
		stats, err := store.StatsByKind(ctx, queue.KindRoughCut)
		if err != nil {
			t.Fatal(err)
		}
		if stats.Completed+stats.Failed >= 1 {
			if stats.Completed == 0 {
				jobs, _ := store.List(ctx)
				t.Fatalf("rough cut failed: %+v", jobs)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("rough cut never completed")
		}
		time.Sleep(100 * time.Millisecond)
	}

	d.Stop()
	if d.Running() {
		t.Fatal("daemon should be stopped")
	}

	status, err := d.GetStatus(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if status.Running {
		t.Fatal("status should report stopped")
	}
	if status.Transcription.Completed != 1 {
		t.Fatalf("transcription stats: %+v", status.Transcription)
	}

	details, err := d.GetJobDetails(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(details) < 2 {
		t.Fatalf("expected transcription and rough-cut jobs: %+v", details)
	}
	for _, detail := range details {
		if detail.UUID == "" || detail.CreatedAt == "" {
			t.Fatalf("detail missing identity: %+v", detail)
		}
		if _, err := time.Parse(time.RFC3339, detail.CreatedAt); err != nil {
			t.Fatalf("created_at not ISO-8601: %s", detail.CreatedAt)
		}
	}
}

func TestExportPaths(t *testing.T) {
	if got := ExportEDLPath("/p", "episode"); got != "/p/03_exports/rough_cuts/rough_cut_auto_episode.edl" {
		t.Fatalf("export path: %s", got)
	}
	if got := HookEDLPath("/p", "episode"); got != "/p/04_TIMELINES/02_HOOK_TESTS/hook_tests_episode.edl" {
		t.Fatalf("hook path: %s", got)
	}
}
