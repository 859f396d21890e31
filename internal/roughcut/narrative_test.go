package roughcut

import (
	"testing"

	"roughcut/internal/analysis"
)

func TestNarrativePipelineGroupsByTopic(t *testing.T) {
	e := newTestEngine(t)
	e.clips = []*analysis.ClipAnalysis{
		{
			FilePath:  "talk.mov",
			Duration:  60,
			HasSpeech: true,
			BestMoments: []analysis.Segment{
				{SourceFile: "talk.mov", StartTime: 0, EndTime: 5, Text: "welcome everyone, today we begin", Topic: "introduction", Score: 0.8},
				{SourceFile: "talk.mov", StartTime: 10, EndTime: 15, Text: "the problem is the workflow", Topic: "problem", Score: 0.7},
				{SourceFile: "talk.mov", StartTime: 20, EndTime: 25, Text: "the solution is automation", Topic: "solutions", Score: 0.9},
				{SourceFile: "talk.mov", StartTime: 30, EndTime: 35, Text: "in conclusion it works", Topic: "conclusion", Score: 0.6},
			},
		},
	}

	style, _ := StyleFor("documentary")
	segments, removed, themes := e.narrativePipeline(style, 0)
	if len(segments) != 4 {
		t.Fatalf("segments: %d (removed %d)", len(segments), len(removed))
	}

	wantSections := []string{"hook", "setup", "act3", "conclusion"}
	for i, want := range wantSections {
		if segments[i].SegmentType != want {
			t.Errorf("segment %d section = %q, want %q", i, segments[i].SegmentType, want)
		}
	}
	if len(themes) != 4 {
		t.Fatalf("themes: %v", themes)
	}
}

func TestNarrativePipelineMatchesBRoll(t *testing.T) {
	e := newTestEngine(t)
	e.clips = []*analysis.ClipAnalysis{
		{
			FilePath:  "talk.mov",
			Duration:  60,
			HasSpeech: true,
			BestMoments: []analysis.Segment{
				{SourceFile: "talk.mov", StartTime: 0, EndTime: 5, Text: "look at the automation dashboard", Topic: "solutions", Score: 0.8},
			},
		},
		{FilePath: "b_roll_automation.mov", Duration: 8},
	}

	style, _ := StyleFor("documentary")
	segments, _, _ := e.narrativePipeline(style, 0)

	foundBRoll := false
	for _, seg := range segments {
		if seg.SegmentType == "broll" && seg.SourceFile == "b_roll_automation.mov" {
			foundBRoll = true
			if seg.EndTime != 8 {
				t.Fatalf("broll span: %f", seg.EndTime)
			}
		}
	}
	if !foundBRoll {
		t.Fatal("matching B-roll clip was not attached")
	}
}

func TestNarrativePipelineSkipsMistakes(t *testing.T) {
	e := newTestEngine(t)
	e.clips = []*analysis.ClipAnalysis{
		{
			FilePath:  "flub_BAD.mov",
			Duration:  10,
			HasSpeech: true,
			IsMistake: true,
			BestMoments: []analysis.Segment{
				{SourceFile: "flub_BAD.mov", StartTime: 0, EndTime: 5, Text: "welcome", Topic: "introduction", Score: 0.9},
			},
		},
	}
	style, _ := StyleFor("documentary")
	segments, _, _ := e.narrativePipeline(style, 0)
	if len(segments) != 0 {
		t.Fatalf("mistake clip leaked into narrative: %+v", segments)
	}
}
