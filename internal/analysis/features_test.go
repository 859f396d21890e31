package analysis

import (
	"testing"

	"roughcut/internal/transcript"
)

func TestDetectFeaturesClasses(t *testing.T) {
	clip := &ClipAnalysis{
		FilePath: "unbox.mov",
		Entries: []transcript.SRTEntry{
			{Index: 1, Start: 0, End: 2, Text: "Time for the big reveal"},
			{Index: 2, Start: 2, End: 4, Text: "I love the grip on this body"},
			{Index: 3, Start: 4, End: 6, Text: "The downside is the menu system"},
			{Index: 4, Start: 6, End: 8, Text: "Compared to the mark two it is lighter"},
			{Index: 5, Start: 8, End: 10, Text: "It comes with dual card slots"},
			{Index: 6, Start: 10, End: 12, Text: "Basically the sensor reads twice as fast"},
			{Index: 7, Start: 12, End: 14, Text: "Moving right along"},
		},
	}
	segments := DetectFeatures(clip)
	if len(segments) != 6 {
		t.Fatalf("expected 6 typed segments, got %d", len(segments))
	}
	wantTypes := []string{"reveal", "pros", "cons", "comparison", "feature", "concept"}
	for i, want := range wantTypes {
		if segments[i].SegmentType != want {
			t.Errorf("segment %d type = %q, want %q", i, segments[i].SegmentType, want)
		}
		if segments[i].Score <= 0 || segments[i].Score > 1 {
			t.Errorf("segment %d score out of range: %f", i, segments[i].Score)
		}
	}
}

func TestSilenceAndFillerRegions(t *testing.T) {
	entries := []transcript.SRTEntry{
		{Index: 1, Start: 0, End: 1, Text: "um"},
		{Index: 2, Start: 3, End: 4, Text: "real content"},
		{Index: 3, Start: 4.2, End: 5, Text: "more content"},
	}
	silences := SilenceRegions(entries, 1.0)
	if len(silences) != 1 || silences[0].Start != 1 || silences[0].End != 3 {
		t.Fatalf("silences: %+v", silences)
	}
	fillers := FillerRegions(entries)
	if len(fillers) != 1 || fillers[0].Start != 0 {
		t.Fatalf("fillers: %+v", fillers)
	}
}
