package analysis

import (
	"math"
	"testing"

	"roughcut/internal/transcript"
)

func TestQuoteImportanceComponents(t *testing.T) {
	a := NewAnalyzer()

	rich := "In 2023 the Panasonic Lumix shipped with twelve new features that reviewers called excellent"
	score := a.QuoteImportance(rich)
	// Unique +30, density +20, positive sentiment, 10-30 word band +15.
	if score < 65 {
		t.Fatalf("information-rich quote scored too low: %f", score)
	}

	// Second sighting loses the uniqueness component.
	repeat := a.QuoteImportance(rich)
	if repeat >= score {
		t.Fatalf("repeat quote must score lower: %f vs %f", repeat, score)
	}
	if math.Abs((score-repeat)-30) > 1e-9 {
		t.Fatalf("uniqueness component should be 30: %f", score-repeat)
	}
}

func TestQuoteImportanceQuestionAndFillers(t *testing.T) {
	a := NewAnalyzer()
	if q := a.QuoteImportance("What would you pick for travel video?"); q < 40 {
		t.Fatalf("question bonus missing: %f", q)
	}

	fresh := NewAnalyzer()
	clean := fresh.QuoteImportance("this camera records footage in the morning light")
	filled := fresh.QuoteImportance("um basically like actually um this camera records stuff here")
	if filled >= clean {
		t.Fatalf("filler penalty missing: %f vs %f", filled, clean)
	}
}

func TestQuoteImportanceBounds(t *testing.T) {
	a := NewAnalyzer()
	for _, text := range []string{"", "ok", "um um um um um um"} {
		got := a.QuoteImportance(text)
		if got < 0 || got > 100 {
			t.Fatalf("QuoteImportance(%q) = %f out of range", text, got)
		}
	}
}

func TestSentimentRangeAndCache(t *testing.T) {
	a := NewAnalyzer()
	cases := map[string]func(float64) bool{
		"this is great and I love the excellent build": func(v float64) bool { return v > 0 },
		"terrible awful broken and disappointing":      func(v float64) bool { return v < 0 },
		"the box contains a camera":                    func(v float64) bool { return v == 0 },
	}
	for text, check := range cases {
		v := a.Sentiment(text)
		if v < -1 || v > 1 {
			t.Fatalf("Sentiment(%q) = %f out of range", text, v)
		}
		if !check(v) {
			t.Fatalf("Sentiment(%q) = %f has wrong sign", text, v)
		}
		if again := a.Sentiment(text); again != v {
			t.Fatalf("cache miss changed value: %f vs %f", again, v)
		}
	}
}

func TestTopicBuckets(t *testing.T) {
	a := NewAnalyzer()
	cases := map[string]string{
		"welcome everyone, today we look at lenses": "introduction",
		"the problem is rolling shutter":            "problem",
		"when I started filming years ago":          "personal_stories",
		"according to research on bitrates":         "expert_opinions",
		"the solution is a faster card":             "solutions",
		"in conclusion this kit is a keeper":        "conclusion",
		"the sky is blue":                           "general",
	}
	for text, want := range cases {
		if got := a.Topic(text); got != want {
			t.Errorf("Topic(%q) = %q, want %q", text, got, want)
		}
	}
}

func TestNaturalEditPoints(t *testing.T) {
	a := NewAnalyzer()
	entries := []transcript.SRTEntry{
		{Index: 1, Start: 0.0, End: 2.0, Text: "First sentence."},
		{Index: 2, Start: 2.8, End: 4.0, Text: "second thought"},
		{Index: 3, Start: 4.1, End: 5.0, Text: "runs straight on"},
		{Index: 4, Start: 8.0, End: 9.0, Text: "after a long pause"},
	}
	points := a.NaturalEditPoints(entries)
	if len(points) != 2 {
		t.Fatalf("expected 2 edit points, got %d", len(points))
	}

	// Gap 0.8 s after a finished sentence: midpoint 2.4, boosted confidence.
	first := points[0]
	if math.Abs(first.Time-2.4) > 1e-9 {
		t.Fatalf("first point time: %f", first.Time)
	}
	if math.Abs(first.Confidence-0.6) > 1e-9 {
		t.Fatalf("first point confidence: %f", first.Confidence)
	}

	// Gap 3.0 s: confidence saturates at 1.0, no sentence boost beyond cap.
	second := points[1]
	if math.Abs(second.Time-6.5) > 1e-9 {
		t.Fatalf("second point time: %f", second.Time)
	}
	if second.Confidence != 1.0 {
		t.Fatalf("second point confidence: %f", second.Confidence)
	}
}

func TestBestMomentsScoresInUnitRange(t *testing.T) {
	a := NewAnalyzer()
	clip := &ClipAnalysis{
		FilePath: "review.mov",
		Entries: []transcript.SRTEntry{
			{Index: 1, Start: 0, End: 3, Text: "In 2024 this sensor beat every rival we tested, which is impressive"},
			{Index: 2, Start: 3, End: 4, Text: "um"},
		},
	}
	moments := a.BestMoments(clip)
	if len(moments) != 1 {
		t.Fatalf("expected 1 moment, got %d", len(moments))
	}
	m := moments[0]
	if m.Score <= 0 || m.Score > 1 {
		t.Fatalf("moment score out of unit range: %f", m.Score)
	}
	if m.SegmentType != "quote" || m.SourceFile != "review.mov" {
		t.Fatalf("moment metadata: %+v", m)
	}
}
