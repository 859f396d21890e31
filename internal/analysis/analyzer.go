package analysis

import (
	"math"
	"regexp"
	"strings"

	"roughcut/internal/transcript"
)

// EditPoint is a candidate cut position between speech entries.
type EditPoint struct {
	Time       float64
	Confidence float64
}

// Analyzer scores transcript content for the marker-free fallback
// pipeline. Caches belong to the instance, not the process, so parallel
// engines stay independent.
type Analyzer struct {
	sentimentCache map[string]float64
	seenQuotes     map[string]struct{}
}

// NewAnalyzer returns an analyzer with empty caches.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		sentimentCache: make(map[string]float64),
		seenQuotes:     make(map[string]struct{}),
	}
}

var (
	digitPattern      = regexp.MustCompile(`\d`)
	properNamePattern = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`)
	datePattern       = regexp.MustCompile(`\b((19|20)\d{2}|January|February|March|April|May|June|July|August|September|October|November|December)\b`)
)

var fillerWords = map[string]struct{}{
	"um": {}, "uh": {}, "like": {}, "basically": {}, "actually": {},
	"literally": {}, "y'all": {}, "kinda": {}, "sorta": {}, "anyway": {},
}

// QuoteImportance scores a quote 0..100: uniqueness, information density,
// sentiment magnitude, length band, question form, and a filler penalty.
// Quotes already seen by this analyzer lose the uniqueness component.
func (a *Analyzer) QuoteImportance(text string) float64 {
	normalized := normalizeQuote(text)
	score := 0.0

	if _, seen := a.seenQuotes[normalized]; !seen {
		score += 30
		a.seenQuotes[normalized] = struct{}{}
	}

	if digitPattern.MatchString(text) || properNamePattern.MatchString(text) || datePattern.MatchString(text) {
		score += 20
	}

	score += math.Abs(a.Sentiment(text)) * 20

	words := strings.Fields(text)
	switch n := len(words); {
	case n >= 10 && n <= 30:
		score += 15
	case n > 30:
		score += 10
	case n >= 5:
		score += 5
	}

	if strings.Contains(text, "?") {
		score += 10
	}

	fillers := 0
	for _, w := range words {
		if _, ok := fillerWords[strings.ToLower(strings.Trim(w, ".,!?"))]; ok {
			fillers++
		}
	}
	if fillers > 2 {
		score -= math.Min(15, float64(fillers)*3)
	}

	return math.Max(0, math.Min(100, score))
}

var positiveWords = map[string]struct{}{
	"great": {}, "good": {}, "excellent": {}, "amazing": {}, "love": {},
	"best": {}, "impressive": {}, "fantastic": {}, "perfect": {}, "easy": {},
	"beautiful": {}, "solid": {}, "fast": {}, "clean": {}, "smooth": {},
	"recommend": {}, "happy": {}, "win": {}, "better": {}, "favorite": {},
}

var negativeWords = map[string]struct{}{
	"bad": {}, "terrible": {}, "awful": {}, "hate": {}, "worst": {},
	"disappointing": {}, "broken": {}, "slow": {}, "problem": {}, "issue": {},
	"difficult": {}, "ugly": {}, "annoying": {}, "fail": {}, "worse": {},
	"expensive": {}, "cheap": {}, "flimsy": {}, "confusing": {}, "wrong": {},
}

// Sentiment returns a polarity in [-1, 1] for a text. The word-list
// heuristic is the built-in floor of the contract; results are cached by
// normalized text.
func (a *Analyzer) Sentiment(text string) float64 {
	key := normalizeQuote(text)
	if cached, ok := a.sentimentCache[key]; ok {
		return cached
	}

	pos, neg := 0, 0
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?;:'\"")
		if _, ok := positiveWords[w]; ok {
			pos++
		}
		if _, ok := negativeWords[w]; ok {
			neg++
		}
	}

	var value float64
	if total := pos + neg; total > 0 {
		value = float64(pos-neg) / float64(total)
	}
	a.sentimentCache[key] = value
	return value
}

var topicBuckets = []struct {
	name     string
	keywords []string
}{
	{"introduction", []string{"welcome", "today", "going to show", "in this video", "hey everyone", "intro"}},
	{"problem", []string{"problem", "issue", "struggle", "challenge", "pain", "frustrating", "difficult"}},
	{"personal_stories", []string{"i remember", "when i", "my experience", "happened to me", "story", "years ago"}},
	{"expert_opinions", []string{"according to", "research", "study", "expert", "data shows", "statistics"}},
	{"solutions", []string{"solution", "fix", "how to", "the answer", "you can", "the trick", "solve"}},
	{"conclusion", []string{"in conclusion", "to wrap up", "finally", "that's it", "thanks for watching", "summary"}},
}

// Topic buckets a text into one of the narrative topics, or "general".
func (a *Analyzer) Topic(text string) string {
	lowered := strings.ToLower(text)
	for _, bucket := range topicBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(lowered, kw) {
				return bucket.name
			}
		}
	}
	return "general"
}

const (
	editPointMinGap     = 0.3
	sentenceBoostWindow = 1.0
	sentenceBoostFactor = 1.5
)

var sentenceEnd = regexp.MustCompile(`[.!?]$`)

// NaturalEditPoints finds candidate cuts in the gaps between subtitle
// entries. Longer silences are more confident; a completed sentence right
// before the gap boosts the point further.
func (a *Analyzer) NaturalEditPoints(entries []transcript.SRTEntry) []EditPoint {
	var points []EditPoint
	for i := 1; i < len(entries); i++ {
		gap := entries[i].Start - entries[i-1].End
		if gap <= editPointMinGap {
			continue
		}
		confidence := math.Min(1.0, gap/2.0)
		if gap <= sentenceBoostWindow && sentenceEnd.MatchString(strings.TrimSpace(entries[i-1].Text)) {
			confidence = math.Min(1.0, confidence*sentenceBoostFactor)
		}
		points = append(points, EditPoint{
			Time:       entries[i-1].End + gap/2,
			Confidence: confidence,
		})
	}
	return points
}

// BestMoments ranks subtitle entries by quote importance and returns them
// as scored segments, normalized into 0..1.
func (a *Analyzer) BestMoments(clip *ClipAnalysis) []Segment {
	var moments []Segment
	for _, entry := range clip.Entries {
		importance := a.QuoteImportance(entry.Text)
		// Bare uniqueness scores exactly 30; a moment needs more than that.
		if importance <= 30 {
			continue
		}
		moments = append(moments, Segment{
			SourceFile:  clip.FilePath,
			StartTime:   entry.Start,
			EndTime:     entry.End,
			Text:        entry.Text,
			Topic:       a.Topic(entry.Text),
			Score:       importance / 100,
			SegmentType: "quote",
		})
	}
	return moments
}

func normalizeQuote(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
