package analysis

import (
	"regexp"

	"roughcut/internal/transcript"
)

// featureClass maps a keyword regex to a segment type and preset score.
type featureClass struct {
	segmentType string
	pattern     *regexp.Regexp
	score       float64
}

var featureClasses = []featureClass{
	{"reveal", regexp.MustCompile(`(?i)\b(reveal|unbox|first look|open(ing)? the box|here it is)\b`), 0.8},
	{"pros", regexp.MustCompile(`(?i)\b(love|great|excellent|impressive|what i like|standout)\b`), 0.75},
	{"cons", regexp.MustCompile(`(?i)\b(downside|however|disappoint|issue|problem|what i don'?t like)\b`), 0.75},
	{"comparison", regexp.MustCompile(`(?i)\b(compared to|versus|vs\.?|better than|worse than|instead of)\b`), 0.7},
	{"feature", regexp.MustCompile(`(?i)\b(feature|spec|comes with|includes|supports|built.?in)\b`), 0.7},
	{"concept", regexp.MustCompile(`(?i)\b(basically|the concept|works by|means that|in other words|think of it)\b`), 0.65},
}

// DetectFeatures classifies subtitle entries into typed segments using
// keyword classes. The first matching class wins; unmatched entries
// produce nothing.
func DetectFeatures(clip *ClipAnalysis) []Segment {
	var segments []Segment
	for _, entry := range clip.Entries {
		class, ok := classify(entry.Text)
		if !ok {
			continue
		}
		segments = append(segments, Segment{
			SourceFile:  clip.FilePath,
			StartTime:   entry.Start,
			EndTime:     entry.End,
			Text:        entry.Text,
			Score:       class.score,
			SegmentType: class.segmentType,
		})
	}
	return segments
}

func classify(text string) (featureClass, bool) {
	for _, class := range featureClasses {
		if class.pattern.MatchString(text) {
			return class, true
		}
	}
	return featureClass{}, false
}

// SilenceRegions derives quiet spans from the gaps between entries.
func SilenceRegions(entries []transcript.SRTEntry, minGap float64) []TimeRange {
	var regions []TimeRange
	for i := 1; i < len(entries); i++ {
		gap := entries[i].Start - entries[i-1].End
		if gap >= minGap {
			regions = append(regions, TimeRange{Start: entries[i-1].End, End: entries[i].Start})
		}
	}
	return regions
}

var fillerOnlyPattern = regexp.MustCompile(`(?i)^\s*(um+|uh+|er+|hmm+)[.,!?\s]*$`)

// FillerRegions flags entries that contain nothing but hesitation sounds.
func FillerRegions(entries []transcript.SRTEntry) []TimeRange {
	var regions []TimeRange
	for _, entry := range entries {
		if fillerOnlyPattern.MatchString(entry.Text) {
			regions = append(regions, TimeRange{Start: entry.Start, End: entry.End})
		}
	}
	return regions
}
