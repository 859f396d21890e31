package roughcut

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"roughcut/internal/analysis"
	"roughcut/internal/transcript"
)

// normalizedStem strips directory, extension, and the _normalized suffix,
// so a clip and its loudness-normalized sibling compare equal.
func normalizedStem(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSuffix(base, "_normalized")
}

func isNormalizedPath(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(strings.TrimSuffix(base, filepath.Ext(base)), "_normalized")
}

// dedupe removes segments that overlap an already-kept segment by more
// than overlapPct of the smaller one. A clip and its _normalized sibling
// count as the same source, and the normalized side wins ties.
func dedupe(segments []analysis.Segment, overlapPct float64) ([]analysis.Segment, []analysis.RemovedSegment) {
	ordered := append([]analysis.Segment(nil), segments...)
	// Higher scores claim their footage first; normalized sources outrank
	// their originals at equal score.
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Score != ordered[j].Score {
			return ordered[i].Score > ordered[j].Score
		}
		return isNormalizedPath(ordered[i].SourceFile) && !isNormalizedPath(ordered[j].SourceFile)
	})

	var kept []analysis.Segment
	var removed []analysis.RemovedSegment
	for _, seg := range ordered {
		if conflictsWithKept(seg, kept, overlapPct) {
			removed = append(removed, analysis.RemovedSegment{
				Segment:       seg,
				Reason:        analysis.ReasonDuplicateOverlap,
				OriginalScore: seg.Score,
			})
			continue
		}
		kept = append(kept, seg)
	}

	sort.SliceStable(kept, func(i, j int) bool { return analysis.KeyLess(kept[i], kept[j]) })
	return kept, removed
}

func conflictsWithKept(seg analysis.Segment, kept []analysis.Segment, overlapPct float64) bool {
	for _, other := range kept {
		if normalizedStem(seg.SourceFile) != normalizedStem(other.SourceFile) {
			continue
		}
		overlap := overlapOnStem(seg, other)
		smaller := seg.Duration()
		if other.Duration() < smaller {
			smaller = other.Duration()
		}
		if smaller > 0 && overlap > overlapPct*smaller {
			return true
		}
	}
	return false
}

// overlapOnStem measures time overlap treating equivalent stems as the
// same timeline even when the paths differ.
func overlapOnStem(a, b analysis.Segment) float64 {
	lo := a.StartTime
	if b.StartTime > lo {
		lo = b.StartTime
	}
	hi := a.EndTime
	if b.EndTime < hi {
		hi = b.EndTime
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

var sentenceTerminator = regexp.MustCompile(`[.!?]\s*$`)

// extendToSentences widens a segment outward to the nearest complete
// sentence boundaries visible in the clip's subtitle entries.
func extendToSentences(seg analysis.Segment, entries []transcript.SRTEntry) analysis.Segment {
	if len(entries) == 0 {
		return seg
	}

	start := seg.StartTime
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].End > seg.StartTime {
			continue
		}
		if sentenceTerminator.MatchString(strings.TrimSpace(entries[i].Text)) {
			break
		}
		start = entries[i].Start
	}

	end := seg.EndTime
	for _, entry := range entries {
		if entry.Start < seg.EndTime {
			continue
		}
		end = entry.End
		if sentenceTerminator.MatchString(strings.TrimSpace(entry.Text)) {
			break
		}
	}

	seg.StartTime = start
	seg.EndTime = end
	return seg
}

// mergeAdjacent joins consecutive segments on the same source when the gap
// between them is below the style's merge threshold. Text is concatenated;
// the higher score and the first segment's metadata survive.
func mergeAdjacent(segments []analysis.Segment, gapThreshold float64) []analysis.Segment {
	if len(segments) < 2 {
		return segments
	}
	merged := []analysis.Segment{segments[0]}
	for _, seg := range segments[1:] {
		last := &merged[len(merged)-1]
		gap := seg.StartTime - last.EndTime
		if seg.SourceFile == last.SourceFile && gap >= 0 && gap < gapThreshold {
			last.EndTime = seg.EndTime
			if seg.Text != "" {
				if last.Text != "" {
					last.Text += " "
				}
				last.Text += seg.Text
			}
			if seg.Score > last.Score {
				last.Score = seg.Score
			}
			continue
		}
		merged = append(merged, seg)
	}
	return merged
}

// enforceDuration drops segments shorter than the style minimum and
// truncates segments above the maximum, tracking what was discarded.
func enforceDuration(segments []analysis.Segment, style StyleConfig) ([]analysis.Segment, []analysis.RemovedSegment) {
	var kept []analysis.Segment
	var removed []analysis.RemovedSegment
	for _, seg := range segments {
		dur := seg.Duration()
		if dur < style.MinSegment {
			removed = append(removed, analysis.RemovedSegment{
				Segment:       seg,
				Reason:        analysis.ReasonTooShort,
				OriginalScore: seg.Score,
			})
			continue
		}
		if dur > style.MaxSegment {
			remainder := seg
			remainder.StartTime = seg.StartTime + style.MaxSegment
			removed = append(removed, analysis.RemovedSegment{
				Segment:       remainder,
				Reason:        analysis.ReasonTruncatedRemainder,
				OriginalScore: seg.Score,
			})
			seg.EndTime = seg.StartTime + style.MaxSegment
		}
		kept = append(kept, seg)
	}
	return kept, removed
}
