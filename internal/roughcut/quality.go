package roughcut

import (
	"sort"

	"roughcut/internal/analysis"
)

const (
	overflowAllowance  = 0.10
	overflowScoreFloor = 0.6
	alwaysKeepScore    = 0.7
)

// qualityPipeline assembles a cut from each clip's best moments: dedupe,
// extend to sentence boundaries, then greedily fill the target duration by
// descending score.
func (e *Engine) qualityPipeline(style StyleConfig, targetDuration float64) ([]analysis.Segment, []analysis.RemovedSegment) {
	var candidates []analysis.Segment
	for _, clip := range e.clips {
		candidates = append(candidates, clip.BestMoments...)
	}

	kept, removed := dedupe(candidates, e.duplicateOverlapPct)

	entriesByFile := make(map[string][]int)
	for i, clip := range e.clips {
		entriesByFile[clip.FilePath] = append(entriesByFile[clip.FilePath], i)
	}
	for i := range kept {
		if idxs, ok := entriesByFile[kept[i].SourceFile]; ok && len(idxs) > 0 {
			kept[i] = extendToSentences(kept[i], e.clips[idxs[0]].Entries)
		}
	}

	selected, unselected := selectByScore(kept, targetDuration)
	removed = append(removed, unselected...)
	return selected, removed
}

// selectByScore greedily picks segments by descending score until the
// target is filled. Segments scoring above 0.6 may overflow the target by
// 10%; segments above 0.7 are always included.
func selectByScore(candidates []analysis.Segment, targetDuration float64) ([]analysis.Segment, []analysis.RemovedSegment) {
	if targetDuration <= 0 {
		// No target: everything qualifies.
		ordered := append([]analysis.Segment(nil), candidates...)
		sort.SliceStable(ordered, func(i, j int) bool { return analysis.KeyLess(ordered[i], ordered[j]) })
		return ordered, nil
	}

	byScore := append([]analysis.Segment(nil), candidates...)
	sort.SliceStable(byScore, func(i, j int) bool { return byScore[i].Score > byScore[j].Score })

	var selected []analysis.Segment
	var removed []analysis.RemovedSegment
	total := 0.0
	for _, seg := range byScore {
		dur := seg.Duration()
		switch {
		case seg.Score > alwaysKeepScore:
			// Unconditional.
		case total+dur <= targetDuration:
			// Fits outright.
		case seg.Score > overflowScoreFloor && total+dur <= targetDuration*(1+overflowAllowance):
			// Strong segment squeezes into the overflow allowance.
		default:
			removed = append(removed, analysis.RemovedSegment{
				Segment:       seg,
				Reason:        analysis.ReasonLowScore,
				OriginalScore: seg.Score,
			})
			continue
		}
		selected = append(selected, seg)
		total += dur
	}

	sort.SliceStable(selected, func(i, j int) bool { return analysis.KeyLess(selected[i], selected[j]) })
	return selected, removed
}
