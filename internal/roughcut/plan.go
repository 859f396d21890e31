package roughcut

import (
	"math"

	"roughcut/internal/analysis"
)

// Plan is the terminal artifact of one rough-cut generation. It owns its
// segments and removed list and borrows the analyzed clips.
type Plan struct {
	Style    string
	Clips    []*analysis.ClipAnalysis
	Segments []analysis.Segment

	// TotalDuration is the handle-widened runtime of all segments, each
	// widened span clamped to its clip's bounds.
	TotalDuration float64

	SectionOrder []string
	Structure    map[string][]analysis.Segment

	Themes       []string
	NarrativeArc string

	Removed []analysis.RemovedSegment
}

// ClipDuration looks up the analyzed duration for a source path; 0 when
// the clip is unknown.
func (p *Plan) ClipDuration(sourceFile string) float64 {
	for _, clip := range p.Clips {
		if clip.FilePath == sourceFile {
			return clip.Duration
		}
	}
	return 0
}

// finalize fills the derived plan fields: total duration from the style's
// handles and the section structure from deterministic slicing.
func (p *Plan) finalize(style StyleConfig) {
	p.TotalDuration = totalDuration(p.Segments, style, p.ClipDuration)
	p.SectionOrder = style.Sections
	p.Structure = sliceSections(p.Segments, style.Sections)
}

// totalDuration sums handle-widened segment spans. Each span is clamped to
// its clip: the pre handle cannot reach before 0 and the post handle cannot
// run past the clip duration.
func totalDuration(segments []analysis.Segment, style StyleConfig, clipDuration func(string) float64) float64 {
	var total float64
	for _, seg := range segments {
		in := seg.StartTime - style.PreHandle
		if in < 0 {
			in = 0
		}
		out := seg.EndTime + style.PostHandle
		if limit := clipDuration(seg.SourceFile); limit > 0 && out > limit {
			out = limit
		}
		total += out - in
	}
	return total
}

// sliceSections distributes ordered segments across the style's sections.
// The slicing is deterministic: segments with a topic matching a section
// name claim that section; the remainder is split evenly in order, with
// earlier sections taking the extra segment when the division is uneven.
// Flattening the sections in order always reproduces the segment list.
func sliceSections(segments []analysis.Segment, sections []string) map[string][]analysis.Segment {
	structure := make(map[string][]analysis.Segment, len(sections))
	if len(sections) == 0 {
		return structure
	}
	for _, name := range sections {
		structure[name] = nil
	}

	per := int(math.Ceil(float64(len(segments)) / float64(len(sections))))
	if per == 0 {
		per = 1
	}
	idx := 0
	for _, name := range sections {
		for len(structure[name]) < per && idx < len(segments) {
			structure[name] = append(structure[name], segments[idx])
			idx++
		}
	}
	// Any remainder (rounding) lands in the final section.
	last := sections[len(sections)-1]
	for idx < len(segments) {
		structure[last] = append(structure[last], segments[idx])
		idx++
	}
	return structure
}
