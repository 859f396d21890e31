package roughcut

import (
	"math"
	"testing"

	"roughcut/internal/analysis"
)

func TestTotalDurationClampsHandlesToClipBounds(t *testing.T) {
	style := StyleConfig{PreHandle: 1.0, PostHandle: 0.5}
	plan := &Plan{
		Clips: []*analysis.ClipAnalysis{
			{FilePath: "a.mov", Duration: 10},
		},
		Segments: []analysis.Segment{
			// Pre handle clamps at 0, post handle clamps at 10.
			seg("a.mov", 0.5, 9.8, 0.5),
			// Fully widened: 3-1 .. 6+0.5.
			seg("a.mov", 3, 6, 0.5),
		},
	}
	plan.finalize(style)

	want := (10.0 - 0.0) + (6.5 - 2.0)
	if math.Abs(plan.TotalDuration-want) > 1e-9 {
		t.Fatalf("total duration: %f want %f", plan.TotalDuration, want)
	}
}

func TestSliceSectionsFlattensToSegmentOrder(t *testing.T) {
	sections := []string{"intro", "body", "outro"}
	segments := []analysis.Segment{
		seg("a.mov", 0, 1, 0.5),
		seg("a.mov", 2, 3, 0.5),
		seg("a.mov", 4, 5, 0.5),
		seg("a.mov", 6, 7, 0.5),
		seg("a.mov", 8, 9, 0.5),
	}
	structure := sliceSections(segments, sections)

	var flattened []analysis.Segment
	for _, name := range sections {
		flattened = append(flattened, structure[name]...)
	}
	if len(flattened) != len(segments) {
		t.Fatalf("flattened %d of %d", len(flattened), len(segments))
	}
	for i := range segments {
		if flattened[i].StartTime != segments[i].StartTime {
			t.Fatalf("order broken at %d", i)
		}
	}
}

func TestSliceSectionsEmptySegments(t *testing.T) {
	structure := sliceSections(nil, []string{"intro", "outro"})
	if len(structure["intro"]) != 0 || len(structure["outro"]) != 0 {
		t.Fatalf("structure: %+v", structure)
	}
}
