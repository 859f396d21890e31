package analysis

import "math"

// Removal reasons recorded when the engine drops footage from a plan.
const (
	ReasonTooShort             = "too_short"
	ReasonLowScore             = "low_score"
	ReasonDurationLimit        = "duration_limit"
	ReasonDuplicateOverlap     = "duplicate_overlap"
	ReasonTruncatedRemainder   = "truncated_remainder"
	ReasonNotSelectedNarrative = "not_selected_for_narrative"
)

// MarkerInfo carries the marker metadata attached to a segment opened by a
// START or STANDALONE marker, later amended by retroactive actions.
type MarkerInfo struct {
	SceneNumber *float64
	SceneName   string
	Take        *int
	Order       *int
	Step        *int
	Emotion     string
	Energy      string
	Hook        string
	Quote       bool
	Quality     string
	Chapter     string
	Title       string
	TitleType   string

	// Actions is the accumulated retroactive action list applied to this
	// segment, in application order.
	Actions []string

	remove bool
}

// Segment is a time range on a single clip. Segments never cross files.
type Segment struct {
	SourceFile  string
	StartTime   float64
	EndTime     float64
	Text        string
	Speaker     string
	Topic       string
	Score       float64
	SegmentType string
	Marker      *MarkerInfo
}

// Duration returns the segment's unpadded length in seconds.
func (s Segment) Duration() float64 {
	return s.EndTime - s.StartTime
}

// Overlap returns how many seconds of s and other coincide. Zero when the
// segments live on different files or do not intersect.
func (s Segment) Overlap(other Segment) float64 {
	if s.SourceFile != other.SourceFile {
		return 0
	}
	lo := math.Max(s.StartTime, other.StartTime)
	hi := math.Min(s.EndTime, other.EndTime)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// RemovedSegment records a segment dropped from a plan, why, and the score
// it held at removal time.
type RemovedSegment struct {
	Segment
	Reason        string
	OriginalScore float64
}

// SortKey orders segments for final assembly: explicit scene numbers first
// in numeric order, unnumbered scenes last, ties broken by take then time.
func SortKey(s Segment) (scene float64, take int, start float64) {
	scene = math.Inf(1)
	if s.Marker != nil && s.Marker.SceneNumber != nil {
		scene = *s.Marker.SceneNumber
	}
	if s.Marker != nil && s.Marker.Take != nil {
		take = *s.Marker.Take
	}
	return scene, take, s.StartTime
}

// KeyLess reports whether a sorts before b under the assembly ordering.
func KeyLess(a, b Segment) bool {
	as, at, ast := SortKey(a)
	bs, bt, bst := SortKey(b)
	if as != bs {
		return as < bs
	}
	if at != bt {
		return at < bt
	}
	return ast < bst
}
