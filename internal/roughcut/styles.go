package roughcut

import (
	"fmt"
	"sort"
	"strings"
)

// StyleConfig is the static per-style tuning table. Thresholds live here
// rather than scattered through the pipelines so they can be tuned in one
// place.
type StyleConfig struct {
	Name     string
	Sections []string
	Pacing   string

	MinSegment  float64
	MaxSegment  float64
	TargetRatio float64

	PreHandle  float64
	PostHandle float64

	MergeGapThreshold float64

	// NarrativeArc enables the theme-grouped hook/setup/acts pipeline when
	// smart features are requested.
	NarrativeArc bool
}

var styleTable = map[string]StyleConfig{
	"documentary": {
		Name:              "documentary",
		Sections:          []string{"hook", "setup", "act1", "act2", "act3", "conclusion"},
		Pacing:            "relaxed",
		MinSegment:        3.0,
		MaxSegment:        90.0,
		TargetRatio:       0.8,
		PreHandle:         1.0,
		PostHandle:        0.5,
		MergeGapThreshold: 1.0,
		NarrativeArc:      true,
	},
	"episode": {
		Name:              "episode",
		Sections:          []string{"intro", "body", "outro"},
		Pacing:            "moderate",
		MinSegment:        2.0,
		MaxSegment:        30.0,
		TargetRatio:       0.4,
		PreHandle:         0.3,
		PostHandle:        0.2,
		MergeGapThreshold: 0.6,
	},
	"tutorial": {
		Name:              "tutorial",
		Sections:          []string{"intro", "steps", "recap"},
		Pacing:            "tight",
		MinSegment:        1.0,
		MaxSegment:        20.0,
		TargetRatio:       0.3,
		PreHandle:         0.1,
		PostHandle:        0.1,
		MergeGapThreshold: 0.4,
	},
	"review": {
		Name:              "review",
		Sections:          []string{"intro", "features", "pros", "cons", "verdict"},
		Pacing:            "moderate",
		MinSegment:        2.0,
		MaxSegment:        25.0,
		TargetRatio:       0.35,
		PreHandle:         0.2,
		PostHandle:        0.2,
		MergeGapThreshold: 0.5,
	},
	"unboxing": {
		Name:              "unboxing",
		Sections:          []string{"intro", "reveal", "contents", "first_impressions"},
		Pacing:            "energetic",
		MinSegment:        1.5,
		MaxSegment:        20.0,
		TargetRatio:       0.35,
		PreHandle:         0.2,
		PostHandle:        0.1,
		MergeGapThreshold: 0.4,
	},
	"comparison": {
		Name:              "comparison",
		Sections:          []string{"intro", "contender_a", "contender_b", "verdict"},
		Pacing:            "moderate",
		MinSegment:        2.0,
		MaxSegment:        30.0,
		TargetRatio:       0.4,
		PreHandle:         0.2,
		PostHandle:        0.2,
		MergeGapThreshold: 0.5,
	},
	"setup": {
		Name:              "setup",
		Sections:          []string{"overview", "steps", "result"},
		Pacing:            "tight",
		MinSegment:        1.0,
		MaxSegment:        15.0,
		TargetRatio:       0.3,
		PreHandle:         0.1,
		PostHandle:        0.1,
		MergeGapThreshold: 0.3,
	},
	"explainer": {
		Name:              "explainer",
		Sections:          []string{"question", "explanation", "takeaway"},
		Pacing:            "moderate",
		MinSegment:        1.5,
		MaxSegment:        25.0,
		TargetRatio:       0.35,
		PreHandle:         0.2,
		PostHandle:        0.15,
		MergeGapThreshold: 0.5,
	},
	"interview": {
		Name:              "interview",
		Sections:          []string{"intro", "conversation", "highlights"},
		Pacing:            "relaxed",
		MinSegment:        3.0,
		MaxSegment:        60.0,
		TargetRatio:       0.5,
		PreHandle:         0.5,
		PostHandle:        0.3,
		MergeGapThreshold: 0.8,
	},
}

var styleAliases = map[string]string{
	"doc":   "documentary",
	"howto": "tutorial",
}

// StyleFor resolves a style name (case-insensitive, with aliases) to its
// configuration. Unknown styles fail the call.
func StyleFor(name string) (StyleConfig, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := styleAliases[key]; ok {
		key = canonical
	}
	cfg, ok := styleTable[key]
	if !ok {
		return StyleConfig{}, fmt.Errorf("unknown style %q (known: %s)", name, strings.Join(StyleNames(), ", "))
	}
	return cfg, nil
}

// StyleNames returns the canonical style names in sorted order.
func StyleNames() []string {
	names := make([]string, 0, len(styleTable))
	for name := range styleTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
