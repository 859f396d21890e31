package analysis

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// FilenameMeta is metadata derived purely from a clip's basename. Shooting
// conventions encode intent in the name: HOOK_ prefixes, SCREEN captures,
// STEP numbering, take counters, and hook-flow tags.
type FilenameMeta struct {
	IsHook            bool
	IsScreenRecording bool
	IsCTA             bool
	IsMistake         bool
	StepNumber        *int
	TakeNumber        *int
	HookFlowType      string
	TopicTag          string
}

var (
	// Underscores are word characters, so delimiters are matched explicitly
	// instead of with \b.
	stepPattern = regexp.MustCompile(`(?i)(?:^|[_\- ])step[_\- ]?(\d{1,3})`)
	takePattern = regexp.MustCompile(`(?i)(?:^|[_\- (])take[_\- ]?(\d{1,3})`)
	// Hook-flow tags: single shorthand tokens plus the spelled-out forms.
	hookFlowPattern = regexp.MustCompile(`(?:^|[_\-])(CH|AH|PSH|TPH|COH|VH|SH|QH|VALUE_PROP|REVEAL|PROMISE)(?:[_\-.]|$)`)
	topicPattern    = regexp.MustCompile(`(?i)(?:^|[_\- ])topic[_\-]([a-z0-9]+)`)
)

var hookFlowNames = map[string]string{
	"CH":         "curiosity_hook",
	"AH":         "authority_hook",
	"PSH":        "problem_solution_hook",
	"TPH":        "teaser_preview_hook",
	"COH":        "contrarian_hook",
	"VH":         "value_hook",
	"SH":         "story_hook",
	"QH":         "question_hook",
	"VALUE_PROP": "value_proposition",
	"REVEAL":     "reveal",
	"PROMISE":    "promise",
}

// ParseFilename extracts shooting-convention metadata from a media path.
// Matching is a pure function of the basename.
func ParseFilename(path string) FilenameMeta {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	upper := strings.ToUpper(base)

	meta := FilenameMeta{
		IsHook:            strings.Contains(upper, "HOOK"),
		IsScreenRecording: strings.Contains(upper, "SCREEN"),
		IsCTA:             strings.Contains(upper, "CTA"),
		IsMistake:         strings.Contains(upper, "MISTAKE") || strings.Contains(upper, "_BAD"),
	}

	if m := stepPattern.FindStringSubmatch(base); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			meta.StepNumber = &n
		}
	}
	if m := takePattern.FindStringSubmatch(base); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			meta.TakeNumber = &n
		}
	}
	if m := hookFlowPattern.FindStringSubmatch(upper); m != nil {
		meta.HookFlowType = hookFlowNames[m[1]]
	}
	if m := topicPattern.FindStringSubmatch(base); m != nil {
		meta.TopicTag = strings.ToLower(m[1])
	}
	return meta
}

// Apply copies the filename metadata onto a clip analysis.
func (m FilenameMeta) Apply(clip *ClipAnalysis) {
	clip.IsHook = clip.IsHook || m.IsHook
	clip.IsScreenRecording = clip.IsScreenRecording || m.IsScreenRecording
	clip.IsCTA = clip.IsCTA || m.IsCTA
	clip.IsMistake = clip.IsMistake || m.IsMistake
	if m.StepNumber != nil {
		clip.StepNumber = m.StepNumber
	}
	if m.TakeNumber != nil {
		clip.TakeNumber = m.TakeNumber
	}
	if m.HookFlowType != "" {
		clip.HookFlowType = m.HookFlowType
	}
	if m.TopicTag != "" {
		clip.TopicTag = m.TopicTag
	}
}
