package markers

import (
	"fmt"
	"strings"
)

// Score words and their fixed levels.
var scoreLevels = map[string]int{
	"skip": 0,
	"fair": 1,
	"good": 2,
	"best": 3,
}

// ScoreLevel returns the numeric level for a score word.
func ScoreLevel(score string) (int, bool) {
	level, ok := scoreLevels[score]
	return level, ok
}

// ParsedCommands is the parsed result of the command region between a slate
// and its matching done. Pointer fields are nil when the command was absent.
type ParsedCommands struct {
	Mark        bool
	Take        *int
	SceneNumber *float64
	SceneName   string
	Step        *int
	Order       *int
	SegmentType string
	Quality     string
	Hook        string
	Title       string
	TitleType   string

	Effect        string
	EffectProduct string
	EffectName    string

	Transition        string
	TransitionProduct string
	TransitionName    string
	TransitionGeneric string

	Screen  string
	CTA     string
	Chapter string
	BRoll   string

	// Ending is the deprecated sequence-end flag. It is only ever set to
	// false (lone "ending" keyword, kept for compatibility).
	Ending *bool

	Emotion string
	Energy  string

	RetroactiveActions []string
	Score              string
	ScoreLevel         int

	Raw []string

	// Deprecations collects notices for deprecated syntax encountered
	// while parsing; callers decide how to surface them.
	Deprecations []string
}

// HasSequenceFields reports whether any segment-opening field is present.
func (p *ParsedCommands) HasSequenceFields() bool {
	return p.Take != nil || p.Order != nil || p.SceneNumber != nil || p.Step != nil
}

// ParseCommands consumes the ordered token list strictly between a slate
// occurrence and its matching done and produces a ParsedCommands. Unknown
// tokens are silently skipped; repeated keys keep the last written value.
func ParseCommands(tokens []string) *ParsedCommands {
	parsed := &ParsedCommands{Raw: append([]string(nil), tokens...)}

	i := 0
	for i < len(tokens) {
		canon := Normalize(tokens[i])
		switch canon {
		case "apply":
			parsed.applyActions(normalizeAll(tokens[i+1:]))
			i = len(tokens)

		case "ending":
			if i+1 < len(tokens) {
				// Deprecated alias: trailing tokens behave exactly as apply.
				parsed.Deprecations = append(parsed.Deprecations,
					"'ending' with actions is deprecated; use 'apply'")
				parsed.applyActions(normalizeAll(tokens[i+1:]))
				i = len(tokens)
				break
			}
			ending := false
			parsed.Ending = &ending
			parsed.Deprecations = append(parsed.Deprecations,
				"lone 'ending' is deprecated and no longer ends a sequence")
			i++

		case "emotion":
			if i+1 < len(tokens) {
				parsed.Emotion = Normalize(tokens[i+1])
				i += 2
			} else {
				i++
			}

		case "energy":
			if i+1 < len(tokens) {
				parsed.Energy = Normalize(tokens[i+1])
				i += 2
			} else {
				i++
			}

		case "naming":
			// Disabled grammar slot: the keyword is consumed so token
			// positions stay stable, but nothing is stored.
			i++

		case "mark":
			parsed.Mark = true
			i++

		case "scene":
			i = parsed.parseScene(tokens, i+1)

		case "take":
			if value, consumed, ok := ParseDecimal(tokens, i+1); ok {
				take := int(value)
				parsed.Take = &take
				i += 1 + consumed
			} else {
				i++
			}

		case "order":
			if value, consumed, ok := ParseDecimal(tokens, i+1); ok {
				order := int(value)
				parsed.Order = &order
				if parsed.SceneNumber == nil {
					scene := value
					parsed.SceneNumber = &scene
				}
				parsed.Deprecations = append(parsed.Deprecations,
					"'order' is deprecated; use 'scene'")
				i += 1 + consumed
			} else {
				i++
			}

		case "step":
			if value, consumed, ok := ParseDecimal(tokens, i+1); ok {
				step := int(value)
				parsed.Step = &step
				i += 1 + consumed
			} else {
				i++
			}

		case "type":
			if i+1 < len(tokens) {
				parsed.SegmentType = Normalize(tokens[i+1])
				i += 2
			} else {
				i++
			}

		case "best", "select", "backup":
			parsed.Quality = canon
			i++

		case "hook":
			if i+1 < len(tokens) {
				parsed.Hook = Normalize(tokens[i+1])
				i += 2
			} else {
				i++
			}

		case "title":
			i = parsed.parseTitle(tokens, i+1)

		case "effect":
			if i+2 < len(tokens) {
				parsed.EffectProduct = Normalize(tokens[i+1])
				parsed.EffectName = Normalize(tokens[i+2])
				parsed.Effect = fmt.Sprintf("%s:%s", parsed.EffectProduct, parsed.EffectName)
				i += 3
			} else {
				i = len(tokens)
			}

		case "transition":
			i = parsed.parseTransition(tokens, i+1)

		case "screen":
			if i+1 < len(tokens) {
				parsed.Screen = Normalize(tokens[i+1])
				i += 2
			} else {
				i++
			}

		case "cta":
			if i+1 < len(tokens) {
				parsed.CTA = Normalize(tokens[i+1])
				i += 2
			} else {
				i++
			}

		case "broll":
			if i+1 < len(tokens) {
				parsed.BRoll = Normalize(tokens[i+1])
				i += 2
			} else {
				i++
			}

		case "chapter":
			text, next := collectUntilKeyword(tokens, i+1)
			parsed.Chapter = text
			i = next

		default:
			i++
		}
	}
	return parsed
}

// applyActions records retroactive actions; the first score word among them
// also sets the segment score.
func (p *ParsedCommands) applyActions(actions []string) {
	p.RetroactiveActions = append(p.RetroactiveActions, actions...)
	if p.Score != "" {
		return
	}
	for _, action := range actions {
		if level, ok := ScoreLevel(action); ok {
			p.Score = action
			p.ScoreLevel = level
			return
		}
	}
}

func (p *ParsedCommands) parseScene(tokens []string, i int) int {
	value, consumed, ok := ParseDecimal(tokens, i)
	if !ok {
		return i
	}
	scene := value
	p.SceneNumber = &scene
	i += consumed

	var nameParts []string
	for i < len(tokens) {
		canon := Normalize(tokens[i])
		if IsKeyword(canon) {
			break
		}
		nameParts = append(nameParts, tokens[i])
		i++
	}
	if len(nameParts) > 0 {
		p.SceneName = strings.Join(nameParts, " ")
	}
	return i
}

func (p *ParsedCommands) parseTitle(tokens []string, i int) int {
	if i < len(tokens) {
		switch Normalize(tokens[i]) {
		case "lower", "full", "upper":
			p.TitleType = Normalize(tokens[i])
			i++
			if i < len(tokens) && Normalize(tokens[i]) == "third" {
				p.TitleType += " third"
				i++
			}
		}
	}
	text, next := collectUntilKeyword(tokens, i)
	p.Title = text
	return next
}

func (p *ParsedCommands) parseTransition(tokens []string, i int) int {
	var args []string
	for i < len(tokens) && len(args) < 2 {
		canon := Normalize(tokens[i])
		if IsKeyword(canon) {
			break
		}
		args = append(args, canon)
		i++
	}
	switch len(args) {
	case 2:
		p.TransitionProduct = args[0]
		p.TransitionName = args[1]
		p.Transition = fmt.Sprintf("%s:%s", args[0], args[1])
	case 1:
		p.TransitionGeneric = args[0]
		p.Transition = args[0]
	}
	return i
}

func collectUntilKeyword(tokens []string, i int) (string, int) {
	var parts []string
	for i < len(tokens) {
		canon := Normalize(tokens[i])
		if IsKeyword(canon) {
			break
		}
		parts = append(parts, tokens[i])
		i++
	}
	return strings.Join(parts, " "), i
}

func normalizeAll(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		out = append(out, Normalize(token))
	}
	return out
}
