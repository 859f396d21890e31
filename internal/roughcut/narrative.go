package roughcut

import (
	"sort"
	"strings"

	"roughcut/internal/analysis"
)

// Narrative topics map onto the documentary arc in a fixed order; quotes
// with no stronger home land in the middle acts.
var topicToSection = map[string]string{
	"introduction":     "hook",
	"problem":          "setup",
	"personal_stories": "act1",
	"expert_opinions":  "act2",
	"solutions":        "act3",
	"conclusion":       "conclusion",
	"general":          "act2",
}

// narrativePipeline builds the documentary arc: theme-grouped quotes fill
// the hook/setup/acts/conclusion sections, and B-roll is appended where its
// keywords overlap a section's spoken content.
func (e *Engine) narrativePipeline(style StyleConfig, targetDuration float64) ([]analysis.Segment, []analysis.RemovedSegment, []string) {
	sectionBudget := targetDuration
	if sectionBudget > 0 {
		sectionBudget /= float64(len(style.Sections))
	}

	grouped := make(map[string][]analysis.Segment)
	themes := make(map[string]struct{})
	for _, clip := range e.clips {
		if clip.IsMistake {
			continue
		}
		for _, moment := range clip.BestMoments {
			topic := moment.Topic
			if topic == "" {
				topic = e.analyzer.Topic(moment.Text)
			}
			section, ok := topicToSection[topic]
			if !ok {
				section = "act2"
			}
			moment.Topic = topic
			grouped[section] = append(grouped[section], moment)
			themes[topic] = struct{}{}
		}
	}

	var segments []analysis.Segment
	var removed []analysis.RemovedSegment
	for _, section := range style.Sections {
		quotes := grouped[section]
		sort.SliceStable(quotes, func(i, j int) bool { return quotes[i].Score > quotes[j].Score })

		total := 0.0
		for _, quote := range quotes {
			if sectionBudget > 0 && total+quote.Duration() > sectionBudget && quote.Score <= alwaysKeepScore {
				removed = append(removed, analysis.RemovedSegment{
					Segment:       quote,
					Reason:        analysis.ReasonNotSelectedNarrative,
					OriginalScore: quote.Score,
				})
				continue
			}
			quote.SegmentType = section
			segments = append(segments, quote)
			total += quote.Duration()
		}
	}

	segments = append(segments, e.matchBRoll(segments)...)

	themeList := make([]string, 0, len(themes))
	for theme := range themes {
		themeList = append(themeList, theme)
	}
	sort.Strings(themeList)
	return segments, removed, themeList
}

// matchBRoll pairs speech-free clips with the spoken segments whose words
// overlap the B-roll clip's name, so cutaways land near related content.
func (e *Engine) matchBRoll(spoken []analysis.Segment) []analysis.Segment {
	var broll []analysis.Segment
	for _, clip := range e.clips {
		if clip.HasSpeech || clip.IsMistake || clip.Duration <= 0 {
			continue
		}
		keywords := nameKeywords(clip.FilePath)
		if len(keywords) == 0 {
			continue
		}
		for _, seg := range spoken {
			if keywordOverlap(keywords, seg.Text) == 0 && clip.TopicTag != seg.Topic {
				continue
			}
			broll = append(broll, analysis.Segment{
				SourceFile:  clip.FilePath,
				StartTime:   0,
				EndTime:     clip.Duration,
				SegmentType: "broll",
				Topic:       seg.Topic,
				Score:       0.4,
			})
			break
		}
	}
	return broll
}

func nameKeywords(path string) []string {
	stem := normalizedStem(path)
	parts := strings.FieldsFunc(strings.ToLower(stem), func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	var keywords []string
	for _, part := range parts {
		if len(part) >= 3 && part != "roll" && part != "broll" {
			keywords = append(keywords, part)
		}
	}
	return keywords
}

func keywordOverlap(keywords []string, text string) int {
	lowered := strings.ToLower(text)
	count := 0
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			count++
		}
	}
	return count
}
