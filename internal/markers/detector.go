package markers

import (
	"log/slog"

	"roughcut/internal/logging"
	"roughcut/internal/transcript"
)

// MarkerType classifies what a detected marker does to the segment stream.
type MarkerType string

const (
	// MarkerStart opens a new segment at the marker's cut point.
	MarkerStart MarkerType = "START"
	// MarkerRetroactive modifies the most recently opened segment.
	MarkerRetroactive MarkerType = "RETROACTIVE"
	// MarkerStandalone opens a segment without sequence metadata.
	MarkerStandalone MarkerType = "STANDALONE"
	// MarkerEnd is deprecated; retained for backward-compatible fixtures.
	MarkerEnd MarkerType = "END"
)

// Timing constants for the spoken command protocol. All cuts are padded for
// a natural jump-cut feel and clamped so they never cross the done word.
const (
	// CommandWindow bounds how long after "slate" the command region may run.
	CommandWindow = 10.0
	// startPrePad is trimmed before the first word of speech after "done".
	startPrePad = 0.2
	// standaloneFallbackPad is used when no speech follows "done".
	standaloneFallbackPad = 0.5
	// endPostPad trails the last word before a deprecated END slate.
	endPostPad = 0.3
)

// AudioMarker is an immutable record of one recognized slate…done region.
type AudioMarker struct {
	Timestamp  float64
	Type       MarkerType
	Commands   []string
	Parsed     *ParsedCommands
	DoneTime   float64
	CutPoint   float64
	SourceFile string
}

// Detect scans a word-timestamped transcript for slate…done regions and
// returns the ordered marker list. Words without a start timestamp are
// invisible to detection.
func Detect(tr *transcript.Transcript, logger *slog.Logger) []AudioMarker {
	if logger == nil {
		logger = logging.NewNop()
	}
	if tr == nil || len(tr.Words) == 0 {
		return nil
	}

	words := tr.Words
	var found []AudioMarker

	i := 0
	for i < len(words) {
		if words[i].Start == nil || Normalize(words[i].Word) != "slate" {
			i++
			continue
		}

		slateTime := *words[i].Start
		cutoff := slateTime + CommandWindow
		doneTime := cutoff
		doneFound := false
		var commands []string

		j := i + 1
		for j < len(words) {
			if words[j].Start == nil {
				j++
				continue
			}
			if *words[j].Start > cutoff {
				break
			}
			if Normalize(words[j].Word) == "done" {
				doneFound = true
				if words[j].End != nil {
					doneTime = *words[j].End
				}
				break
			}
			commands = append(commands, words[j].Word)
			j++
		}

		if len(commands) == 0 && !doneFound {
			// Unterminated slate without command tokens: no marker.
			i++
			continue
		}

		parsed := ParseCommands(commands)
		for _, notice := range parsed.Deprecations {
			logger.Warn(notice,
				logging.String(logging.FieldEventType, "deprecated_marker_syntax"),
				logging.Float64("timestamp", slateTime),
			)
		}

		marker := AudioMarker{
			Timestamp:  slateTime,
			Type:       classify(parsed),
			Commands:   commands,
			Parsed:     parsed,
			DoneTime:   doneTime,
			SourceFile: tr.SourceFile,
		}
		marker.CutPoint = cutPoint(marker, words)
		found = append(found, marker)

		if doneFound {
			i = j + 1
		} else {
			i = j
		}
	}
	return found
}

// classify applies the priority order: retroactive actions, the deprecated
// ending flag, sequence-opening fields, then standalone.
func classify(parsed *ParsedCommands) MarkerType {
	switch {
	case len(parsed.RetroactiveActions) > 0:
		return MarkerRetroactive
	case parsed.Ending != nil:
		// Deprecated ending flag: retroactive no-op for compatibility.
		return MarkerRetroactive
	case parsed.HasSequenceFields():
		return MarkerStart
	default:
		return MarkerStandalone
	}
}

func cutPoint(marker AudioMarker, words []transcript.Word) float64 {
	switch marker.Type {
	case MarkerStart:
		return forwardCutPoint(marker.DoneTime, words, marker.DoneTime)
	case MarkerStandalone:
		return forwardCutPoint(marker.DoneTime, words, marker.DoneTime+standaloneFallbackPad)
	case MarkerEnd:
		return EndCutPoint(marker.Timestamp, words)
	default:
		// Retroactive markers never cut; DoneTime kept for diagnostics.
		return marker.DoneTime
	}
}

// forwardCutPoint finds the first word starting after doneTime and backs
// off slightly so the cut lands just before clean speech.
func forwardCutPoint(doneTime float64, words []transcript.Word, fallback float64) float64 {
	for _, w := range words {
		if w.Start == nil {
			continue
		}
		if *w.Start > doneTime {
			cut := *w.Start - startPrePad
			if cut < doneTime {
				return doneTime
			}
			return cut
		}
	}
	return fallback
}

// EndCutPoint computes where a deprecated END marker would cut: just after
// the last word finishing before the slate, clamped to the slate time.
func EndCutPoint(slateTime float64, words []transcript.Word) float64 {
	found := false
	var lastEnd float64
	for _, w := range words {
		if w.End == nil {
			continue
		}
		if *w.End < slateTime && *w.End > lastEnd {
			lastEnd = *w.End
			found = true
		}
	}
	if !found {
		return slateTime
	}
	cut := lastEnd + endPostPad
	if cut > slateTime {
		return slateTime
	}
	return cut
}
