package analysis

import (
	"log/slog"
	"sort"
	"strings"

	"roughcut/internal/logging"
	"roughcut/internal/markers"
	"roughcut/internal/transcript"
)

const (
	segmentBoundaryPad = 0.3
	segmentEndFallback = 10.0
	defaultMarkerScore = 0.5
)

// ExtractSegments turns an ordered marker list into segments over one
// clip's transcript. Retroactive markers amend the most recent segment;
// segments flagged for removal are dropped before the final ordering.
func ExtractSegments(found []markers.AudioMarker, tr *transcript.Transcript, clipDuration float64, logger *slog.Logger) []Segment {
	if logger == nil {
		logger = logging.NewNop()
	}
	if len(found) == 0 || tr == nil {
		return nil
	}

	ordered := append([]markers.AudioMarker(nil), found...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp < ordered[j].Timestamp
	})

	var segments []Segment
	for idx, m := range ordered {
		switch m.Type {
		case markers.MarkerRetroactive:
			applyRetroactive(segments, m, logger)

		case markers.MarkerStart, markers.MarkerStandalone:
			seg := openSegment(m, ordered, idx, tr, clipDuration)
			segments = append(segments, seg)

		case markers.MarkerEnd:
			// Deprecated path: END closes the open segment at its cut point.
			if n := len(segments); n > 0 && segments[n-1].EndTime > m.CutPoint {
				segments[n-1].EndTime = m.CutPoint
				segments[n-1].Text = segmentText(tr, segments[n-1].StartTime, segments[n-1].EndTime)
			}
		}
	}

	kept := segments[:0]
	for _, seg := range segments {
		if seg.Marker != nil && seg.Marker.remove {
			logger.Info("segment removed by retroactive action",
				logging.String(logging.FieldSource, seg.SourceFile),
				logging.Float64("start", seg.StartTime),
			)
			continue
		}
		kept = append(kept, seg)
	}

	sort.SliceStable(kept, func(i, j int) bool { return KeyLess(kept[i], kept[j]) })
	return kept
}

// applyRetroactive amends the most recently emitted segment in place. A
// retroactive best demotes whichever earlier segment held best to good.
func applyRetroactive(segments []Segment, m markers.AudioMarker, logger *slog.Logger) {
	if len(segments) == 0 {
		logger.Warn("retroactive marker with no prior segment",
			logging.Float64("timestamp", m.Timestamp),
		)
		return
	}
	target := &segments[len(segments)-1]
	if target.Marker == nil {
		target.Marker = &MarkerInfo{}
	}
	parsed := m.Parsed
	if parsed == nil {
		return
	}

	target.Marker.Actions = append(target.Marker.Actions, parsed.RetroactiveActions...)
	for _, action := range parsed.RetroactiveActions {
		switch action {
		case "remove", "skip":
			target.Marker.remove = true
		case "hook":
			target.Marker.Hook = "retroactive"
		case "quote":
			target.Marker.Quote = true
		}
	}
	if parsed.Score != "" {
		if parsed.Score == "best" {
			demotePriorBest(segments[:len(segments)-1])
		}
		target.Marker.Quality = parsed.Score
		target.Score = scoreValue(parsed.ScoreLevel)
	}
}

func demotePriorBest(prior []Segment) {
	for i := range prior {
		if prior[i].Marker != nil && prior[i].Marker.Quality == "best" {
			prior[i].Marker.Quality = "good"
			if level, ok := markers.ScoreLevel("good"); ok {
				prior[i].Score = scoreValue(level)
			}
		}
	}
}

func openSegment(m markers.AudioMarker, ordered []markers.AudioMarker, idx int, tr *transcript.Transcript, clipDuration float64) Segment {
	start := m.CutPoint
	end := segmentEnd(ordered, idx, tr, clipDuration, start)

	seg := Segment{
		SourceFile:  m.SourceFile,
		StartTime:   start,
		EndTime:     end,
		Text:        segmentText(tr, start, end),
		Score:       defaultMarkerScore,
		SegmentType: strings.ToLower(string(m.Type)),
		Marker:      markerInfo(m),
	}
	if seg.SourceFile == "" {
		seg.SourceFile = tr.SourceFile
	}
	if p := m.Parsed; p != nil {
		if p.SegmentType != "" {
			seg.SegmentType = p.SegmentType
		}
		if p.Quality != "" {
			seg.Marker.Quality = p.Quality
			if level, ok := markers.ScoreLevel(p.Quality); ok {
				seg.Score = scoreValue(level)
			}
		}
		if p.Chapter != "" {
			seg.Topic = p.Chapter
		}
	}
	return seg
}

// segmentEnd resolves a new segment's end time: the next marker bounds it
// (padded past the last word before that slate), otherwise the clip
// duration, the transcript tail, or a fixed fallback, in that order.
func segmentEnd(ordered []markers.AudioMarker, idx int, tr *transcript.Transcript, clipDuration, start float64) float64 {
	if idx+1 < len(ordered) {
		next := ordered[idx+1]
		end := next.Timestamp
		if lastEnd, ok := lastWordEndBefore(tr, next.Timestamp); ok {
			padded := lastEnd + segmentBoundaryPad
			if padded < end {
				end = padded
			}
		}
		if end > start {
			return end
		}
		return start
	}
	if clipDuration > 0 {
		return clipDuration
	}
	if tail := tr.LastWordEnd(); tail > start {
		return tail
	}
	return start + segmentEndFallback
}

func lastWordEndBefore(tr *transcript.Transcript, cutoff float64) (float64, bool) {
	found := false
	var last float64
	for _, w := range tr.Words {
		if w.End == nil {
			continue
		}
		if *w.End < cutoff && *w.End > last {
			last = *w.End
			found = true
		}
	}
	return last, found
}

// segmentText joins the surface forms of words fully inside the range.
func segmentText(tr *transcript.Transcript, start, end float64) string {
	var parts []string
	for _, w := range tr.Words {
		if !w.HasTiming() {
			continue
		}
		if *w.Start >= start && *w.End <= end {
			parts = append(parts, w.Word)
		}
	}
	return strings.Join(parts, " ")
}

func markerInfo(m markers.AudioMarker) *MarkerInfo {
	info := &MarkerInfo{}
	p := m.Parsed
	if p == nil {
		return info
	}
	info.SceneNumber = p.SceneNumber
	info.SceneName = p.SceneName
	info.Take = p.Take
	info.Order = p.Order
	info.Step = p.Step
	info.Emotion = p.Emotion
	info.Energy = p.Energy
	info.Hook = p.Hook
	info.Chapter = p.Chapter
	info.Title = p.Title
	info.TitleType = p.TitleType
	return info
}

func scoreValue(level int) float64 {
	return float64(level) / 3.0
}
