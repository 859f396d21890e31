package timeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"roughcut/internal/analysis"
	"roughcut/internal/roughcut"
)

// EDLOptions controls EDL rendering. FrameRate defaults to 30 and the
// handles default to the plan style's values when set by the caller.
type EDLOptions struct {
	Title      string
	FrameRate  int
	PreHandle  float64
	PostHandle float64
}

func (o EDLOptions) frameRate() int {
	if o.FrameRate <= 0 {
		return 30
	}
	return o.FrameRate
}

// Timecode renders seconds as non-drop HH:MM:SS:FF.
func Timecode(seconds float64, fps int) string {
	if seconds < 0 {
		seconds = 0
	}
	totalFrames := int(seconds*float64(fps) + 0.5)
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	return fmt.Sprintf("%02d:%02d:%02d:%02d",
		totalSeconds/3600, (totalSeconds/60)%60, totalSeconds%60, frames)
}

// reelName derives the 8-character reel field from a source path.
func reelName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 32
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, base)
	if len(cleaned) > 8 {
		cleaned = cleaned[:8]
	}
	if cleaned == "" {
		cleaned = "UNKNOWN"
	}
	return cleaned
}

// WriteEDL renders a plan as a CMX-style EDL: each segment becomes one
// video event with its source range widened by the handles and clamped to
// the clip bounds; record positions accumulate from the widened durations.
func WriteEDL(w io.Writer, plan *roughcut.Plan, opts EDLOptions) error {
	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("ROUGH CUT %s", strings.ToUpper(plan.Style))
	}
	if _, err := fmt.Fprintf(w, "TITLE: %s\nFCM: NON-DROP FRAME\n\n", title); err != nil {
		return err
	}
	return writeEvents(w, plan, plan.Segments, opts)
}

func writeEvents(w io.Writer, plan *roughcut.Plan, segments []analysis.Segment, opts EDLOptions) error {
	fps := opts.frameRate()
	recCursor := 0.0
	for i, seg := range segments {
		srcIn := seg.StartTime - opts.PreHandle
		if srcIn < 0 {
			srcIn = 0
		}
		srcOut := seg.EndTime + opts.PostHandle
		if limit := plan.ClipDuration(seg.SourceFile); limit > 0 && srcOut > limit {
			srcOut = limit
		}
		dur := srcOut - srcIn

		_, err := fmt.Fprintf(w, "%03d  %-8s V     C        %s %s %s %s\n",
			i+1, reelName(seg.SourceFile),
			Timecode(srcIn, fps), Timecode(srcOut, fps),
			Timecode(recCursor, fps), Timecode(recCursor+dur, fps))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "* FROM CLIP NAME: %s\n", filepath.Base(seg.SourceFile)); err != nil {
			return err
		}
		if seg.Text != "" {
			if _, err := fmt.Fprintf(w, "* COMMENT: %s\n", seg.Text); err != nil {
				return err
			}
		}
		if seg.Topic != "" {
			if _, err := fmt.Fprintf(w, "* TOPIC: %s\n", seg.Topic); err != nil {
				return err
			}
		}
		if seg.SegmentType != "" {
			if _, err := fmt.Fprintf(w, "* TYPE: %s\n", seg.SegmentType); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		recCursor += dur
	}
	return nil
}

// WriteRemovedEDL lists every removed segment with its reason and score,
// so discarded footage stays reviewable.
func WriteRemovedEDL(w io.Writer, plan *roughcut.Plan, opts EDLOptions) error {
	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("REMOVED FOOTAGE %s", strings.ToUpper(plan.Style))
	}
	if _, err := fmt.Fprintf(w, "TITLE: %s\nFCM: NON-DROP FRAME\n\n", title); err != nil {
		return err
	}
	fps := opts.frameRate()
	recCursor := 0.0
	for i, rem := range plan.Removed {
		dur := rem.EndTime - rem.StartTime
		if dur < 0 {
			dur = 0
		}
		_, err := fmt.Fprintf(w, "%03d  %-8s V     C        %s %s %s %s\n",
			i+1, reelName(rem.SourceFile),
			Timecode(rem.StartTime, fps), Timecode(rem.EndTime, fps),
			Timecode(recCursor, fps), Timecode(recCursor+dur, fps))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "* FROM CLIP NAME: %s\n", filepath.Base(rem.SourceFile)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "* REASON: %s (score %.2f)\n\n", rem.Reason, rem.OriginalScore); err != nil {
			return err
		}
		recCursor += dur
	}
	return nil
}

// WriteHookEDL renders only the hook-flagged segments, for hook testing.
func WriteHookEDL(w io.Writer, plan *roughcut.Plan, opts EDLOptions) error {
	hooks := roughcut.HookSegments(plan)
	if opts.Title == "" {
		opts.Title = fmt.Sprintf("HOOK TESTS %s", strings.ToUpper(plan.Style))
	}
	if _, err := fmt.Fprintf(w, "TITLE: %s\nFCM: NON-DROP FRAME\n\n", opts.Title); err != nil {
		return err
	}
	return writeEvents(w, plan, hooks, opts)
}

// WriteEDLFile writes the main EDL and its removed-footage sibling
// (<stem>_removed.edl) to disk.
func WriteEDLFile(path string, plan *roughcut.Plan, opts EDLOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	main, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create edl: %w", err)
	}
	defer main.Close()
	if err := WriteEDL(main, plan, opts); err != nil {
		return fmt.Errorf("write edl: %w", err)
	}

	removedPath := strings.TrimSuffix(path, filepath.Ext(path)) + "_removed.edl"
	removed, err := os.Create(removedPath)
	if err != nil {
		return fmt.Errorf("create removed edl: %w", err)
	}
	defer removed.Close()
	if err := WriteRemovedEDL(removed, plan, opts); err != nil {
		return fmt.Errorf("write removed edl: %w", err)
	}
	return nil
}
