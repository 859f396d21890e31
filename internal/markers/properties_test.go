package markers

import (
	"testing"

	"pgregory.net/rapid"

	"roughcut/internal/transcript"
)

// Random transcripts containing well-formed slate regions must always
// produce markers that respect the command window and cut ordering.
func TestDetectInvariants(t *testing.T) {
	commandWords := []string{"mark", "take", "one", "two", "scene", "step", "best", "hook", "question"}

	rapid.Check(t, func(t *rapid.T) {
		var words []transcript.Word
		cursor := rapid.Float64Range(0, 5).Draw(t, "lead")

		appendWord := func(text string) {
			gap := rapid.Float64Range(0.1, 1.5).Draw(t, "gap")
			start := cursor + gap
			end := start + rapid.Float64Range(0.1, 0.5).Draw(t, "dur")
			words = append(words, transcript.Word{Word: text, Start: &start, End: &end})
			cursor = end
		}

		regions := rapid.IntRange(1, 4).Draw(t, "regions")
		for r := 0; r < regions; r++ {
			appendWord("slate")
			n := rapid.IntRange(1, 5).Draw(t, "ncmd")
			for k := 0; k < n; k++ {
				appendWord(rapid.SampledFrom(commandWords).Draw(t, "cmd"))
			}
			appendWord("done")
			if rapid.Bool().Draw(t, "speech") {
				appendWord("content")
			}
		}

		found := Detect(&transcript.Transcript{Words: words}, nil)
		if len(found) != regions {
			t.Fatalf("expected %d markers, got %d", regions, len(found))
		}
		for _, m := range found {
			if !(m.Timestamp < m.DoneTime) {
				t.Fatalf("done before slate: %+v", m)
			}
			if m.DoneTime > m.Timestamp+CommandWindow {
				t.Fatalf("done beyond command window: %+v", m)
			}
			if m.Type == MarkerStart || m.Type == MarkerStandalone {
				if m.CutPoint < m.DoneTime {
					t.Fatalf("cut before done: %+v", m)
				}
			}
		}
	})
}
