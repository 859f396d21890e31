package timeline

import (
	"encoding/xml"
	"strings"
	"testing"
)

func TestRationalTimeFrameAligned(t *testing.T) {
	cases := map[float64]string{
		0:   "0/30000s",
		1.0: "30030/30000s",
		2.5: "75075/30000s",
	}
	for seconds, want := range cases {
		if got := rationalTime(seconds); got != want {
			t.Errorf("rationalTime(%f) = %q, want %q", seconds, got, want)
		}
	}
}

func TestWriteFCPXMLStructure(t *testing.T) {
	var buf strings.Builder
	plan := testPlan()
	if err := WriteFCPXML(&buf, plan, ""); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, "<!DOCTYPE fcpxml>") {
		t.Fatal("doctype missing")
	}
	if !strings.Contains(out, `<fcpxml version="1.9">`) {
		t.Fatalf("version attribute:\n%s", out)
	}
	if !strings.Contains(out, `name="FFVideoFormat1080p30"`) || !strings.Contains(out, `frameDuration="1001/30000s"`) {
		t.Fatalf("format resource:\n%s", out)
	}
	if !strings.Contains(out, "<note>type=start topic=introduction take=2 hook=question</note>") {
		t.Fatalf("note element missing:\n%s", out)
	}

	// The document must parse back with the same clip count.
	var doc fcpxmlDoc
	if err := xml.Unmarshal([]byte(out[strings.Index(out, "<fcpxml"):]), &doc); err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	spine := doc.Library.Events[0].Projects[0].Sequences[0].Spine
	if len(spine.Clips) != len(plan.Segments) {
		t.Fatalf("spine clips: %d", len(spine.Clips))
	}
	if len(doc.Resources.Assets) != 2 {
		t.Fatalf("assets: %d", len(doc.Resources.Assets))
	}
	if doc.Resources.Assets[0].ID != "r2" {
		t.Fatalf("asset id: %s", doc.Resources.Assets[0].ID)
	}

	// Offsets accumulate from segment durations: 6s then 4s.
	if spine.Clips[0].Offset != "0/30000s" {
		t.Fatalf("first offset: %s", spine.Clips[0].Offset)
	}
	if spine.Clips[1].Offset != rationalTime(6.0) {
		t.Fatalf("second offset: %s", spine.Clips[1].Offset)
	}
	if spine.Clips[0].Note == "" {
		t.Fatal("marker note missing on first clip")
	}
}
