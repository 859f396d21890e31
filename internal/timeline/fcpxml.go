package timeline

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"roughcut/internal/analysis"
	"roughcut/internal/roughcut"
)

// FCPXML document model, version 1.9, rendered against a single 1080p30
// format resource. Times are rational N/30000s values aligned to the
// 1001/30000s frame duration.
type fcpxmlDoc struct {
	XMLName   xml.Name        `xml:"fcpxml"`
	Version   string          `xml:"version,attr"`
	Resources fcpxmlResources `xml:"resources"`
	Library   fcpxmlLibrary   `xml:"library"`
}

type fcpxmlResources struct {
	Formats []fcpxmlFormat `xml:"format"`
	Assets  []fcpxmlAsset  `xml:"asset"`
}

type fcpxmlFormat struct {
	ID            string `xml:"id,attr"`
	Name          string `xml:"name,attr"`
	FrameDuration string `xml:"frameDuration,attr"`
	Width         int    `xml:"width,attr"`
	Height        int    `xml:"height,attr"`
}

type fcpxmlAsset struct {
	ID       string `xml:"id,attr"`
	Name     string `xml:"name,attr"`
	Src      string `xml:"src,attr"`
	Format   string `xml:"format,attr"`
	Duration string `xml:"duration,attr,omitempty"`
	HasVideo string `xml:"hasVideo,attr"`
	HasAudio string `xml:"hasAudio,attr"`
}

type fcpxmlLibrary struct {
	Events []fcpxmlEvent `xml:"event"`
}

type fcpxmlEvent struct {
	Name     string          `xml:"name,attr"`
	Projects []fcpxmlProject `xml:"project"`
}

type fcpxmlProject struct {
	Name      string           `xml:"name,attr"`
	Sequences []fcpxmlSequence `xml:"sequence"`
}

type fcpxmlSequence struct {
	Format   string      `xml:"format,attr"`
	Duration string      `xml:"duration,attr"`
	Spine    fcpxmlSpine `xml:"spine"`
}

type fcpxmlSpine struct {
	Clips []fcpxmlAssetClip `xml:"asset-clip"`
}

type fcpxmlAssetClip struct {
	Ref      string `xml:"ref,attr"`
	Name     string `xml:"name,attr"`
	Offset   string `xml:"offset,attr"`
	Start    string `xml:"start,attr"`
	Duration string `xml:"duration,attr"`
	Note     string `xml:"note,omitempty"`
}

const (
	fcpxmlVersion    = "1.9"
	timebase         = 30000
	frameTicks       = 1001
	formatResourceID = "r1"
)

// rationalTime renders seconds as a frame-aligned N/30000s value.
func rationalTime(seconds float64) string {
	frames := math.Round(seconds * timebase / frameTicks)
	if frames < 0 {
		frames = 0
	}
	return fmt.Sprintf("%d/%ds", int64(frames)*frameTicks, timebase)
}

// WriteFCPXML renders a plan as FCPXML 1.9: one asset per distinct clip
// and one asset-clip per segment on a single spine. Marker metadata rides
// in each clip's note element.
func WriteFCPXML(w io.Writer, plan *roughcut.Plan, projectName string) error {
	if projectName == "" {
		projectName = fmt.Sprintf("Rough Cut %s", strings.ToUpper(plan.Style))
	}

	doc := fcpxmlDoc{
		Version: fcpxmlVersion,
		Resources: fcpxmlResources{
			Formats: []fcpxmlFormat{{
				ID:            formatResourceID,
				Name:          "FFVideoFormat1080p30",
				FrameDuration: fmt.Sprintf("%d/%ds", frameTicks, timebase),
				Width:         1920,
				Height:        1080,
			}},
		},
	}

	assetIDs := make(map[string]string)
	for _, clip := range plan.Clips {
		if _, ok := assetIDs[clip.FilePath]; ok {
			continue
		}
		id := fmt.Sprintf("r%d", len(assetIDs)+2)
		assetIDs[clip.FilePath] = id
		doc.Resources.Assets = append(doc.Resources.Assets, fcpxmlAsset{
			ID:       id,
			Name:     clip.BaseName(),
			Src:      "file://" + clip.FilePath,
			Format:   formatResourceID,
			Duration: rationalTime(clip.Duration),
			HasVideo: "1",
			HasAudio: "1",
		})
	}

	spine := fcpxmlSpine{}
	offset := 0.0
	for _, seg := range plan.Segments {
		ref, ok := assetIDs[seg.SourceFile]
		if !ok {
			// Segment on an unanalyzed source: register an asset on the fly.
			ref = fmt.Sprintf("r%d", len(assetIDs)+2)
			assetIDs[seg.SourceFile] = ref
			doc.Resources.Assets = append(doc.Resources.Assets, fcpxmlAsset{
				ID:       ref,
				Name:     strings.TrimSuffix(filepath.Base(seg.SourceFile), filepath.Ext(seg.SourceFile)),
				Src:      "file://" + seg.SourceFile,
				Format:   formatResourceID,
				HasVideo: "1",
				HasAudio: "1",
			})
		}
		dur := seg.Duration()
		spine.Clips = append(spine.Clips, fcpxmlAssetClip{
			Ref:      ref,
			Name:     filepath.Base(seg.SourceFile),
			Offset:   rationalTime(offset),
			Start:    rationalTime(seg.StartTime),
			Duration: rationalTime(dur),
			Note:     clipNote(seg),
		})
		offset += dur
	}

	doc.Library = fcpxmlLibrary{
		Events: []fcpxmlEvent{{
			Name: "Rough Cuts",
			Projects: []fcpxmlProject{{
				Name: projectName,
				Sequences: []fcpxmlSequence{{
					Format:   formatResourceID,
					Duration: rationalTime(offset),
					Spine:    spine,
				}},
			}},
		}},
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<!DOCTYPE fcpxml>\n"); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode fcpxml: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFCPXMLFile renders the plan to a file, creating parent directories.
func WriteFCPXMLFile(path string, plan *roughcut.Plan, projectName string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create fcpxml: %w", err)
	}
	defer f.Close()
	if err := WriteFCPXML(f, plan, projectName); err != nil {
		return fmt.Errorf("write fcpxml: %w", err)
	}
	return nil
}

// clipNote serializes a segment's marker metadata for the note element.
func clipNote(seg analysis.Segment) string {
	var parts []string
	if seg.SegmentType != "" {
		parts = append(parts, "type="+seg.SegmentType)
	}
	if seg.Topic != "" {
		parts = append(parts, "topic="+seg.Topic)
	}
	if m := seg.Marker; m != nil {
		if m.SceneNumber != nil {
			parts = append(parts, fmt.Sprintf("scene=%g", *m.SceneNumber))
		}
		if m.SceneName != "" {
			parts = append(parts, "scene_name="+m.SceneName)
		}
		if m.Take != nil {
			parts = append(parts, fmt.Sprintf("take=%d", *m.Take))
		}
		if m.Quality != "" {
			parts = append(parts, "quality="+m.Quality)
		}
		if m.Hook != "" {
			parts = append(parts, "hook="+m.Hook)
		}
		if m.Chapter != "" {
			parts = append(parts, "chapter="+m.Chapter)
		}
	}
	return strings.Join(parts, " ")
}
