package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"roughcut/internal/markers"
	"roughcut/internal/transcript"
)

func newMarkersCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "markers <media file or transcript json>",
		Short: "Show the audio markers detected in a transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if transcript.IsMediaFile(path) {
				path = transcript.TranscriptPath(path)
			}
			tr, err := transcript.Load(path)
			if err != nil {
				return err
			}

			found := markers.Detect(tr, nil)
			out := cmd.OutOrStdout()
			if jsonFlag {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(found)
			}
			if len(found) == 0 {
				fmt.Fprintln(out, "No audio markers detected.")
				return nil
			}

			rows := make([][]string, 0, len(found))
			for _, marker := range found {
				rows = append(rows, []string{
					fmt.Sprintf("%.2f", marker.Timestamp),
					string(marker.Type),
					fmt.Sprintf("%.2f", marker.CutPoint),
					markerScene(marker),
					markerTake(marker),
					markerSummary(marker),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Time", "Type", "Cut", "Scene", "Take", "Commands"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit markers as JSON")
	return cmd
}

func markerScene(marker markers.AudioMarker) string {
	if marker.Parsed == nil || marker.Parsed.SceneNumber == nil {
		return ""
	}
	scene := fmt.Sprintf("%g", *marker.Parsed.SceneNumber)
	if marker.Parsed.SceneName != "" {
		scene += " " + marker.Parsed.SceneName
	}
	return scene
}

func markerTake(marker markers.AudioMarker) string {
	if marker.Parsed == nil || marker.Parsed.Take == nil {
		return ""
	}
	return fmt.Sprintf("%d", *marker.Parsed.Take)
}

// markerSummary condenses the parsed fields a cutter cares about.
func markerSummary(marker markers.AudioMarker) string {
	parsed := marker.Parsed
	if parsed == nil {
		return strings.Join(marker.Commands, " ")
	}
	var parts []string
	if parsed.SegmentType != "" {
		parts = append(parts, "type="+parsed.SegmentType)
	}
	if parsed.Quality != "" {
		parts = append(parts, "quality="+parsed.Quality)
	}
	if parsed.Hook != "" {
		parts = append(parts, "hook="+parsed.Hook)
	}
	if parsed.Title != "" {
		parts = append(parts, "title="+markers.RenderTitle(parsed.Title, parsed.TitleType))
	}
	if parsed.Chapter != "" {
		parts = append(parts, "chapter="+parsed.Chapter)
	}
	if parsed.Score != "" {
		parts = append(parts, "score="+parsed.Score)
	}
	if len(parsed.RetroactiveActions) > 0 {
		parts = append(parts, "apply="+strings.Join(parsed.RetroactiveActions, ","))
	}
	if len(parts) == 0 {
		return strings.Join(marker.Commands, " ")
	}
	return strings.Join(parts, " ")
}
