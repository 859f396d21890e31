package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"roughcut/internal/config"
	"roughcut/internal/daemon"
	"roughcut/internal/logging"
	"roughcut/internal/media/ffprobe"
	"roughcut/internal/media/loudness"
	"roughcut/internal/roughcut"
	"roughcut/internal/services/whisper"
	"roughcut/internal/timeline"
)

func newCutCommand(ctx *commandContext) *cobra.Command {
	var (
		styleFlag   string
		targetFlag  float64
		markersFlag bool
		smartFlag   bool
		fcpxmlFlag  bool
		outputFlag  string
	)

	cmd := &cobra.Command{
		Use:   "cut <media files or footage directory>",
		Short: "Generate a rough cut timeline from transcribed footage",
		Long: `Analyzes the given clips (or every clip under a footage directory),
extracts segments from spoken audio markers or quality scoring, and writes
an EDL plus a removed-footage EDL next to it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			media, err := resolveMedia(args)
			if err != nil {
				return err
			}

			style := strings.TrimSpace(styleFlag)
			if style == "" {
				style = cfg.RoughCut.DefaultStyle
			}

			engine, err := buildEngine(cfg, logger)
			if err != nil {
				return err
			}
			for _, path := range media {
				if err := engine.AddMedia(cmd.Context(), path); err != nil {
					return err
				}
			}

			plan, err := engine.CreateRoughCut(roughcut.Options{
				Style:           style,
				TargetDuration:  targetFlag,
				UseSmartFeature: smartFlag,
				UseAudioMarkers: markersFlag,
			})
			if err != nil {
				return err
			}

			styleCfg, err := roughcut.StyleFor(style)
			if err != nil {
				return err
			}
			opts := timeline.EDLOptions{
				Title:      fmt.Sprintf("ROUGH CUT %s", styleCfg.Name),
				FrameRate:  cfg.RoughCut.FrameRate,
				PreHandle:  styleCfg.PreHandle,
				PostHandle: styleCfg.PostHandle,
			}

			edlPath := strings.TrimSpace(outputFlag)
			if edlPath == "" {
				edlPath = fmt.Sprintf("rough_cut_auto_%s.edl", styleCfg.Name)
			}
			if err := timeline.WriteEDLFile(edlPath, plan, opts); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, roughcut.Describe(plan))
			fmt.Fprintf(out, "EDL written to %s\n", edlPath)

			if fcpxmlFlag {
				fcpxmlPath := strings.TrimSuffix(edlPath, filepath.Ext(edlPath)) + ".fcpxml"
				if err := timeline.WriteFCPXMLFile(fcpxmlPath, plan, opts.Title); err != nil {
					return err
				}
				fmt.Fprintf(out, "FCPXML written to %s\n", fcpxmlPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&styleFlag, "style", "s", "", "Cut style (default from config; see styles below)")
	cmd.Flags().Float64VarP(&targetFlag, "target", "t", 0, "Target duration in seconds (0 uses the style ratio)")
	cmd.Flags().BoolVar(&markersFlag, "markers", true, "Use spoken audio markers when present")
	cmd.Flags().BoolVar(&smartFlag, "smart", false, "Use the narrative arc for documentary-family styles")
	cmd.Flags().BoolVar(&fcpxmlFlag, "fcpxml", false, "Also write an FCPXML project")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "EDL output path")

	styles := strings.Join(roughcut.StyleNames(), ", ")
	cmd.Long += "\n\nAvailable styles: " + styles + "."
	return cmd
}

// resolveMedia expands directory arguments into their media files.
func resolveMedia(args []string) ([]string, error) {
	var media []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if info.IsDir() {
			found, err := daemon.CollectMedia(arg)
			if err != nil {
				return nil, err
			}
			media = append(media, found...)
			continue
		}
		media = append(media, arg)
	}
	if len(media) == 0 {
		return nil, fmt.Errorf("no media files found")
	}
	return media, nil
}

func buildEngine(cfg *config.Config, logger *slog.Logger) (*roughcut.Engine, error) {
	transcriber, err := whisper.New(whisper.FromAppConfig(cfg))
	if err != nil {
		return nil, err
	}
	return roughcut.NewEngine(cfg, logger,
		roughcut.WithProber(ffprobe.NewProber(
			cfg.FFprobeBinary(),
			time.Duration(cfg.Workflow.FFprobeTimeout)*time.Second)),
		roughcut.WithNormalizer(loudness.New(
			cfg.FFmpegBinary(),
			cfg.RoughCut.LoudnessTarget,
			cfg.RoughCut.LoudnessTolerance,
			time.Duration(cfg.Workflow.FFmpegCutTimeout)*time.Second)),
		roughcut.WithTranscriber(serviceTranscriber{svc: transcriber}),
	), nil
}

// serviceTranscriber adapts the whisper service to the engine's
// transcriber contract.
type serviceTranscriber struct {
	svc whisper.Service
}

func (t serviceTranscriber) Transcribe(ctx context.Context, mediaPath string) (string, string, error) {
	result, err := t.svc.Transcribe(ctx, mediaPath)
	if err != nil {
		return "", "", err
	}
	return result.SRTPath, result.JSONPath, nil
}
