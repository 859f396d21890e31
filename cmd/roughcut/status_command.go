package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"roughcut/internal/daemon"
	"roughcut/internal/queue"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show queue depths and recent background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runCtx := cmd.Context()
			jobs, err := store.List(runCtx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonFlag {
				details := make([]daemon.JobDetail, 0, len(jobs))
				for _, job := range jobs {
					details = append(details, daemon.DetailFromJob(job))
				}
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(details)
			}

			var statsRows [][]string
			for _, kind := range []queue.JobKind{queue.KindTranscription, queue.KindRoughCut} {
				stats, err := store.StatsByKind(runCtx, kind)
				if err != nil {
					return err
				}
				statsRows = append(statsRows, []string{
					string(kind),
					strconv.Itoa(stats.Pending),
					strconv.Itoa(stats.Running),
					strconv.Itoa(stats.Completed),
					strconv.Itoa(stats.Failed),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Queue", "Pending", "Running", "Completed", "Failed"},
				statsRows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
			))

			if len(jobs) == 0 {
				fmt.Fprintln(out, "No jobs recorded.")
				return nil
			}
			if limitFlag > 0 && len(jobs) > limitFlag {
				jobs = jobs[:limitFlag]
			}
			jobRows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				detail := job.ErrorMessage
				if detail == "" {
					detail = job.ResultPath
				}
				jobRows = append(jobRows, []string{
					string(job.Kind),
					string(job.Status),
					job.InputPath,
					yesNo(job.UseAudioMarkers),
					detail,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Kind", "Status", "Input", "Markers", "Result / Error"},
				jobRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit job details as JSON")
	cmd.Flags().IntVar(&limitFlag, "limit", 20, "Maximum jobs to list (0 for all)")
	return cmd
}
