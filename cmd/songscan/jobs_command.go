package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"songscan/internal/config"
	"songscan/internal/store"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List recent jobs and their progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				jobs, err := st.ListJobs(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(jobs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No jobs recorded")
					return nil
				}

				rows := make([][]string, 0, len(jobs))
				for _, job := range jobs {
					errMsg := job.ErrorMessage
					if len(errMsg) > 60 {
						errMsg = errMsg[:57] + "..."
					}
					rows = append(rows, []string{
						job.ID,
						job.VideoID,
						string(job.Status),
						strconv.Itoa(job.Progress) + "%",
						job.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
						errMsg,
					})
				}
				headers := []string{"Job", "Video", "Status", "Progress", "Updated", "Error"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of jobs to list")
	return cmd
}
