package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"songscan/internal/config"
	"songscan/internal/queue"
	"songscan/internal/store"
)

func newEnqueueCommand(ctx *commandContext) *cobra.Command {
	var videoID string
	var title string

	cmd := &cobra.Command{
		Use:   "enqueue <source-ref>",
		Short: "Submit a media reference for analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceRef := strings.TrimSpace(args[0])
			if sourceRef == "" {
				return fmt.Errorf("source reference must not be empty")
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				q, err := queue.New(cfg)
				if err != nil {
					return fmt.Errorf("connect queue: %w", err)
				}
				defer q.Close()

				jobID := uuid.NewString()
				if videoID == "" {
					videoID = uuid.NewString()
				}

				cmdCtx := cmd.Context()
				if err := st.UpsertVideo(cmdCtx, store.Video{ID: videoID, Title: title, Status: store.VideoPending}); err != nil {
					return fmt.Errorf("record video: %w", err)
				}
				job := store.Job{
					ID:        jobID,
					VideoID:   videoID,
					SourceRef: sourceRef,
					Status:    store.JobQueued,
				}
				if err := st.UpsertJob(cmdCtx, job); err != nil {
					return fmt.Errorf("record job: %w", err)
				}

				msg := queue.Message{JobID: jobID, VideoID: videoID, SourceRef: sourceRef}
				if err := q.Enqueue(cmdCtx, msg); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Enqueued job %s (video %s)\n", jobID, videoID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&videoID, "video", "", "Existing video id to attach the job to")
	cmd.Flags().StringVar(&title, "title", "", "Video title recorded alongside the job")
	return cmd
}
