package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"songscan/internal/analyzer"
	"songscan/internal/config"
	"songscan/internal/daemon"
	"songscan/internal/logging"
	"songscan/internal/media"
	"songscan/internal/preflight"
	"songscan/internal/queue"
	"songscan/internal/store"
	"songscan/internal/worker"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the analysis daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			st, err := store.Open(cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			q, err := queue.New(cfg)
			if err != nil {
				return fmt.Errorf("connect queue: %w", err)
			}
			defer q.Close()

			if !skipPreflight {
				if err := runPreflight(cmd, cfg, q); err != nil {
					return err
				}
			}

			acquirer, err := media.FromConfig(cfg)
			if err != nil {
				return err
			}
			an, err := analyzer.FromConfig(cfg)
			if err != nil {
				return err
			}

			pipeline := worker.NewPipeline(cfg, st, acquirer, media.NewNormalizer(cfg), an, logging.NewComponentLogger(logger, "pipeline"))
			manager := worker.NewManager(cfg, q, pipeline, logging.NewComponentLogger(logger, "worker"))

			d, err := daemon.New(cfg, st, q, manager, logging.NewComponentLogger(logger, "daemon"))
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := d.Start(runCtx); err != nil {
				return err
			}
			defer d.Stop()

			<-runCtx.Done()
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip environment checks before starting")
	return cmd
}

func runPreflight(cmd *cobra.Command, cfg *config.Config, q *queue.Client) error {
	results := preflight.RunAll(cmd.Context(), cfg, q)
	for _, status := range preflight.CheckSystemDeps(cfg) {
		result := preflight.Result{
			Name:   status.Name,
			Passed: status.Available || status.Optional,
			Detail: status.Detail,
		}
		results = append(results, result)
	}

	out := cmd.OutOrStdout()
	failed := false
	for _, result := range results {
		mark := "ok"
		if !result.Passed {
			mark = "FAIL"
			failed = true
		}
		fmt.Fprintf(out, "[%s] %s: %s\n", mark, result.Name, result.Detail)
	}
	if failed {
		return errors.New("preflight checks failed (use --skip-preflight to bypass)")
	}
	return nil
}
