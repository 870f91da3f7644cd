package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"songscan/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := preflight.CheckSystemDeps(cfg)
			rows := make([][]string, 0, len(statuses))
			missing := false
			for _, status := range statuses {
				state := "found"
				if !status.Available {
					state = "missing"
					if !status.Optional {
						missing = true
					}
				}
				detail := status.Detail
				if detail == "" {
					detail = status.Description
				}
				rows = append(rows, []string{status.Name, status.Command, state, detail})
			}

			headers := []string{"Dependency", "Command", "State", "Detail"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))

			if missing {
				return fmt.Errorf("required dependencies are missing")
			}
			return nil
		},
	}
}
