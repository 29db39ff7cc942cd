package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"trackmux/internal/preflight"
	"trackmux/internal/profile"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var profilePath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify external tools and directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var prof *profile.Profile
			if strings.TrimSpace(profilePath) != "" {
				prof, err = loadProfile(profilePath)
				if err != nil {
					return err
				}
			}

			results := preflight.RunAll(cfg, prof)
			rows := make([][]string, 0, len(results))
			for _, res := range results {
				status := "OK"
				switch {
				case !res.Passed && res.Optional:
					status = "WARN"
				case !res.Passed:
					status = "FAIL"
				}
				rows = append(rows, []string{res.Name, status, res.Detail})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows))

			if err := preflight.Error(results); err != nil {
				return err
			}
			fmt.Fprintln(out, "All required checks passed")
			return nil
		},
	}

	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Also check the directories a profile uses")
	return cmd
}
