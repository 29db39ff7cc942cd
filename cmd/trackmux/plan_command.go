package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"trackmux/internal/matcher"
	"trackmux/internal/textutil"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var profilePath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show how inputs pair with names without processing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, err := loadProfile(profilePath)
			if err != nil {
				return err
			}
			opts, err := prof.MatcherOptions()
			if err != nil {
				return err
			}
			pairs, err := matcher.Match(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(pairs) == 0 {
				fmt.Fprintln(out, "No input files found")
				return nil
			}

			rows := make([][]string, 0, len(pairs))
			weak := 0
			for _, pair := range pairs {
				match := textutil.Similarity(pair.Input, pair.Title)
				if match.Confidence == textutil.ConfidenceNone {
					weak++
				}
				rows = append(rows, []string{
					strconv.Itoa(pair.Index),
					filepath.Base(pair.Input),
					filepath.Base(pair.Output),
					fmt.Sprintf("%.2f %s", match.Score, match.Confidence),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Input", "Output", "Similarity"},
				rows,
				0,
			))
			fmt.Fprintf(out, "%d %s planned", len(pairs), textutil.Ternary(len(pairs) == 1, "file", "files"))
			if weak > 0 {
				fmt.Fprintf(out, "; %d with no resemblance between input and title", weak)
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Job profile to plan")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}
