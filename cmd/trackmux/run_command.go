package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"trackmux/internal/config"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var profilePath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process every file matched by a profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, err := loadProfile(profilePath)
			if err != nil {
				return err
			}
			batch, closeBatch, err := ctx.newBatch(prof)
			if err != nil {
				return err
			}
			defer closeBatch()

			summary, err := batch.Run(cmd.Context())
			if summary.RunID != "" {
				fmt.Fprint(cmd.OutOrStdout(), renderSummary(summary))
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Job profile to run")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}

func newFileCommand(ctx *commandContext) *cobra.Command {
	var profilePath, input, output, title string

	cmd := &cobra.Command{
		Use:   "file",
		Short: "Process a single file with a profile's track policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, err := loadProfile(profilePath)
			if err != nil {
				return err
			}
			in, err := config.ExpandPath(strings.TrimSpace(input))
			if err != nil {
				return fmt.Errorf("resolve --input: %w", err)
			}
			out, err := config.ExpandPath(strings.TrimSpace(output))
			if err != nil {
				return fmt.Errorf("resolve --output: %w", err)
			}
			if strings.TrimSpace(title) == "" {
				title = strings.TrimSuffix(filepath.Base(out), filepath.Ext(out))
			}

			batch, closeBatch, err := ctx.newBatch(prof)
			if err != nil {
				return err
			}
			defer closeBatch()

			if err := batch.ProcessFile(cmd.Context(), in, out, title); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Job profile providing the track policies")
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input Matroska file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Container title (defaults to the output file name)")
	for _, name := range []string{"profile", "input", "output"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
