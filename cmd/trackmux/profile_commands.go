package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"trackmux/internal/config"
	"trackmux/internal/profile"
)

func newProfileCommand() *cobra.Command {
	profileCmd := &cobra.Command{
		Use:         "profile",
		Short:       "Job profile utilities",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}
	profileCmd.AddCommand(newProfileInitCommand())
	profileCmd.AddCommand(newProfileValidateCommand())
	return profileCmd
}

func newProfileInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample job profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := config.ExpandPath(strings.TrimSpace(targetPath))
			if err != nil {
				return fmt.Errorf("resolve profile path: %w", err)
			}
			if err := writeSample(target, overwrite, profile.CreateSample); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample profile to %s\n", target)
			fmt.Fprintln(out, "Set input_dir, output_dir and names_file before running it.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "profile.toml", "Destination for the profile")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing profile")
	return cmd
}

func newProfileValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <profile>",
		Short: "Parse a job profile and compile its filters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, err := loadProfile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Profile: %s\n", prof.Path())
			fmt.Fprintf(out, "Input directory: %s\n", prof.InputDir)
			fmt.Fprintf(out, "Output directory: %s\n", prof.OutputDir)
			fmt.Fprintln(out, "Profile valid")
			return nil
		},
	}
}
