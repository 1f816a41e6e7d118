package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/henri123lemoine/heartline/internal/config"
)

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.resolvedConfigPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}
			if err := config.WriteDefaultConfigFile(path); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), opts.resolvedConfigPath())
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Load the config file and report problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromPath(opts.resolvedConfigPath())
			if err != nil {
				return err
			}
			warnings := cfg.Validate()
			for _, w := range warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "Warning: %s\n", w)
			}
			if len(warnings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "OK")
			}
			return nil
		},
	}

	cmd.AddCommand(initCmd, pathCmd, checkCmd)
	return cmd
}
