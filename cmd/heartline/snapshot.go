package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// stdio is the path argument meaning stdin or stdout.
const stdio = "-"

func newExportCmd(opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all chapters, goals, reminders and the theme as JSON",
		Example: `  heartline export
  heartline export --out backup.json
  heartline export --out - | jq .entries`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			j, b, err := openJournal(cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			if out == stdio {
				return j.Export(cmd.OutOrStdout())
			}
			path := out
			if path == "" {
				path = cfg.ExportPath()
			}
			if err := j.ExportFile(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, - for stdout (default export.path)")
	return cmd
}

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Replace all stored records with the contents of an export",
		Long: `Import overwrites chapters, goals, reminders and the theme with the
contents of an export file. Nothing is merged. Use - to read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			j, b, err := openJournal(cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			path := cfg.ExportPath()
			if len(args) == 1 {
				path = args[0]
			}
			if path == stdio {
				if err := j.Import(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("import: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Imported from stdin")
				return nil
			}
			if err := j.ImportFile(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", path)
			return nil
		},
	}
}
