package main

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/henri123lemoine/heartline/internal/app"
	"github.com/henri123lemoine/heartline/internal/config"
	"github.com/henri123lemoine/heartline/internal/debug"
	"github.com/henri123lemoine/heartline/internal/journal"
	"github.com/henri123lemoine/heartline/internal/store"
)

// watchDebounce coalesces the burst of events a single save produces.
const watchDebounce = 200 * time.Millisecond

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	dataDir    string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "heartline",
		Short: "A journal for the terminal",
		Long: `heartline keeps chapters, goals and reminders in a local store.

Run without arguments to open the journal. Edit and delete controls stay
hidden until the passphrase is entered.`,
		Example: `  heartline
  heartline --data-dir ~/notes/heartline
  heartline export --out backup.json
  heartline import backup.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !opts.debug {
				return nil
			}
			if err := debug.Enable(debug.DefaultPath()); err != nil {
				return fmt.Errorf("enable debug log: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default "+config.ConfigPath()+")")
	flags.StringVar(&opts.dataDir, "data-dir", "", "data directory, overrides storage.data_dir")
	flags.BoolVar(&opts.debug, "debug", false, "write a debug log to "+debug.DefaultPath())

	cmd.AddCommand(
		newExportCmd(opts),
		newImportCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

func (o *options) resolvedConfigPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.ConfigPath()
}

// loadConfig reads the config file, applies flag overrides and prints
// validation warnings to w.
func (o *options) loadConfig(w io.Writer) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if o.configPath == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFromPath(o.configPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.dataDir != "" {
		cfg.Storage.DataDir = o.dataDir
	}
	for _, warning := range cfg.Validate() {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	return cfg, nil
}

// ensureConfigFile writes the commented default config on the first launch
// so there is a file to edit. An explicit --config path is never created.
func (o *options) ensureConfigFile(w io.Writer) {
	if o.configPath != "" || !config.IsFirstRun() {
		return
	}
	if err := config.CreateDefaultConfigFile(); err != nil {
		debug.Log("create default config: %v", err)
		return
	}
	fmt.Fprintf(w, "Wrote default config to %s\n", config.ConfigPath())
}

// openJournal opens the configured backend and assigns IDs to records
// written without one.
func openJournal(cfg *config.Config) (*journal.Journal, store.Backend, error) {
	dir := cfg.DataDir()
	b, err := store.Open(cfg.Storage.Backend, dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	debug.Log("opened %s store at %s", cfg.Storage.Backend, dir)

	j := journal.New(b)
	n, err := j.Backfill()
	if err != nil {
		b.Close()
		return nil, nil, fmt.Errorf("assign record ids: %w", err)
	}
	if n > 0 {
		debug.Log("assigned ids to %d records", n)
	}
	return j, b, nil
}

func runTUI(cmd *cobra.Command, opts *options) error {
	opts.ensureConfigFile(cmd.ErrOrStderr())
	cfg, err := opts.loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	j, b, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	model := app.New(cfg, j)
	if cfg.Storage.Watch {
		w, err := store.Watch(b, watchDebounce)
		if err != nil {
			// The journal still works; it just won't see other processes.
			debug.Log("watch disabled: %v", err)
		} else {
			defer w.Close()
			model = model.WithWatcher(w)
		}
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run journal: %w", err)
	}
	return nil
}
