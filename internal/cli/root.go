package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"sortable-cli/internal/config"
	"sortable-cli/internal/format"
	"sortable-cli/internal/logging"
	"sortable-cli/internal/remote"
	"sortable-cli/internal/store"
	"sortable-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	ConfigPath string
	PrettyJSON bool
	Format     string

	cfg config.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}
	var connect bool

	cmd := &cobra.Command{
		Use:          "sortable",
		Short:        "Drag-to-reorder boards (TUI + sync server)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive board TUI
  sortable

  # Let cards move between every board
  sortable --connect

  # Serve the sync endpoint boards post their moves to
  sortable serve --addr 127.0.0.1:7420

  # Drag cards in a browser tab
  sortable web

  # Scriptable commands
  sortable items list --board todo
  sortable items move item-3 --board done --position 1
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runTUI(app, connect)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(app.ConfigPath)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.cfg = cfg
		if strings.TrimSpace(app.Dir) == "" {
			app.Dir = cfg.Store.Dir
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("SORTABLE_DIR", ""), "Path to store dir (overrides [store] dir from config)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Config file (default: $SORTABLE_CONFIG or ~/.config/sortable/config.toml)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("SORTABLE_FORMAT", "json"), "Output format (json|edn)")
	cmd.Flags().BoolVar(&connect, "connect", false, "Let every board accept cards from every other board")

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newBoardsCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newPublishCmd(app))

	return cmd
}

func runTUI(app *App, connect bool) error {
	st, err := openStore(app)
	if err != nil {
		return err
	}
	// The screen belongs to the TUI: logs only go to [log] file.
	logger, closeLog, err := logging.New(app.cfg.Log, nil)
	if err != nil {
		return err
	}
	defer closeLog()

	var client *remote.Client
	for _, b := range app.cfg.Boards {
		if strings.TrimSpace(b.URL) != "" {
			client = remote.NewClient(
				remote.WithBaseURL(app.cfg.Server.BaseURL),
				remote.WithLogger(logger),
			)
			break
		}
	}
	return tui.Run(tui.Options{
		Store:      st,
		Config:     app.cfg,
		Client:     client,
		ConnectAll: connect,
		Logger:     logger,
	})
}

func openStore(app *App) (store.Store, error) {
	s := store.Store{Dir: strings.TrimSpace(app.Dir)}
	if err := s.Ensure(); err != nil {
		return store.Store{}, err
	}
	return s, nil
}

// newLogger logs to w unless [log] file is set.
func newLogger(app *App, w io.Writer) (*slog.Logger, func() error, error) {
	return logging.New(app.cfg.Log, w)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
