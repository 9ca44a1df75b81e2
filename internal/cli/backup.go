package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"sortable-cli/internal/store"

	"github.com/spf13/cobra"
)

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore a portable snapshot of every board",
	}
	cmd.AddCommand(newBackupExportCmd(app))
	cmd.AddCommand(newBackupRestoreCmd(app))
	return cmd
}

func newBackupExportCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write boards, items, ranks and move history to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(args[0])
			if !force {
				if _, err := os.Stat(path); err == nil {
					return writeErr(cmd, errors.New("file exists (pass --force to overwrite)"))
				}
			}

			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			snap, err := s.Export(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}

			b, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return writeErr(cmd, err)
			}
			if dir := filepath.Dir(path); dir != "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return writeErr(cmd, err)
				}
			}
			if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
				return writeErr(cmd, err)
			}

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"path":   path,
					"boards": len(snap.Boards),
					"items":  len(snap.Items),
					"moves":  len(snap.Moves),
				},
				"_hints": []string{"sortable backup restore " + path},
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newBackupRestoreCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the store contents with a snapshot written by backup export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(strings.TrimSpace(args[0]))
			if err != nil {
				return writeErr(cmd, err)
			}
			var snap store.Snapshot
			if err := json.Unmarshal(b, &snap); err != nil {
				return writeErr(cmd, err)
			}

			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Restore(cmd.Context(), snap); err != nil {
				return writeErr(cmd, err)
			}

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"from":       args[0],
					"boards":     len(snap.Boards),
					"items":      len(snap.Items),
					"moves":      len(snap.Moves),
					"nextItemId": snap.NextItemID,
				},
				"_hints": []string{"sortable boards list"},
			})
		},
	}
	return cmd
}
