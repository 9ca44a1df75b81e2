package cli

import (
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg
			boards := make([]map[string]any, 0, len(cfg.Boards))
			for _, b := range cfg.Boards {
				o := b.Options()
				boards = append(boards, map[string]any{
					"id":          b.ID,
					"title":       b.Title,
					"url":         o.URL,
					"method":      o.Method,
					"idParam":     o.IDParam,
					"posParam":    o.PosParam,
					"parseId":     o.ParseID,
					"accept":      o.Accept,
					"excludeSelf": o.ExcludeSelf,
					"minLength":   o.MinLength,
					"item":        o.ItemSelector,
					"handle":      o.HandleSelector,
					"dragClass":   o.DragClass,
				})
			}
			var hints []string
			if cfg.Path == "" {
				hints = append(hints, "no config file found; defaults and SORTABLE_* env vars are in effect")
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"path": cfg.Path,
					"dir":  app.Dir,
					"server": map[string]any{
						"addr":    cfg.Server.Addr,
						"baseUrl": cfg.Server.BaseURL,
					},
					"log": map[string]any{
						"level":  cfg.Log.Level,
						"format": cfg.Log.Format,
						"file":   cfg.Log.File,
					},
					"boards": boards,
				},
				"_hints": hints,
			})
		},
	}
}
