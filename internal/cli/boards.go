package cli

import (
	"strings"

	"sortable-cli/internal/model"

	"github.com/spf13/cobra"
)

func newBoardsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boards",
		Short: "Board commands",
	}
	cmd.AddCommand(newBoardsListCmd(app))
	cmd.AddCommand(newBoardsCreateCmd(app))
	return cmd
}

func newBoardsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List boards with their item counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			boards, err := s.Boards(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			type boardRow struct {
				model.Board
				Items int  `json:"items"`
				Sync  bool `json:"sync"`
			}
			rows := make([]boardRow, 0, len(boards))
			for _, b := range boards {
				items, err := s.Items(cmd.Context(), b.ID)
				if err != nil {
					return writeErr(cmd, err)
				}
				bc, _ := app.cfg.Board(b.ID)
				rows = append(rows, boardRow{Board: b, Items: len(items), Sync: strings.TrimSpace(bc.URL) != ""})
			}
			var hints []string
			if len(rows) == 0 {
				hints = append(hints, "sortable boards create <id>")
			}
			return writeOut(cmd, app, map[string]any{"data": rows, "_hints": hints})
		},
	}
}

func newBoardsCreateCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "create <id>",
		Short: "Create a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := s.CreateBoard(cmd.Context(), args[0], strings.TrimSpace(title))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": b})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Board title (default: the id)")
	return cmd
}
