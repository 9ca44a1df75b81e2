package cli

import (
	"errors"
	"strings"

	"sortable-cli/internal/model"
	"sortable-cli/internal/store"

	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Item commands",
	}
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsShowCmd(app))
	cmd.AddCommand(newItemsMoveCmd(app))
	cmd.AddCommand(newItemsHistoryCmd(app))
	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var board string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a board's items in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			items, err := s.Items(cmd.Context(), board)
			if err != nil {
				return writeErr(cmd, err)
			}
			if items == nil {
				items = []model.Item{}
			}
			return writeOut(cmd, app, map[string]any{
				"data": items,
				"meta": map[string]any{"board": strings.ToLower(strings.TrimSpace(board)), "count": len(items)},
			})
		},
	}

	cmd.Flags().StringVar(&board, "board", "", "Board id")
	_ = cmd.MarkFlagRequired("board")
	return cmd
}

func newItemsAddCmd(app *App) *cobra.Command {
	var board string
	var title string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append an item to a board",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := s.AddItem(cmd.Context(), board, title)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}

	cmd.Flags().StringVar(&board, "board", "", "Board id")
	cmd.Flags().StringVar(&title, "title", "", "Item title")
	_ = cmd.MarkFlagRequired("board")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newItemsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := s.Item(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}
}

func newItemsMoveCmd(app *App) *cobra.Command {
	var board string
	var position int

	cmd := &cobra.Command{
		Use:   "move <item-id>",
		Short: "Move an item to a 1-based position (optionally on another board)",
		Example: strings.TrimSpace(`
  sortable items move item-2 --position 1
  sortable items move 7 --board done --position 3
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if position < 1 {
				return writeErr(cmd, errors.New("--position must be >= 1"))
			}
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := s.MoveItem(cmd.Context(), store.MoveRequest{
				ItemID:   args[0],
				ToBoard:  board,
				Position: position,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			out := map[string]any{
				"data": res.Item,
				"meta": map[string]any{"changed": res.Changed, "rebalanced": res.Rebalanced},
			}
			if res.Changed {
				out["meta"].(map[string]any)["move"] = res.Move
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().StringVar(&board, "board", "", "Target board (default: the item's board)")
	cmd.Flags().IntVar(&position, "position", 0, "1-based position on the target board")
	_ = cmd.MarkFlagRequired("position")
	return cmd
}

func newItemsHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <item-id>",
		Short: "List an item's recorded moves, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			moves, err := s.Moves(cmd.Context(), args[0], limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			if moves == nil {
				moves = []model.Move{}
			}
			return writeOut(cmd, app, map[string]any{"data": moves})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Max moves to return (0 = all)")
	return cmd
}
