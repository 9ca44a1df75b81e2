package cli

import (
	"strings"

	"sortable-cli/internal/publish"

	"github.com/spf13/cobra"
)

func newPublishCmd(app *App) *cobra.Command {
	var to string
	var boards []string
	var history bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write boards as markdown pages (index.md + boards/<id>.md)",
		Example: strings.TrimSpace(`
sortable publish --to ./site
sortable publish --to ./site --board todo --history --overwrite
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := publish.WriteBoards(cmd.Context(), s, to, publish.WriteOptions{
				History:   history,
				Overwrite: overwrite,
				Boards:    boards,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": res,
				"meta": map[string]any{"files": len(res.Written)},
			})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Target directory")
	cmd.Flags().StringSliceVar(&boards, "board", nil, "Board to publish (repeatable; default all)")
	cmd.Flags().BoolVar(&history, "history", false, "Include each card's recent moves")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
