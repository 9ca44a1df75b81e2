package cli

import (
	"sortable-cli/internal/store"

	"github.com/spf13/cobra"
)

func newDoctorCmd(app *App) *cobra.Command {
	var fix bool
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check board ranks and the item id counter",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			report, err := s.Doctor(cmd.Context(), fix)
			if err != nil {
				return writeErr(cmd, err)
			}

			meta := map[string]any{
				"issues":    len(report.Issues),
				"hasErrors": report.HasErrors(),
				"fixed":     fix,
			}
			var hints []string
			if !fix && len(report.Issues) > 0 {
				hints = append(hints, "sortable doctor --fix")
			}

			if err := writeOut(cmd, app, map[string]any{
				"data":   report,
				"meta":   meta,
				"_hints": hints,
			}); err != nil {
				return err
			}

			if fail && report.HasErrors() {
				return store.ErrDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Re-rank damaged boards and repair the id counter")
	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if unfixed errors remain")
	return cmd
}
