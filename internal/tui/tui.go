package tui

import (
	"sortable-cli/internal/sortable"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the boards in opts.Store until the user quits. Mouse drags reorder
// cards; finished drags are saved locally or synced through opts.Client.
func Run(opts Options) error {
	applyThemePreference()
	applyColorProfilePreference()

	m, err := newAppModel(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if opts.Client != nil {
		opts.Client.OnResult = func(req sortable.SyncRequest, status int, err error) {
			p.Send(syncResultMsg{req: req, status: status, err: err})
		}
		defer opts.Client.Wait()
	}
	_, err = p.Run()
	return err
}
