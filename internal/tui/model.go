package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"sortable-cli/internal/config"
	"sortable-cli/internal/model"
	"sortable-cli/internal/remote"
	"sortable-cli/internal/sortable"
	"sortable-cli/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Options configures the board TUI.
type Options struct {
	Store  store.Store
	Config config.Config
	// Client syncs boards that have a url. Nil saves every move locally.
	Client *remote.Client
	// ConnectAll lets every board accept items from every other board.
	ConnectAll bool
	Logger     *slog.Logger
}

type syncResultMsg struct {
	req    sortable.SyncRequest
	status int
	err    error
}

type column struct {
	board model.Board
	list  *sortable.List
}

type appModel struct {
	ctx    context.Context
	opts   Options
	logger *slog.Logger

	coord *sortable.Coordinator
	host  *termHost
	cols  []*column

	session *sortable.Session
	selCol  int
	selRow  int

	keys     keyMap
	help     help.Model
	showHelp bool

	width  int
	height int

	status    string
	statusErr bool
}

func newAppModel(opts Options) (*appModel, error) {
	lg := opts.Logger
	if lg == nil {
		lg = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := &appModel{
		ctx:    context.Background(),
		opts:   opts,
		logger: lg.With(slog.String("component", "tui")),
		coord:  sortable.NewCoordinator(sortable.WithCoordinatorLogger(lg)),
		host:   newTermHost(),
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
	for _, b := range opts.Config.Boards {
		if _, err := opts.Store.EnsureBoard(m.ctx, b.ID, b.Title); err != nil {
			return nil, fmt.Errorf("board %q: %w", b.ID, err)
		}
	}
	if err := m.reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// reload rebuilds every list from the store. It is a no-op while dragging.
func (m *appModel) reload() error {
	if m.session != nil {
		return nil
	}
	boards, err := m.opts.Store.Boards(m.ctx)
	if err != nil {
		return err
	}
	for _, c := range m.cols {
		c.list.Destroy()
	}
	m.cols = nil
	m.host.layout.columns = nil

	ids := make([]sortable.ListID, 0, len(boards))
	for _, b := range boards {
		ids = append(ids, sortable.ListID(b.ID))
	}

	for _, b := range boards {
		lopts := m.listOptions(b.ID, ids)
		var extra []sortable.ListOption
		if lopts.URL != "" && m.opts.Client != nil {
			extra = append(extra, sortable.WithSyncer(m.opts.Client))
		}
		l, err := m.coord.NewList(sortable.ListID(b.ID), m.host, lopts, extra...)
		if err != nil {
			return err
		}
		items, err := m.opts.Store.Items(m.ctx, b.ID)
		if err != nil {
			l.Destroy()
			return err
		}
		for _, it := range items {
			l.Append(sortable.NewItem(it.ID, it.Title))
		}
		l.OnStart(m.onStart)
		l.OnChange(m.onChange)
		l.OnFinish(func(ev sortable.EventData) { m.onFinish(l, ev) })

		m.cols = append(m.cols, &column{board: b, list: l})
		m.host.layout.columns = append(m.host.layout.columns, l.ID())
	}
	m.clampSelection()
	return nil
}

func (m *appModel) listOptions(id string, all []sortable.ListID) sortable.Options {
	o := sortable.DefaultOptions()
	if b, ok := m.opts.Config.Board(id); ok {
		o = b.Options()
	}
	if m.opts.ConnectAll {
		for _, other := range all {
			if string(other) != id && !slices.Contains(o.Accept, other) {
				o.Accept = append(o.Accept, other)
			}
		}
	}
	return o
}

func (m *appModel) clampSelection() {
	if len(m.cols) == 0 {
		m.selCol, m.selRow = 0, 0
		return
	}
	m.selCol = max(0, min(m.selCol, len(m.cols)-1))
	n := m.cols[m.selCol].list.Len()
	m.selRow = max(0, min(m.selRow, n-1))
}

func (m *appModel) columnIndex(id sortable.ListID) int {
	return m.host.layout.columnOf(id)
}

func (m *appModel) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *appModel) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// onStart names the drag by the proxy's drag class ("dragging item-3").
func (m *appModel) onStart(ev sortable.EventData) {
	class := "dragging"
	if p := m.host.proxy; p != nil && strings.TrimSpace(p.class) != "" {
		class = strings.TrimSpace(p.class)
	}
	m.setStatus("%s %s", class, ev.Item.ID)
}

func (m *appModel) onChange(ev sortable.EventData) {
	m.setStatus("%s → %s #%d", ev.Item.ID, ev.List.ID(), ev.Index+1)
}

// onFinish persists the drop. Boards with a url were already handed to the
// sync client by the list itself; everything else goes to the local store.
func (m *appModel) onFinish(source *sortable.List, ev sortable.EventData) {
	m.session = nil
	if ev.List == nil || ev.Item == nil {
		return
	}
	if col := m.columnIndex(ev.List.ID()); col >= 0 {
		m.selCol, m.selRow = col, ev.Index
	}
	if source.Options().URL != "" && m.opts.Client != nil {
		m.setStatus("syncing %s → %s #%d", ev.Item.ID, ev.List.ID(), ev.Index+1)
		return
	}
	res, err := m.opts.Store.MoveItem(m.ctx, store.MoveRequest{
		ItemID:   ev.Item.ID,
		ToBoard:  string(ev.List.ID()),
		Position: ev.Index + 1,
	})
	if err != nil {
		m.logger.Warn("save move failed", slog.String("item", ev.Item.ID), slog.String("error", err.Error()))
		m.setError(err)
		return
	}
	if !res.Changed {
		m.setStatus("%s unchanged", ev.Item.ID)
		return
	}
	m.setStatus("saved %s → %s #%d", res.Item.ID, res.Move.ToBoard, res.Move.Position)
}

func (m *appModel) Init() tea.Cmd { return nil }

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.relayout()
		return m, nil
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case syncResultMsg:
		switch {
		case msg.err != nil:
			m.setError(fmt.Errorf("sync %s: %w", msg.req.ItemID, msg.err))
		case msg.status >= 300:
			m.setError(fmt.Errorf("sync %s: HTTP %d", msg.req.ItemID, msg.status))
		default:
			m.setStatus("synced %s (%d)", msg.req.ItemID, msg.status)
		}
		return m, nil
	}
	return m, nil
}

func (m *appModel) relayout() {
	m.host.layout.width = columnWidth(m.width, len(m.cols))
}

func (m *appModel) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || m.session != nil || m.showHelp {
			return
		}
		ev := pressAt(msg)
		for i, c := range m.cols {
			if it, _ := m.host.cardAt(c.list, ev.Position()); it != nil {
				m.selCol, m.selRow = i, c.list.IndexOf(it)
			}
			if s := c.list.Press(ev); s != nil {
				m.session = s
				return
			}
		}
	case tea.MouseActionMotion:
		if m.session != nil {
			m.session.Move(motionAt(msg))
		}
	case tea.MouseActionRelease:
		if m.session != nil {
			m.session.Release(motionAt(msg))
		}
	}
}

func (m *appModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return tea.Quit
		case key.Matches(msg, m.keys.Help, m.keys.Cancel):
			m.showHelp = false
		}
		return nil
	}
	if m.session != nil {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.session.Release(nil)
		case key.Matches(msg, m.keys.Quit):
			m.session.Release(nil)
			return tea.Quit
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Reload):
		if err := m.reload(); err != nil {
			m.setError(err)
		} else {
			m.relayout()
			m.setStatus("reloaded")
		}
	case key.Matches(msg, m.keys.MoveUp):
		m.keyboardMove(0, -1)
	case key.Matches(msg, m.keys.MoveDown):
		m.keyboardMove(0, 1)
	case key.Matches(msg, m.keys.MoveLeft):
		m.keyboardMove(-1, 0)
	case key.Matches(msg, m.keys.MoveRight):
		m.keyboardMove(1, 0)
	case key.Matches(msg, m.keys.Left):
		m.selCol--
		m.clampSelection()
	case key.Matches(msg, m.keys.Right):
		m.selCol++
		m.clampSelection()
	case key.Matches(msg, m.keys.Up):
		m.selRow--
		m.clampSelection()
	case key.Matches(msg, m.keys.Down):
		m.selRow++
		m.clampSelection()
	}
	return nil
}

// keyboardMove moves the selected card one step. Boards with a url sync the
// step like a drop; others write it to the store. Cross-board steps follow the
// source board's accept list.
func (m *appModel) keyboardMove(dCol, dRow int) {
	if len(m.cols) == 0 {
		return
	}
	src := m.cols[m.selCol]
	items := src.list.Items()
	if m.selRow < 0 || m.selRow >= len(items) {
		return
	}
	it := items[m.selRow]

	toCol, toRow := m.selCol+dCol, m.selRow+dRow
	if toCol < 0 || toCol >= len(m.cols) {
		return
	}
	dst := m.cols[toCol]
	opts := src.list.Options()
	if dst == src {
		if opts.ExcludeSelf || toRow < 0 || toRow >= len(items) {
			return
		}
	} else {
		if !slices.Contains(opts.Accept, dst.list.ID()) {
			m.setStatus("%s does not accept moves to %s", src.board.ID, dst.board.ID)
			return
		}
		toRow = min(toRow, dst.list.Len())
	}

	if opts.URL != "" && m.opts.Client != nil {
		m.syncKeyboardMove(src, dst, it, toCol, toRow)
		return
	}

	res, err := m.opts.Store.MoveItem(m.ctx, store.MoveRequest{
		ItemID:   it.ID,
		ToBoard:  dst.board.ID,
		Position: toRow + 1,
	})
	if err != nil {
		m.setError(err)
		return
	}
	if err := m.reload(); err != nil {
		m.setError(err)
		return
	}
	m.relayout()
	if !res.Changed {
		return
	}
	m.selCol, m.selRow = toCol, res.Move.Position-1
	m.clampSelection()
	m.setStatus("saved %s → %s #%d", res.Item.ID, res.Move.ToBoard, res.Move.Position)
}

// syncKeyboardMove applies a keyboard step to the lists on screen and sends
// it through the source board's sync endpoint, the same way a mouse drop is.
func (m *appModel) syncKeyboardMove(src, dst *column, it *sortable.Item, toCol, toRow int) {
	dst.list.Insert(toRow, it)
	index := dst.list.IndexOf(it)
	req, ok := sortable.BuildSyncRequest(src.list.Options(), it.ID, index)
	if !ok {
		return
	}
	req.List = dst.list.ID()
	m.opts.Client.Sync(req)
	m.selCol, m.selRow = toCol, index
	m.setStatus("syncing %s → %s #%d", it.ID, dst.list.ID(), index+1)
}
