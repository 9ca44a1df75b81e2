package cli

import (
	"errors"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"sortable-cli/internal/webtui"

	"github.com/spf13/cobra"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var connect bool

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Run the board TUI in a browser terminal",
		Long: strings.TrimSpace(`
Serve a browser terminal. Every tab starts its own board TUI on a pty, so
mouse drags in the page work like drags in a local terminal.
`),
		Example: strings.TrimSpace(`
sortable web --addr 127.0.0.1:7421
sortable web --connect
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}
			if _, err := openStore(app); err != nil {
				return writeErr(cmd, err)
			}

			logger, closeLog, err := newLogger(app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeLog()

			srv, err := webtui.NewServer(webtui.ServerConfig{
				Addr:       listenAddr,
				Dir:        app.Dir,
				ConfigPath: app.ConfigPath,
				Connect:    connect,
				Logger:     logger,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", srv.Addr())
			if err != nil {
				return writeErr(cmd, err)
			}
			url := "http://" + ln.Addr().String() + "/terminal"
			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":    ln.Addr().String(),
					"url":     url,
					"dir":     app.Dir,
					"connect": connect,
				},
				"_hints": []string{"open " + url},
			})
			logger.Info("serving web tui", slog.String("addr", ln.Addr().String()))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serveUntilDone(ctx, ln, srv.Handler(), logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7421", "Bind address")
	cmd.Flags().BoolVar(&connect, "connect", false, "Let every board accept cards from every other board")
	return cmd
}
