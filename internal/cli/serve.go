package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sortable-cli/internal/web"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var readOnly bool
	var idParam string
	var posParam string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sync endpoint boards send finished drags to",
		Long: strings.TrimSpace(`
Serve the HTTP endpoint that applies finished drags to the board store.

Routes:
  PUT  /items/{id}             position=<n> (+ X-Sortable-List header or board=<id>)
  POST /boards/{board}/sort    id=<item>&position=<n>
  GET  /boards, /boards/{board}/items, /items/{id}, /items/{id}/moves
  GET  /ws                     websocket feed of applied moves
`),
		Example: strings.TrimSpace(`
# Serve on the configured address ([server] addr, default 127.0.0.1:7420)
sortable serve

# Inspect only
sortable serve --addr :7420 --read-only
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				listenAddr = strings.TrimSpace(app.cfg.Server.Addr)
			}
			if listenAddr == "" {
				return writeErr(cmd, errors.New("serve: missing --addr"))
			}

			logger, closeLog, err := newLogger(app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeLog()

			srv, err := web.NewServer(web.ServerConfig{
				Addr:     listenAddr,
				Dir:      app.Dir,
				ReadOnly: readOnly,
				IDParam:  idParam,
				PosParam: posParam,
				Logger:   logger,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}
			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"dir":       app.Dir,
					"readOnly":  readOnly,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": []string{
					"set [server] base_url = \"" + url + "\" so the TUI syncs here",
				},
			})
			logger.Info("serving", slog.String("addr", actualAddr), slog.String("dir", app.Dir))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serveUntilDone(ctx, ln, srv.Handler(), logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (host:port or :port; default [server] addr)")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Refuse writes")
	cmd.Flags().StringVar(&idParam, "id-param", "", "Form field holding the item id for /boards/{board}/sort (default: id)")
	cmd.Flags().StringVar(&posParam, "pos-param", "", "Form field holding the position (default: position)")
	return cmd
}

func serveUntilDone(ctx context.Context, ln net.Listener, h http.Handler, logger *slog.Logger) error {
	hs := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- hs.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
