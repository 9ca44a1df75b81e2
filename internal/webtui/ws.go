package webtui

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"github.com/gorilla/websocket"
)

const (
	defaultCols = 120
	defaultRows = 40
)

// Control frames are JSON text; everything else is keyboard/mouse input.
type controlMsg struct {
	Type string `json:"type"`
	Cols int    `json:"cols"`
	Rows int    `json:"rows"`
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  32 * 1024,
	WriteBufferSize: 32 * 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			return true
		}
		return strings.Contains(origin, "://"+strings.TrimSpace(r.Host))
	},
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess, err := s.startSession()
	if err != nil {
		s.logger.Error("start tui session", slog.String("error", err.Error()))
		_ = conn.WriteMessage(websocket.TextMessage, []byte("failed to start session: "+err.Error()))
		return
	}
	defer sess.close()
	s.logger.Info("tui session started", slog.Int("pid", sess.cmd.Process.Pid))

	var wg sync.WaitGroup
	done := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		done <- copyToSocket(ctx, sess.ptmx, conn)
	}()
	go func() {
		defer wg.Done()
		done <- copyFromSocket(ctx, conn, sess.ptmx)
	}()

	select {
	case <-ctx.Done():
	case err := <-done:
		if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			s.logger.Debug("tui session ended", slog.String("error", err.Error()))
		}
	}
	cancel()
	sess.close()
	_ = conn.Close()
	wg.Wait()
}

type session struct {
	ptmx *os.File
	cmd  *exec.Cmd
	once sync.Once
}

func (p *session) close() {
	p.once.Do(func() {
		_ = p.ptmx.Close()
		_ = p.cmd.Process.Kill()
		_, _ = p.cmd.Process.Wait()
	})
}

// childArgv returns the command line of one TUI session.
func (s *Server) childArgv() ([]string, error) {
	if len(s.cfg.Command) > 0 {
		return append([]string(nil), s.cfg.Command...), nil
	}
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	argv := []string{exe}
	if dir := strings.TrimSpace(s.cfg.Dir); dir != "" {
		argv = append(argv, "--dir", dir)
	}
	if cfg := strings.TrimSpace(s.cfg.ConfigPath); cfg != "" {
		argv = append(argv, "--config", cfg)
	}
	if s.cfg.Connect {
		argv = append(argv, "--connect")
	}
	return argv, nil
}

func (s *Server) startSession() (*session, error) {
	argv, err := s.childArgv()
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color", "COLORTERM=truecolor")

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: defaultCols, Rows: defaultRows})
	if err != nil {
		return nil, err
	}
	return &session{ptmx: ptmx, cmd: cmd}, nil
}

func copyToSocket(ctx context.Context, ptmx *os.File, conn *websocket.Conn) error {
	buf := make([]byte, 32*1024)
	for ctx.Err() == nil {
		n, err := ptmx.Read(buf)
		if n > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if werr := conn.WriteMessage(websocket.BinaryMessage, buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			// Linux reports EIO once the child exits.
			if errors.Is(err, io.EOF) || errors.Is(err, syscall.EIO) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return err
		}
	}
	return ctx.Err()
}

func copyFromSocket(ctx context.Context, conn *websocket.Conn, ptmx *os.File) error {
	for ctx.Err() == nil {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if len(data) == 0 {
			continue
		}
		if mt == websocket.TextMessage && data[0] == '{' {
			var m controlMsg
			if json.Unmarshal(data, &m) == nil && strings.EqualFold(strings.TrimSpace(m.Type), "resize") && m.Cols > 0 && m.Rows > 0 {
				_ = pty.Setsize(ptmx, &pty.Winsize{Cols: uint16(m.Cols), Rows: uint16(m.Rows)})
			}
			continue
		}
		if _, err := ptmx.Write(data); err != nil {
			return err
		}
	}
	return ctx.Err()
}
