package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"sortable-cli/internal/model"
	"sortable-cli/internal/remote"
	"sortable-cli/internal/store"
)

type ServerConfig struct {
	Addr     string
	Dir      string
	ReadOnly bool

	// IDParam and PosParam name the form fields read by the sort endpoints.
	IDParam  string
	PosParam string

	Logger *slog.Logger
}

// Server applies sync requests from sortable lists to the board store and
// streams applied moves to websocket subscribers.
type Server struct {
	cfg    ServerConfig
	st     store.Store
	hub    *moveHub
	logger *slog.Logger
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.Dir = strings.TrimSpace(cfg.Dir)
	cfg.IDParam = strings.TrimSpace(cfg.IDParam)
	cfg.PosParam = strings.TrimSpace(cfg.PosParam)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if cfg.Dir == "" {
		return nil, errors.New("web: dir is empty")
	}
	if cfg.IDParam == "" {
		cfg.IDParam = "id"
	}
	if cfg.PosParam == "" {
		cfg.PosParam = "position"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	st := store.Store{Dir: cfg.Dir}
	if err := st.Ensure(); err != nil {
		return nil, err
	}
	return &Server{
		cfg:    cfg,
		st:     st,
		hub:    newMoveHub(),
		logger: cfg.Logger.With(slog.String("component", "web")),
	}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /boards", s.handleBoards)
	mux.HandleFunc("POST /boards", s.handleBoardCreate)
	mux.HandleFunc("GET /boards/{board}/items", s.handleBoardItems)
	mux.HandleFunc("POST /boards/{board}/items", s.handleItemCreate)
	mux.HandleFunc("POST /boards/{board}/sort", s.handleBoardSort)
	mux.HandleFunc("PUT /boards/{board}/sort", s.handleBoardSort)
	mux.HandleFunc("GET /items/{itemId}", s.handleItem)
	mux.HandleFunc("PUT /items/{itemId}", s.handleItemMove)
	mux.HandleFunc("POST /items/{itemId}", s.handleItemMove)
	mux.HandleFunc("GET /items/{itemId}/moves", s.handleItemMoves)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", r.Header.Get(remote.RequestIDHeader)),
		)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeStoreError maps store errors onto status codes.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case store.IsNotFound(err):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, store.ErrInvalidID), errors.Is(err, store.ErrEmptyTitle):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrBoardTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) refuseReadOnly(w http.ResponseWriter) bool {
	if s.cfg.ReadOnly {
		http.Error(w, "read-only", http.StatusForbidden)
		return true
	}
	return false
}

func (s *Server) handleBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.st.Boards(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if boards == nil {
		boards = []model.Board{}
	}
	writeJSON(w, http.StatusOK, boards)
}

func (s *Server) handleBoardCreate(w http.ResponseWriter, r *http.Request) {
	if s.refuseReadOnly(w) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	b, err := s.st.CreateBoard(r.Context(), r.Form.Get("id"), r.Form.Get("title"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleBoardItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.st.Items(r.Context(), r.PathValue("board"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleItemCreate(w http.ResponseWriter, r *http.Request) {
	if s.refuseReadOnly(w) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	it, err := s.st.AddItem(r.Context(), r.PathValue("board"), r.Form.Get("title"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	it, err := s.st.Item(r.Context(), r.PathValue("itemId"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleItemMoves(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	moves, err := s.st.Moves(r.Context(), r.PathValue("itemId"), limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if moves == nil {
		moves = []model.Move{}
	}
	writeJSON(w, http.StatusOK, moves)
}

type moveResponse struct {
	Item       model.Item `json:"item"`
	Move       model.Move `json:"move"`
	Changed    bool       `json:"changed"`
	Rebalanced []string   `json:"rebalanced,omitempty"`
}

// handleItemMove serves the "%{id}" URL form: the id is in the path and the
// position in the body. The target board comes from the list header or a
// "board" param; without either the item stays on its board.
func (s *Server) handleItemMove(w http.ResponseWriter, r *http.Request) {
	if s.refuseReadOnly(w) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	board := strings.TrimSpace(r.Header.Get(remote.ListHeader))
	if v := strings.TrimSpace(r.Form.Get("board")); v != "" {
		board = v
	}
	s.applyMove(w, r, r.PathValue("itemId"), board)
}

// handleBoardSort serves the id-param form: the item id and position are both
// params. The path is the source list's configured URL, so the target board is
// the "board" param, then the list header, then the path board.
func (s *Server) handleBoardSort(w http.ResponseWriter, r *http.Request) {
	if s.refuseReadOnly(w) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id := strings.TrimSpace(r.Form.Get(s.cfg.IDParam))
	if id == "" {
		http.Error(w, "missing "+s.cfg.IDParam, http.StatusBadRequest)
		return
	}
	board := strings.TrimSpace(r.Form.Get("board"))
	if board == "" {
		board = strings.TrimSpace(r.Header.Get(remote.ListHeader))
	}
	if board == "" {
		board = r.PathValue("board")
	}
	s.applyMove(w, r, id, board)
}

func (s *Server) applyMove(w http.ResponseWriter, r *http.Request, itemID, board string) {
	pos, err := strconv.Atoi(strings.TrimSpace(r.Form.Get(s.cfg.PosParam)))
	if err != nil || pos < 1 {
		http.Error(w, "invalid "+s.cfg.PosParam, http.StatusBadRequest)
		return
	}
	res, err := s.st.MoveItem(r.Context(), store.MoveRequest{
		ItemID:    itemID,
		ToBoard:   board,
		Position:  pos,
		RequestID: r.Header.Get(remote.RequestIDHeader),
	})
	if err != nil {
		s.logger.Warn("move failed",
			slog.String("item", itemID),
			slog.String("board", board),
			slog.String("error", err.Error()),
		)
		writeStoreError(w, err)
		return
	}
	if res.Changed {
		s.logger.Info("moved",
			slog.String("item", res.Item.ID),
			slog.String("from", res.Move.FromBoard),
			slog.String("to", res.Move.ToBoard),
			slog.Int("position", res.Move.Position),
		)
		s.hub.broadcast(res.Move)
	}
	writeJSON(w, http.StatusOK, moveResponse{
		Item:       res.Item,
		Move:       res.Move,
		Changed:    res.Changed,
		Rebalanced: res.Rebalanced,
	})
}
