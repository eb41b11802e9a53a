package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"innkeep/internal/config"
	"innkeep/internal/models"
	"innkeep/internal/todo"

	"github.com/rs/zerolog"
)

// TodoServer exposes the todo CRUD API over HTTP.
type TodoServer struct {
	cfg    config.TodoConfig
	store  todo.Store
	logger *zerolog.Logger
	server *http.Server
}

func NewTodoServer(
	cfg config.TodoConfig,
	store todo.Store,
	limiter *RateLimiter,
	logger *zerolog.Logger,
) *TodoServer {
	srv := &TodoServer{cfg: cfg, store: store, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/todos", srv.handleTodos)
	mux.HandleFunc("/todos/", srv.handleTodos)
	mux.HandleFunc("/healthz", handleHealthz)

	handler := loggingMiddleware(logger, "todo", limiter.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *TodoServer) Handler() http.Handler { return s.server.Handler }

func (s *TodoServer) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("Todo HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *TodoServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *TodoServer) handleTodos(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/todos"), "/")

	if rest == "" {
		switch r.Method {
		case http.MethodPost:
			s.createTodo(w, r)
		case http.MethodGet:
			s.listTodos(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid todo id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getTodo(w, r, id)
	case http.MethodPut:
		s.updateTodo(w, r, id)
	case http.MethodDelete:
		s.deleteTodo(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *TodoServer) createTodo(w http.ResponseWriter, r *http.Request) {
	var body models.Todo
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	if err := s.store.Create(r.Context(), &body); err != nil {
		s.logger.Error().Err(err).Msg("Failed to create todo")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, body)
}

func (s *TodoServer) listTodos(w http.ResponseWriter, r *http.Request) {
	skip := 0
	limit := models.DefaultTodoLimit

	if raw := r.URL.Query().Get("skip"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid skip value")
			return
		}
		skip = parsed
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit value")
			return
		}
		limit = parsed
	}

	todos, err := s.store.List(r.Context(), skip, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list todos")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

func (s *TodoServer) getTodo(w http.ResponseWriter, r *http.Request, id int64) {
	item, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "todo not found")
			return
		}
		s.logger.Error().Err(err).Int64("todo_id", id).Msg("Failed to get todo")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *TodoServer) updateTodo(w http.ResponseWriter, r *http.Request, id int64) {
	var body models.Todo
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	if err := s.store.Update(r.Context(), id, &body); err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "todo not found")
			return
		}
		s.logger.Error().Err(err).Int64("todo_id", id).Msg("Failed to update todo")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *TodoServer) deleteTodo(w http.ResponseWriter, r *http.Request, id int64) {
	if err := s.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "todo not found")
			return
		}
		s.logger.Error().Err(err).Int64("todo_id", id).Msg("Failed to delete todo")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeMessage(w, "todo deleted")
}
