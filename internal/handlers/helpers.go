package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/handsomefox/watchlist/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if payload == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", logger.Error(err))
	}
}

func (h *Handler) renderHTML(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("render template failed", slog.String("template", name), logger.Error(err))
		return &Error{Status: http.StatusInternalServerError, Message: "failed to render page"}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("write html failed", logger.Error(err))
	}
	return nil
}

func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, errors.New("missing id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("bad id")
	}
	return id, nil
}

func badRequest(msg string) error { return &Error{Status: http.StatusBadRequest, Message: msg} }

// userMessage is the notice shown on the page after a failed action.
func userMessage(action string, err error) string {
	if breakerOpen(err) {
		return "Could not " + action + ": the movie service is unavailable, try again shortly."
	}
	return "Could not " + action + ". Please try again."
}
