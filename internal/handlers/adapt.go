package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/handsomefox/watchlist/internal/catalog"
	"github.com/handsomefox/watchlist/internal/library"
	"github.com/handsomefox/watchlist/internal/logger"
)

type HandlerWithErr func(w http.ResponseWriter, r *http.Request) error

type Error struct {
	Status  int
	Message string
}

func (e Error) Error() string {
	return e.Message + " code=" + strconv.FormatInt(int64(e.Status), 10)
}

type errorResponse struct {
	Error string `json:"error"`
}

// Adapt turns a returned error into a JSON error response. Errors other than
// *Error are classified by where they came from; anything unrecognised is
// treated as a failed backend call.
func Adapt(h HandlerWithErr) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		statusErr := classify(err)
		if statusErr.Status >= http.StatusInternalServerError {
			slog.Error("request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", statusErr.Status),
				logger.Error(err))
		}
		writeJSON(w, statusErr.Status, &errorResponse{Error: statusErr.Message})
	})
}

func classify(err error) *Error {
	var statusErr *Error
	if errors.As(err, &statusErr) {
		return statusErr
	}
	if errors.Is(err, library.ErrBlankTitle) {
		return &Error{Status: http.StatusBadRequest, Message: err.Error()}
	}
	if breakerOpen(err) {
		return &Error{Status: http.StatusServiceUnavailable, Message: "movie backend unavailable"}
	}
	var upstream *catalog.StatusError
	if errors.As(err, &upstream) {
		if upstream.Code == http.StatusNotFound {
			return &Error{Status: http.StatusNotFound, Message: "not found"}
		}
		return &Error{Status: http.StatusBadGateway, Message: upstream.Error()}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Status: http.StatusGatewayTimeout, Message: "movie backend timed out"}
	}
	return &Error{Status: http.StatusBadGateway, Message: err.Error()}
}

func breakerOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
