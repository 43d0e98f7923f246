// Package supervisor runs the long-lived parts of the server under a suture
// supervisor so a crashed service is restarted with backoff instead of taking
// the process down.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/handsomefox/watchlist/internal/logger"
)

const defaultShutdownTimeout = 10 * time.Second

// New builds the root supervisor. Supervisor events are logged through l.
func New(l *slog.Logger, shutdownTimeout time.Duration) *suture.Supervisor {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	hook := (&sutureslog.Handler{Logger: l}).MustHook()
	return suture.New("watchlist", suture.Spec{
		EventHook:        hook,
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		Timeout:          shutdownTimeout,
	})
}

// HTTPServer is the lifecycle subset of *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPService adapts a blocking ListenAndServe to suture's Serve(ctx).
type HTTPService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
}

func NewHTTPService(server HTTPServer, shutdownTimeout time.Duration) *HTTPService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &HTTPService{server: server, shutdownTimeout: shutdownTimeout}
}

func (s *HTTPService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

func (s *HTTPService) String() string { return "http-server" }

// Refresher is satisfied by *library.Library.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshService re-fetches the collection on a fixed interval so edits made
// by other clients of the backend show up without a local mutation.
type RefreshService struct {
	target   Refresher
	interval time.Duration
}

func NewRefreshService(target Refresher, interval time.Duration) *RefreshService {
	return &RefreshService{target: target, interval: interval}
}

func (s *RefreshService) Serve(ctx context.Context) error {
	if s.interval <= 0 {
		return suture.ErrDoNotRestart
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// Failures are already logged by the library; the next tick retries.
			if err := s.target.Refresh(ctx); err != nil && ctx.Err() == nil {
				slog.Debug("background refresh failed", logger.Error(err))
			}
		}
	}
}

func (s *RefreshService) String() string { return "library-refresh" }
