// Package library keeps the in-memory snapshot of the movie collection and
// refreshes it after every mutation.
package library

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/handsomefox/watchlist/internal/logger"
	"github.com/handsomefox/watchlist/internal/metrics"
	"github.com/handsomefox/watchlist/internal/movie"
	"github.com/handsomefox/watchlist/internal/view"
)

var ErrBlankTitle = errors.New("movie title is required")

// Backend is the subset of the catalog client the library drives.
type Backend interface {
	ListMovies(ctx context.Context) ([]movie.Movie, error)
	AddMovie(ctx context.Context, title string) error
	ToggleWatched(ctx context.Context, id int64) error
	DeleteMovie(ctx context.Context, id int64) error
}

// Snapshot is immutable once published; callers must not modify Movies.
type Snapshot struct {
	Movies    []movie.Movie
	Options   view.Options
	FetchedAt time.Time
	Loaded    bool
}

type Library struct {
	backend Backend
	now     func() time.Time

	// issued numbers every fetch; applied is the newest one published.
	issued  atomic.Uint64
	mu      sync.RWMutex
	applied uint64
	snap    Snapshot
}

func New(backend Backend) *Library {
	return &Library{
		backend: backend,
		now:     time.Now,
		snap:    Snapshot{Movies: []movie.Movie{}, Options: view.ExtractOptions(nil)},
	}
}

func (l *Library) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap
}

// Refresh fetches the whole collection and replaces the snapshot, unless a
// fetch issued later has already been applied.
func (l *Library) Refresh(ctx context.Context) error {
	seq := l.issued.Add(1)

	movies, err := l.backend.ListMovies(ctx)
	if err != nil {
		slog.Warn("library refresh failed", logger.Error(err), slog.Uint64("seq", seq))
		return err
	}

	next := Snapshot{
		Movies:    movies,
		Options:   view.ExtractOptions(movies),
		FetchedAt: l.now(),
		Loaded:    true,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq < l.applied {
		metrics.StaleFetchesDiscarded.Inc()
		slog.Debug("library: discarding stale fetch", slog.Uint64("seq", seq), slog.Uint64("applied", l.applied))
		return nil
	}
	l.applied = seq
	l.snap = next
	return nil
}

// EnsureLoaded fetches once if nothing has been loaded yet.
func (l *Library) EnsureLoaded(ctx context.Context) error {
	if l.Snapshot().Loaded {
		return nil
	}
	return l.Refresh(ctx)
}

func (l *Library) Add(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrBlankTitle
	}
	return l.mutate(ctx, "add", func(ctx context.Context) error {
		return l.backend.AddMovie(ctx, title)
	})
}

func (l *Library) ToggleWatched(ctx context.Context, id int64) error {
	return l.mutate(ctx, "toggle_watched", func(ctx context.Context) error {
		return l.backend.ToggleWatched(ctx, id)
	})
}

func (l *Library) Delete(ctx context.Context, id int64) error {
	return l.mutate(ctx, "delete", func(ctx context.Context) error {
		return l.backend.DeleteMovie(ctx, id)
	})
}

// mutate runs fn and then re-fetches regardless of its outcome. The
// mutation's error wins over the refresh error.
func (l *Library) mutate(ctx context.Context, op string, fn func(context.Context) error) error {
	err := fn(ctx)
	if err != nil {
		slog.Warn("library mutation failed", slog.String("op", op), logger.Error(err))
	}
	if rerr := l.Refresh(ctx); rerr != nil && err == nil {
		return rerr
	}
	return err
}

// Pick returns a uniformly random unwatched movie from the current snapshot.
func (l *Library) Pick(rng *rand.Rand) (movie.Movie, bool) {
	snap := l.Snapshot()
	var candidates []int
	for i := range snap.Movies {
		if !snap.Movies[i].Watched {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return movie.Movie{}, false
	}
	var n int
	if rng == nil {
		n = rand.IntN(len(candidates))
	} else {
		n = rng.IntN(len(candidates))
	}
	return snap.Movies[candidates[n]], true
}

// Find looks a movie up by id in the current snapshot.
func (l *Library) Find(id int64) (movie.Movie, bool) {
	snap := l.Snapshot()
	for i := range snap.Movies {
		if snap.Movies[i].ID == id {
			return snap.Movies[i], true
		}
	}
	return movie.Movie{}, false
}
