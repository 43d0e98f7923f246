package handlers

import (
	"log/slog"
	"net/http"

	"github.com/handsomefox/watchlist/internal/logger"
	"github.com/handsomefox/watchlist/internal/movie"
	"github.com/handsomefox/watchlist/internal/view"
)

type moviesResponse struct {
	Movies  []movie.Movie `json:"movies"`
	Genres  []string      `json:"genres"`
	Actors  []string      `json:"actors"`
	Total   int           `json:"total"`
	Filters view.Filters  `json:"filters"`
}

type actorsResponse struct {
	Suggestions []string `json:"suggestions"`
}

func (h *Handler) getMovies(w http.ResponseWriter, r *http.Request) error {
	f := view.ParseFilters(r.URL.Query(), h.randomDefault)
	if f.Random && f.Seed == 0 {
		f.Seed = h.seed()
	}

	if err := h.library.Refresh(r.Context()); err != nil {
		if !h.library.Snapshot().Loaded {
			return err
		}
		slog.Warn("serving last loaded movies", logger.Error(err))
	}
	snap := h.library.Snapshot()

	writeJSON(w, http.StatusOK, &moviesResponse{
		Movies:  view.Derive(snap.Movies, f),
		Genres:  snap.Options.SortedGenres(),
		Actors:  snap.Options.Actors,
		Total:   len(snap.Movies),
		Filters: f,
	})
	return nil
}

func (h *Handler) getActors(w http.ResponseWriter, r *http.Request) error {
	if err := h.library.EnsureLoaded(r.Context()); err != nil {
		return err
	}
	suggestions := view.Suggest(r.URL.Query().Get("q"), h.library.Snapshot().Options.Actors)
	if suggestions == nil {
		suggestions = []string{}
	}
	writeJSON(w, http.StatusOK, &actorsResponse{Suggestions: suggestions})
	return nil
}

func (h *Handler) getStatistics(w http.ResponseWriter, r *http.Request) error {
	stats, err := h.stats.Statistics(r.Context())
	if err != nil {
		slog.Error("load statistics failed", logger.Error(err))
		return &Error{Status: http.StatusBadGateway, Message: statisticsErrorMessage}
	}
	writeJSON(w, http.StatusOK, stats)
	return nil
}

func (h *Handler) postMovie(w http.ResponseWriter, r *http.Request) error {
	if err := h.library.Add(r.Context(), r.URL.Query().Get("title")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *Handler) putWatched(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return badRequest(err.Error())
	}
	if err := h.library.ToggleWatched(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *Handler) deleteMovie(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return badRequest(err.Error())
	}
	if err := h.library.Delete(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
