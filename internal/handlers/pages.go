package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/handsomefox/watchlist/internal/dashboard"
	"github.com/handsomefox/watchlist/internal/library"
	"github.com/handsomefox/watchlist/internal/logger"
	"github.com/handsomefox/watchlist/internal/movie"
	"github.com/handsomefox/watchlist/internal/view"
)

const statisticsErrorMessage = "Error loading statistics. Please try again later."

type statusOption struct {
	Value    view.Status
	Label    string
	Selected bool
}

var statusLabels = []struct {
	value view.Status
	label string
}{
	{view.StatusAll, "All Movies"},
	{view.StatusWatched, "Watched"},
	{view.StatusToWatch, "To Watch"},
}

type moviesPage struct {
	Title  string
	Nav    string
	Notice string

	Filters       view.Filters
	Query         string
	StatusOptions []statusOption
	Genres        []string
	Suggestions   []string

	Count     int
	Total     int
	Suggested *movie.Movie
	Movies    []movie.Movie

	DebounceMillis int64
}

type statisticsPage struct {
	Title  string
	Nav    string
	Notice string
	Error  string
	Page   dashboard.Page
}

func (h *Handler) getMoviesPage(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	f := view.ParseFilters(q, h.randomDefault)

	// Switching random order on picks the seed exactly once; afterwards it
	// travels in the URL so the order stays put across renders.
	if f.Random && f.Seed == 0 {
		f.Seed = h.seed()
		http.Redirect(w, r, h.moviesURL(f, q.Get("notice")), http.StatusFound)
		return nil
	}

	status := http.StatusOK
	notice := q.Get("notice")
	// Every full page load re-fetches. A failed fetch keeps the last snapshot.
	if err := h.library.Refresh(r.Context()); err != nil {
		slog.Error("load movies failed", logger.Error(err))
		notice = "Could not load movies. Please try again later."
		if !h.library.Snapshot().Loaded {
			status = http.StatusBadGateway
		}
	}

	snap := h.library.Snapshot()
	visible := view.Derive(snap.Movies, f)

	var suggestions []string
	if f.ActorInput != f.Actor {
		_, suggestions = f.TypeActor(f.ActorInput, snap.Options.Actors)
	}

	data := moviesPage{
		Title:          "Movies",
		Nav:            "movies",
		Notice:         notice,
		Filters:        f,
		Query:          f.QueryFor(h.randomDefault).Encode(),
		StatusOptions:  statusOptions(f.Status),
		Genres:         snap.Options.SortedGenres(),
		Suggestions:    suggestions,
		Count:          len(visible),
		Total:          len(snap.Movies),
		Movies:         visible,
		DebounceMillis: h.debounce.Milliseconds(),
	}
	if q.Get("suggest") != "" {
		if m, ok := h.library.Pick(h.rng); ok {
			data.Suggested = &m
		} else if data.Notice == "" {
			data.Notice = "Every movie in the collection has been watched."
		}
	}

	return h.renderHTML(w, status, "movies.html", data)
}

func statusOptions(selected view.Status) []statusOption {
	opts := make([]statusOption, 0, len(statusLabels))
	for _, s := range statusLabels {
		opts = append(opts, statusOption{Value: s.value, Label: s.label, Selected: s.value == selected})
	}
	return opts
}

func (h *Handler) postMovieForm(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return badRequest("invalid form")
	}
	return h.mutateAndRedirect(w, r, "add the movie", func() error {
		return h.library.Add(r.Context(), r.PostForm.Get("title"))
	})
}

func (h *Handler) postWatchedForm(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return badRequest(err.Error())
	}
	return h.mutateAndRedirect(w, r, "update the movie", func() error {
		return h.library.ToggleWatched(r.Context(), id)
	})
}

func (h *Handler) postDeleteForm(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return badRequest(err.Error())
	}
	return h.mutateAndRedirect(w, r, "delete the movie", func() error {
		return h.library.Delete(r.Context(), id)
	})
}

// mutateAndRedirect runs a form mutation and sends the browser back to the
// list it came from. A failure travels along as a notice.
func (h *Handler) mutateAndRedirect(w http.ResponseWriter, r *http.Request, action string, fn func() error) error {
	f := view.ParseFilters(r.URL.Query(), h.randomDefault)

	var notice string
	if !h.limiter.Allow() {
		notice = "Too many changes at once, slow down and try again."
	} else if err := fn(); err != nil {
		if errors.Is(err, library.ErrBlankTitle) {
			notice = "Enter a movie title to add it."
		} else {
			notice = userMessage(action, err)
		}
	}

	http.Redirect(w, r, h.moviesURL(f, notice), http.StatusSeeOther)
	return nil
}

func (h *Handler) moviesURL(f view.Filters, notice string) string {
	q := f.QueryFor(h.randomDefault)
	if notice != "" {
		q.Set("notice", notice)
	}
	u := url.URL{Path: "/movies", RawQuery: q.Encode()}
	return u.String()
}

func (h *Handler) getStatisticsPage(w http.ResponseWriter, r *http.Request) error {
	tab := dashboard.ParseTab(r.URL.Query().Get("tab"))
	data := statisticsPage{Title: "Statistics", Nav: "stats"}

	stats, err := h.stats.Statistics(r.Context())
	if err != nil {
		slog.Error("load statistics failed", logger.Error(err))
		data.Error = statisticsErrorMessage
		return h.renderHTML(w, http.StatusBadGateway, "statistics.html", data)
	}

	data.Page = dashboard.Build(stats, tab)
	return h.renderHTML(w, http.StatusOK, "statistics.html", data)
}
