package view

import (
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/handsomefox/watchlist/internal/movie"
)

// Derive returns the movies matching every active filter, in input order
// unless random ordering is on. The input slice is never modified.
func Derive(movies []movie.Movie, f Filters) []movie.Movie {
	search := strings.ToLower(f.Search)

	out := make([]movie.Movie, 0, len(movies))
	for i := range movies {
		if matches(&movies[i], search, f) {
			out = append(out, movies[i])
		}
	}

	if f.Random {
		shuffle(out, f.Seed)
	}
	return out
}

func matches(m *movie.Movie, search string, f Filters) bool {
	if !strings.Contains(strings.ToLower(m.Title), search) {
		return false
	}
	if f.Genre != "" && !strings.Contains(m.Genre, f.Genre) {
		return false
	}
	if f.Actor != "" && !strings.Contains(m.Actors, f.Actor) {
		return false
	}
	switch f.Status {
	case StatusWatched:
		return m.Watched
	case StatusToWatch:
		return !m.Watched
	}
	return true
}

// shuffle is a Fisher-Yates pass driven by seed, so equal inputs always give
// the same permutation.
func shuffle(items []movie.Movie, seed int64) {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

// Options are the distinct values offered by the genre dropdown and the actor
// typeahead, in first-seen order.
type Options struct {
	Genres []string `json:"genres"`
	Actors []string `json:"actors"`
}

func ExtractOptions(movies []movie.Movie) Options {
	opts := Options{Genres: []string{}, Actors: []string{}}
	seenGenres := map[string]struct{}{}
	seenActors := map[string]struct{}{}
	for i := range movies {
		opts.Genres = appendDistinct(opts.Genres, seenGenres, movie.SplitList(movies[i].Genre))
		opts.Actors = appendDistinct(opts.Actors, seenActors, movie.SplitList(movies[i].Actors))
	}
	return opts
}

func appendDistinct(dst []string, seen map[string]struct{}, values []string) []string {
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}

// SortedGenres is the dropdown order: alphabetical, case-insensitive.
func (o Options) SortedGenres() []string {
	out := slices.Clone(o.Genres)
	slices.SortFunc(out, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return out
}
