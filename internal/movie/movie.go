// Package movie holds the collection's domain types and the helpers that
// normalize backend quirks (ratings text, rating grades).
package movie

import "strings"

type Movie struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Genre       string   `json:"genre"`
	Actors      string   `json:"actors"`
	PosterURL   string   `json:"poster_url,omitempty"`
	IMDbID      string   `json:"imdb_id,omitempty"`
	Ratings     []Rating `json:"ratings"`
	Watched     bool     `json:"watched"`
}

type Rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// IMDbURL returns an empty string when the movie has no IMDb id.
func (m Movie) IMDbURL() string {
	id := strings.TrimSpace(m.IMDbID)
	if id == "" {
		return ""
	}
	return "https://www.imdb.com/title/" + id
}

// Statistics is the backend's precomputed aggregate over the collection.
type Statistics struct {
	TotalMovies       int                `json:"total_movies"`
	WatchedMovies     int                `json:"watched_movies"`
	UnwatchedMovies   int                `json:"unwatched_movies"`
	WatchedPercentage float64            `json:"watched_percentage"`
	AvgRatings        map[string]float64 `json:"avg_ratings"`
	Types             []Count            `json:"types"`
	Genres            []Count            `json:"genres"`
	TopActors         []Count            `json:"top_actors"`
}

type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SplitList splits a comma-separated backend field ("Drama, Crime") into its
// non-empty parts.
func SplitList(field string) []string {
	if strings.TrimSpace(field) == "" {
		return nil
	}
	parts := strings.Split(field, ", ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
