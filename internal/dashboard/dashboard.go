// Package dashboard turns a statistics snapshot into the view model rendered
// by the statistics page. It never recomputes aggregates.
package dashboard

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/handsomefox/watchlist/internal/movie"
)

type Tab string

const (
	TabOverview Tab = "overview"
	TabGenres   Tab = "genres"
	TabActors   Tab = "actors"
	TabRatings  Tab = "ratings"
)

const (
	topGenres     = 15
	minLabelShare = 0.05
)

type TabLink struct {
	ID     Tab
	Label  string
	Active bool
}

var tabs = []struct {
	id    Tab
	label string
}{
	{TabOverview, "Overview"},
	{TabGenres, "Genres"},
	{TabActors, "Top Actors"},
	{TabRatings, "Ratings"},
}

func ParseTab(s string) Tab {
	for _, t := range tabs {
		if string(t.id) == strings.TrimSpace(s) {
			return t.id
		}
	}
	return TabOverview
}

// Slice is one pie segment. Label is empty for segments too thin to label.
type Slice struct {
	Name    string
	Count   int
	Percent float64
	Label   string
}

// Bar is one bar of a bar chart; Fill is the bar length as a percentage of
// the chart's scale.
type Bar struct {
	Name  string
	Value float64
	Max   float64
	Fill  float64
}

type RatingCard struct {
	Source  string
	Display string
}

type Page struct {
	Tab  Tab
	Tabs []TabLink

	TotalMovies       int
	WatchedMovies     int
	UnwatchedMovies   int
	WatchedPercentage float64

	WatchStatus []Slice
	Types       []Slice
	Genres      []Bar
	Actors      []Bar
	Ratings     []Bar
	RatingCards []RatingCard
}

func Build(stats *movie.Statistics, tab Tab) Page {
	p := Page{Tab: ParseTab(string(tab))}
	for _, t := range tabs {
		p.Tabs = append(p.Tabs, TabLink{ID: t.id, Label: t.label, Active: t.id == p.Tab})
	}
	if stats == nil {
		return p
	}

	p.TotalMovies = stats.TotalMovies
	p.WatchedMovies = stats.WatchedMovies
	p.UnwatchedMovies = stats.UnwatchedMovies
	p.WatchedPercentage = stats.WatchedPercentage

	p.WatchStatus = pie([]movie.Count{
		{Name: "Watched", Count: stats.WatchedMovies},
		{Name: "Unwatched", Count: stats.UnwatchedMovies},
	})
	p.Types = pie(stats.Types)
	p.Genres = countBars(stats.Genres[:min(len(stats.Genres), topGenres)])
	p.Actors = countBars(stats.TopActors)
	p.Ratings = RatingBars(stats.AvgRatings)
	p.RatingCards = ratingCards(stats.AvgRatings)
	return p
}

func pie(counts []movie.Count) []Slice {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	out := make([]Slice, 0, len(counts))
	for _, c := range counts {
		s := Slice{Name: c.Name, Count: c.Count}
		if total > 0 {
			share := float64(c.Count) / float64(total)
			s.Percent = round1(share * 100)
			if share >= minLabelShare {
				s.Label = c.Name
			}
		}
		out = append(out, s)
	}
	return out
}

// countBars scales against the largest count in the series.
func countBars(counts []movie.Count) []Bar {
	peak := 0
	for _, c := range counts {
		peak = max(peak, c.Count)
	}
	out := make([]Bar, 0, len(counts))
	for _, c := range counts {
		b := Bar{Name: c.Name, Value: float64(c.Count), Max: float64(peak)}
		if peak > 0 {
			b.Fill = round1(float64(c.Count) / float64(peak) * 100)
		}
		out = append(out, b)
	}
	return out
}

// ScaleFor is the maximum score of a rating source: IMDb scores out of 10,
// Rotten Tomatoes and Metacritic out of 100.
func ScaleFor(source string) float64 {
	switch source {
	case movie.SourceRottenTomatoes, movie.SourceMetacritic:
		return 100
	default:
		return 10
	}
}

// RatingBars orders sources by name so the chart is stable across renders.
func RatingBars(avg map[string]float64) []Bar {
	out := make([]Bar, 0, len(avg))
	for source, v := range avg {
		scale := ScaleFor(source)
		out = append(out, Bar{
			Name:  source,
			Value: v,
			Max:   scale,
			Fill:  round1(math.Min(math.Max(v/scale*100, 0), 100)),
		})
	}
	slices.SortFunc(out, func(a, b Bar) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

var cardSources = []string{movie.SourceIMDb, movie.SourceRottenTomatoes, movie.SourceMetacritic}

func ratingCards(avg map[string]float64) []RatingCard {
	out := make([]RatingCard, 0, len(cardSources))
	for _, source := range cardSources {
		out = append(out, RatingCard{Source: source, Display: FormatRating(source, avg)})
	}
	return out
}

// FormatRating renders an average for display, "N/A" when absent or zero.
func FormatRating(source string, avg map[string]float64) string {
	v, ok := avg[source]
	if !ok || v == 0 {
		return "N/A"
	}
	s := trimFloat(v)
	if source == movie.SourceRottenTomatoes {
		return s + "%"
	}
	return s
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func trimFloat(v float64) string {
	s := strings.TrimRight(strings.TrimRight(strconv.FormatFloat(v, 'f', 2, 64), "0"), ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
