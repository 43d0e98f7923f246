package view

import (
	"net/url"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/handsomefox/watchlist/internal/movie"
)

func sampleMovies() []movie.Movie {
	return []movie.Movie{
		{ID: 1, Title: "Cast Away", Genre: "Adventure, Drama", Actors: "Tom Hanks, Helen Hunt", Watched: true},
		{ID: 2, Title: "Top Gun", Genre: "Action, Drama", Actors: "Tom Cruise, Kelly McGillis"},
		{ID: 3, Title: "When Harry Met Sally...", Genre: "Comedy, Romance", Actors: "Billy Crystal, Meg Ryan"},
		{ID: 4, Title: "Sleepless in Seattle", Genre: "Comedy, Drama, Romance", Actors: "Tom Hanks, Meg Ryan"},
	}
}

func ids(movies []movie.Movie) []int64 {
	out := make([]int64, 0, len(movies))
	for i := range movies {
		out = append(out, movies[i].ID)
	}
	return out
}

func TestDerive_DefaultFiltersIsIdentity(t *testing.T) {
	movies := sampleMovies()
	got := Derive(movies, DefaultFilters())
	if !reflect.DeepEqual(ids(got), []int64{1, 2, 3, 4}) {
		t.Fatalf("default filters changed the list: %v", ids(got))
	}
	if !reflect.DeepEqual(Derive(movies, Filters{}), got) {
		t.Fatalf("zero Filters should behave like defaults")
	}
}

func TestDerive_Predicates(t *testing.T) {
	cases := []struct {
		name string
		f    Filters
		want []int64
	}{
		{"search case-insensitive", Filters{Search: "SEATTLE"}, []int64{4}},
		{"search substring", Filters{Search: "a"}, []int64{1, 3, 4}},
		{"genre", Filters{Genre: "Romance"}, []int64{3, 4}},
		{"actor", Filters{Actor: "Tom Hanks"}, []int64{1, 4}},
		{"watched", Filters{Status: StatusWatched}, []int64{1}},
		{"to watch", Filters{Status: StatusToWatch}, []int64{2, 3, 4}},
		{"combined", Filters{Genre: "Drama", Actor: "Tom", Status: StatusToWatch}, []int64{2, 4}},
		{"no match", Filters{Search: "zzz"}, []int64{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(Derive(sampleMovies(), tc.f))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Derive(%+v) = %v, want %v", tc.f, got, tc.want)
			}
		})
	}
}

func TestDerive_OnlySatisfyingElements(t *testing.T) {
	movies := sampleMovies()
	filters := []Filters{
		{Search: "e", Status: StatusToWatch},
		{Genre: "Comedy", Actor: "Meg Ryan"},
		{Status: StatusWatched, Random: true, Seed: 42},
	}
	for _, f := range filters {
		for _, m := range Derive(movies, f) {
			if !strings.Contains(strings.ToLower(m.Title), strings.ToLower(f.Search)) ||
				!strings.Contains(m.Genre, f.Genre) ||
				!strings.Contains(m.Actors, f.Actor) ||
				(f.Status == StatusWatched && !m.Watched) ||
				(f.Status == StatusToWatch && m.Watched) {
				t.Fatalf("Derive(%+v) included non-matching movie %+v", f, m)
			}
		}
	}
}

func TestDerive_RandomIsSeededPermutation(t *testing.T) {
	movies := make([]movie.Movie, 0, 20)
	for i := int64(1); i <= 20; i++ {
		movies = append(movies, movie.Movie{ID: i, Title: "m"})
	}
	f := Filters{Random: true, Seed: 7}

	first := ids(Derive(movies, f))
	second := ids(Derive(movies, f))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same seed should give the same order: %v vs %v", first, second)
	}

	sorted := slices.Clone(first)
	slices.Sort(sorted)
	if !reflect.DeepEqual(sorted, ids(movies)) {
		t.Fatalf("random order is not a permutation: %v", first)
	}
	if ids(movies)[0] != 1 || ids(movies)[19] != 20 {
		t.Fatalf("Derive mutated its input")
	}

	other := ids(Derive(movies, Filters{Random: true, Seed: 8}))
	if reflect.DeepEqual(first, other) {
		t.Fatalf("different seeds produced the same order %v", first)
	}
}

func TestExtractOptions(t *testing.T) {
	opts := ExtractOptions(sampleMovies())
	wantGenres := []string{"Adventure", "Drama", "Action", "Comedy", "Romance"}
	wantActors := []string{"Tom Hanks", "Helen Hunt", "Tom Cruise", "Kelly McGillis", "Billy Crystal", "Meg Ryan"}
	if !reflect.DeepEqual(opts.Genres, wantGenres) {
		t.Fatalf("genres = %v", opts.Genres)
	}
	if !reflect.DeepEqual(opts.Actors, wantActors) {
		t.Fatalf("actors = %v", opts.Actors)
	}
	if got := opts.SortedGenres(); !reflect.DeepEqual(got, []string{"Action", "Adventure", "Comedy", "Drama", "Romance"}) {
		t.Fatalf("sorted genres = %v", got)
	}

	empty := ExtractOptions(nil)
	if empty.Genres == nil || empty.Actors == nil {
		t.Fatalf("empty collection should give empty, non-nil options")
	}
}

func TestSuggest(t *testing.T) {
	known := []string{"Tom Hanks", "Tom Cruise", "Meg Ryan"}
	if got := Suggest("tom", known); !reflect.DeepEqual(got, []string{"Tom Hanks", "Tom Cruise"}) {
		t.Fatalf("Suggest(tom) = %v", got)
	}
	if got := Suggest("RY", known); !reflect.DeepEqual(got, []string{"Meg Ryan"}) {
		t.Fatalf("Suggest(RY) = %v", got)
	}
	if got := Suggest("   ", known); got != nil {
		t.Fatalf("blank input should give no suggestions, got %v", got)
	}
	if got := Suggest(" tom", known); got != nil {
		t.Fatalf("leading space is part of the input, got %v", got)
	}
	if got := Suggest("m h", known); !reflect.DeepEqual(got, []string{"Tom Hanks"}) {
		t.Fatalf("Suggest(m h) = %v", got)
	}
}

func TestTypeActor_BlankClearsSelection(t *testing.T) {
	known := []string{"Tom Hanks", "Tom Cruise", "Meg Ryan"}
	f := DefaultFilters().SelectActor("Tom Hanks")
	if f.Actor != "Tom Hanks" || f.ActorInput != "Tom Hanks" {
		t.Fatalf("SelectActor did not apply: %+v", f)
	}

	f, suggestions := f.TypeActor("", known)
	if f.Actor != "" || suggestions != nil {
		t.Fatalf("blank input should clear actor and suggestions: %+v %v", f, suggestions)
	}

	f, suggestions = f.TypeActor("meg", known)
	if f.ActorInput != "meg" || f.Actor != "" || !reflect.DeepEqual(suggestions, []string{"Meg Ryan"}) {
		t.Fatalf("typing should only narrow suggestions: %+v %v", f, suggestions)
	}

	if f = f.ClearActor(); f.Actor != "" || f.ActorInput != "" {
		t.Fatalf("ClearActor left state behind: %+v", f)
	}
}

func TestFilters_QueryRoundTrip(t *testing.T) {
	f := Filters{
		Search:     "top",
		Status:     StatusToWatch,
		Genre:      "Drama",
		Actor:      "Tom Cruise",
		ActorInput: "Tom Cruise",
		Random:     true,
		Seed:       99,
	}
	q, err := url.ParseQuery(f.Encode())
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if got := FiltersFromQuery(q); !reflect.DeepEqual(got, f) {
		t.Fatalf("round trip = %+v, want %+v", got, f)
	}

	if DefaultFilters().Encode() != "" {
		t.Fatalf("default filters should encode empty, got %q", DefaultFilters().Encode())
	}
	cleared := FiltersFromQuery(url.Values{"actor": {"Tom Cruise"}, "actor_input": {" "}})
	if cleared.Actor != "" {
		t.Fatalf("blank submitted actor box should clear the actor, got %+v", cleared)
	}
	kept := FiltersFromQuery(url.Values{"actor": {"Tom Cruise"}, "actor_input": {"tom c"}})
	if kept.Actor != "Tom Cruise" || kept.ActorInput != "tom c" {
		t.Fatalf("typing should keep the selected actor, got %+v", kept)
	}

	if got := FiltersFromQuery(url.Values{"status": {"bogus"}}); got.Status != StatusAll {
		t.Fatalf("unknown status should normalize to all, got %q", got.Status)
	}
}

func TestParseFilters_RandomByDefault(t *testing.T) {
	if got := ParseFilters(url.Values{}, true); !got.Random || got.Seed != 0 {
		t.Fatalf("absent random should follow the default: %+v", got)
	}
	if got := ParseFilters(url.Values{"random": {"0"}}, true); got.Random {
		t.Fatalf("random=0 should turn random order off")
	}
	if got := ParseFilters(url.Values{}, false); got.Random {
		t.Fatalf("absent random with default off should stay off")
	}

	off := DefaultFilters()
	if got := off.QueryFor(true).Get("random"); got != "0" {
		t.Fatalf("QueryFor(true) random = %q, want 0", got)
	}
	if got := off.QueryFor(false).Encode(); got != "" {
		t.Fatalf("QueryFor(false) = %q, want empty", got)
	}
}

func TestFilters_ToggleRandom(t *testing.T) {
	on := DefaultFilters().ToggleRandom(5)
	if !on.Random || on.Seed != 5 {
		t.Fatalf("toggle on = %+v", on)
	}
	off := on.ToggleRandom(6)
	if off.Random || off.Seed != 0 {
		t.Fatalf("toggle off = %+v", off)
	}
	if !off.IsDefault() {
		t.Fatalf("toggled-off defaults should be default")
	}
}
