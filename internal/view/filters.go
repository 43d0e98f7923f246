// Package view derives what the movie list shows from the fetched collection
// and the user's filter state. Everything here is pure.
package view

import (
	"net/url"
	"strconv"
	"strings"
)

type Status string

const (
	StatusAll     Status = "all"
	StatusWatched Status = "watched"
	StatusToWatch Status = "to_watch"
)

func ParseStatus(s string) Status {
	switch Status(strings.TrimSpace(s)) {
	case StatusWatched:
		return StatusWatched
	case StatusToWatch:
		return StatusToWatch
	default:
		return StatusAll
	}
}

// Filters is the user-chosen state narrowing the displayed list. It round
// trips through URL query values so every page view carries it explicitly.
type Filters struct {
	Search     string `json:"search"`
	Status     Status `json:"status"`
	Genre      string `json:"genre,omitempty"`
	Actor      string `json:"actor,omitempty"`
	ActorInput string `json:"actor_input,omitempty"`
	Random     bool   `json:"random"`
	// Seed fixes the shuffle while Random is on. It is picked once when the
	// toggle is switched on.
	Seed int64 `json:"seed,omitempty"`
}

func DefaultFilters() Filters {
	return Filters{Status: StatusAll}
}

func FiltersFromQuery(q url.Values) Filters { return ParseFilters(q, false) }

// ParseFilters reads filters from q. randomByDefault decides the order when
// the query does not say; "random=0" always turns it off.
func ParseFilters(q url.Values, randomByDefault bool) Filters {
	f := Filters{
		Search:     q.Get("search"),
		Status:     ParseStatus(q.Get("status")),
		Genre:      strings.TrimSpace(q.Get("genre")),
		Actor:      strings.TrimSpace(q.Get("actor")),
		ActorInput: q.Get("actor_input"),
	}
	switch strings.ToLower(q.Get("random")) {
	case "1", "true", "on":
		f.Random = true
	case "":
		f.Random = randomByDefault
	}
	if f.Random {
		if seed, err := strconv.ParseInt(q.Get("seed"), 10, 64); err == nil {
			f.Seed = seed
		}
	}
	// A submitted but blank actor box clears the selection; an absent one
	// means the box shows the selected actor.
	if _, typed := q["actor_input"]; typed {
		f, _ = f.TypeActor(f.ActorInput, nil)
	} else {
		f.ActorInput = f.Actor
	}
	return f
}

// Query encodes only the non-default fields.
func (f Filters) Query() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Status != "" && f.Status != StatusAll {
		q.Set("status", string(f.Status))
	}
	if f.Genre != "" {
		q.Set("genre", f.Genre)
	}
	if f.Actor != "" {
		q.Set("actor", f.Actor)
	}
	if f.ActorInput != "" && f.ActorInput != f.Actor {
		q.Set("actor_input", f.ActorInput)
	}
	if f.Random {
		q.Set("random", "1")
		if f.Seed != 0 {
			q.Set("seed", strconv.FormatInt(f.Seed, 10))
		}
	}
	return q
}

// Encode returns the query string form, without the leading '?'.
func (f Filters) Encode() string { return f.Query().Encode() }

// QueryFor is Query for a reader whose default is random order, so random
// order being off has to be spelled out.
func (f Filters) QueryFor(randomByDefault bool) url.Values {
	q := f.Query()
	if randomByDefault && !f.Random {
		q.Set("random", "0")
	}
	return q
}

// ToggleRandom flips random ordering. Turning it on installs seed; turning it
// off drops the seed so the next toggle-on reshuffles.
func (f Filters) ToggleRandom(seed int64) Filters {
	f.Random = !f.Random
	if f.Random {
		f.Seed = seed
	} else {
		f.Seed = 0
	}
	return f
}

func (f Filters) IsDefault() bool {
	return f.Search == "" && (f.Status == "" || f.Status == StatusAll) &&
		f.Genre == "" && f.Actor == "" && !f.Random
}
