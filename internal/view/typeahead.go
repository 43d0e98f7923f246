package view

import "strings"

// Suggest returns the known actors whose name contains input,
// case-insensitively, in the order they are known. Input is matched as typed,
// surrounding spaces included; whitespace-only input suggests nothing.
func Suggest(input string, actors []string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	needle := strings.ToLower(input)
	var out []string
	for _, a := range actors {
		if strings.Contains(strings.ToLower(a), needle) {
			out = append(out, a)
		}
	}
	return out
}

// TypeActor records free text typed into the actor box. Blank text drops the
// active actor filter.
func (f Filters) TypeActor(input string, actors []string) (Filters, []string) {
	f.ActorInput = input
	if strings.TrimSpace(input) == "" {
		f.Actor = ""
		return f, nil
	}
	return f, Suggest(input, actors)
}

// SelectActor applies a chosen suggestion as the exact actor filter.
func (f Filters) SelectActor(name string) Filters {
	f.Actor = name
	f.ActorInput = name
	return f
}

func (f Filters) ClearActor() Filters {
	f.Actor = ""
	f.ActorInput = ""
	return f
}
