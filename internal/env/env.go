// Package env reports which deployment the process runs in.
package env

import (
	"os"
	"strings"
)

type Environment string

const (
	Local      Environment = "local"
	Production Environment = "production"

	Key string = "ENV"
)

func (e Environment) Valid() bool {
	switch e {
	case Local, Production:
		return true
	}
	return false
}

// Parse falls back to Local for anything it does not recognize.
func Parse(v string) Environment {
	e := Environment(strings.ToLower(strings.TrimSpace(v)))
	if !e.Valid() {
		return Local
	}
	return e
}

var Current = Local

func init() {
	Current = Parse(os.Getenv(Key))
}
