// Package web embeds the page templates and static assets for the server.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/url"
	"strconv"

	"github.com/handsomefox/watchlist/internal/movie"
)

//go:embed templates/*.html static/*
var assets embed.FS

func Static() (fs.FS, error) {
	return fs.Sub(assets, "static")
}

// Templates parses every page template. Pages are looked up by file name,
// e.g. "movies.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(assets, "templates/*.html")
}

var funcs = template.FuncMap{
	"grade": func(source, value string) string {
		return movie.Classify(source, value).String()
	},
	"percent": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 1, 64)
	},
	"number": func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	},
	// link merges key/value pairs into an encoded query string and returns
	// path?query. An empty value removes the key.
	"link": func(path, query string, kv ...string) template.URL {
		q, err := url.ParseQuery(query)
		if err != nil {
			q = url.Values{}
		}
		for i := 0; i+1 < len(kv); i += 2 {
			if kv[i+1] == "" {
				q.Del(kv[i])
				continue
			}
			q.Set(kv[i], kv[i+1])
		}
		if len(q) == 0 {
			return template.URL(path) //nolint:gosec // path is a constant route.
		}
		return template.URL(path + "?" + q.Encode()) //nolint:gosec // query is encoded above.
	},
}
