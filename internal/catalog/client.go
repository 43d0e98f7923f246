// Package catalog wraps the movie backend's REST API.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/handsomefox/watchlist/internal/movie"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
)

var ErrResponseTooLarge = errors.New("response too large")

type Client struct {
	baseURL string
	http    *http.Client
	breaker *breaker
}

type Options struct {
	Timeout         time.Duration
	BreakerFailures uint32
	BreakerTimeout  time.Duration
	HTTPClient      *http.Client
}

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Op     string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog %s failed: %s", e.Op, e.Status)
}

// Temporary reports whether the failure is on the backend side.
func (e *StatusError) Temporary() bool { return e.Code >= http.StatusInternalServerError }

// movieResponse mirrors the wire shape. Ratings usually arrive as
// single-quoted text, occasionally as a real JSON array.
type movieResponse struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Genre       string          `json:"genre"`
	Actors      string          `json:"actors"`
	PosterURL   string          `json:"poster_url"`
	IMDbID      string          `json:"imdb_id"`
	Ratings     json.RawMessage `json:"ratings"`
	Watched     bool            `json:"watched"`
}

func New(baseURL string, opts Options) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend url %q: scheme must be http or https", baseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: baseURL,
		http:    hc,
		breaker: newBreaker("catalog-backend", opts.BreakerFailures, opts.BreakerTimeout),
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) ListMovies(ctx context.Context) ([]movie.Movie, error) {
	body, err := c.do(ctx, "list", http.MethodGet, "/movies/", nil)
	if err != nil {
		return nil, err
	}

	var payload []movieResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("catalog list: decode: %w", err)
	}

	out := make([]movie.Movie, 0, len(payload))
	for i := range payload {
		out = append(out, toMovie(&payload[i]))
	}
	return out, nil
}

// AddMovie asks the backend to look up and store a movie by title. The
// response body is not used.
func (c *Client) AddMovie(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("catalog add: title is required")
	}
	values := url.Values{}
	values.Set("title", title)
	_, err := c.do(ctx, "add", http.MethodPost, "/movies/", values)
	return err
}

func (c *Client) ToggleWatched(ctx context.Context, id int64) error {
	_, err := c.do(ctx, "toggle_watched", http.MethodPut, "/movies/"+strconv.FormatInt(id, 10)+"/watched", nil)
	return err
}

func (c *Client) DeleteMovie(ctx context.Context, id int64) error {
	_, err := c.do(ctx, "delete", http.MethodDelete, "/movies/"+strconv.FormatInt(id, 10)+"/", nil)
	return err
}

func (c *Client) Statistics(ctx context.Context) (*movie.Statistics, error) {
	body, err := c.do(ctx, "statistics", http.MethodGet, "/statistics/", nil)
	if err != nil {
		return nil, err
	}

	var stats movie.Statistics
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("catalog statistics: decode: %w", err)
	}
	if stats.AvgRatings == nil {
		stats.AvgRatings = map[string]float64{}
	}
	return &stats, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return c.breaker.execute(op, func() ([]byte, error) {
		return c.roundTrip(ctx, op, method, endpoint)
	})
}

func (c *Client) roundTrip(ctx context.Context, op, method, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Op: op, Code: resp.StatusCode, Status: resp.Status}
		if cerr := resp.Body.Close(); cerr != nil {
			return nil, errors.Join(statusErr, cerr)
		}
		return nil, statusErr
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		if cerr := resp.Body.Close(); cerr != nil {
			return nil, errors.Join(err, cerr)
		}
		return nil, fmt.Errorf("catalog %s: read body: %w", op, err)
	}
	if err := resp.Body.Close(); err != nil {
		return nil, err
	}
	if n > maxBodyBytes {
		return nil, fmt.Errorf("catalog %s: %w (limit %d bytes)", op, ErrResponseTooLarge, maxBodyBytes)
	}
	return buf.Bytes(), nil
}

func toMovie(r *movieResponse) movie.Movie {
	return movie.Movie{
		ID:          r.ID,
		Title:       r.Title,
		Type:        r.Type,
		Description: r.Description,
		Genre:       r.Genre,
		Actors:      r.Actors,
		PosterURL:   strings.TrimSpace(r.PosterURL),
		IMDbID:      strings.TrimSpace(r.IMDbID),
		Ratings:     decodeRatings(r.Ratings),
		Watched:     r.Watched,
	}
}

func decodeRatings(raw json.RawMessage) []movie.Rating {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []movie.Rating{}
	}
	switch raw[0] {
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return movie.ParseRatings(string(raw))
		}
		return movie.ParseRatings(text)
	case '[':
		var out []movie.Rating
		if err := json.Unmarshal(raw, &out); err == nil && out != nil {
			return out
		}
	}
	return movie.ParseRatings(string(raw))
}
