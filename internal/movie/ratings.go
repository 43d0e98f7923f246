package movie

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/handsomefox/watchlist/internal/logger"
	"github.com/handsomefox/watchlist/internal/metrics"
)

const (
	SourceRottenTomatoes = "Rotten Tomatoes"
	SourceIMDb           = "Internet Movie Database"
	SourceMetacritic     = "Metacritic"
)

// ParseRatings decodes the backend's single-quoted ratings text, e.g.
// [{'Source': 'Metacritic', 'Value': '74/100'}]. It never fails: empty or
// malformed input yields an empty slice.
func ParseRatings(raw string) []Rating {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []Rating{}
	}

	var out []Rating
	if err := json.Unmarshal([]byte(strings.ReplaceAll(raw, "'", `"`)), &out); err != nil {
		slog.Warn("parse ratings failed", logger.Error(err), slog.String("raw", raw))
		metrics.RatingsParseFailures.Inc()
		return []Rating{}
	}
	if out == nil {
		return []Rating{}
	}
	return out
}

type Grade int

const (
	GradeNeutral Grade = iota
	GradePoor
	GradeMedium
	GradeGood
	GradeExcellent
)

func (g Grade) String() string {
	switch g {
	case GradeExcellent:
		return "excellent"
	case GradeGood:
		return "good"
	case GradeMedium:
		return "medium"
	case GradePoor:
		return "poor"
	default:
		return "neutral"
	}
}

func (g Grade) IsGood() bool { return g >= GradeGood }

// Classify grades a rating value against the thresholds of its source.
// Values that carry no leading number grade as poor for known sources.
func Classify(source, value string) Grade {
	switch source {
	case SourceRottenTomatoes:
		pct, ok := leadingInt(strings.SplitN(value, "%", 2)[0])
		switch {
		case !ok:
			return GradePoor
		case pct >= 90:
			return GradeExcellent
		case pct >= 70:
			return GradeGood
		case pct >= 60:
			return GradeMedium
		}
		return GradePoor
	case SourceIMDb:
		score, ok := leadingFloat(strings.SplitN(value, "/", 2)[0])
		switch {
		case !ok:
			return GradePoor
		case score >= 7.5:
			return GradeGood
		case score >= 6:
			return GradeMedium
		}
		return GradePoor
	case SourceMetacritic:
		score, ok := leadingInt(strings.SplitN(value, "/", 2)[0])
		switch {
		case !ok:
			return GradePoor
		case score >= 75:
			return GradeGood
		case score >= 60:
			return GradeMedium
		}
		return GradePoor
	}
	return GradeNeutral
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func leadingFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		end++
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
