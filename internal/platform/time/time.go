// Package time parses the since/until query windows used by read endpoints
package time

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Window is a half open [Since, Until) range in UTC
type Window struct {
	Since time.Time `json:"since"`
	Until time.Time `json:"until"`
}

var errInverted = errors.New("since must be before until")

// ParseWindow reads since and until as RFC3339 instants or as durations back from now
// ("24h", "7d"). Blank until means now; blank since means until minus def
func ParseWindow(since, until string, now time.Time, def time.Duration) (Window, error) {
	now = now.UTC()
	u, err := parsePoint(until, now)
	if err != nil {
		return Window{}, fmt.Errorf("until: %w", err)
	}
	if strings.TrimSpace(until) == "" {
		u = now
	}
	s := u.Add(-def)
	if strings.TrimSpace(since) != "" {
		if s, err = parsePoint(since, now); err != nil {
			return Window{}, fmt.Errorf("since: %w", err)
		}
	}
	if !s.Before(u) {
		return Window{}, errInverted
	}
	return Window{Since: s, Until: u}, nil
}

func parsePoint(v string, now time.Time) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	d, err := ParseDuration(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither RFC3339 nor a duration", v)
	}
	return now.Add(-d), nil
}

// ParseDuration is time.ParseDuration plus a whole day suffix, e.g. "7d"
func ParseDuration(v string) (time.Duration, error) {
	if n, ok := strings.CutSuffix(v, "d"); ok {
		var days int
		if _, err := fmt.Sscanf(n, "%d", &days); err != nil || days < 0 || fmt.Sprint(days) != n {
			return 0, fmt.Errorf("bad day count %q", v)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", v)
	}
	return d, nil
}
