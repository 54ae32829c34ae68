// Package config reads application configuration from environment variables.
// Values are trimmed; Must* getters panic through the logger on a missing or
// malformed key, May* getters warn and fall back to the default
package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"vaani/internal/platform/logger"
)

// Conf is a namespaced view over environment variables ("CORE_NLU_", "SERVICE_")
type Conf struct{ prefix string }

// New creates a root Conf with no prefix
func New() Conf { return Conf{} }

// Prefix creates a child Conf, e.g. cfg.Prefix("CORE_").Prefix("NLU_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// Has reports whether key is set to a non-blank value
func (c Conf) Has(key string) bool { return c.lookup(key) != "" }

func (c Conf) fail(key, value, msg string) {
	ev := logger.Get().Panic().Str("key", c.key(key))
	if value != "" {
		ev = ev.Str("value", value)
	}
	ev.Msg(msg)
}

// must parses a required key, panicking when it is blank or parse fails
func must[T any](c Conf, key, what string, parse func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		c.fail(key, "", "missing required env")
	}
	v, err := parse(s)
	if err != nil {
		c.fail(key, s, "invalid "+what)
	}
	return v
}

// may parses an optional key; blank gives def, a parse error warns and gives def
func may[T any](c Conf, key, what string, def T, parse func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Interface("default", def).
			Msg("invalid " + what + "; using default")
		return def
	}
	return v
}

func parseString(s string) (string, error) { return s, nil }

func parseFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

func parseURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err == nil && !u.IsAbs() {
		err = errNotAbsolute
	}
	return u, err
}

func parsePort(s string) (string, error) {
	s = strings.TrimPrefix(s, ":")
	p, err := strconv.Atoi(s)
	if err != nil {
		return "", err
	}
	if p < 1 || p > 65535 {
		return "", errPortRange
	}
	return ":" + s, nil
}

// MustString panics if key is missing or blank
func (c Conf) MustString(key string) string { return must(c, key, "string", parseString) }

// MustInt panics if key is missing or not an int
func (c Conf) MustInt(key string) int { return must(c, key, "int", strconv.Atoi) }

// MustBool panics if key is missing or not a bool
func (c Conf) MustBool(key string) bool { return must(c, key, "bool", strconv.ParseBool) }

// MustDuration panics if key is missing or not a duration (250ms, 2s, 1h)
func (c Conf) MustDuration(key string) time.Duration {
	return must(c, key, "duration", time.ParseDuration)
}

// MustURL panics if key is missing or not an absolute URL
func (c Conf) MustURL(key string) *url.URL { return must(c, key, "absolute URL", parseURL) }

// MustPort returns a listen addr like ":4000"; "4000" and ":4000" are both accepted
func (c Conf) MustPort(key string) string { return must(c, key, "TCP port 1..65535", parsePort) }

// Require panics on the first blank key
func (c Conf) Require(keys ...string) {
	for _, k := range keys {
		if !c.Has(k) {
			c.fail(k, "", "missing required env")
		}
	}
}

// MayString returns the value or def
func (c Conf) MayString(key, def string) string { return may(c, key, "string", def, parseString) }

// MayInt returns the value or def
func (c Conf) MayInt(key string, def int) int { return may(c, key, "int", def, strconv.Atoi) }

// MayFloat64 returns the value or def
func (c Conf) MayFloat64(key string, def float64) float64 {
	return may(c, key, "float64", def, parseFloat)
}

// MayBool returns the value or def
func (c Conf) MayBool(key string, def bool) bool { return may(c, key, "bool", def, strconv.ParseBool) }

// MayDuration returns the value or def
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, "duration", def, time.ParseDuration)
}

// MayPort returns a listen addr or def
func (c Conf) MayPort(key, def string) string { return may(c, key, "TCP port", def, parsePort) }

// MayCSV splits a comma-separated value, dropping blanks; def when nothing is left
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.lookup(key), ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the lowercased value when it is one of allowed, def when blank, and panics otherwise
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return strings.ToLower(a)
		}
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
