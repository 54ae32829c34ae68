// Package raw is the bootstrap env reader. It must not import the logger,
// which reads its own options through it
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf is a namespaced view over environment variables ("LOG_")
type Conf struct{ prefix string }

// New returns a root Conf
func New() Conf { return Conf{} }

// Prefix returns a child Conf
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) get(k string) string { return strings.TrimSpace(os.Getenv(c.prefix + k)) }

// Get returns the trimmed value or def
func (c Conf) Get(key, def string) string {
	if v := c.get(key); v != "" {
		return v
	}
	return def
}

// GetBool accepts 1, true and yes as true; blank gives def
func (c Conf) GetBool(key string, def bool) bool {
	switch strings.ToLower(c.get(key)) {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// GetInt parses a non-negative integer; blank or malformed gives def
func (c Conf) GetInt(key string, def int) int {
	n, err := strconv.ParseUint(c.get(key), 10, 31)
	if err != nil {
		return def
	}
	return int(n)
}
