package registry

import (
	"strings"

	"github.com/teranos/ciprobe/errors"
)

// MatchMode decides when an observed version counts as one of a task's valid versions.
type MatchMode string

const (
	// MatchExact requires the observed version to appear literally in the list.
	MatchExact MatchMode = "exact"
	// MatchRelaxed accepts any listed version that VersionsEqual the observed one.
	MatchRelaxed MatchMode = "relaxed"
)

// ParseMatchMode converts a settings value into a MatchMode. Empty means exact.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchExact:
		return MatchExact, nil
	case MatchRelaxed:
		return MatchRelaxed, nil
	default:
		return "", errors.NewConfigError("unknown version match mode %q (want %q or %q)", s, MatchExact, MatchRelaxed)
	}
}

// Matches reports whether version is accepted by valid under mode.
func (m MatchMode) Matches(valid []string, version string) bool {
	for _, v := range valid {
		if v == version {
			return true
		}
		if m == MatchRelaxed && VersionsEqual(v, version) {
			return true
		}
	}
	return false
}
