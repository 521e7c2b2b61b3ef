package registry

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// VersionsEqual reports whether a and b name the same version.
//
// Dotted integer versions compare component-wise after padding the shorter one
// with zeros, so "2", "2.0" and "2.0.0" are equal and "1.0" and "1.1" are not.
// If either side is not a dotted integer sequence the raw strings are compared.
func VersionsEqual(a, b string) bool {
	ca, okA := components(a)
	cb, okB := components(b)
	if !okA || !okB {
		return a == b
	}

	for len(ca) < len(cb) {
		ca = append(ca, 0)
	}
	for len(cb) < len(ca) {
		cb = append(cb, 0)
	}
	for i := range ca {
		if ca[i] != cb[i] {
			return false
		}
	}
	return true
}

// components parses "1.2.3" into [1 2 3]. Every component must be a non-empty
// run of ASCII digits that fits in a uint64.
func components(v string) ([]uint64, bool) {
	parts := strings.Split(v, ".")
	out := make([]uint64, 0, len(parts))
	for _, p := range parts {
		if p == "" || strings.IndexFunc(p, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
			return nil, false
		}
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

// SortVersions returns a copy of versions in ascending semantic-version order.
// When any entry is not a version semver understands, the input order is kept.
func SortVersions(versions []string) []string {
	out := append([]string(nil), versions...)

	parsed := make(map[string]*semver.Version, len(out))
	for _, v := range out {
		sv, err := semver.NewVersion(v)
		if err != nil {
			return out
		}
		parsed[v] = sv
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := parsed[out[i]].Compare(parsed[out[j]]); c != 0 {
			return c < 0
		}
		return out[i] < out[j]
	})
	return out
}
