package task

import (
	"sort"
	"strings"
)

// Set holds distinct "name@version" keys found in one file.
type Set map[string]struct{}

// Add inserts d's key.
func (s Set) Add(d Declaration) {
	s[d.Key()] = struct{}{}
}

// Union adds every key of other to s.
func (s Set) Union(other Set) {
	for k := range other {
		s[k] = struct{}{}
	}
}

// Keys returns the keys in sorted order.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Declarations returns the set split back into declarations, sorted by key.
func (s Set) Declarations() []Declaration {
	keys := s.Keys()
	decls := make([]Declaration, 0, len(keys))
	for _, k := range keys {
		name, version, ok := SplitKey(k)
		if !ok {
			continue
		}
		decls = append(decls, Declaration{Name: Name(name), Version: version})
	}
	return decls
}

// SplitKey splits a "name@version" key at its first '@'.
func SplitKey(key string) (name, version string, ok bool) {
	return strings.Cut(key, "@")
}

// Scan returns the distinct task declarations in a pipeline file's content.
// The same task at two versions yields two keys.
func Scan(content string) Set {
	found := make(Set)
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if IsComment(trimmed) {
			continue
		}
		if d, ok := ParseDeclaration(trimmed); ok {
			found.Add(d)
		}
	}
	return found
}
