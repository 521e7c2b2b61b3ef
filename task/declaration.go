package task

import (
	"strings"
	"unicode"
)

// marker introduces a task reference anywhere on a line.
const marker = "task:"

// Name is a task name as written in a pipeline or a registry.
type Name string

// Normalize returns the case-insensitive join key for n.
func (n Name) Normalize() Name {
	return Name(strings.ToLower(string(n)))
}

func (n Name) String() string {
	return string(n)
}

// Declaration is one task reference found on a line.
type Declaration struct {
	Name    Name
	Version string
}

// Key returns the "name@version" form used to deduplicate declarations.
func (d Declaration) Key() string {
	return string(d.Name) + "@" + d.Version
}

// IsComment reports whether a trimmed line is a comment.
func IsComment(trimmed string) bool {
	return strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//")
}

// ParseDeclaration extracts the task declared on line.
// It returns false when the line declares nothing: empty lines, comments,
// lines without the marker, and malformed names or versions alike.
func ParseDeclaration(line string) (Declaration, bool) {
	line = strings.TrimSpace(line)
	if line == "" || IsComment(line) {
		return Declaration{}, false
	}

	idx := strings.Index(line, marker)
	if idx < 0 {
		return Declaration{}, false
	}
	rest := strings.TrimSpace(line[idx+len(marker):])

	at := strings.IndexByte(rest, '@')
	if at < 0 {
		return Declaration{}, false
	}

	name := strings.TrimSpace(rest[:at])
	version := strings.TrimSpace(rest[at+1:])
	if !validName(name) || !validVersion(version) {
		return Declaration{}, false
	}

	return Declaration{Name: Name(name), Version: version}, true
}

// validName accepts letters and numbers of any script, '_' and '/'.
func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '_' && r != '/' {
			return false
		}
	}
	return true
}

// validVersion accepts ASCII digits only.
func validVersion(version string) bool {
	if version == "" {
		return false
	}
	for i := 0; i < len(version); i++ {
		if version[i] < '0' || version[i] > '9' {
			return false
		}
	}
	return true
}
