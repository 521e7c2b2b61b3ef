// Package report renders a finished run's issues as a Markdown document,
// a JSON summary, or a console digest.
package report

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/teranos/ciprobe/issues"
	"github.com/teranos/ciprobe/registry"
	"github.com/teranos/ciprobe/repo"
	"github.com/teranos/ciprobe/sym"
	"github.com/teranos/ciprobe/task"
)

// DefaultPath is where the Markdown report is written.
const DefaultPath = "report.md"

// Input is everything a renderer needs. Issues is only read.
type Input struct {
	// Repos in the order the caller supplied them.
	Repos    []string
	Issues   *issues.TaskIssues
	Registry *registry.Registry
	// RegistryPath names the registry file in the missing-states hint.
	RegistryPath string
	// LocalPaths maps repo → working copy root, for repo-relative file paths.
	LocalPaths  map[string]string
	GeneratedAt time.Time
	// Plain replaces emoji with text fallbacks.
	Plain bool
}

func (in Input) glyphs() sym.Renderer {
	return sym.Renderer{Plain: in.Plain}
}

func (in Input) registryFile() string {
	if in.RegistryPath == "" {
		return registry.DefaultPath
	}
	return filepath.Base(in.RegistryPath)
}

// relPath shows file relative to the repository's working copy when known.
func (in Input) relPath(repoID, file string) string {
	root, ok := in.LocalPaths[repoID]
	if !ok || root == "" {
		return file
	}
	rel, err := filepath.Rel(root, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return file
	}
	return filepath.ToSlash(rel)
}

// analyzedInOrder returns the analyzed, non-skipped repos in caller order.
// Repos analyzed but absent from Repos follow, sorted.
func (in Input) analyzedInOrder() []string {
	analyzed := make(map[string]bool)
	for _, r := range in.Issues.Analyzed() {
		analyzed[r] = true
	}

	var out []string
	listed := make(map[string]bool)
	for _, r := range in.Repos {
		if listed[r] {
			continue
		}
		listed[r] = true
		if analyzed[r] && !in.Issues.IsSkipped(r) {
			out = append(out, r)
		}
	}
	for _, r := range in.Issues.Analyzed() {
		if !listed[r] && !in.Issues.IsSkipped(r) {
			out = append(out, r)
		}
	}
	return out
}

func sortedTaskNames[V any](m map[task.Name]V) []task.Name {
	names := make([]task.Name, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func sortedRepos(m map[string][]issues.TaskImplementation) []string {
	repos := make([]string, 0, len(m))
	for r := range m {
		repos = append(repos, r)
	}
	sort.Strings(repos)
	return repos
}

func shortNames(repos []string) []string {
	out := make([]string, len(repos))
	for i, r := range repos {
		out[i] = repo.ShortName(r)
	}
	return out
}
