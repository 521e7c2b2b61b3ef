package issues

import (
	"sort"

	"github.com/teranos/ciprobe/registry"
	"github.com/teranos/ciprobe/task"
)

// Analyzed returns the analyzed repositories, sorted.
func (ti *TaskIssues) Analyzed() []string {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	return sortedKeys(ti.RepositoriesAnalyzed)
}

// Skipped returns the skipped repositories, sorted.
func (ti *TaskIssues) Skipped() []string {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	return sortedKeys(ti.RepositoriesSkipped)
}

// IsSkipped reports whether repoID was skipped.
func (ti *TaskIssues) IsSkipped(repoID string) bool {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	_, ok := ti.RepositoriesSkipped[repoID]
	return ok
}

// TotalMissing counts (repo, task) pairs where a configured task was never seen.
func (ti *TaskIssues) TotalMissing() int {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	n := 0
	for _, names := range ti.MissingRequiredTasks {
		n += len(names)
	}
	return n
}

// TotalInvalid counts sightings with an unaccepted version.
func (ti *TaskIssues) TotalInvalid() int {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	n := 0
	for _, byRepo := range ti.InvalidStates {
		for _, impls := range byRepo {
			n += len(impls)
		}
	}
	return n
}

// ReposWithIssues returns the analyzed, non-skipped repositories that are
// missing a configured task, use an invalid version, or use an unconfigured task.
func (ti *TaskIssues) ReposWithIssues() []string {
	ti.mu.Lock()
	defer ti.mu.Unlock()

	flagged := make(map[string]struct{})
	for repo := range ti.MissingRequiredTasks {
		flagged[repo] = struct{}{}
	}
	for _, byRepo := range ti.InvalidStates {
		for repo := range byRepo {
			flagged[repo] = struct{}{}
		}
	}
	for name := range ti.MissingStates {
		for _, impl := range ti.AllImplementations[name] {
			flagged[impl.RepoID] = struct{}{}
		}
	}

	out := make([]string, 0, len(flagged))
	for repo := range flagged {
		if _, ok := ti.RepositoriesAnalyzed[repo]; !ok {
			continue
		}
		if _, ok := ti.RepositoriesSkipped[repo]; ok {
			continue
		}
		out = append(out, repo)
	}
	sort.Strings(out)
	return out
}

// ValidTask is a configured task whose every sighting was accepted.
type ValidTask struct {
	Name     task.Name `json:"name"`
	Versions []string  `json:"versions"`
	Repos    []string  `json:"repos"`
}

// ValidTasks returns configured tasks that were seen at least once and never
// with an invalid version, ordered by name.
func (ti *TaskIssues) ValidTasks(reg *registry.Registry) []ValidTask {
	ti.mu.Lock()
	defer ti.mu.Unlock()

	var out []ValidTask
	for _, name := range reg.AllTaskNames() {
		impls := ti.AllImplementations[name]
		if len(impls) == 0 {
			continue
		}
		if _, invalid := ti.InvalidStates[name]; invalid {
			continue
		}
		if _, unconfigured := ti.MissingStates[name]; unconfigured {
			continue
		}

		versions := make(map[string]struct{})
		repos := make(map[string]struct{})
		for _, impl := range impls {
			versions[impl.Version] = struct{}{}
			repos[impl.RepoID] = struct{}{}
		}
		out = append(out, ValidTask{
			Name:     name,
			Versions: registry.SortVersions(sortedKeys(versions)),
			Repos:    sortedKeys(repos),
		})
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
