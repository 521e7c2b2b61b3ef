package report

import (
	"io"
	"sort"
	"time"

	"github.com/teranos/ciprobe/display"
	"github.com/teranos/ciprobe/issues"
	"github.com/teranos/ciprobe/registry"
	"github.com/teranos/ciprobe/task"
)

// Summary is the machine-readable form of a run.
type Summary struct {
	GeneratedAt       time.Time              `json:"generated_at"`
	MatchMode         registry.MatchMode     `json:"match_mode"`
	Analyzed          []string               `json:"analyzed"`
	Skipped           []string               `json:"skipped"`
	ReposWithIssues   []string               `json:"repos_with_issues"`
	TotalMissing      int                    `json:"total_missing"`
	TotalInvalid      int                    `json:"total_invalid"`
	ValidTasks        []issues.ValidTask     `json:"valid_tasks"`
	InvalidTasks      []InvalidTask          `json:"invalid_tasks"`
	UnconfiguredTasks []task.Name            `json:"unconfigured_tasks"`
	MissingTasks      map[string][]task.Name `json:"missing_tasks"`
}

// InvalidTask lists the sightings of one task with unaccepted versions.
type InvalidTask struct {
	Name      task.Name                   `json:"name"`
	Expected  []string                    `json:"expected"`
	Sightings []issues.TaskImplementation `json:"sightings"`
}

// Summarize builds the Summary for in. Slices are never nil so the JSON
// always carries arrays.
func Summarize(in Input) Summary {
	ti := in.Issues
	s := Summary{
		GeneratedAt:       in.GeneratedAt,
		MatchMode:         in.Registry.MatchMode(),
		Analyzed:          ti.Analyzed(),
		Skipped:           ti.Skipped(),
		ReposWithIssues:   ti.ReposWithIssues(),
		TotalMissing:      ti.TotalMissing(),
		TotalInvalid:      ti.TotalInvalid(),
		ValidTasks:        ti.ValidTasks(in.Registry),
		InvalidTasks:      []InvalidTask{},
		UnconfiguredTasks: []task.Name{},
		MissingTasks:      make(map[string][]task.Name, len(ti.MissingRequiredTasks)),
	}
	if s.ValidTasks == nil {
		s.ValidTasks = []issues.ValidTask{}
	}

	for _, name := range sortedTaskNames(ti.InvalidStates) {
		it := InvalidTask{
			Name:     name,
			Expected: registry.SortVersions(in.Registry.ValidVersionsFor(name)),
		}
		byRepo := ti.InvalidStates[name]
		for _, r := range sortedRepos(byRepo) {
			for _, impl := range byRepo[r] {
				impl.FilePath = in.relPath(r, impl.FilePath)
				it.Sightings = append(it.Sightings, impl)
			}
		}
		s.InvalidTasks = append(s.InvalidTasks, it)
	}

	for _, original := range ti.MissingStates {
		s.UnconfiguredTasks = append(s.UnconfiguredTasks, original)
	}
	sort.Slice(s.UnconfiguredTasks, func(i, j int) bool { return s.UnconfiguredTasks[i] < s.UnconfiguredTasks[j] })

	for r, names := range ti.MissingRequiredTasks {
		sorted := append([]task.Name(nil), names...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		s.MissingTasks[r] = sorted
	}
	return s
}

// JSON writes Summarize(in) to w.
func JSON(w io.Writer, in Input) error {
	return display.WriteJSON(w, Summarize(in))
}
