// Package issues accumulates task sightings across repositories and classifies
// each one against the registry.
//
// A TaskIssues value lives for one run. Entries are only ever appended, never
// removed, and every mutation is guarded by a single mutex so repositories may
// be processed concurrently. Readers (report renderers) run after the
// orchestrator has finished and call Sort first when they need stable output.
package issues

import (
	"sort"
	"sync"

	"github.com/teranos/ciprobe/registry"
	"github.com/teranos/ciprobe/task"
)

// State is the classification of one sighting.
type State int

const (
	// StateValid means the version is in the task's configured list.
	StateValid State = iota
	// StateInvalid means the task is configured but the version is not accepted.
	StateInvalid
	// StateUnconfigured means the task has no configured versions.
	StateUnconfigured
)

func (s State) String() string {
	switch s {
	case StateValid:
		return "valid"
	case StateInvalid:
		return "invalid"
	case StateUnconfigured:
		return "unconfigured"
	default:
		return "unknown"
	}
}

// TaskImplementation is one concrete sighting of a task in a repository file.
type TaskImplementation struct {
	RepoID   string `json:"repo"`
	Version  string `json:"version"`
	FilePath string `json:"file"`
}

// Less orders implementations by repository, then version, then file path.
func (ti TaskImplementation) Less(other TaskImplementation) bool {
	if ti.RepoID != other.RepoID {
		return ti.RepoID < other.RepoID
	}
	if ti.Version != other.Version {
		return ti.Version < other.Version
	}
	return ti.FilePath < other.FilePath
}

// TaskIssues is the run-wide accumulator.
type TaskIssues struct {
	mu sync.Mutex

	// MissingRequiredTasks maps repo → configured tasks never seen in that repo.
	MissingRequiredTasks map[string][]task.Name
	// AllImplementations maps normalized task → every sighting, valid or not.
	AllImplementations map[task.Name][]TaskImplementation
	// InvalidStates maps normalized task → repo → sightings with an unaccepted version.
	InvalidStates map[task.Name]map[string][]TaskImplementation
	// MissingStates maps normalized task → the name as written in source, for
	// tasks with no configured versions. The latest spelling seen wins.
	MissingStates map[task.Name]task.Name

	RepositoriesAnalyzed map[string]struct{}
	RepositoriesSkipped  map[string]struct{}
}

// New returns an empty accumulator.
func New() *TaskIssues {
	return &TaskIssues{
		MissingRequiredTasks: make(map[string][]task.Name),
		AllImplementations:   make(map[task.Name][]TaskImplementation),
		InvalidStates:        make(map[task.Name]map[string][]TaskImplementation),
		MissingStates:        make(map[task.Name]task.Name),
		RepositoriesAnalyzed: make(map[string]struct{}),
		RepositoriesSkipped:  make(map[string]struct{}),
	}
}

// RecordSighting records one observed task and returns its classification.
//
// The sighting always lands in AllImplementations. A task with no configured
// versions is recorded in MissingStates under its original spelling; a
// configured task whose version reg does not accept is recorded in InvalidStates.
func (ti *TaskIssues) RecordSighting(name task.Name, repoID, version, filePath string, reg *registry.Registry) State {
	key := name.Normalize()
	impl := TaskImplementation{RepoID: repoID, Version: version, FilePath: filePath}

	ti.mu.Lock()
	defer ti.mu.Unlock()

	ti.AllImplementations[key] = append(ti.AllImplementations[key], impl)

	if len(reg.ValidVersionsFor(key)) == 0 {
		ti.MissingStates[key] = name
		return StateUnconfigured
	}
	if reg.Accepts(key, version) {
		return StateValid
	}

	byRepo, ok := ti.InvalidStates[key]
	if !ok {
		byRepo = make(map[string][]TaskImplementation)
		ti.InvalidStates[key] = byRepo
	}
	byRepo[repoID] = append(byRepo[repoID], impl)
	return StateInvalid
}

// RecordMissingTask notes that a configured task was never seen in repoID.
func (ti *TaskIssues) RecordMissingTask(repoID string, name task.Name) {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.MissingRequiredTasks[repoID] = append(ti.MissingRequiredTasks[repoID], name)
}

// MarkAnalyzed records that repoID was acquired successfully.
func (ti *TaskIssues) MarkAnalyzed(repoID string) {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.RepositoriesAnalyzed[repoID] = struct{}{}
}

// MarkSkipped records that repoID had no candidate files. A skipped repo is
// always analyzed as well.
func (ti *TaskIssues) MarkSkipped(repoID string) {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.RepositoriesAnalyzed[repoID] = struct{}{}
	ti.RepositoriesSkipped[repoID] = struct{}{}
}

// Sort puts every implementation and missing-task list in a stable order.
func (ti *TaskIssues) Sort() {
	ti.mu.Lock()
	defer ti.mu.Unlock()

	for _, impls := range ti.AllImplementations {
		sortImplementations(impls)
	}
	for _, byRepo := range ti.InvalidStates {
		for _, impls := range byRepo {
			sortImplementations(impls)
		}
	}
	for _, names := range ti.MissingRequiredTasks {
		sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	}
}

func sortImplementations(impls []TaskImplementation) {
	sort.SliceStable(impls, func(i, j int) bool { return impls[i].Less(impls[j]) })
}
