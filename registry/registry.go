// Package registry holds the allow-list of valid versions per CI task.
//
// A Registry is built once per run (Load or New) and is read-only afterwards,
// so it can be shared between goroutines without locking.
package registry

import (
	"sort"

	"go.uber.org/zap"

	"github.com/teranos/ciprobe/errors"
	"github.com/teranos/ciprobe/logger"
	"github.com/teranos/ciprobe/task"
)

// Registry maps normalized task names to their valid versions.
type Registry struct {
	versions map[task.Name][]string
	mode     MatchMode
}

type options struct {
	mode   MatchMode
	strict bool
	logger *zap.SugaredLogger
}

// Option configures New and Load.
type Option func(*options)

// WithMatchMode selects how observed versions are checked. Default MatchExact.
func WithMatchMode(m MatchMode) Option {
	return func(o *options) { o.mode = m }
}

// WithStrictKeys turns names that collide after lowercasing into a configuration error.
// Without it colliding entries are merged and a warning is logged.
func WithStrictKeys(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

// WithLogger sets the logger used for load-time warnings.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) { o.logger = l }
}

// New builds a Registry from name → versions entries, normalizing every name.
func New(entries map[string][]string, opts ...Option) (*Registry, error) {
	o := options{mode: MatchExact}
	for _, opt := range opts {
		opt(&o)
	}
	log := logger.OrNop(o.logger)

	if len(entries) == 0 {
		return nil, errors.WithHint(
			errors.NewConfigError("no task versions configured"),
			"add a task_versions mapping of task name to valid versions")
	}

	// Visit source names in sorted order so merges are deterministic.
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	versions := make(map[task.Name][]string, len(entries))
	origin := make(map[task.Name]string, len(entries))
	for _, name := range names {
		if name == "" {
			return nil, errors.NewConfigError("task_versions contains an entry with an empty task name")
		}
		key := task.Name(name).Normalize()

		prev, collides := origin[key]
		if !collides {
			origin[key] = name
			versions[key] = append([]string(nil), entries[name]...)
			continue
		}

		if o.strict {
			return nil, errors.NewConfigError("task names %q and %q collide after lowercasing", prev, name)
		}
		log.Warnw("Task names collide after lowercasing, merging valid versions",
			logger.FieldTask, string(key),
			"names", []string{prev, name})
		versions[key] = mergeVersions(versions[key], entries[name])
	}

	return &Registry{versions: versions, mode: o.mode}, nil
}

// mergeVersions appends the versions of b not already in a.
func mergeVersions(a, b []string) []string {
	seen := make(map[string]struct{}, len(a))
	for _, v := range a {
		seen[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		a = append(a, v)
	}
	return a
}

// ValidVersionsFor returns the configured versions for name, in configuration order.
// Lookup is case-insensitive. Unknown tasks yield nil.
func (r *Registry) ValidVersionsFor(name task.Name) []string {
	v, ok := r.versions[name.Normalize()]
	if !ok {
		return nil
	}
	return append([]string(nil), v...)
}

// Has reports whether name is configured.
func (r *Registry) Has(name task.Name) bool {
	_, ok := r.versions[name.Normalize()]
	return ok
}

// Accepts reports whether version is valid for name under the registry's match mode.
// A task with no configured versions accepts nothing.
func (r *Registry) Accepts(name task.Name, version string) bool {
	return r.mode.Matches(r.versions[name.Normalize()], version)
}

// AllTaskNames returns every configured (normalized) task name, sorted.
func (r *Registry) AllTaskNames() []task.Name {
	names := make([]task.Name, 0, len(r.versions))
	for name := range r.versions {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// MatchMode returns the version matching policy in effect.
func (r *Registry) MatchMode() MatchMode {
	return r.mode
}

// Len returns the number of configured tasks.
func (r *Registry) Len() int {
	return len(r.versions)
}
