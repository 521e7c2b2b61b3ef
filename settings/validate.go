package settings

import (
	"strings"

	"github.com/teranos/ciprobe/errors"
	"github.com/teranos/ciprobe/registry"
)

// Validate checks the settings. Every failure is a configuration error.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Registry.Path) == "" {
		return errors.NewConfigError("registry.path cannot be empty")
	}
	if _, err := registry.ParseMatchMode(s.Registry.VersionMatch); err != nil {
		return errors.Wrap(err, "registry.version_match")
	}

	if s.Git.WorkDir == "" {
		return errors.NewConfigError("git.work_dir cannot be empty")
	}
	if len(s.Git.Branches) == 0 {
		return errors.WithHint(
			errors.NewConfigError("git.branches cannot be empty"),
			`list the branches to try when cloning, e.g. ["develop", "main", "master"]`)
	}
	for _, b := range s.Git.Branches {
		if strings.TrimSpace(b) == "" {
			return errors.NewConfigError("git.branches contains an empty branch name")
		}
	}
	// Depth: 0 = full history, negative = invalid
	if s.Git.Depth < 0 {
		return errors.NewConfigError("git.depth must be >= 0, got %d", s.Git.Depth)
	}
	if s.Git.Fresh && s.Git.NoUpdate {
		return errors.NewConfigError("git.fresh and git.no_update cannot both be set")
	}

	for _, p := range s.Discovery.Patterns {
		if strings.TrimSpace(p) == "" {
			return errors.NewConfigError("discovery.patterns contains an empty pattern")
		}
	}

	// Workers: 0 or 1 = sequential, negative = invalid
	if s.Analysis.Workers < 0 {
		return errors.NewConfigError("analysis.workers must be >= 0, got %d", s.Analysis.Workers)
	}
	// Acquisition rate: 0 = unlimited, negative = invalid
	if s.Analysis.AcquirePerMinute < 0 {
		return errors.NewConfigError("analysis.acquire_per_minute must be >= 0, got %d", s.Analysis.AcquirePerMinute)
	}

	switch s.Report.Format {
	case FormatMarkdown, FormatJSON:
	default:
		return errors.NewConfigError("report.format must be %q or %q, got %q", FormatMarkdown, FormatJSON, s.Report.Format)
	}
	if s.Report.Path == "" {
		return errors.NewConfigError("report.path cannot be empty")
	}

	if s.Credentials.UsernameEnv == "" || s.Credentials.TokenEnv == "" {
		return errors.NewConfigError("credentials.username_env and credentials.token_env cannot be empty")
	}
	return nil
}
