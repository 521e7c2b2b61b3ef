package repo

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/teranos/ciprobe/errors"
	"github.com/teranos/ciprobe/logger"
)

// DefaultPatterns select every YAML file in the working copy.
var DefaultPatterns = []string{"*.yml", "*.yaml", "**/*.yml", "**/*.yaml"}

// Finder discovers candidate pipeline files below a directory.
type Finder struct {
	fs       afero.Fs
	patterns []string
	exclude  []string
	logger   *zap.SugaredLogger
}

// NewFinder creates a Finder. Patterns and excludes are doublestar globs
// matched against slash-separated paths relative to the walk root.
// No patterns means DefaultPatterns.
func NewFinder(fs afero.Fs, patterns, exclude []string, log *zap.SugaredLogger) *Finder {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	return &Finder{fs: fs, patterns: patterns, exclude: exclude, logger: logger.OrNop(log)}
}

// FindCandidateFiles returns the matching files below root as sorted paths
// joined to root. .git directories are not entered.
func (f *Finder) FindCandidateFiles(root string) ([]string, error) {
	var files []string

	err := afero.Walk(f.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		ok, err := f.matches(rel)
		if err != nil {
			return err
		}
		if ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to search %s for pipeline files", root)
	}

	sort.Strings(files)
	f.logger.Debugw("Discovered pipeline files",
		logger.FieldLocalPath, root,
		logger.FieldCount, len(files))
	return files, nil
}

func (f *Finder) matches(rel string) (bool, error) {
	for _, pattern := range f.exclude {
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return false, errors.Wrapf(err, "invalid exclude pattern %q", pattern)
		}
		if ok {
			return false, nil
		}
	}
	for _, pattern := range f.patterns {
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return false, errors.Wrapf(err, "invalid discovery pattern %q", pattern)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
