// Package probe drives a run: for every repository it acquires a working copy,
// discovers pipeline files, scans them for task declarations and records each
// sighting in an issues.TaskIssues accumulator.
//
// Per repository the flow is
//
//	acquire → (acquire failed)
//	acquire → discover → (no files, skipped)
//	acquire → discover → scan each file → reconcile → (done)
//
// A failure is contained to its repository; the run always continues with the
// next one. Only context cancellation ends a run early.
package probe

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/ciprobe/errors"
	"github.com/teranos/ciprobe/issues"
	"github.com/teranos/ciprobe/logger"
	"github.com/teranos/ciprobe/registry"
	"github.com/teranos/ciprobe/task"
)

// RepositoryProvider yields a readable directory for a repository identifier.
type RepositoryProvider interface {
	EnsureLocalCopy(ctx context.Context, repoID string) (string, error)
}

// FileFinder lists the candidate pipeline files below a directory.
type FileFinder interface {
	FindCandidateFiles(localPath string) ([]string, error)
}

// Options tunes a run.
type Options struct {
	// Workers is the number of repositories processed at once. Zero or one
	// processes them sequentially in the order given.
	Workers int
	// AcquirePerMinute caps how many acquisitions start per minute. Zero means no cap.
	AcquirePerMinute int
	// OnRepo is called once per repository when its processing ends.
	// Calls are serialized.
	OnRepo func(RepoResult)
	Logger *zap.SugaredLogger
}

// Analyzer runs repositories through acquire, discover, scan and reconcile.
type Analyzer struct {
	reg      *registry.Registry
	provider RepositoryProvider
	finder   FileFinder
	fs       afero.Fs
	opts     Options
	logger   *zap.SugaredLogger

	callbackMu sync.Mutex
}

// NewAnalyzer creates an Analyzer. fs is where discovered files are read from.
func NewAnalyzer(reg *registry.Registry, provider RepositoryProvider, finder FileFinder, fs afero.Fs, opts Options) *Analyzer {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Analyzer{
		reg:      reg,
		provider: provider,
		finder:   finder,
		fs:       fs,
		opts:     opts,
		logger:   logger.OrNop(opts.Logger),
	}
}

// Run processes repos and returns the accumulated issues.
//
// If ctx is cancelled no further repositories are started; the issues gathered
// so far are returned together with ctx.Err().
func (a *Analyzer) Run(ctx context.Context, repos []string) (*issues.TaskIssues, error) {
	runID := uuid.New().String()
	ctx = logger.WithRunID(ctx, runID)
	log := logger.FromContext(ctx, a.logger)

	var limiter *rate.Limiter
	if a.opts.AcquirePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(a.opts.AcquirePerMinute)/60.0), 1)
	}

	workers := a.opts.Workers
	if workers > len(repos) {
		workers = len(repos)
	}
	log.Infow("Starting analysis",
		logger.FieldTotalCount, len(repos),
		logger.FieldWorkers, workers,
		"tasks_configured", a.reg.Len())

	start := time.Now()
	ti := issues.New()

	if workers <= 1 {
		for i, repoID := range repos {
			if ctx.Err() != nil {
				break
			}
			a.report(a.processRepo(ctx, limiter, ti, i, len(repos), repoID))
		}
	} else {
		a.runParallel(ctx, limiter, ti, repos, workers)
		ti.Sort()
	}

	log.Infow("Analysis complete",
		"analyzed", len(ti.Analyzed()),
		"skipped", len(ti.Skipped()),
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	if err := ctx.Err(); err != nil {
		return ti, errors.Wrap(err, "analysis interrupted")
	}
	return ti, nil
}

func (a *Analyzer) runParallel(ctx context.Context, limiter *rate.Limiter, ti *issues.TaskIssues, repos []string, workers int) {
	type job struct {
		index  int
		repoID string
	}
	jobs := make(chan job)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				a.report(a.processRepo(ctx, limiter, ti, j.index, len(repos), j.repoID))
			}
		}()
	}

feed:
	for i, repoID := range repos {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- job{index: i, repoID: repoID}:
		}
	}
	close(jobs)
	wg.Wait()
}

func (a *Analyzer) report(res RepoResult) {
	if a.opts.OnRepo == nil {
		return
	}
	a.callbackMu.Lock()
	defer a.callbackMu.Unlock()
	a.opts.OnRepo(res)
}

// processRepo takes one repository through the whole flow.
func (a *Analyzer) processRepo(ctx context.Context, limiter *rate.Limiter, ti *issues.TaskIssues, index, total int, repoID string) RepoResult {
	ctx = logger.WithRepo(ctx, repoID)
	log := logger.FromContext(ctx, a.logger)
	start := time.Now()

	res := RepoResult{RepoID: repoID, Index: index, Total: total}

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			res.Outcome, res.Err = OutcomeAcquireFailed, errors.WrapAcquire(err, "acquisition throttle interrupted")
			res.Duration = time.Since(start)
			return res
		}
	}

	path, err := a.provider.EnsureLocalCopy(ctx, repoID)
	if err != nil {
		log.Warnw("Failed to acquire repository, skipping", logger.FieldError, err.Error())
		res.Outcome, res.Err = OutcomeAcquireFailed, errors.WrapAcquire(err, "failed to acquire repository")
		res.Duration = time.Since(start)
		return res
	}
	res.LocalPath = path
	ti.MarkAnalyzed(repoID)

	files, err := a.finder.FindCandidateFiles(path)
	if err != nil {
		log.Warnw("Failed to discover pipeline files", logger.FieldLocalPath, path, logger.FieldError, err.Error())
		res.Outcome, res.Err = OutcomeDiscoverFailed, err
		res.Duration = time.Since(start)
		return res
	}
	res.Files = len(files)
	if len(files) == 0 {
		log.Infow("No pipeline files found, skipping", logger.FieldLocalPath, path)
		ti.MarkSkipped(repoID)
		res.Outcome = OutcomeSkipped
		res.Duration = time.Since(start)
		return res
	}

	found := make(map[task.Name]struct{})
	for _, file := range files {
		if err := a.scanFile(log, ti, repoID, file, found, &res); err != nil {
			log.Warnw("Failed to read pipeline file, abandoning repository",
				logger.FieldFile, file,
				logger.FieldError, err.Error())
			res.Outcome, res.Err = OutcomeReadFailed, err
			res.Duration = time.Since(start)
			return res
		}
	}

	// Reconcile: every configured task this repository never mentions.
	for _, name := range a.reg.AllTaskNames() {
		if _, ok := found[name]; !ok {
			ti.RecordMissingTask(repoID, name)
			res.Missing++
		}
	}
	res.Tasks = len(found)
	res.Outcome = OutcomeDone
	res.Duration = time.Since(start)

	log.Infow("Repository analyzed",
		logger.FieldCount, res.Files,
		"tasks", res.Tasks,
		"invalid", res.Invalid,
		"unconfigured", res.Unconfigured,
		"missing", res.Missing,
		logger.FieldDurationMS, res.Duration.Milliseconds())
	return res
}

// scanFile records every distinct declaration in file and adds the names to found.
func (a *Analyzer) scanFile(log *zap.SugaredLogger, ti *issues.TaskIssues, repoID, file string, found map[task.Name]struct{}, res *RepoResult) error {
	data, err := afero.ReadFile(a.fs, file)
	if err != nil {
		return errors.WrapRead(err, "failed to read "+file)
	}

	decls := task.Scan(string(data)).Declarations()
	log.Debugw("Scanned pipeline file", logger.FieldFile, file, logger.FieldCount, len(decls))

	for _, d := range decls {
		state := ti.RecordSighting(d.Name, repoID, d.Version, file, a.reg)
		found[d.Name.Normalize()] = struct{}{}

		switch state {
		case issues.StateInvalid:
			res.Invalid++
		case issues.StateUnconfigured:
			res.Unconfigured++
		}
		log.Debugw("Recorded task sighting",
			logger.FieldTask, string(d.Name),
			logger.FieldVersion, d.Version,
			logger.FieldFile, file,
			logger.FieldState, state.String())
	}
	return nil
}
