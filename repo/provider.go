package repo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"

	"github.com/teranos/ciprobe/errors"
	"github.com/teranos/ciprobe/logger"
)

// Provider defaults.
const (
	DefaultWorkDir = "temp_repos"
	DefaultDepth   = 1
)

// DefaultBranches are tried in order when cloning.
var DefaultBranches = []string{"develop", "main", "master"}

// GitConfig controls where and how remote repositories are checked out.
type GitConfig struct {
	// WorkDir holds one working copy per remote repository.
	WorkDir string
	// Branches are tried in order on clone, and on update when HEAD is detached.
	Branches []string
	// Depth limits clone history. Zero means full history.
	Depth int
	// Fresh deletes an existing working copy and clones again.
	Fresh bool
	// NoUpdate reuses an existing working copy as is.
	NoUpdate bool
}

// GitProvider acquires working copies with go-git.
type GitProvider struct {
	cfg    GitConfig
	creds  *Credentials
	logger *zap.SugaredLogger
}

// NewGitProvider creates a provider. creds may be nil when only local
// repositories are analyzed.
func NewGitProvider(cfg GitConfig, creds *Credentials, log *zap.SugaredLogger) *GitProvider {
	if cfg.WorkDir == "" {
		cfg.WorkDir = DefaultWorkDir
	}
	if len(cfg.Branches) == 0 {
		cfg.Branches = DefaultBranches
	}
	if cfg.Depth < 0 {
		cfg.Depth = DefaultDepth
	}
	return &GitProvider{cfg: cfg, creds: creds, logger: logger.OrNop(log)}
}

// EnsureLocalCopy returns a readable directory for repoID, cloning or updating
// remote repositories as configured. Failures are marked errors.ErrAcquire.
func (p *GitProvider) EnsureLocalCopy(ctx context.Context, repoID string) (string, error) {
	src, err := ResolveSource(repoID)
	if err != nil {
		return "", errors.WrapAcquire(err, "failed to resolve repository")
	}

	if !src.Remote {
		info, err := os.Stat(src.LocalPath)
		if err != nil {
			return "", errors.WrapAcquire(err, "local repository not accessible")
		}
		if !info.IsDir() {
			return "", errors.WrapAcquire(errors.Newf("%s is not a directory", src.LocalPath), "local repository not accessible")
		}
		return src.LocalPath, nil
	}

	dest, err := filepath.Abs(filepath.Join(p.cfg.WorkDir, dirName(src)))
	if err != nil {
		return "", errors.WrapAcquire(err, "failed to resolve working copy path")
	}
	log := p.logger.With(logger.FieldRepo, repoID, logger.FieldLocalPath, dest)

	if p.cfg.Fresh {
		log.Debugw("Removing existing working copy")
		if err := os.RemoveAll(dest); err != nil {
			return "", errors.WrapAcquire(err, "failed to remove working copy")
		}
	}

	existing, err := git.PlainOpen(dest)
	switch {
	case err == nil && !sameRemote(existing, src.URL):
		log.Warnw("Working copy belongs to a different remote, cloning again")
		if err := os.RemoveAll(dest); err != nil {
			return "", errors.WrapAcquire(err, "failed to remove working copy")
		}
	case err == nil && p.cfg.NoUpdate:
		log.Debugw("Reusing working copy without update")
		return dest, nil
	case err == nil:
		if err := p.update(ctx, existing, log); err != nil {
			if ctx.Err() != nil {
				return "", errors.WrapAcquire(ctx.Err(), "update cancelled")
			}
			log.Warnw("Update failed, cloning again", logger.FieldError, err.Error())
			if err := os.RemoveAll(dest); err != nil {
				return "", errors.WrapAcquire(err, "failed to remove working copy")
			}
			return p.cloneTo(ctx, src.URL, dest, log)
		}
		return dest, nil
	case !errors.Is(err, git.ErrRepositoryNotExists):
		// A directory that is not a repository is left over from a failed run.
		log.Debugw("Discarding unusable working copy", logger.FieldError, err.Error())
		if err := os.RemoveAll(dest); err != nil {
			return "", errors.WrapAcquire(err, "failed to remove working copy")
		}
	}

	return p.cloneTo(ctx, src.URL, dest, log)
}

func (p *GitProvider) cloneTo(ctx context.Context, url, dest string, log *zap.SugaredLogger) (string, error) {
	if err := p.clone(ctx, url, dest, log); err != nil {
		return "", err
	}
	return dest, nil
}

// clone tries each configured branch until one succeeds.
func (p *GitProvider) clone(ctx context.Context, url, dest string, log *zap.SugaredLogger) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.WrapAcquire(err, "failed to create work dir")
	}

	var failures []string
	for _, branch := range p.cfg.Branches {
		start := time.Now()
		_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
			URL:           url,
			Auth:          p.creds.Auth(),
			ReferenceName: plumbing.NewBranchReferenceName(branch),
			SingleBranch:  true,
			Depth:         p.cfg.Depth,
		})
		if err == nil {
			log.Infow("Cloned repository",
				logger.FieldBranch, branch,
				logger.FieldDurationMS, time.Since(start).Milliseconds())
			return nil
		}

		_ = os.RemoveAll(dest)
		if ctx.Err() != nil {
			return errors.WrapAcquire(ctx.Err(), "clone cancelled")
		}
		log.Debugw("Clone attempt failed", logger.FieldBranch, branch, logger.FieldError, err.Error())
		failures = append(failures, branch+": "+err.Error())
	}

	return errors.WithHintf(
		errors.WrapAcquire(errors.New(strings.Join(failures, "; ")), "failed to clone repository"),
		"none of the branches %s could be cloned; check the URL, credentials and git.branches",
		strings.Join(p.cfg.Branches, ", "))
}

// update discards local changes and force-pulls the current branch.
func (p *GitProvider) update(ctx context.Context, r *git.Repository, log *zap.SugaredLogger) error {
	wt, err := r.Worktree()
	if err != nil {
		return errors.Wrap(err, "failed to open worktree")
	}
	if err := wt.Reset(&git.ResetOptions{Mode: git.HardReset}); err != nil {
		return errors.Wrap(err, "failed to reset worktree")
	}

	branch, err := p.currentBranch(r, wt)
	if err != nil {
		return err
	}

	err = wt.PullContext(ctx, &git.PullOptions{
		RemoteName:    git.DefaultRemoteName,
		ReferenceName: branch,
		SingleBranch:  true,
		Depth:         p.cfg.Depth,
		Auth:          p.creds.Auth(),
		Force:         true,
	})
	switch {
	case err == nil:
		log.Infow("Updated repository", logger.FieldBranch, branch.Short())
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		log.Debugw("Repository already up to date", logger.FieldBranch, branch.Short())
	default:
		return errors.Wrapf(err, "failed to pull %s", branch.Short())
	}
	return nil
}

// currentBranch returns the checked out branch. A detached HEAD is moved to
// the first configured branch that exists locally.
func (p *GitProvider) currentBranch(r *git.Repository, wt *git.Worktree) (plumbing.ReferenceName, error) {
	head, err := r.Head()
	if err != nil {
		return "", errors.Wrap(err, "failed to read HEAD")
	}
	if head.Name().IsBranch() {
		return head.Name(), nil
	}

	for _, b := range p.cfg.Branches {
		ref := plumbing.NewBranchReferenceName(b)
		if _, err := r.Reference(ref, false); err != nil {
			continue
		}
		if err := wt.Checkout(&git.CheckoutOptions{Branch: ref, Force: true}); err != nil {
			return "", errors.Wrapf(err, "failed to check out %s", b)
		}
		return ref, nil
	}
	return "", errors.Newf("HEAD is detached and none of %s exist locally", strings.Join(p.cfg.Branches, ", "))
}

// sameRemote reports whether r's origin points at url.
func sameRemote(r *git.Repository, url string) bool {
	remote, err := r.Remote(git.DefaultRemoteName)
	if err != nil {
		return false
	}
	for _, u := range remote.Config().URLs {
		if u == url {
			return true
		}
	}
	return false
}
