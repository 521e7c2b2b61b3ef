// Package repo turns repository identifiers into readable working copies and
// finds the pipeline files inside them.
//
// Identifiers are classified with go-getter's detectors:
//   - Local paths: /path/to/repo, ./relative/path, ~/home/path, file:///path
//   - Git URLs: https://dev.azure.com/org/project/_git/repo, git::https://...
//   - GitHub shorthand: github.com/user/repo
//
// Local paths are used in place. Remote repositories are cloned with go-git
// into a per-repository directory under the work dir and updated on later runs.
package repo

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter"

	"github.com/teranos/ciprobe/errors"
)

// Source is a classified repository identifier.
type Source struct {
	// ID is the identifier exactly as supplied.
	ID string
	// Remote is true when the repository has to be cloned.
	Remote bool
	// URL is the clone URL for remote sources, without userinfo.
	URL string
	// LocalPath is the absolute directory for local sources.
	LocalPath string
}

// ResolveSource classifies id as a local directory or a remote git URL.
func ResolveSource(id string) (Source, error) {
	if strings.TrimSpace(id) == "" {
		return Source{}, errors.NewInvalidRequestError("empty repository identifier")
	}

	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}

	input := expandHome(id)
	detected, err := getter.Detect(input, pwd, getter.Detectors)
	if err != nil {
		return Source{}, errors.Wrapf(err, "failed to detect source type for %s", id)
	}
	// Forced getters ("git::https://...") carry the real URL after the prefix.
	detected = strings.TrimPrefix(detected, "git::")

	u, err := url.Parse(detected)
	if err != nil {
		return Source{}, errors.Wrapf(err, "failed to parse detected URL %s", detected)
	}

	if u.Scheme == "" || u.Scheme == "file" {
		local := input
		if u.Scheme == "file" {
			local = u.Path
		}
		if !filepath.IsAbs(local) {
			local = filepath.Join(pwd, local)
		}
		return Source{ID: id, LocalPath: filepath.Clean(local)}, nil
	}

	// Credentials come from LoadCredentials, never from the identifier.
	u.User = nil
	return Source{ID: id, Remote: true, URL: u.String()}, nil
}

// IsRemote reports whether id needs to be cloned.
func IsRemote(id string) bool {
	src, err := ResolveSource(id)
	return err == nil && src.Remote
}

// AnyRemote reports whether at least one of ids needs to be cloned.
func AnyRemote(ids []string) bool {
	for _, id := range ids {
		if IsRemote(id) {
			return true
		}
	}
	return false
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}

// ShortName is the display name of a repository: the last path segment with
// any .git suffix removed. Azure DevOps URLs end in /_git/<name>, so the
// segment after _git is what remains.
func ShortName(id string) string {
	trimmed := strings.TrimRight(id, `/\`)
	name := trimmed
	if i := strings.LastIndexAny(trimmed, `/\`); i >= 0 {
		name = trimmed[i+1:]
	}
	name = strings.TrimSuffix(name, ".git")
	if name == "" || name == "_git" {
		return id
	}
	return name
}

// dirName is the working-copy directory for a remote source: the sanitized
// short name plus a hash of the clone URL, so repositories sharing a last
// path segment never share a directory.
func dirName(src Source) string {
	name := strings.TrimPrefix(ShortName(src.ID), "git@")

	replacer := strings.NewReplacer(
		":", "-",
		"@", "-",
		" ", "-",
		"/", "-",
		`\`, "-",
	)
	name = replacer.Replace(name)

	if len(name) > 50 {
		name = name[:50]
	}
	if name == "" || name == "." || name == ".." {
		name = "repo"
	}

	sum := sha256.Sum256([]byte(src.URL))
	return name + "-" + hex.EncodeToString(sum[:4])
}
