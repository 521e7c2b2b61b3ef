package settings

import (
	"github.com/spf13/viper"

	"github.com/teranos/ciprobe/registry"
	"github.com/teranos/ciprobe/repo"
)

// Report formats.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// SetDefaults configures the default value of every setting.
func SetDefaults(v *viper.Viper) {
	// Registry defaults
	v.SetDefault("registry.path", registry.DefaultPath)
	v.SetDefault("registry.strict", false)
	v.SetDefault("registry.version_match", string(registry.MatchExact))

	// Git defaults
	v.SetDefault("git.work_dir", repo.DefaultWorkDir)
	v.SetDefault("git.branches", repo.DefaultBranches)
	v.SetDefault("git.depth", repo.DefaultDepth) // shallow clones are enough to read pipeline files
	v.SetDefault("git.fresh", false)
	v.SetDefault("git.no_update", false)

	// Discovery defaults
	v.SetDefault("discovery.patterns", repo.DefaultPatterns)
	v.SetDefault("discovery.exclude", []string{})

	// Analysis defaults
	v.SetDefault("analysis.workers", 1)            // sequential, repositories in the order given
	v.SetDefault("analysis.acquire_per_minute", 0) // unlimited

	// Report defaults
	v.SetDefault("report.path", "report.md")
	v.SetDefault("report.format", FormatMarkdown)
	v.SetDefault("report.plain", false)

	// Credential defaults
	v.SetDefault("credentials.username_env", repo.DefaultUsernameEnv)
	v.SetDefault("credentials.token_env", repo.DefaultTokenEnv)
	v.SetDefault("credentials.env_file", repo.DefaultEnvFile)
}
