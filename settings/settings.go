// Package settings loads ciprobe's run settings with viper.
//
// Sources, lowest precedence first:
//
//	built-in defaults
//	/etc/ciprobe/ciprobe.toml
//	~/.ciprobe/ciprobe.toml
//	the nearest ciprobe.toml walking up from the working directory
//	CIPROBE_* environment variables (CIPROBE_GIT_WORK_DIR for git.work_dir)
//	command-line flags bound by the CLI
package settings

import (
	"github.com/teranos/ciprobe/registry"
	"github.com/teranos/ciprobe/repo"
)

// Settings is the complete run configuration.
type Settings struct {
	Registry    RegistrySettings    `mapstructure:"registry" toml:"registry" json:"registry" yaml:"registry"`
	Git         GitSettings         `mapstructure:"git" toml:"git" json:"git" yaml:"git"`
	Discovery   DiscoverySettings   `mapstructure:"discovery" toml:"discovery" json:"discovery" yaml:"discovery"`
	Analysis    AnalysisSettings    `mapstructure:"analysis" toml:"analysis" json:"analysis" yaml:"analysis"`
	Report      ReportSettings      `mapstructure:"report" toml:"report" json:"report" yaml:"report"`
	Credentials CredentialsSettings `mapstructure:"credentials" toml:"credentials" json:"credentials" yaml:"credentials"`
}

// RegistrySettings locates the task allow-list and sets its matching policy.
type RegistrySettings struct {
	// Path of the YAML or TOML registry file.
	Path string `mapstructure:"path" toml:"path" json:"path" yaml:"path"`
	// Strict turns task names that collide after lowercasing into an error.
	Strict bool `mapstructure:"strict" toml:"strict" json:"strict" yaml:"strict"`
	// VersionMatch is "exact" or "relaxed".
	VersionMatch string `mapstructure:"version_match" toml:"version_match" json:"version_match" yaml:"version_match"`
}

// GitSettings controls working copies of remote repositories.
type GitSettings struct {
	WorkDir  string   `mapstructure:"work_dir" toml:"work_dir" json:"work_dir" yaml:"work_dir"`
	Branches []string `mapstructure:"branches" toml:"branches" json:"branches" yaml:"branches"`
	Depth    int      `mapstructure:"depth" toml:"depth" json:"depth" yaml:"depth"`
	Fresh    bool     `mapstructure:"fresh" toml:"fresh" json:"fresh" yaml:"fresh"`
	NoUpdate bool     `mapstructure:"no_update" toml:"no_update" json:"no_update" yaml:"no_update"`
}

// DiscoverySettings selects candidate pipeline files with doublestar globs.
type DiscoverySettings struct {
	Patterns []string `mapstructure:"patterns" toml:"patterns" json:"patterns" yaml:"patterns"`
	Exclude  []string `mapstructure:"exclude" toml:"exclude" json:"exclude" yaml:"exclude"`
}

// AnalysisSettings tunes the orchestrator.
type AnalysisSettings struct {
	// Workers processes this many repositories at once; 0 or 1 is sequential.
	Workers int `mapstructure:"workers" toml:"workers" json:"workers" yaml:"workers"`
	// AcquirePerMinute caps clone/update starts; 0 is unlimited.
	AcquirePerMinute int `mapstructure:"acquire_per_minute" toml:"acquire_per_minute" json:"acquire_per_minute" yaml:"acquire_per_minute"`
}

// ReportSettings controls the emitted report.
type ReportSettings struct {
	Path string `mapstructure:"path" toml:"path" json:"path" yaml:"path"`
	// Format is "markdown" or "json".
	Format string `mapstructure:"format" toml:"format" json:"format" yaml:"format"`
	// Plain replaces emoji with text markers.
	Plain bool `mapstructure:"plain" toml:"plain" json:"plain" yaml:"plain"`
}

// CredentialsSettings names where repository credentials are looked up.
type CredentialsSettings struct {
	UsernameEnv string `mapstructure:"username_env" toml:"username_env" json:"username_env" yaml:"username_env"`
	TokenEnv    string `mapstructure:"token_env" toml:"token_env" json:"token_env" yaml:"token_env"`
	EnvFile     string `mapstructure:"env_file" toml:"env_file" json:"env_file" yaml:"env_file"`
}

// GitConfig converts the git settings for repo.NewGitProvider.
func (s *Settings) GitConfig() repo.GitConfig {
	return repo.GitConfig{
		WorkDir:  s.Git.WorkDir,
		Branches: s.Git.Branches,
		Depth:    s.Git.Depth,
		Fresh:    s.Git.Fresh,
		NoUpdate: s.Git.NoUpdate,
	}
}

// CredentialSources converts the credential settings for repo.LoadCredentials.
func (s *Settings) CredentialSources() repo.CredentialSources {
	return repo.CredentialSources{
		UsernameEnv: s.Credentials.UsernameEnv,
		TokenEnv:    s.Credentials.TokenEnv,
		EnvFile:     s.Credentials.EnvFile,
	}
}

// RegistryOptions converts the registry settings for registry.Load.
func (s *Settings) RegistryOptions() ([]registry.Option, error) {
	mode, err := registry.ParseMatchMode(s.Registry.VersionMatch)
	if err != nil {
		return nil, err
	}
	return []registry.Option{
		registry.WithMatchMode(mode),
		registry.WithStrictKeys(s.Registry.Strict),
	}, nil
}
