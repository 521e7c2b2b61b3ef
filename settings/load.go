package settings

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/ciprobe/errors"
)

// File and environment naming.
const (
	FileName  = "ciprobe.toml"
	EnvPrefix = "CIPROBE"
)

// SystemConfigPath is the lowest-precedence settings file.
var SystemConfigPath = "/etc/ciprobe/" + FileName

var (
	globalSettings *Settings
	viperInstance  *viper.Viper
	// sources records which file set each key, filled by mergeConfigFiles.
	sources map[string]SourceInfo
)

// Load returns the settings from all sources. The result is cached until Reset.
func Load() (*Settings, error) {
	if globalSettings != nil {
		return globalSettings, nil
	}

	s, err := LoadWithViper(initViper())
	if err != nil {
		return nil, err
	}
	globalSettings = s
	return globalSettings, nil
}

// GetViper returns the shared viper instance so the CLI can bind flags to it.
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper unmarshals settings from v.
func LoadWithViper(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.WrapConfig(err, "failed to unmarshal settings")
	}
	return &s, nil
}

// LoadFromFile reads settings from a single TOML file over the defaults,
// ignoring every other source.
func LoadFromFile(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WrapConfig(err, "failed to read settings file "+path)
	}
	return LoadWithViper(v)
}

// Reset clears the cached settings and viper instance.
func Reset() {
	globalSettings = nil
	viperInstance = nil
	sources = nil
}

func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// findProjectConfig walks up from the working directory to the first ciprobe.toml.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

type configFile struct {
	path   string
	source ConfigSource
}

// configFiles lists candidate settings files, lowest precedence first.
func configFiles() []configFile {
	files := []configFile{{SystemConfigPath, SourceSystem}}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, configFile{filepath.Join(home, ".ciprobe", FileName), SourceUser})
	}
	if project := findProjectConfig(); project != "" {
		files = append(files, configFile{project, SourceProject})
	}
	return files
}

// mergeConfigFiles merges every existing settings file into v's config layer,
// so environment variables and bound flags still take precedence.
func mergeConfigFiles(v *viper.Viper) {
	sources = make(map[string]SourceInfo)

	for _, f := range configFiles() {
		if _, err := os.Stat(f.path); err != nil {
			continue
		}

		tmp := viper.New()
		tmp.SetConfigFile(f.path)
		tmp.SetConfigType("toml")
		if err := tmp.ReadInConfig(); err != nil {
			continue
		}
		if err := v.MergeConfigMap(tmp.AllSettings()); err != nil {
			continue
		}

		keys := tmp.AllKeys()
		sort.Strings(keys)
		for _, key := range keys {
			sources[key] = SourceInfo{Source: f.source, Path: f.path}
		}
	}
}
