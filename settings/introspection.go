package settings

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// ConfigSource names where a setting's value came from.
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/ciprobe/ciprobe.toml
	SourceUser        ConfigSource = "user"        // ~/.ciprobe/ciprobe.toml
	SourceProject     ConfigSource = "project"     // nearest ciprobe.toml
	SourceEnvironment ConfigSource = "environment" // CIPROBE_* variables
	SourceFlag        ConfigSource = "flag"
)

// SourceInfo is a source plus the file path or variable name.
type SourceInfo struct {
	Source ConfigSource `json:"source"`
	Path   string       `json:"path,omitempty"`
}

// SettingInfo is one effective setting and its origin.
type SettingInfo struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
	SourceInfo
}

// EnvKey returns the environment variable that overrides key.
func EnvKey(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Introspect lists every setting of v, sorted by key, with the source that
// supplied its value. changedFlags names keys set by command-line flags.
func Introspect(v *viper.Viper, changedFlags map[string]bool) []SettingInfo {
	keys := v.AllKeys()
	sort.Strings(keys)

	out := make([]SettingInfo, 0, len(keys))
	for _, key := range keys {
		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := sources[key]; ok {
			info = si
		}
		if env := EnvKey(key); os.Getenv(env) != "" {
			info = SourceInfo{Source: SourceEnvironment, Path: env}
		}
		if changedFlags[key] {
			info = SourceInfo{Source: SourceFlag}
		}
		out = append(out, SettingInfo{Key: key, Value: v.Get(key), SourceInfo: info})
	}
	return out
}
