package registry

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/teranos/ciprobe/errors"
)

// DefaultPath is the registry file used when no path is given.
const DefaultPath = "ciprobeconfig.yml"

// document is the on-disk registry shape shared by YAML and TOML.
type document struct {
	TaskVersions map[string][]string `yaml:"task_versions" toml:"task_versions"`
}

// Load reads a registry file. An empty path means DefaultPath.
// The format follows the extension: .toml is TOML, anything else is YAML.
// Every failure is marked errors.ErrConfig.
func Load(path string, opts ...Option) (*Registry, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithHintf(
				errors.NewConfigError("config file not found at %s", path),
				"create %s or pass --config with the path to your task registry", DefaultPath)
		}
		return nil, errors.WrapConfig(err, "failed to read config file")
	}

	doc, err := decode(path, data)
	if err != nil {
		return nil, err
	}
	return New(doc.TaskVersions, opts...)
}

func decode(path string, data []byte) (document, error) {
	var doc document

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return doc, errors.WrapConfig(err, "failed to parse config file")
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return doc, errors.WrapConfig(err, "failed to parse config file")
		}
	}
	return doc, nil
}
