package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sevigo/code-sentry/internal/core"
)

// RepoConfigFile is the per-repository configuration file read from the repository root.
const RepoConfigFile = ".code-sentry.yml"

var ErrConfigParsing = errors.New("config parsing failed")

// ParseRepoConfig parses the contents of a .code-sentry.yml file. Empty input
// yields the default configuration.
func ParseRepoConfig(data []byte) (*core.RepoConfig, error) {
	cfg := core.DefaultRepoConfig()
	if len(data) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParsing, err)
	}
	return cfg, nil
}
