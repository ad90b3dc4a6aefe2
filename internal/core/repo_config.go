package core

// RepoConfig represents the structure of the .code-sentry.yml file.
type RepoConfig struct {
	// Exclusion of entire directories by name, e.g. ["dist", "vendor"].
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// Exclusion of files based on their extension.
	// The leading dot is optional. Example: [".md", "lock", ".log"]
	ExcludeExts []string `yaml:"exclude_exts"`
}

// DefaultRepoConfig returns a config with default values.
func DefaultRepoConfig() *RepoConfig {
	return &RepoConfig{
		ExcludeDirs: []string{},
		ExcludeExts: []string{},
	}
}
