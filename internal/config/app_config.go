// Package config discovers and merges application configuration: the global
// and per-project codesnap.yaml files, ignore-pattern files, and the named
// profile store.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/codesnap/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds defaults applied beneath command-line flags.
type ApplicationConfiguration struct {
	Snapshot  SnapshotConfiguration  `mapstructure:"snapshot"`
	Summarize SummarizeConfiguration `mapstructure:"summarize"`
}

// SnapshotConfiguration defines defaults for snapshot creation.
type SnapshotConfiguration struct {
	Language      string             `mapstructure:"language"`
	Format        string             `mapstructure:"format"`
	Clipboard     *bool              `mapstructure:"clipboard"`
	ShowTree      *bool              `mapstructure:"tree"`
	TreeDepth     *int               `mapstructure:"tree_depth"`
	MaxFileSize   int64              `mapstructure:"max_file_size"`
	MaxBytes      int64              `mapstructure:"max_bytes"`
	MaxTokens     *int               `mapstructure:"max_tokens"`
	Tokens        TokenConfiguration `mapstructure:"tokens"`
	Paths         PathConfiguration  `mapstructure:"paths"`
	ShowFooter    *bool              `mapstructure:"footer"`
	OutputPath    string             `mapstructure:"output"`
	DefaultFormat string             `mapstructure:"default_format"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled  *bool  `mapstructure:"enabled"`
	Encoding string `mapstructure:"encoding"`
}

// PathConfiguration configures inclusion and exclusion rules for traversal.
type PathConfiguration struct {
	Exclude       []string `mapstructure:"exclude"`
	Include       []string `mapstructure:"include"`
	UseGitignore  *bool    `mapstructure:"use_gitignore"`
	UseIgnoreFile *bool    `mapstructure:"use_ignore"`
}

// SummarizeConfiguration defines defaults for the optional summary pass.
type SummarizeConfiguration struct {
	Provider  string `mapstructure:"provider"`
	Model     string `mapstructure:"model"`
	Sentences *int   `mapstructure:"sentences"`
}

// LoadApplicationConfiguration loads configuration from the global file under
// the user configuration directory and the local project file, with local
// values overriding global ones.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadError := loadConfigurationFromPath(globalPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveError := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveError != nil {
		return ApplicationConfiguration{}, resolveError
	}
	if localPath != "" {
		localConfig, loadError := loadConfigurationFromPath(localPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(localConfig)
	}

	merged.Snapshot.Paths.Exclude = utils.DeduplicatePatterns(merged.Snapshot.Paths.Exclude)
	merged.Snapshot.Paths.Include = utils.DeduplicatePatterns(merged.Snapshot.Paths.Include)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolutePath, absoluteError := filepath.Abs(explicitPath)
			if absoluteError != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, absoluteError)
			}
			return absolutePath, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	pathInformation, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statError)
	}
	if pathInformation.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var configuration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	result.Snapshot = result.Snapshot.merge(override.Snapshot)
	result.Summarize = result.Summarize.merge(override.Summarize)
	return result
}

func (configuration SnapshotConfiguration) merge(override SnapshotConfiguration) SnapshotConfiguration {
	result := configuration
	if override.Language != "" {
		result.Language = override.Language
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	if override.ShowTree != nil {
		result.ShowTree = cloneBool(override.ShowTree)
	}
	if override.TreeDepth != nil {
		result.TreeDepth = cloneInt(override.TreeDepth)
	}
	if override.MaxFileSize > 0 {
		result.MaxFileSize = override.MaxFileSize
	}
	if override.MaxBytes > 0 {
		result.MaxBytes = override.MaxBytes
	}
	if override.MaxTokens != nil {
		result.MaxTokens = cloneInt(override.MaxTokens)
	}
	if override.ShowFooter != nil {
		result.ShowFooter = cloneBool(override.ShowFooter)
	}
	if override.OutputPath != "" {
		result.OutputPath = override.OutputPath
	}
	if override.DefaultFormat != "" {
		result.DefaultFormat = override.DefaultFormat
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	result.Paths = result.Paths.merge(override.Paths)
	return result
}

func (configuration TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := configuration
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Encoding != "" {
		result.Encoding = override.Encoding
	}
	return result
}

func (configuration PathConfiguration) merge(override PathConfiguration) PathConfiguration {
	result := configuration
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if len(override.Include) > 0 {
		result.Include = append([]string{}, utils.DeduplicatePatterns(override.Include)...)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.UseIgnoreFile != nil {
		result.UseIgnoreFile = cloneBool(override.UseIgnoreFile)
	}
	return result
}

func (configuration SummarizeConfiguration) merge(override SummarizeConfiguration) SummarizeConfiguration {
	result := configuration
	if override.Provider != "" {
		result.Provider = override.Provider
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	if override.Sentences != nil {
		result.Sentences = cloneInt(override.Sentences)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
