// Package config loads layered application configuration for the lineage tool.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/pioneerwiki/lineage/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Content      ContentConfiguration      `mapstructure:"content"`
	Validate     ValidateConfiguration     `mapstructure:"validate"`
	Graph        GraphConfiguration        `mapstructure:"graph"`
	Neighborhood NeighborhoodConfiguration `mapstructure:"neighborhood"`
	Search       SearchConfiguration       `mapstructure:"search"`
	Stats        StatsConfiguration        `mapstructure:"stats"`
}

// ContentConfiguration defines where entries are loaded from and how parsed
// files are cached between loads.
type ContentConfiguration struct {
	Roots     []string `mapstructure:"roots"`
	CacheSize *int     `mapstructure:"cache_size"`
}

// ValidateConfiguration defines defaults for the validate command.
type ValidateConfiguration struct {
	Strict                    *bool  `mapstructure:"strict"`
	Format                    string `mapstructure:"format"`
	WatchDebounceMilliseconds *int   `mapstructure:"watch_debounce_ms"`
}

// GraphConfiguration defines defaults for the graph command.
type GraphConfiguration struct {
	Format   string   `mapstructure:"format"`
	Kinds    []string `mapstructure:"kinds"`
	Out      string   `mapstructure:"out"`
	Copy     *bool    `mapstructure:"copy"`
	CopyOnly *bool    `mapstructure:"copy_only"`
}

// NeighborhoodConfiguration defines defaults for the neighborhood command.
type NeighborhoodConfiguration struct {
	Depth    *int     `mapstructure:"depth"`
	Format   string   `mapstructure:"format"`
	Kinds    []string `mapstructure:"kinds"`
	Copy     *bool    `mapstructure:"copy"`
	CopyOnly *bool    `mapstructure:"copy_only"`
}

// SearchConfiguration defines defaults for the search command.
type SearchConfiguration struct {
	Limit  *int   `mapstructure:"limit"`
	Format string `mapstructure:"format"`
}

// StatsConfiguration defines defaults for the stats command.
type StatsConfiguration struct {
	Format string             `mapstructure:"format"`
	Tokens TokenConfiguration `mapstructure:"tokens"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// CopySettings resolves clipboard behaviour for a command configuration.
// CopyOnly implies Copy so output is never silently discarded.
type CopySettings struct {
	Copy     *bool
	CopyOnly *bool
}

func (settings CopySettings) normalized() CopySettings {
	if settings.CopyOnly != nil && *settings.CopyOnly {
		enabled := true
		settings.Copy = &enabled
	}
	return settings
}

// CopySettings returns the clipboard behaviour configured for the graph command.
func (configuration GraphConfiguration) CopySettings() CopySettings {
	return CopySettings{Copy: cloneBool(configuration.Copy), CopyOnly: cloneBool(configuration.CopyOnly)}.normalized()
}

// CopySettings returns the clipboard behaviour configured for the neighborhood command.
func (configuration NeighborhoodConfiguration) CopySettings() CopySettings {
	return CopySettings{Copy: cloneBool(configuration.Copy), CopyOnly: cloneBool(configuration.CopyOnly)}.normalized()
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	merged.Content.Roots = utils.DeduplicateStrings(merged.Content.Roots)
	merged.Graph.Kinds = utils.DeduplicateStrings(merged.Graph.Kinds)
	merged.Neighborhood.Kinds = utils.DeduplicateStrings(merged.Neighborhood.Kinds)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
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
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Content = result.Content.merge(override.Content)
	result.Validate = result.Validate.merge(override.Validate)
	result.Graph = result.Graph.merge(override.Graph)
	result.Neighborhood = result.Neighborhood.merge(override.Neighborhood)
	result.Search = result.Search.merge(override.Search)
	result.Stats = result.Stats.merge(override.Stats)
	return result
}

func (config ContentConfiguration) merge(override ContentConfiguration) ContentConfiguration {
	result := config
	if len(override.Roots) > 0 {
		result.Roots = append([]string{}, utils.DeduplicateStrings(override.Roots)...)
	}
	if override.CacheSize != nil {
		result.CacheSize = cloneInt(override.CacheSize)
	}
	return result
}

func (config ValidateConfiguration) merge(override ValidateConfiguration) ValidateConfiguration {
	result := config
	if override.Strict != nil {
		result.Strict = cloneBool(override.Strict)
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.WatchDebounceMilliseconds != nil {
		result.WatchDebounceMilliseconds = cloneInt(override.WatchDebounceMilliseconds)
	}
	return result
}

func (config GraphConfiguration) merge(override GraphConfiguration) GraphConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if len(override.Kinds) > 0 {
		result.Kinds = append([]string{}, utils.DeduplicateStrings(override.Kinds)...)
	}
	if override.Out != "" {
		result.Out = override.Out
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	if override.CopyOnly != nil {
		result.CopyOnly = cloneBool(override.CopyOnly)
	}
	return result
}

func (config NeighborhoodConfiguration) merge(override NeighborhoodConfiguration) NeighborhoodConfiguration {
	result := config
	if override.Depth != nil {
		result.Depth = cloneInt(override.Depth)
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if len(override.Kinds) > 0 {
		result.Kinds = append([]string{}, utils.DeduplicateStrings(override.Kinds)...)
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	if override.CopyOnly != nil {
		result.CopyOnly = cloneBool(override.CopyOnly)
	}
	return result
}

func (config SearchConfiguration) merge(override SearchConfiguration) SearchConfiguration {
	result := config
	if override.Limit != nil {
		result.Limit = cloneInt(override.Limit)
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	return result
}

func (config StatsConfiguration) merge(override StatsConfiguration) StatsConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
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
