package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/viper"

	"github.com/temirov/codesnap/internal/utils"
)

const (
	profilesFileName     = "profiles.yaml"
	profilesSettingsKey  = "profiles"
	profileDirectoryMode = 0o755
)

// Profile captures a reusable set of snapshot options under a name.
type Profile struct {
	Language    string   `mapstructure:"language"`
	Format      string   `mapstructure:"format"`
	Exclude     []string `mapstructure:"exclude"`
	Include     []string `mapstructure:"include"`
	SearchTerms []string `mapstructure:"search_terms"`
	MaxFileSize int64    `mapstructure:"max_file_size"`
	MaxBytes    int64    `mapstructure:"max_bytes"`
	MaxTokens   int      `mapstructure:"max_tokens"`
	TreeDepth   int      `mapstructure:"tree_depth"`
	NoTree      bool     `mapstructure:"no_tree"`
	Clipboard   bool     `mapstructure:"clipboard"`
}

// ProfileStore persists named profiles in the user configuration directory.
type ProfileStore struct {
	filePath string
}

// NewProfileStore locates the profile file under the user's configuration
// directory. The file is created lazily on first save.
func NewProfileStore() (*ProfileStore, error) {
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil {
		return nil, fmt.Errorf("determine home directory: %w", homeError)
	}
	return &ProfileStore{
		filePath: filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, profilesFileName),
	}, nil
}

// NewProfileStoreAt uses an explicit file path, primarily for tests.
func NewProfileStoreAt(filePath string) *ProfileStore {
	return &ProfileStore{filePath: filePath}
}

// Load reads every stored profile. A missing file yields an empty map.
func (store *ProfileStore) Load() (map[string]Profile, error) {
	if _, statError := os.Stat(store.filePath); statError != nil {
		if os.IsNotExist(statError) {
			return map[string]Profile{}, nil
		}
		return nil, fmt.Errorf("stat profiles %s: %w", store.filePath, statError)
	}

	reader := viper.New()
	reader.SetConfigFile(store.filePath)
	if readError := reader.ReadInConfig(); readError != nil {
		return nil, fmt.Errorf("read profiles from %s: %w", store.filePath, readError)
	}
	profiles := map[string]Profile{}
	if decodeError := reader.UnmarshalKey(profilesSettingsKey, &profiles); decodeError != nil {
		return nil, fmt.Errorf("decode profiles from %s: %w", store.filePath, decodeError)
	}
	return profiles, nil
}

// Get returns one profile by name.
func (store *ProfileStore) Get(profileName string) (Profile, error) {
	profiles, loadError := store.Load()
	if loadError != nil {
		return Profile{}, loadError
	}
	storedProfile, exists := profiles[profileName]
	if !exists {
		return Profile{}, fmt.Errorf("profile %q not found", profileName)
	}
	return storedProfile, nil
}

// Save stores or replaces a profile under the given name.
func (store *ProfileStore) Save(profileName string, profileValue Profile) error {
	profiles, loadError := store.Load()
	if loadError != nil {
		return loadError
	}
	profiles[profileName] = profileValue
	return store.write(profiles)
}

// Delete removes a profile by name; deleting an unknown name is an error.
func (store *ProfileStore) Delete(profileName string) error {
	profiles, loadError := store.Load()
	if loadError != nil {
		return loadError
	}
	if _, exists := profiles[profileName]; !exists {
		return fmt.Errorf("profile %q not found", profileName)
	}
	delete(profiles, profileName)
	return store.write(profiles)
}

// Names returns the stored profile names in sorted order.
func (store *ProfileStore) Names() ([]string, error) {
	profiles, loadError := store.Load()
	if loadError != nil {
		return nil, loadError
	}
	names := make([]string, 0, len(profiles))
	for profileName := range profiles {
		names = append(names, profileName)
	}
	sort.Strings(names)
	return names, nil
}

func (store *ProfileStore) write(profiles map[string]Profile) error {
	if directoryError := os.MkdirAll(filepath.Dir(store.filePath), profileDirectoryMode); directoryError != nil {
		return fmt.Errorf("create configuration directory: %w", directoryError)
	}

	settings := make(map[string]any, len(profiles))
	for profileName, profileValue := range profiles {
		settings[profileName] = profileSettings(profileValue)
	}

	writer := viper.New()
	writer.SetConfigFile(store.filePath)
	writer.SetConfigType("yaml")
	writer.Set(profilesSettingsKey, settings)
	if writeError := writer.WriteConfigAs(store.filePath); writeError != nil {
		return fmt.Errorf("write profiles to %s: %w", store.filePath, writeError)
	}
	return nil
}

// profileSettings flattens a profile to the key names UnmarshalKey expects,
// omitting zero values to keep the stored file minimal.
func profileSettings(profileValue Profile) map[string]any {
	settings := map[string]any{}
	if profileValue.Language != "" {
		settings["language"] = profileValue.Language
	}
	if profileValue.Format != "" {
		settings["format"] = profileValue.Format
	}
	if len(profileValue.Exclude) > 0 {
		settings["exclude"] = profileValue.Exclude
	}
	if len(profileValue.Include) > 0 {
		settings["include"] = profileValue.Include
	}
	if len(profileValue.SearchTerms) > 0 {
		settings["search_terms"] = profileValue.SearchTerms
	}
	if profileValue.MaxFileSize > 0 {
		settings["max_file_size"] = profileValue.MaxFileSize
	}
	if profileValue.MaxBytes > 0 {
		settings["max_bytes"] = profileValue.MaxBytes
	}
	if profileValue.MaxTokens > 0 {
		settings["max_tokens"] = profileValue.MaxTokens
	}
	if profileValue.TreeDepth > 0 {
		settings["tree_depth"] = profileValue.TreeDepth
	}
	if profileValue.NoTree {
		settings["no_tree"] = profileValue.NoTree
	}
	if profileValue.Clipboard {
		settings["clipboard"] = profileValue.Clipboard
	}
	return settings
}
