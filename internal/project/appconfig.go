package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/LotLayout/internal/importer"
	"github.com/piwi3910/LotLayout/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.lotlayout/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".lotlayout")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	return writeJSON(path, config)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()
	found, err := readJSON(path, &config)
	if err != nil {
		return model.AppConfig{}, err
	}
	if !found {
		return model.DefaultAppConfig(), nil
	}
	if config.RecentProjects == nil {
		config.RecentProjects = []string{}
	}
	config.DefaultOrientation = config.DefaultOrientation.Normalize()
	config.DefaultClearance = model.ParseClearanceMode(string(config.DefaultClearance))
	return config, nil
}

// ResolveDimensions loads the config's dimension file, or returns the
// built-in defaults when none is set.
func ResolveDimensions(config model.AppConfig) (model.Dimensions, error) {
	if config.DimensionsFile == "" {
		return model.DefaultDimensions(), nil
	}
	return importer.ImportDimensions(config.DimensionsFile)
}

// NewProjectFromConfig starts an empty project using the configured defaults.
func NewProjectFromConfig(config model.AppConfig) (model.Project, error) {
	proj := model.NewProject()
	config.ApplyToProject(&proj)
	dims, err := ResolveDimensions(config)
	if err != nil {
		return model.Project{}, err
	}
	proj.Dimensions = dims
	return proj, nil
}

// writeJSON writes v as indented JSON, creating parent directories.
func writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// readJSON decodes the file at path into v. A missing file is not an error;
// found reports whether it existed.
func readJSON(path string, v interface{}) (found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return true, nil
}
