package project

import (
	"os"
	"path/filepath"

	"github.com/piwi3910/LotLayout/internal/model"
)

// DefaultPresetPath returns the default file path for the preset store.
// This is located at ~/.lotlayout/presets.json.
func DefaultPresetPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".lotlayout", "presets.json"), nil
}

// SavePresets writes the preset store to a JSON file.
func SavePresets(path string, store model.PresetStore) error {
	return writeJSON(path, store)
}

// LoadPresets reads a preset store from a JSON file.
// If the file does not exist, returns an empty store.
func LoadPresets(path string) (model.PresetStore, error) {
	store := model.NewPresetStore()
	if _, err := readJSON(path, &store); err != nil {
		return model.PresetStore{}, err
	}
	if store.Presets == nil {
		store.Presets = []model.DimensionPreset{}
	}
	return store, nil
}

// LoadDefaultPresets loads presets from the default path.
func LoadDefaultPresets() (model.PresetStore, error) {
	path, err := DefaultPresetPath()
	if err != nil {
		return model.NewPresetStore(), err
	}
	return LoadPresets(path)
}

// SaveDefaultPresets saves presets to the default path.
func SaveDefaultPresets(store model.PresetStore) error {
	path, err := DefaultPresetPath()
	if err != nil {
		return err
	}
	return SavePresets(path, store)
}
