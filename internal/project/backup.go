package project

import (
	"fmt"
	"time"

	"github.com/piwi3910/LotLayout/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string            `json:"version"`
	CreatedAt string            `json:"created_at"`
	Config    model.AppConfig   `json:"config"`
	Presets   model.PresetStore `json:"presets"`
}

// ExportAllData exports the app config and every dimension preset to a
// single JSON file at the specified path.
func ExportAllData(exportPath string, config model.AppConfig, presets model.PresetStore) error {
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Presets:   presets,
	}
	if err := writeJSON(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported config.
func ImportAllData(importPath string) (BackupData, error) {
	var backup BackupData
	found, err := readJSON(importPath, &backup)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	if !found {
		return BackupData{}, fmt.Errorf("backup file %s does not exist", importPath)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Config.RecentProjects == nil {
		backup.Config.RecentProjects = []string{}
	}
	if backup.Presets.Presets == nil {
		backup.Presets = model.NewPresetStore()
	}
	return backup, nil
}
