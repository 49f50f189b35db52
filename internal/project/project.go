// Package project persists car park projects, application preferences,
// dimension presets and backups as JSON files.
package project

import (
	"fmt"
	"os"

	"github.com/piwi3910/LotLayout/internal/model"
)

// FileExtension is the suffix used for saved projects.
const FileExtension = ".lotlayout"

// SaveProject writes proj to path as JSON.
func SaveProject(path string, proj model.Project) error {
	return writeJSON(path, proj)
}

// LoadProject reads a project written by SaveProject. Boundary endpoints are
// snapped back onto the grid, the orientation and clearance mode are
// normalised and the dimensions must not be negative.
func LoadProject(path string) (model.Project, error) {
	proj := model.NewProject()
	found, err := readJSON(path, &proj)
	if err != nil {
		return model.Project{}, err
	}
	if !found {
		return model.Project{}, fmt.Errorf("failed to load project: %w", os.ErrNotExist)
	}
	if _, err := model.NewDimensions(proj.Dimensions); err != nil {
		return model.Project{}, fmt.Errorf("invalid project %s: %w", proj.Name, err)
	}
	proj.Orientation = proj.Orientation.Normalize()
	proj.Clearance = model.ParseClearanceMode(string(proj.Clearance))
	return proj, nil
}
