package model

import (
	"time"

	"github.com/google/uuid"
)

// DimensionPreset is a named, reusable set of dimension rules, for example
// the rules of one local authority.
type DimensionPreset struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
	Dimensions  Dimensions    `json:"dimensions"`
	Orientation Orientation   `json:"orientation"`
	Clearance   ClearanceMode `json:"clearance"`
}

// NewDimensionPreset captures dims and the preferred orientation under name.
func NewDimensionPreset(name, description string, dims Dimensions, o Orientation) DimensionPreset {
	now := time.Now().UTC().Format(time.RFC3339)
	return DimensionPreset{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Dimensions:  dims,
		Orientation: o.Normalize(),
		Clearance:   ClearanceTopLeft,
	}
}

// ToProject starts a new project with an empty boundary using this preset.
func (p DimensionPreset) ToProject(projectName string) Project {
	proj := NewProject()
	proj.Name = projectName
	proj.Dimensions = p.Dimensions
	proj.Orientation = p.Orientation
	if p.Clearance != "" {
		proj.Clearance = p.Clearance
	}
	return proj
}

// PresetStore holds a collection of dimension presets.
type PresetStore struct {
	Presets []DimensionPreset `json:"presets"`
}

// NewPresetStore creates an empty preset store.
func NewPresetStore() PresetStore {
	return PresetStore{
		Presets: []DimensionPreset{},
	}
}

// Add adds a preset to the store.
func (ps *PresetStore) Add(p DimensionPreset) {
	ps.Presets = append(ps.Presets, p)
}

// Remove removes a preset by ID. Returns true if found and removed.
func (ps *PresetStore) Remove(id string) bool {
	for i, p := range ps.Presets {
		if p.ID == id {
			ps.Presets = append(ps.Presets[:i], ps.Presets[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the preset with the given ID, or nil.
func (ps *PresetStore) FindByID(id string) *DimensionPreset {
	for i := range ps.Presets {
		if ps.Presets[i].ID == id {
			return &ps.Presets[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first preset with the given name, or nil.
func (ps *PresetStore) FindByName(name string) *DimensionPreset {
	for i := range ps.Presets {
		if ps.Presets[i].Name == name {
			return &ps.Presets[i]
		}
	}
	return nil
}

// Names returns the preset names in store order.
func (ps *PresetStore) Names() []string {
	names := make([]string, len(ps.Presets))
	for i, p := range ps.Presets {
		names[i] = p.Name
	}
	return names
}
