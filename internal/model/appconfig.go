package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	DefaultOrientation Orientation   `json:"default_orientation"`
	DefaultClearance   ClearanceMode `json:"default_clearance"`
	DimensionsFile     string        `json:"dimensions_file"` // Tag file loaded when no project overrides it
	OutputDir          string        `json:"output_dir"`      // Where exports go by default

	RecentProjects []string `json:"recent_projects"`
	MaxRecent      int      `json:"max_recent"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultOrientation: Deg90,
		DefaultClearance:   ClearanceTopLeft,
		RecentProjects:     []string{},
		MaxRecent:          10,
	}
}

// ApplyToProject copies the defaults into a new project.
func (c AppConfig) ApplyToProject(p *Project) {
	p.Orientation = c.DefaultOrientation.Normalize()
	p.Clearance = ParseClearanceMode(string(c.DefaultClearance))
}

// AddRecent moves path to the front of the recent list, trimming it to MaxRecent.
func (c *AppConfig) AddRecent(path string) {
	list := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			list = append(list, p)
		}
	}
	limit := c.MaxRecent
	if limit <= 0 {
		limit = 10
	}
	if len(list) > limit {
		list = list[:limit]
	}
	c.RecentProjects = list
}
