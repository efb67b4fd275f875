package dtrack

// ServerVersion is the response of the version endpoint
type ServerVersion struct {
	Version     string `json:"version"`
	Timestamp   string `json:"timestamp,omitempty"`
	Application string `json:"application,omitempty"`
}

// Tag is a project label
type Tag struct {
	Name string `json:"name"`
}

// Project is a Dependency-Track project, identified by name and version
type Project struct {
	UUID        string `json:"uuid,omitempty"`
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	Tags        []Tag  `json:"tags,omitempty"`
}

// NewProject builds a project creation request
func NewProject(name, version, description string, tags []string) Project {
	p := Project{
		Name:        name,
		Version:     version,
		Description: description,
	}

	for _, tag := range tags {
		p.Tags = append(p.Tags, Tag{Name: tag})
	}

	return p
}

// UploadResponse is returned when a BOM has been accepted for processing
type UploadResponse struct {
	// Token identifies the processing task for the uploaded BOM
	Token string `json:"token"`
}
