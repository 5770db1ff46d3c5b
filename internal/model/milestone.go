package model

// Milestone is BugNet's name for a release record tied to a project.
type Milestone struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Notes     string `json:"notes"`

	// DueDate is the raw due date text, or nil when the tracker has none.
	DueDate *string `json:"due_date,omitempty"`

	SortOrder string `json:"sort_order"`
}

// CustomField is a project-level extra issue column.
type CustomField struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CustomFieldSelection is one drop-down value of a custom field.
type CustomFieldSelection struct {
	ID        string `json:"id"`
	FieldID   string `json:"field_id"`
	Name      string `json:"name"`
	Value     string `json:"value"`
	SortOrder string `json:"sort_order"`
}
