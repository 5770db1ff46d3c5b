package model

// CategoryType identifies the kind of grouping a Category represents.
type CategoryType string

// CategoryTypeProject is the only category kind BugNet exposes.
const CategoryTypeProject CategoryType = "Project"

// CategoryTypeNames returns the display names of all category kinds.
func CategoryTypeNames() []string {
	return []string{string(CategoryTypeProject)}
}

// Category is a grouping of issues; in BugNet this is always a project.
type Category struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Type CategoryType `json:"type"`
}

// NewProjectCategory builds a project category.
func NewProjectCategory(id, name string) Category {
	return Category{ID: id, Name: name, Type: CategoryTypeProject}
}

// CategoryFilter scopes issue and release operations to categories.
// Only the first entry is honored.
type CategoryFilter []string

// ProjectID returns the first category id, if any.
func (f CategoryFilter) ProjectID() (string, bool) {
	if len(f) == 0 {
		return "", false
	}
	return f[0], true
}
