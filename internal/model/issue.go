package model

// RenderMode describes how the host should render an issue description.
type RenderMode string

// RenderModeHTML marks a description as HTML.
const RenderModeHTML RenderMode = "html"

// Default BugNet status names for a freshly installed tracker.
const (
	StatusOpen       = "Open"
	StatusReopened   = "Verified"
	StatusInProgress = "In Progress"
	StatusResolved   = "Review"
	StatusClosed     = "Closed"
)

// DefaultStatusNames lists the statuses a stock BugNet install ships with.
var DefaultStatusNames = []string{
	StatusOpen,
	StatusReopened,
	StatusInProgress,
	StatusResolved,
	StatusClosed,
}

// IsKnownStatus reports whether status exactly matches one of the
// default status names.
func IsKnownStatus(status string) bool {
	for _, s := range DefaultStatusNames {
		if s == status {
			return true
		}
	}
	return false
}

// Issue is a single tracker issue as seen by the release host.
type Issue struct {
	// ID is the tracker's issue identifier.
	ID string `json:"id"`

	// Status is the tracker status name (e.g. "Open", "Closed").
	Status string `json:"status"`

	// Title is the one-line summary.
	Title string `json:"title"`

	// Description is the issue body, stored as HTML by BugNet.
	Description string `json:"description"`

	// ReleaseNumber is the value of the configured release custom field.
	// It is empty when no release field is configured.
	ReleaseNumber string `json:"release_number,omitempty"`
}

// DescriptionRenderMode reports how Description should be rendered.
func (i Issue) DescriptionRenderMode() RenderMode {
	return RenderModeHTML
}
