package tracker

import (
	"fmt"
	"strings"
)

// BugNet view and stored procedure names.
const (
	issuesView   = "BugNet_IssuesView"
	projectsView = "BugNet_ProjectsView"

	procCustomFieldsByProject = "BugNet_ProjectCustomField_GetCustomFieldsByProjectId"
	procSelectionsByField     = "BugNet_ProjectCustomFieldSelection_GetCustomFieldSelectionsByCustomFieldId"
	procCreateSelection       = "BugNet_ProjectCustomFieldSelection_CreateNewCustomFieldSelection"
	procUpdateSelection       = "BugNet_ProjectCustomFieldSelection_Update"
	procMilestonesByProject   = "BugNet_ProjectMilestones_GetMilestonesByProjectId"
	procCreateMilestone       = "BugNet_ProjectMilestones_CreateNewMilestone"
	procUpdateMilestone       = "BugNet_ProjectMilestones_UpdateMilestone"
)

// nullToken is the only date value rendered as SQL NULL.
const nullToken = "NULL"

// releaseDateLayout formats the release date written when closing.
const releaseDateLayout = "2006-01-02 15:04:05"

// The statements below embed values directly into the SQL text. Only the
// release number in the issues query has its quotes doubled; every other
// value is inserted verbatim, matching the SQL the tracker integration has
// always issued.

func categoriesSQL() string {
	return "SELECT ProjectId, ProjectName FROM [" + projectsView + "] " +
		"WHERE ProjectDisabled = 0 ORDER BY ProjectName"
}

// issuesSQL lists enabled issues. The project clause is present whenever
// scoped is set, even for an empty projectID. The release column and filter
// are only present when releaseField is set; the release filter
// additionally needs a non-nil releaseNumber.
func issuesSQL(releaseField string, releaseNumber *string, projectID string, scoped bool) string {
	var b strings.Builder
	b.WriteString("SELECT iv.IssueId, iv.IssueTitle, iv.IssueDescription, iv.StatusName")
	if releaseField != "" {
		fmt.Fprintf(&b, ", [%s] AS [ReleaseNumber]", releaseField)
	}
	b.WriteString(" FROM [" + issuesView + "] iv WHERE Disabled = 0")
	if scoped {
		fmt.Fprintf(&b, " AND iv.ProjectId = '%s'", projectID)
	}
	if releaseField != "" && releaseNumber != nil {
		fmt.Fprintf(&b, " AND [%s] = '%s'",
			releaseField, strings.ReplaceAll(*releaseNumber, "'", "''"))
	}
	return b.String()
}

func customFieldsSQL(projectID string) string {
	return fmt.Sprintf("EXEC %s %s", procCustomFieldsByProject, projectID)
}

func customFieldSelectionsSQL(fieldID string) string {
	return fmt.Sprintf("EXEC %s %s", procSelectionsByField, fieldID)
}

func createCustomFieldSelectionSQL(fieldID, value string) string {
	return fmt.Sprintf("EXEC [%s] %s, '%s', '%s'", procCreateSelection, fieldID, value, value)
}

func updateCustomFieldSelectionSQL(selectionID, fieldID, value string) string {
	return fmt.Sprintf("EXEC [%s] %s, %s, '%s', '%s', 1",
		procUpdateSelection, selectionID, fieldID, value, value)
}

// milestonesSQL lists a project's milestones, including completed ones.
func milestonesSQL(projectID string) string {
	return fmt.Sprintf("EXEC %s %s, 1", procMilestonesByProject, projectID)
}

// createMilestoneSQL creates a milestone with empty description fields.
// The procedure takes no sort position.
func createMilestoneSQL(projectID, releaseNumber, releaseName string) string {
	return fmt.Sprintf("EXEC [%s] %s, '%s', '', '', '', '%s', 0",
		procCreateMilestone, projectID, releaseNumber, releaseName)
}

// milestoneUpdate carries the positional arguments of the update procedure.
type milestoneUpdate struct {
	ProjectID     string
	MilestoneID   string
	ReleaseNumber string
	SortOrder     string
	DueDate       string
	ReleaseDate   string
	Notes         string
	Closed        bool
}

func updateMilestoneSQL(u milestoneUpdate) string {
	return fmt.Sprintf("EXEC [%s] %s, %s, '%s', '', %s, %s, %s, '%s', %t",
		procUpdateMilestone,
		u.ProjectID, u.MilestoneID, u.ReleaseNumber, sqlNumber(u.SortOrder),
		sqlDate(u.DueDate), sqlDate(u.ReleaseDate), u.Notes, u.Closed)
}

// sqlNumber renders an unquoted numeric argument; an empty value or the
// NULL token becomes bare NULL.
func sqlNumber(value string) string {
	if value == "" || strings.EqualFold(value, nullToken) {
		return nullToken
	}
	return value
}

// sqlDate renders a date argument: the NULL token (any case) becomes bare
// NULL, everything else is quoted.
func sqlDate(value string) string {
	if strings.EqualFold(value, nullToken) {
		return nullToken
	}
	return "'" + value + "'"
}
