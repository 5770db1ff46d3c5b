package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSQLDate(t *testing.T) {
	assert.Equal(t, "NULL", sqlDate("NULL"))
	assert.Equal(t, "NULL", sqlDate("null"))
	assert.Equal(t, "NULL", sqlDate("NuLl"))
	assert.Equal(t, "''", sqlDate(""))
	assert.Equal(t, "'2024-01-02'", sqlDate("2024-01-02"))
}

func TestIssuesSQL_ProjectOnly(t *testing.T) {
	got := issuesSQL("", nil, "42", true)
	assert.Equal(t,
		"SELECT iv.IssueId, iv.IssueTitle, iv.IssueDescription, iv.StatusName"+
			" FROM [BugNet_IssuesView] iv WHERE Disabled = 0 AND iv.ProjectId = '42'",
		got,
	)
}

func TestIssuesSQL_EmptyReleaseStillFilters(t *testing.T) {
	empty := ""
	got := issuesSQL("Release", &empty, "", false)
	assert.Contains(t, got, "AND [Release] = ''")
}

func TestIssuesSQL_OnlyReleaseIsEscaped(t *testing.T) {
	release := "a'b"
	got := issuesSQL("Release", &release, "4'2", true)
	assert.Contains(t, got, "iv.ProjectId = '4'2'")
	assert.Contains(t, got, "[Release] = 'a''b'")
}

func TestIssuesSQL_EmptyProjectStaysScoped(t *testing.T) {
	got := issuesSQL("", nil, "", true)
	assert.Equal(t,
		"SELECT iv.IssueId, iv.IssueTitle, iv.IssueDescription, iv.StatusName"+
			" FROM [BugNet_IssuesView] iv WHERE Disabled = 0 AND iv.ProjectId = ''",
		got,
	)
}

func TestSQLNumber(t *testing.T) {
	assert.Equal(t, "NULL", sqlNumber(""))
	assert.Equal(t, "NULL", sqlNumber("null"))
	assert.Equal(t, "3", sqlNumber("3"))
}

func TestUpdateMilestoneSQL_NullSortOrder(t *testing.T) {
	got := updateMilestoneSQL(milestoneUpdate{
		ProjectID:     "7",
		MilestoneID:   "3",
		ReleaseNumber: "2.0",
		DueDate:       nullToken,
		ReleaseDate:   nullToken,
	})
	assert.Equal(t,
		"EXEC [BugNet_ProjectMilestones_UpdateMilestone] 7, 3, '2.0', '', NULL, NULL, NULL, '', false",
		got,
	)
}

func TestMilestoneSQL(t *testing.T) {
	assert.Equal(t,
		"EXEC BugNet_ProjectMilestones_GetMilestonesByProjectId 7, 1",
		milestonesSQL("7"),
	)
	assert.Equal(t,
		"EXEC [BugNet_ProjectMilestones_CreateNewMilestone] 7, '2.0', '', '', '', '', 0",
		createMilestoneSQL("7", "2.0", ""),
	)
	assert.Equal(t,
		"EXEC [BugNet_ProjectMilestones_UpdateMilestone] 7, 3, '2.0', '', 1, NULL, '2024-05-01 10:00:00', 'n', true",
		updateMilestoneSQL(milestoneUpdate{
			ProjectID:     "7",
			MilestoneID:   "3",
			ReleaseNumber: "2.0",
			SortOrder:     "1",
			DueDate:       "null",
			ReleaseDate:   "2024-05-01 10:00:00",
			Notes:         "n",
			Closed:        true,
		}),
	)
}
