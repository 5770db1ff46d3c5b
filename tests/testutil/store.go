package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/nhle/bugnet-provider/internal/store"
)

// MirrorIssue is a row seeded into the mirror's issues table.
type MirrorIssue struct {
	ID            int
	ProjectID     string
	Title         string
	Description   string
	Status        string
	Disabled      bool
	ReleaseNumber string
}

// MirrorProject is a row seeded into the mirror's projects table.
type MirrorProject struct {
	ID       string
	Name     string
	Disabled bool
}

// NewMirrorStore creates a BugNet-shaped SQLite database in a temporary
// file and returns a store for it together with its DSN. releaseField
// names the custom field column exposed by the issues view.
func NewMirrorStore(t *testing.T, releaseField string) (*store.SQLStore, string) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "bugnet.db")
	s, err := store.NewSQLStore(store.DriverSQLite, dsn, nil)
	if err != nil {
		t.Fatalf("creating mirror store: %v", err)
	}
	if err := store.CreateMirror(context.Background(), s, releaseField); err != nil {
		t.Fatalf("creating mirror schema: %v", err)
	}
	return s, dsn
}

// SeedProjects inserts projects into a mirror store.
func SeedProjects(t *testing.T, s store.Querier, projects ...MirrorProject) {
	t.Helper()

	for _, p := range projects {
		q := fmt.Sprintf(
			"INSERT INTO BugNet_Projects (ProjectId, ProjectName, ProjectDisabled) VALUES ('%s', '%s', %d)",
			p.ID, p.Name, boolToInt(p.Disabled),
		)
		if err := s.Exec(context.Background(), q); err != nil {
			t.Fatalf("seeding project %s: %v", p.ID, err)
		}
	}
}

// SeedIssues inserts issues into a mirror store. An empty ReleaseNumber
// is stored as NULL.
func SeedIssues(t *testing.T, s store.Querier, issues ...MirrorIssue) {
	t.Helper()

	for _, i := range issues {
		release := "NULL"
		if i.ReleaseNumber != "" {
			release = "'" + i.ReleaseNumber + "'"
		}
		status := i.Status
		if status == "" {
			status = "Open"
		}
		q := fmt.Sprintf(
			"INSERT INTO BugNet_Issues (IssueId, ProjectId, IssueTitle, IssueDescription, StatusName, Disabled, ReleaseNumber) "+
				"VALUES (%d, '%s', '%s', '%s', '%s', %d, %s)",
			i.ID, i.ProjectID, i.Title, i.Description, status, boolToInt(i.Disabled), release,
		)
		if err := s.Exec(context.Background(), q); err != nil {
			t.Fatalf("seeding issue %d: %v", i.ID, err)
		}
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
