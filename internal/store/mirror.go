package store

import (
	"context"
	"fmt"
	"strings"
)

// mirrorStep is one DDL statement group for the SQLite mirror.
type mirrorStep struct {
	name string
	sql  string
}

// mirrorSchema reproduces the BugNet views the provider reads, on top of
// minimal backing tables. Stored procedures have no SQLite equivalent,
// so milestone and custom field operations are unavailable on a mirror.
var mirrorSchema = []mirrorStep{
	{
		name: "projects",
		sql: `
CREATE TABLE IF NOT EXISTS BugNet_Projects (
	ProjectId       TEXT PRIMARY KEY,
	ProjectName     TEXT NOT NULL,
	ProjectDisabled INTEGER NOT NULL DEFAULT 0
);

CREATE VIEW IF NOT EXISTS BugNet_ProjectsView AS
	SELECT ProjectId, ProjectName, ProjectDisabled FROM BugNet_Projects;
`,
	},
	{
		name: "issues",
		sql: `
CREATE TABLE IF NOT EXISTS BugNet_Issues (
	IssueId          INTEGER PRIMARY KEY,
	ProjectId        TEXT NOT NULL,
	IssueTitle       TEXT NOT NULL,
	IssueDescription TEXT NOT NULL DEFAULT '',
	StatusName       TEXT NOT NULL DEFAULT 'Open',
	Disabled         INTEGER NOT NULL DEFAULT 0,
	ReleaseNumber    TEXT
);
`,
	},
}

// issuesView returns the issues view DDL, exposing the release column
// under the custom field name the provider is configured with.
func issuesView(releaseField string) string {
	cols := "IssueId, ProjectId, IssueTitle, IssueDescription, StatusName, Disabled"
	if releaseField != "" {
		cols += fmt.Sprintf(", ReleaseNumber AS [%s]", releaseField)
	}
	return "CREATE VIEW IF NOT EXISTS BugNet_IssuesView AS SELECT " + cols + " FROM BugNet_Issues;"
}

// CreateMirror creates the BugNet-shaped tables and views in the database
// behind q. releaseField names the custom field column exposed by the
// issues view and may be empty.
func CreateMirror(ctx context.Context, q Querier, releaseField string) error {
	for _, step := range mirrorSchema {
		for _, stmt := range splitStatements(step.sql) {
			if err := q.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("creating mirror %s: %w", step.name, err)
			}
		}
	}
	if err := q.Exec(ctx, issuesView(releaseField)); err != nil {
		return fmt.Errorf("creating mirror issues view: %w", err)
	}
	return nil
}

func splitStatements(sql string) []string {
	var out []string
	for _, s := range strings.Split(sql, ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
