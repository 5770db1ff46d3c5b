package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nhle/bugnet-provider/internal/model"
	"github.com/nhle/bugnet-provider/internal/store"
)

// issueDetailPath is appended to the tracker URL to reach an issue.
const issueDetailPath = "Issues/IssueDetail.aspx?id="

// validationRelease is the release number used by ValidateConnection.
const validationRelease = "0"

// Client implements Provider against a BugNet SQL database.
type Client struct {
	cfg    model.ProviderConfig
	db     store.Querier
	logger *slog.Logger
	now    func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the logger used for statement and outcome logging.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithClock overrides the clock used for release dates.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a BugNet client. cfg is copied and never modified.
func NewClient(cfg model.ProviderConfig, db store.Querier, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &PreconditionError{Field: "connection string", Message: err.Error()}
	}
	if cfg.ClosedStatusName == "" {
		cfg.ClosedStatusName = model.DefaultClosedStatusName
	}

	c := &Client{
		cfg:    cfg,
		db:     db,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Describe returns a one-line description of the provider.
func (c *Client) Describe() string {
	return "Provides access to a BugNet project tracker."
}

// Config returns a copy of the client's configuration.
func (c *Client) Config() model.ProviderConfig {
	return c.cfg
}

func (c *Client) query(ctx context.Context, op, sql string) ([]store.Row, error) {
	c.logger.DebugContext(ctx, "bugnet query", slog.String("op", op), slog.String("sql", sql))
	rows, err := c.db.Query(ctx, sql)
	if err != nil {
		return nil, &ConnectivityError{Op: op, Err: err}
	}
	return rows, nil
}

func (c *Client) exec(ctx context.Context, op, sql string) error {
	c.logger.DebugContext(ctx, "bugnet exec", slog.String("op", op), slog.String("sql", sql))
	if err := c.db.Exec(ctx, sql); err != nil {
		return &ConnectivityError{Op: op, Err: err}
	}
	return nil
}

// ListCategories returns every enabled BugNet project, ordered by name.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := c.query(ctx, "list categories", categoriesSQL())
	if err != nil {
		return nil, err
	}

	categories := make([]model.Category, 0, len(rows))
	for _, row := range rows {
		cat, err := mapCategory(row)
		if err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, nil
}

// ListIssues returns enabled issues. Without a configured release field
// every issue of the project is returned regardless of releaseNumber.
func (c *Client) ListIssues(
	ctx context.Context,
	releaseNumber *string,
	filter model.CategoryFilter,
) ([]model.Issue, error) {
	projectID, scoped := filter.ProjectID()
	sql := issuesSQL(c.cfg.ReleaseNumberCustomField, releaseNumber, projectID, scoped)

	rows, err := c.query(ctx, "list issues", sql)
	if err != nil {
		return nil, err
	}

	issues := make([]model.Issue, 0, len(rows))
	for _, row := range rows {
		issue, err := mapIssue(row)
		if err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// IsIssueClosed compares the issue status to the closed status name,
// ignoring case.
func (c *Client) IsIssueClosed(issue model.Issue) bool {
	return strings.EqualFold(issue.Status, c.cfg.ClosedStatusName)
}

// IssueURL returns the issue detail page under the tracker URL.
func (c *Client) IssueURL(issue model.Issue) string {
	base := c.cfg.TrackerURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + issueDetailPath + issue.ID
}

// releaseTarget checks the arguments shared by CreateRelease and
// CloseRelease and returns the project id to operate on.
func releaseTarget(releaseNumber string, filter model.CategoryFilter) (string, error) {
	if releaseNumber == "" {
		return "", &PreconditionError{
			Field:   "release number",
			Message: "must not be empty",
		}
	}
	projectID, ok := filter.ProjectID()
	if !ok || strings.TrimSpace(projectID) == "" {
		return "", &PreconditionError{
			Field:   "category filter",
			Message: "a project must be specified to manage releases",
		}
	}
	return projectID, nil
}

// ListMilestones returns all milestones of a project, completed or not.
func (c *Client) ListMilestones(ctx context.Context, projectID string) ([]model.Milestone, error) {
	rows, err := c.query(ctx, "list milestones", milestonesSQL(projectID))
	if err != nil {
		return nil, err
	}

	milestones := make([]model.Milestone, 0, len(rows))
	for _, row := range rows {
		m, err := mapMilestone(projectID, row)
		if err != nil {
			return nil, err
		}
		milestones = append(milestones, m)
	}
	return milestones, nil
}

// findMilestone looks up a milestone by exact name.
func (c *Client) findMilestone(
	ctx context.Context,
	projectID string,
	name string,
) (*model.Milestone, error) {
	milestones, err := c.ListMilestones(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for i := range milestones {
		if milestones[i].Name == name {
			return &milestones[i], nil
		}
	}
	return nil, nil
}

// CreateRelease creates a milestone named releaseNumber in the filtered
// project unless one already exists. A new milestone is then moved to the
// top of the list, since the create procedure takes no sort position. The
// two steps are not transactional.
func (c *Client) CreateRelease(
	ctx context.Context,
	releaseNumber string,
	filter model.CategoryFilter,
) error {
	projectID, err := releaseTarget(releaseNumber, filter)
	if err != nil {
		return err
	}

	existing, err := c.findMilestone(ctx, projectID, releaseNumber)
	if err != nil {
		return fmt.Errorf("checking release %s: %w", releaseNumber, err)
	}
	if existing != nil {
		c.logger.InfoContext(ctx, "release already exists",
			slog.String("project", projectID), slog.String("release", releaseNumber))
		return nil
	}

	if err := c.exec(ctx, "create milestone", createMilestoneSQL(projectID, releaseNumber, "")); err != nil {
		return fmt.Errorf("creating release %s: %w", releaseNumber, err)
	}

	created, err := c.findMilestone(ctx, projectID, releaseNumber)
	if err != nil {
		return fmt.Errorf("confirming release %s: %w", releaseNumber, err)
	}
	if created == nil {
		c.logger.WarnContext(ctx, "created release not found",
			slog.String("project", projectID), slog.String("release", releaseNumber))
		return nil
	}

	update := milestoneUpdate{
		ProjectID:     projectID,
		MilestoneID:   created.ID,
		ReleaseNumber: releaseNumber,
		SortOrder:     "1",
		DueDate:       nullToken,
		ReleaseDate:   nullToken,
		Notes:         created.Notes,
		Closed:        false,
	}
	if err := c.exec(ctx, "reorder milestone", updateMilestoneSQL(update)); err != nil {
		return fmt.Errorf("reordering release %s: %w", releaseNumber, err)
	}

	c.logger.InfoContext(ctx, "release created",
		slog.String("project", projectID),
		slog.String("release", releaseNumber),
		slog.String("milestone", created.ID))
	return nil
}

// CloseRelease stamps the milestone named releaseNumber with the current
// time and marks it closed, keeping its due date, notes and sort order.
// Closing an unknown release does nothing.
func (c *Client) CloseRelease(
	ctx context.Context,
	releaseNumber string,
	filter model.CategoryFilter,
) error {
	projectID, err := releaseTarget(releaseNumber, filter)
	if err != nil {
		return err
	}

	m, err := c.findMilestone(ctx, projectID, releaseNumber)
	if err != nil {
		return fmt.Errorf("looking up release %s: %w", releaseNumber, err)
	}
	if m == nil {
		c.logger.InfoContext(ctx, "release not found, nothing to close",
			slog.String("project", projectID), slog.String("release", releaseNumber))
		return nil
	}

	dueDate := nullToken
	if m.DueDate != nil {
		dueDate = *m.DueDate
	}

	update := milestoneUpdate{
		ProjectID:     projectID,
		MilestoneID:   m.ID,
		ReleaseNumber: releaseNumber,
		SortOrder:     m.SortOrder,
		DueDate:       dueDate,
		ReleaseDate:   c.now().Format(releaseDateLayout),
		Notes:         m.Notes,
		Closed:        true,
	}
	if err := c.exec(ctx, "close milestone", updateMilestoneSQL(update)); err != nil {
		return fmt.Errorf("closing release %s: %w", releaseNumber, err)
	}

	c.logger.InfoContext(ctx, "release closed",
		slog.String("project", projectID),
		slog.String("release", releaseNumber),
		slog.String("milestone", m.ID))
	return nil
}

// ValidateConnection lists issues for a placeholder release and reports any
// failure as a ConnectivityError.
func (c *Client) ValidateConnection(ctx context.Context) error {
	release := validationRelease
	if _, err := c.ListIssues(ctx, &release, nil); err != nil {
		if IsConnectivityError(err) {
			return err
		}
		return &ConnectivityError{Op: "validate connection", Err: err}
	}
	return nil
}

// ListCustomFields returns the custom fields defined on a project.
func (c *Client) ListCustomFields(ctx context.Context, projectID string) ([]model.CustomField, error) {
	rows, err := c.query(ctx, "list custom fields", customFieldsSQL(projectID))
	if err != nil {
		return nil, err
	}

	fields := make([]model.CustomField, 0, len(rows))
	for _, row := range rows {
		f, err := mapCustomField(row)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// ListCustomFieldSelections returns the drop-down values of a custom field.
func (c *Client) ListCustomFieldSelections(
	ctx context.Context,
	fieldID string,
) ([]model.CustomFieldSelection, error) {
	rows, err := c.query(ctx, "list custom field selections", customFieldSelectionsSQL(fieldID))
	if err != nil {
		return nil, err
	}

	selections := make([]model.CustomFieldSelection, 0, len(rows))
	for _, row := range rows {
		s, err := mapCustomFieldSelection(row)
		if err != nil {
			return nil, err
		}
		selections = append(selections, s)
	}
	return selections, nil
}

// CreateCustomFieldSelection adds a drop-down value whose name and value
// are both value.
func (c *Client) CreateCustomFieldSelection(ctx context.Context, fieldID, value string) error {
	if value == "" {
		return &PreconditionError{Field: "selection value", Message: "must not be empty"}
	}
	return c.exec(ctx, "create custom field selection", createCustomFieldSelectionSQL(fieldID, value))
}

// UpdateCustomFieldSelection renames a drop-down value and moves it to the
// top of the list.
func (c *Client) UpdateCustomFieldSelection(
	ctx context.Context,
	selectionID string,
	fieldID string,
	value string,
) error {
	if value == "" {
		return &PreconditionError{Field: "selection value", Message: "must not be empty"}
	}
	return c.exec(ctx, "update custom field selection",
		updateCustomFieldSelectionSQL(selectionID, fieldID, value))
}
