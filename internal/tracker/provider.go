package tracker

import (
	"context"

	"github.com/nhle/bugnet-provider/internal/model"
)

// Provider is the contract a release host uses to talk to an issue tracker.
type Provider interface {
	// ListCategories returns the enabled projects, ordered by name.
	ListCategories(ctx context.Context) ([]model.Category, error)

	// ListIssues returns the enabled issues, scoped to the first entry of
	// filter and, when release tracking is configured and releaseNumber
	// is non-nil, to that release.
	ListIssues(
		ctx context.Context,
		releaseNumber *string,
		filter model.CategoryFilter,
	) ([]model.Issue, error)

	// IsIssueClosed reports whether issue is in the closed status.
	IsIssueClosed(issue model.Issue) bool

	// IssueURL returns the tracker's detail page for issue.
	IssueURL(issue model.Issue) string

	// CreateRelease ensures a milestone named releaseNumber exists in the
	// filtered project and moves a newly created one to the top.
	CreateRelease(
		ctx context.Context,
		releaseNumber string,
		filter model.CategoryFilter,
	) error

	// CloseRelease marks the milestone named releaseNumber as released.
	// A missing milestone is not an error.
	CloseRelease(
		ctx context.Context,
		releaseNumber string,
		filter model.CategoryFilter,
	) error

	// ValidateConnection performs a trial query against the tracker.
	ValidateConnection(ctx context.Context) error
}

var _ Provider = (*Client)(nil)
