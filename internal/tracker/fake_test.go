package tracker

import (
	"context"
	"errors"
	"strings"

	"github.com/nhle/bugnet-provider/internal/store"
)

// fakeDB is an in-memory Querier that records every statement and serves
// milestone lookups from a mutable list.
type fakeDB struct {
	queries    []string
	execs      []string
	milestones []store.Row
	rows       []store.Row
	queryErr   error
	execErr    error

	// onCreate builds the row a create-milestone statement adds.
	onCreate func(sql string) store.Row
}

func (f *fakeDB) Query(_ context.Context, query string) ([]store.Row, error) {
	f.queries = append(f.queries, query)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if strings.Contains(query, procMilestonesByProject) {
		return append([]store.Row(nil), f.milestones...), nil
	}
	return f.rows, nil
}

func (f *fakeDB) Exec(_ context.Context, query string) error {
	f.execs = append(f.execs, query)
	if f.execErr != nil {
		return f.execErr
	}
	if strings.Contains(query, procCreateMilestone) && f.onCreate != nil {
		f.milestones = append(f.milestones, f.onCreate(query))
	}
	return nil
}

func (f *fakeDB) statements() int {
	return len(f.queries) + len(f.execs)
}

var errDriver = errors.New("dial tcp 10.0.0.5:1433: connection refused")

func milestoneRow(id int64, name, notes string, due interface{}, sort int64) store.Row {
	return store.Row{
		"MilestoneId":      id,
		"MilestoneName":    name,
		"MilestoneNotes":   notes,
		"MilestoneDueDate": due,
		"SortOrder":        sort,
	}
}
