package tracker

import (
	"fmt"
	"strconv"
	"time"

	"github.com/nhle/bugnet-provider/internal/model"
	"github.com/nhle/bugnet-provider/internal/store"
)

// rowDecoder reads named columns out of a result row, remembering the
// first missing required column.
type rowDecoder struct {
	record string
	row    store.Row
	err    error
}

func newRowDecoder(record string, row store.Row) *rowDecoder {
	return &rowDecoder{record: record, row: row}
}

// required returns the column as text, recording a MappingError if absent.
func (d *rowDecoder) required(column string) string {
	v, ok := d.row[column]
	if !ok {
		if d.err == nil {
			d.err = &MappingError{Record: d.record, Column: column}
		}
		return ""
	}
	return text(v)
}

// optional returns the column as text, or "" if absent or NULL.
func (d *rowDecoder) optional(column string) string {
	return text(d.row[column])
}

// nullable returns nil when the column is absent or NULL.
func (d *rowDecoder) nullable(column string) *string {
	v, ok := d.row[column]
	if !ok || v == nil {
		return nil
	}
	s := text(v)
	return &s
}

// text renders a driver value the way it would print in the tracker UI.
func text(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(releaseDateLayout)
	default:
		return fmt.Sprint(t)
	}
}

func mapIssue(row store.Row) (model.Issue, error) {
	d := newRowDecoder("issue", row)
	issue := model.Issue{
		ID:            d.required("IssueId"),
		Status:        d.required("StatusName"),
		Title:         d.required("IssueTitle"),
		Description:   d.required("IssueDescription"),
		ReleaseNumber: d.optional("ReleaseNumber"),
	}
	if d.err != nil {
		return model.Issue{}, d.err
	}
	return issue, nil
}

func mapCategory(row store.Row) (model.Category, error) {
	d := newRowDecoder("project", row)
	c := model.NewProjectCategory(d.required("ProjectId"), d.required("ProjectName"))
	if d.err != nil {
		return model.Category{}, d.err
	}
	return c, nil
}

func mapMilestone(projectID string, row store.Row) (model.Milestone, error) {
	d := newRowDecoder("milestone", row)
	m := model.Milestone{
		ID:        d.required("MilestoneId"),
		ProjectID: projectID,
		Name:      d.required("MilestoneName"),
		Notes:     d.optional("MilestoneNotes"),
		DueDate:   d.nullable("MilestoneDueDate"),
		SortOrder: d.optional("SortOrder"),
	}
	if d.err != nil {
		return model.Milestone{}, d.err
	}
	return m, nil
}

func mapCustomField(row store.Row) (model.CustomField, error) {
	d := newRowDecoder("custom field", row)
	f := model.CustomField{
		ID:   d.required("CustomFieldId"),
		Name: d.required("CustomFieldName"),
	}
	if d.err != nil {
		return model.CustomField{}, d.err
	}
	return f, nil
}

func mapCustomFieldSelection(row store.Row) (model.CustomFieldSelection, error) {
	d := newRowDecoder("custom field selection", row)
	s := model.CustomFieldSelection{
		ID:        d.required("CustomFieldSelectionId"),
		FieldID:   d.required("CustomFieldId"),
		Name:      d.required("CustomFieldSelectionName"),
		Value:     d.required("CustomFieldSelectionValue"),
		SortOrder: d.optional("CustomFieldSelectionSortOrder"),
	}
	if d.err != nil {
		return model.CustomFieldSelection{}, d.err
	}
	return s, nil
}
