// Package timesheets maps timesheet entries onto the backend's custom
// timesheet table.
package timesheets

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-erp-gateway/backend"
	"github.com/jrsteele09/go-erp-gateway/backend/filter"
)

// Table is the backend's custom timesheet table.
const Table = "AX_ADT_TIMESHEETS"

const dateLayout = "2006-01-02"

// Status is the timesheet workflow state. The vocabulary is fixed.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusSubmitted Status = "Submitted"
	StatusApproved  Status = "Approved"
)

var (
	InvalidStatusErr   = errors.New("invalid timesheet status")
	MissingCodeErr     = errors.New("timesheet code is required")
	MissingUserCodeErr = errors.New("timesheet user code is required")
)

func validStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved:
		return true
	}
	return false
}

// Record is the wire shape of one timesheet row, exact backend field casing.
type Record struct {
	Code         string  `json:"Code,omitempty"`
	Name         string  `json:"Name,omitempty"`
	UserCode     string  `json:"U_UserCode,omitempty"`
	ProjectCode  string  `json:"U_ProjectCode,omitempty"`
	ActivityCode string  `json:"U_ActivityCode,omitempty"`
	Date         string  `json:"U_Date,omitempty"`
	Hours        float64 `json:"U_Hours,omitempty"`
	Notes        string  `json:"U_Notes,omitempty"`
	Status       string  `json:"U_Status,omitempty"`
}

// Entry is the application view of a timesheet entry.
type Entry struct {
	Code         string    `json:"code"`
	UserCode     string    `json:"user_code"`
	ProjectCode  string    `json:"project_code,omitempty"`
	ActivityCode string    `json:"activity_code,omitempty"`
	Date         time.Time `json:"date"`
	Hours        float64   `json:"hours"`
	Notes        string    `json:"notes,omitempty"`
	Status       Status    `json:"status"`
}

func toRecord(e Entry) Record {
	r := Record{
		Code:         e.Code,
		Name:         e.Code,
		UserCode:     e.UserCode,
		ProjectCode:  e.ProjectCode,
		ActivityCode: e.ActivityCode,
		Hours:        e.Hours,
		Notes:        e.Notes,
		Status:       string(e.Status),
	}
	if !e.Date.IsZero() {
		r.Date = e.Date.Format(dateLayout)
	}
	return r
}

func fromRecord(r Record) Entry {
	e := Entry{
		Code:         r.Code,
		UserCode:     r.UserCode,
		ProjectCode:  r.ProjectCode,
		ActivityCode: r.ActivityCode,
		Hours:        r.Hours,
		Notes:        r.Notes,
		Status:       Status(r.Status),
	}
	if t, err := time.Parse(dateLayout, r.Date); err == nil {
		e.Date = t
	}
	return e
}

// Service orchestrates timesheet record operations over the session client.
type Service struct {
	client *backend.Client
}

func NewService(client *backend.Client) *Service {
	return &Service{client: client}
}

// ListForUser returns a user's entries within the inclusive date range.
// Zero times leave the corresponding bound off the filter.
func (s *Service) ListForUser(ctx context.Context, userCode string, from, to time.Time, sessionToken string) ([]Entry, error) {
	if userCode == "" {
		return nil, MissingUserCodeErr
	}

	clauses := []string{filter.Eq("U_UserCode", userCode)}
	if !from.IsZero() {
		clauses = append(clauses, filter.DateOnOrAfter("U_Date", from))
	}
	if !to.IsZero() {
		clauses = append(clauses, filter.DateOnOrBefore("U_Date", to))
	}

	records, err := backend.GetRecords[Record](ctx, s.client, Table, filter.And(clauses...), sessionToken)
	if err != nil {
		return nil, errors.Wrap(err, "[Service ListForUser] failed to query timesheets")
	}

	list := make([]Entry, 0, len(records))
	for _, r := range records {
		list = append(list, fromRecord(r))
	}
	return list, nil
}

// Get returns the entry with the given code, or nil when absent.
func (s *Service) Get(ctx context.Context, code, sessionToken string) (*Entry, error) {
	record, err := backend.GetRecord[Record](ctx, s.client, Table, code, sessionToken)
	if err != nil {
		return nil, errors.Wrap(err, "[Service Get] failed to fetch timesheet")
	}
	if record == nil {
		return nil, nil
	}
	entry := fromRecord(*record)
	return &entry, nil
}

// Create inserts a new entry. A missing status defaults to draft.
func (s *Service) Create(ctx context.Context, entry Entry, sessionToken string) (*Entry, error) {
	if entry.Code == "" {
		return nil, MissingCodeErr
	}
	if entry.UserCode == "" {
		return nil, MissingUserCodeErr
	}
	if entry.Status == "" {
		entry.Status = StatusDraft
	}
	if !validStatus(entry.Status) {
		return nil, InvalidStatusErr
	}

	record := toRecord(entry)
	created, err := backend.CreateRecord(ctx, s.client, Table, record, sessionToken)
	if err != nil {
		return nil, errors.Wrap(err, "[Service Create] failed to create timesheet")
	}
	if created.Code == "" {
		created = record
	}
	result := fromRecord(created)
	return &result, nil
}

// Update applies a partial update to the entry with the given code.
func (s *Service) Update(ctx context.Context, code string, entry Entry, sessionToken string) (*Entry, error) {
	if entry.Status != "" && !validStatus(entry.Status) {
		return nil, InvalidStatusErr
	}

	entry.Code = code
	updated, err := backend.UpdateRecord[Record](ctx, s.client, Table, code, toRecord(entry), sessionToken)
	if err != nil {
		return nil, errors.Wrap(err, "[Service Update] failed to update timesheet")
	}
	if updated.Code == "" {
		updated = toRecord(entry)
	}
	result := fromRecord(updated)
	return &result, nil
}

// Delete removes the entry with the given code.
func (s *Service) Delete(ctx context.Context, code, sessionToken string) error {
	if err := s.client.DeleteRecord(ctx, Table, code, sessionToken); err != nil {
		return errors.Wrap(err, "[Service Delete] failed to delete timesheet")
	}
	return nil
}
