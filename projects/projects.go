// Package projects maps project DTOs onto the backend's custom project table.
package projects

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-erp-gateway/backend"
	"github.com/jrsteele09/go-erp-gateway/backend/filter"
)

// Table is the backend's custom project table.
const Table = "AX_ADT_PROJECTS"

const dateLayout = "2006-01-02"

var MissingCodeErr = errors.New("project code is required")

// Record is the wire shape of one project row, exact backend field casing.
type Record struct {
	Code        string `json:"Code,omitempty"`
	Name        string `json:"Name,omitempty"`
	ProjectName string `json:"U_Name,omitempty"`
	Description string `json:"U_Description,omitempty"`
	Department  string `json:"U_Department,omitempty"`
	StartDate   string `json:"U_StartDate,omitempty"`
	EndDate     string `json:"U_EndDate,omitempty"`
	Active      string `json:"U_Active,omitempty"`
}

// Project is the application view of a project.
type Project struct {
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Department  string     `json:"department,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Active      bool       `json:"active"`
}

func toRecord(p Project) Record {
	r := Record{
		Code:        p.Code,
		Name:        p.Code,
		ProjectName: p.Name,
		Description: p.Description,
		Department:  p.Department,
		Active:      "N",
	}
	if p.Active {
		r.Active = "Y"
	}
	if p.StartDate != nil {
		r.StartDate = p.StartDate.Format(dateLayout)
	}
	if p.EndDate != nil {
		r.EndDate = p.EndDate.Format(dateLayout)
	}
	return r
}

func fromRecord(r Record) Project {
	p := Project{
		Code:        r.Code,
		Name:        r.ProjectName,
		Description: r.Description,
		Department:  r.Department,
		Active:      r.Active == "Y",
	}
	if t, err := time.Parse(dateLayout, r.StartDate); err == nil {
		p.StartDate = &t
	}
	if t, err := time.Parse(dateLayout, r.EndDate); err == nil {
		p.EndDate = &t
	}
	return p
}

// Service orchestrates project record operations over the session client.
type Service struct {
	client *backend.Client
}

func NewService(client *backend.Client) *Service {
	return &Service{client: client}
}

// List returns one page of projects plus the total count. An empty
// nameContains skips the filter entirely.
func (s *Service) List(ctx context.Context, sessionToken string, skip, top int, nameContains string) ([]Project, int, error) {
	expr := ""
	if nameContains != "" {
		expr = filter.Contains("U_Name", nameContains)
	}

	records, total, err := backend.GetRecordsPaged[Record](ctx, s.client, Table, skip, top, expr, sessionToken, "Code")
	if err != nil {
		return nil, 0, errors.Wrap(err, "[Service List] failed to query projects")
	}

	list := make([]Project, 0, len(records))
	for _, r := range records {
		list = append(list, fromRecord(r))
	}
	return list, total, nil
}

// Get returns the project with the given code, or nil when absent.
func (s *Service) Get(ctx context.Context, code, sessionToken string) (*Project, error) {
	record, err := backend.GetRecord[Record](ctx, s.client, Table, code, sessionToken)
	if err != nil {
		return nil, errors.Wrap(err, "[Service Get] failed to fetch project")
	}
	if record == nil {
		return nil, nil
	}
	project := fromRecord(*record)
	return &project, nil
}

// Create inserts a new project.
func (s *Service) Create(ctx context.Context, project Project, sessionToken string) (*Project, error) {
	if project.Code == "" {
		return nil, MissingCodeErr
	}

	record := toRecord(project)
	created, err := backend.CreateRecord(ctx, s.client, Table, record, sessionToken)
	if err != nil {
		return nil, errors.Wrap(err, "[Service Create] failed to create project")
	}
	if created.Code == "" {
		created = record
	}
	result := fromRecord(created)
	return &result, nil
}

// Update applies a partial update to the project with the given code.
func (s *Service) Update(ctx context.Context, code string, project Project, sessionToken string) (*Project, error) {
	project.Code = code
	updated, err := backend.UpdateRecord[Record](ctx, s.client, Table, code, toRecord(project), sessionToken)
	if err != nil {
		return nil, errors.Wrap(err, "[Service Update] failed to update project")
	}
	if updated.Code == "" {
		// No-content reply; hand back what was sent.
		updated = toRecord(project)
	}
	result := fromRecord(updated)
	return &result, nil
}

// Delete removes the project with the given code.
func (s *Service) Delete(ctx context.Context, code, sessionToken string) error {
	if err := s.client.DeleteRecord(ctx, Table, code, sessionToken); err != nil {
		return errors.Wrap(err, "[Service Delete] failed to delete project")
	}
	return nil
}
