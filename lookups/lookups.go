// Package lookups exposes the read-only catalog tables.
package lookups

import (
	"context"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-erp-gateway/backend"
)

const (
	DepartmentsTable = "AX_ADT_DEPARTMENTS"
	ActivitiesTable  = "AX_ADT_ACTIVITIES"
)

type catalogRecord struct {
	Code string `json:"Code,omitempty"`
	Name string `json:"U_Name,omitempty"`
}

// Item is one catalog entry.
type Item struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Service reads the lookup catalogs.
type Service struct {
	client *backend.Client
}

func NewService(client *backend.Client) *Service {
	return &Service{client: client}
}

// Departments returns the department catalog.
func (s *Service) Departments(ctx context.Context, sessionToken string) ([]Item, error) {
	return s.catalog(ctx, DepartmentsTable, sessionToken)
}

// ActivityTypes returns the activity-type catalog.
func (s *Service) ActivityTypes(ctx context.Context, sessionToken string) ([]Item, error) {
	return s.catalog(ctx, ActivitiesTable, sessionToken)
}

func (s *Service) catalog(ctx context.Context, table, sessionToken string) ([]Item, error) {
	records, err := backend.GetRecords[catalogRecord](ctx, s.client, table, "", sessionToken)
	if err != nil {
		return nil, errors.Wrapf(err, "[Service catalog] failed to query %s", table)
	}
	items := make([]Item, 0, len(records))
	for _, r := range records {
		items = append(items, Item{Code: r.Code, Name: r.Name})
	}
	return items, nil
}
