package provision

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-erp-gateway/backend"
	"github.com/jrsteele09/go-erp-gateway/backend/filter"
	"github.com/jrsteele09/go-erp-gateway/users"
)

// Outcome aggregates one provisioning pass: what was found or created, and
// what failed non-fatally. Both lists are append-only and returned as-is.
type Outcome struct {
	Steps    []string `json:"steps"`
	Warnings []string `json:"warnings"`
}

func (o *Outcome) step(format string, args ...any) {
	o.Steps = append(o.Steps, fmt.Sprintf(format, args...))
}

func (o *Outcome) warn(format string, args ...any) {
	o.Warnings = append(o.Warnings, fmt.Sprintf(format, args...))
}

// Provisioner reconciles the backend toward a fixed schema Target: anything
// declared but absent is created, anything present is skipped, and creation
// failures become warnings instead of aborting the pass.
type Provisioner struct {
	client *backend.Client
	target Target
	logger zerolog.Logger
}

// ProvisionerOption defines a function type to modify a Provisioner instance.
type ProvisionerOption func(*Provisioner)

// WithLogger sets the logger used for per-step progress.
func WithLogger(logger zerolog.Logger) ProvisionerOption {
	return func(p *Provisioner) {
		p.logger = logger
	}
}

func New(client *backend.Client, target Target, options ...ProvisionerOption) *Provisioner {
	p := &Provisioner{
		client: client,
		target: target,
		logger: log.Logger,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Wire shapes for the backend's schema metadata tables.

type tableMD struct {
	TableName        string `json:"TableName"`
	TableDescription string `json:"TableDescription,omitempty"`
	TableType        string `json:"TableType,omitempty"`
}

type fieldMD struct {
	TableName   string `json:"TableName"`
	Name        string `json:"Name"`
	Type        string `json:"Type,omitempty"`
	EditSize    int    `json:"EditSize,omitempty"`
	Description string `json:"Description,omitempty"`
}

type childTableMD struct {
	TableName string `json:"TableName"`
}

type objectMD struct {
	Code        string         `json:"Code"`
	Name        string         `json:"Name,omitempty"`
	ObjectType  string         `json:"ObjectType,omitempty"`
	TableName   string         `json:"TableName,omitempty"`
	ChildTables []childTableMD `json:"UserObjectMD_ChildTables,omitempty"`
}

// Run makes one pass over the backend in fixed order: tables, then fields,
// then objects, then the seed account. Later stages assume earlier ones
// succeeded, but the pass never stops on an individual failure.
func (p *Provisioner) Run(ctx context.Context, sessionToken string) *Outcome {
	outcome := &Outcome{}

	p.ensureTables(ctx, sessionToken, outcome)
	p.ensureFields(ctx, sessionToken, outcome)
	p.ensureObjects(ctx, sessionToken, outcome)
	p.ensureSeedUser(ctx, sessionToken, outcome)

	p.logger.Info().
		Int("steps", len(outcome.Steps)).
		Int("warnings", len(outcome.Warnings)).
		Msg("provisioning pass complete")
	return outcome
}

func (p *Provisioner) ensureTables(ctx context.Context, sessionToken string, outcome *Outcome) {
	for _, table := range p.target.Tables {
		existing, err := backend.GetRecord[tableMD](ctx, p.client, tablesMetaTable, table.Name, sessionToken)
		if err != nil {
			// A failed existence check is treated as absent so a creation
			// attempt follows instead of a silent skip.
			p.logger.Debug().Err(err).Str("table", table.Name).Msg("table existence check failed")
		}
		if existing != nil && existing.TableName != "" {
			outcome.step("table %s already exists", table.Name)
			continue
		}

		_, err = backend.CreateRecord(ctx, p.client, tablesMetaTable, tableMD{
			TableName:        table.Name,
			TableDescription: table.Description,
			TableType:        table.Category,
		}, sessionToken)
		if err != nil {
			outcome.step("table %s creation attempted", table.Name)
			outcome.warn("table %s: creation failed: %s", table.Name, err)
			continue
		}
		outcome.step("table %s created", table.Name)
	}
}

func (p *Provisioner) ensureFields(ctx context.Context, sessionToken string, outcome *Outcome) {
	for _, field := range p.target.Fields {
		existing, err := backend.GetRecords[fieldMD](ctx, p.client, fieldsMetaTable,
			filter.And(filter.Eq("TableName", field.Table), filter.Eq("Name", field.Name)), sessionToken)
		if err != nil {
			p.logger.Debug().Err(err).Str("table", field.Table).Str("field", field.Name).Msg("field existence check failed")
		}
		if len(existing) > 0 {
			outcome.step("field %s.%s already exists", field.Table, field.Name)
			continue
		}

		_, err = backend.CreateRecord(ctx, p.client, fieldsMetaTable, fieldMD{
			TableName:   field.Table,
			Name:        field.Name,
			Type:        field.Type,
			EditSize:    field.Size,
			Description: field.Description,
		}, sessionToken)
		if err != nil {
			outcome.step("field %s.%s creation attempted", field.Table, field.Name)
			outcome.warn("field %s.%s: creation failed: %s", field.Table, field.Name, err)
			continue
		}
		outcome.step("field %s.%s created", field.Table, field.Name)
	}
}

func (p *Provisioner) ensureObjects(ctx context.Context, sessionToken string, outcome *Outcome) {
	objects := append([]ObjectDef{p.target.Primary}, p.target.Objects...)
	for _, object := range objects {
		if object.Code == "" {
			continue
		}
		existing, err := backend.GetRecord[objectMD](ctx, p.client, objectsMetaTable, object.Code, sessionToken)
		if err != nil {
			p.logger.Debug().Err(err).Str("object", object.Code).Msg("object existence check failed")
		}
		if existing != nil && existing.Code != "" {
			outcome.step("object %s already exists", object.Code)
			continue
		}

		md := objectMD{
			Code:       object.Code,
			Name:       object.Name,
			ObjectType: object.Category,
			TableName:  object.Table,
		}
		for _, child := range object.ChildTables {
			md.ChildTables = append(md.ChildTables, childTableMD{TableName: child})
		}

		if _, err := backend.CreateRecord(ctx, p.client, objectsMetaTable, md, sessionToken); err != nil {
			outcome.step("object %s creation attempted", object.Code)
			outcome.warn("object %s: creation failed: %s", object.Code, err)
			continue
		}
		outcome.step("object %s created", object.Code)
	}
}

func (p *Provisioner) ensureSeedUser(ctx context.Context, sessionToken string, outcome *Outcome) {
	seed := p.target.Seed

	existing, err := backend.GetRecords[users.Record](ctx, p.client, users.Table,
		filter.Eq("U_Email", seed.Email), sessionToken)
	if err != nil {
		p.logger.Debug().Err(err).Str("email", seed.Email).Msg("seed user existence check failed")
	}
	if len(existing) > 0 {
		outcome.step("seed user %s already exists", seed.Email)
		return
	}

	hash, err := users.HashPassword(seed.Password)
	if err != nil {
		outcome.step("seed user %s creation attempted", seed.Email)
		outcome.warn("seed user %s: failed to hash password: %s", seed.Email, err)
		return
	}

	record := users.Record{
		Code:         seed.Code,
		Name:         seed.Code,
		Email:        seed.Email,
		FirstName:    seed.FirstName,
		LastName:     seed.LastName,
		PasswordHash: hash,
		Role:         seed.Role,
		Active:       "Y",
	}
	if _, err := backend.CreateRecord(ctx, p.client, users.Table, record, sessionToken); err != nil {
		outcome.step("seed user %s creation attempted", seed.Email)
		outcome.warn("seed user %s: creation failed: %s", seed.Email, err)
		return
	}
	outcome.step("seed user %s created", seed.Email)
}
