package users

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/jrsteele09/go-erp-gateway/backend"
	"github.com/jrsteele09/go-erp-gateway/backend/filter"
)

var (
	UserNotFoundErr    = errors.New("user not found")
	WrongPasswordErr   = errors.New("wrong password")
	UserInactiveErr    = errors.New("user inactive")
	UserExistsErr      = errors.New("user already exists")
	WeakPasswordErr    = errors.New("password too weak")
	MissingEmailErr    = errors.New("email is required")
	MissingUserCodeErr = errors.New("user code is required")
)

// Service maps application users onto the backend's custom user table.
type Service struct {
	client *backend.Client
}

func NewService(client *backend.Client) *Service {
	return &Service{client: client}
}

// GetByEmail looks a user up by the natural key of the table.
func (s *Service) GetByEmail(ctx context.Context, email, sessionToken string) (*User, error) {
	records, err := backend.GetRecords[Record](ctx, s.client, Table, filter.Eq("U_Email", email), sessionToken)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "[Service GetByEmail] failed to query user table")
	}
	if len(records) == 0 {
		return nil, UserNotFoundErr
	}
	user := fromRecord(records[0])
	return &user, nil
}

// Authenticate verifies an application user's credentials against the stored
// password hash. It does not touch the backend's own login handshake - that
// belongs to the session client.
func (s *Service) Authenticate(ctx context.Context, email, password, sessionToken string) (*User, error) {
	records, err := backend.GetRecords[Record](ctx, s.client, Table, filter.Eq("U_Email", email), sessionToken)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "[Service Authenticate] failed to query user table")
	}
	if len(records) == 0 {
		return nil, UserNotFoundErr
	}

	record := records[0]
	if !CheckPasswordHash(password, record.PasswordHash) {
		return nil, WrongPasswordErr
	}

	user := fromRecord(record)
	if !user.Active {
		return nil, UserInactiveErr
	}
	return &user, nil
}

// Create inserts a new application user with a freshly hashed password.
func (s *Service) Create(ctx context.Context, user User, password, sessionToken string) (*User, error) {
	if user.Email == "" {
		return nil, MissingEmailErr
	}
	if user.Code == "" {
		return nil, MissingUserCodeErr
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return nil, pkgerrors.Wrap(WeakPasswordErr, err.Error())
	}

	existing, err := backend.GetRecords[Record](ctx, s.client, Table, filter.Eq("U_Email", user.Email), sessionToken)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "[Service Create] failed to check for existing user")
	}
	if len(existing) > 0 {
		return nil, UserExistsErr
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "[Service Create] failed to hash password")
	}

	record := Record{
		Code:         user.Code,
		Name:         user.Code,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		PasswordHash: hash,
		Role:         string(user.Role),
		Active:       activeFlag(user.Active),
	}

	created, err := backend.CreateRecord(ctx, s.client, Table, record, sessionToken)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "[Service Create] failed to create user record")
	}
	if created.Code == "" {
		created = record
	}
	result := fromRecord(created)
	return &result, nil
}

// List returns every application user.
func (s *Service) List(ctx context.Context, sessionToken string) ([]User, error) {
	records, err := backend.GetRecords[Record](ctx, s.client, Table, "", sessionToken)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "[Service List] failed to query user table")
	}
	list := make([]User, 0, len(records))
	for _, r := range records {
		list = append(list, fromRecord(r))
	}
	return list, nil
}

func activeFlag(active bool) string {
	if active {
		return "Y"
	}
	return "N"
}
