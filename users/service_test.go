package users_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-erp-gateway/backend"
	"github.com/jrsteele09/go-erp-gateway/users"
)

// userTable is an in-memory stand-in for the backend's custom user table,
// keyed by email as queried through $filter.
type userTable struct {
	byEmail map[string]users.Record
}

func filterEmail(query url.Values) string {
	parts := strings.Split(query.Get("$filter"), "'")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func (u *userTable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/"+users.Table {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		records := []users.Record{}
		if email := filterEmail(r.URL.Query()); email != "" {
			if record, ok := u.byEmail[email]; ok {
				records = append(records, record)
			}
		} else {
			for _, record := range u.byEmail {
				records = append(records, record)
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"value": records})

	case http.MethodPost:
		var record users.Record
		_ = json.NewDecoder(r.Body).Decode(&record)
		u.byEmail[record.Email] = record
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(record)

	default:
		http.NotFound(w, r)
	}
}

func newUserService(t *testing.T, seed ...users.Record) (*users.Service, *userTable) {
	t.Helper()
	table := &userTable{byEmail: map[string]users.Record{}}
	for _, record := range seed {
		table.byEmail[record.Email] = record
	}
	srv := httptest.NewServer(table)
	t.Cleanup(srv.Close)
	return users.NewService(backend.New(srv.URL)), table
}

func seedRecord(t *testing.T, email, password, active string) users.Record {
	t.Helper()
	hash, err := users.HashPassword(password)
	require.NoError(t, err)
	return users.Record{
		Code:         "U1",
		Name:         "U1",
		Email:        email,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		PasswordHash: hash,
		Role:         string(users.RoleUser),
		Active:       active,
	}
}

func TestAuthenticate(t *testing.T) {
	service, _ := newUserService(t, seedRecord(t, "ada@example.com", "Secret123", "Y"))

	user, err := service.Authenticate(context.Background(), "ada@example.com", "Secret123", "tok")
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", user.Email)
	require.Equal(t, users.RoleUser, user.Role)
	require.True(t, user.Active)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	service, _ := newUserService(t, seedRecord(t, "ada@example.com", "Secret123", "Y"))

	_, err := service.Authenticate(context.Background(), "ada@example.com", "Secret124", "tok")
	require.ErrorIs(t, err, users.WrongPasswordErr)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	service, _ := newUserService(t)

	_, err := service.Authenticate(context.Background(), "nobody@example.com", "Secret123", "tok")
	require.ErrorIs(t, err, users.UserNotFoundErr)
}

func TestAuthenticateInactiveUser(t *testing.T) {
	service, _ := newUserService(t, seedRecord(t, "ada@example.com", "Secret123", "N"))

	_, err := service.Authenticate(context.Background(), "ada@example.com", "Secret123", "tok")
	require.ErrorIs(t, err, users.UserInactiveErr)
}

func TestGetByEmail(t *testing.T) {
	service, _ := newUserService(t, seedRecord(t, "ada@example.com", "Secret123", "Y"))

	user, err := service.GetByEmail(context.Background(), "ada@example.com", "tok")
	require.NoError(t, err)
	require.Equal(t, "U1", user.Code)

	_, err = service.GetByEmail(context.Background(), "nobody@example.com", "tok")
	require.ErrorIs(t, err, users.UserNotFoundErr)
}

func TestCreateStoresHashedPassword(t *testing.T) {
	service, table := newUserService(t)

	created, err := service.Create(context.Background(), users.User{
		Code:   "U2",
		Email:  "grace@example.com",
		Role:   users.RoleAdmin,
		Active: true,
	}, "Hopper123", "tok")
	require.NoError(t, err)
	require.Equal(t, "grace@example.com", created.Email)

	stored := table.byEmail["grace@example.com"]
	require.NotEqual(t, "Hopper123", stored.PasswordHash)
	require.True(t, users.CheckPasswordHash("Hopper123", stored.PasswordHash))
	require.Equal(t, "Y", stored.Active)
}

func TestCreateValidation(t *testing.T) {
	service, _ := newUserService(t, seedRecord(t, "ada@example.com", "Secret123", "Y"))

	_, err := service.Create(context.Background(), users.User{Code: "U3"}, "Hopper123", "tok")
	require.ErrorIs(t, err, users.MissingEmailErr)

	_, err = service.Create(context.Background(), users.User{Email: "x@example.com"}, "Hopper123", "tok")
	require.ErrorIs(t, err, users.MissingUserCodeErr)

	_, err = service.Create(context.Background(), users.User{Code: "U3", Email: "x@example.com"}, "weak", "tok")
	require.ErrorIs(t, err, users.WeakPasswordErr)

	_, err = service.Create(context.Background(), users.User{Code: "U3", Email: "ada@example.com"}, "Hopper123", "tok")
	require.ErrorIs(t, err, users.UserExistsErr)
}

func TestList(t *testing.T) {
	service, _ := newUserService(t,
		seedRecord(t, "ada@example.com", "Secret123", "Y"),
		users.Record{Code: "U9", Email: "bob@example.com", Role: string(users.RoleAdmin), Active: "N"},
	)

	list, err := service.List(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, list, 2)

	emails := []string{list[0].Email, list[1].Email}
	require.Contains(t, emails, "ada@example.com")
	require.Contains(t, emails, "bob@example.com")
}
