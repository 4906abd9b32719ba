package users_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-erp-gateway/users"
)

func TestValidatePasswordStrength(t *testing.T) {
	require.NoError(t, users.ValidatePasswordStrength("Admin123"))
	require.Error(t, users.ValidatePasswordStrength("Ab1"))
	require.Error(t, users.ValidatePasswordStrength("alllower1"))
	require.Error(t, users.ValidatePasswordStrength("ALLUPPER1"))
	require.Error(t, users.ValidatePasswordStrength("NoNumbers"))
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := users.HashPassword("Admin123!")
	require.NoError(t, err)
	require.NotEqual(t, "Admin123!", hash)

	require.True(t, users.CheckPasswordHash("Admin123!", hash))
	require.False(t, users.CheckPasswordHash("Admin124!", hash))
	require.False(t, users.CheckPasswordHash("Admin123!", "not-a-hash"))
}

func TestIsAdmin(t *testing.T) {
	admin := users.User{Role: users.RoleAdmin}
	regular := users.User{Role: users.RoleUser}

	require.True(t, admin.IsAdmin())
	require.False(t, regular.IsAdmin())
}
