package identity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequireAdmin_Anonymous(t *testing.T) {
	require.ErrorIs(t, RequireAdmin(Caller{}), ErrUnauthorized)
}

func TestRequireAdmin_WrongRole(t *testing.T) {
	err := RequireAdmin(Caller{Subject: "user-1", Role: RoleCustomer})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestRequireAdmin_Admin(t *testing.T) {
	require.NoError(t, RequireAdmin(Caller{Subject: "admin-1", Role: RoleAdmin}))
	require.NoError(t, RequireAdmin(System("sweeper")))
}
