// internal/models/admin_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminUserPasswordRoundtrip(t *testing.T) {
	admin := &AdminUser{Username: "admin"}

	require.NoError(t, admin.SetPassword("Correct#Horse1"))
	assert.NotEqual(t, "Correct#Horse1", admin.PasswordHash)

	assert.NoError(t, admin.CheckPassword("Correct#Horse1"))
	assert.Error(t, admin.CheckPassword("wrong password"))
}
