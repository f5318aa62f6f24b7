package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
)

func TestCreateUserRequest_Validate(t *testing.T) {
	req := CreateUserRequest{Username: " Siti ", Password: "rahasia", Role: domainauth.RoleDutyTeacher}
	require.NoError(t, req.Validate())
	assert.Equal(t, "siti", req.Username)

	req = CreateUserRequest{Username: "siti", Password: "rahasia", Role: "KEPALA"}
	assert.Error(t, req.Validate())

	req = CreateUserRequest{Username: "siti", Role: domainauth.RoleAdmin}
	assert.Error(t, req.Validate())
}

func TestUpdateUserRequest_Validate(t *testing.T) {
	assert.Error(t, (&UpdateUserRequest{}).Validate())

	pw := "baru123"
	req := UpdateUserRequest{Password: &pw}
	require.NoError(t, req.Validate())
	assert.False(t, req.HasUpdates())
	assert.True(t, req.WantsPasswordChange())

	role := domainauth.Role("OTHER")
	assert.Error(t, (&UpdateUserRequest{Role: &role}).Validate())
}
