package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserSerializationHidesCredentialState(t *testing.T) {
	now := time.Now()
	digest := "deadbeef"
	u := &User{
		ID:                   "u1",
		Name:                 "Jonas",
		Email:                "jonas@example.com",
		Password:             "$2a$12$hash",
		Role:                 RoleUser,
		PasswordChangedAt:    &now,
		PasswordResetToken:   &digest,
		PasswordResetExpires: &now,
		Active:               true,
	}

	b, err := json.Marshal(u)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))

	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "Email")
	assert.NotContains(t, out, "Password")
	assert.NotContains(t, out, "PasswordChangedAt")
	assert.NotContains(t, out, "PasswordResetToken")
	assert.NotContains(t, out, "PasswordResetExpires")
	assert.NotContains(t, string(b), "$2a$12$hash")
	assert.NotContains(t, string(b), digest)
}

func TestChangedPasswordAfter(t *testing.T) {
	issued := time.Now()

	u := &User{}
	assert.False(t, u.ChangedPasswordAfter(issued))

	before := issued.Add(-2 * time.Second)
	u.PasswordChangedAt = &before
	assert.False(t, u.ChangedPasswordAfter(issued))

	after := issued.Add(2 * time.Second)
	u.PasswordChangedAt = &after
	assert.True(t, u.ChangedPasswordAfter(issued))

	// same second counts as changed; iat claims carry seconds only
	same := issued
	u.PasswordChangedAt = &same
	assert.True(t, u.ChangedPasswordAfter(issued))
}
