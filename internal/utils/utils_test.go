// internal/utils/utils_test.go
package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAPIKey(t *testing.T) {
	key, err := GenerateAPIKey()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "sai_"))
	assert.Len(t, key, 4+32)

	other, err := GenerateAPIKey()
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}

func TestAdminTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateAdminToken("test-shop.example.com", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateAdminToken(token)
	require.NoError(t, err)
	assert.Equal(t, "test-shop.example.com", claims.Shop)
}

func TestAdminTokenExpired(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateAdminToken("test-shop.example.com", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateAdminToken(token)
	assert.Error(t, err)
}

func TestAdminTokenWrongSecret(t *testing.T) {
	SetJWTSecret("test-secret")
	token, err := GenerateAdminToken("test-shop.example.com", time.Hour)
	require.NoError(t, err)

	SetJWTSecret("rotated-secret")
	_, err = ValidateAdminToken(token)
	assert.Error(t, err)
}

func TestValidateStructMessages(t *testing.T) {
	type payload struct {
		Name  string `validate:"required"`
		Email string `validate:"omitempty,email"`
	}

	err := ValidateStruct(&payload{})
	fieldErrors := GetValidationErrors(err)
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "name", fieldErrors[0].Field)
	assert.Equal(t, "required", fieldErrors[0].Tag)
	assert.Equal(t, "Name is required", fieldErrors[0].Message)

	err = ValidateStruct(&payload{Name: "ok", Email: "not-an-email"})
	fieldErrors = GetValidationErrors(err)
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "email", fieldErrors[0].Field)

	assert.NoError(t, ValidateStruct(&payload{Name: "ok"}))
	assert.Empty(t, GetValidationErrors(nil))
}
