package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := jwt.Generate(secret, "user-1", jwt.RoleBodeguero, "stock-ledger", 5)
	require.NoError(t, err)

	userID, role, err := jwt.Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, jwt.RoleBodeguero, role)
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := jwt.Generate(secret, "user-1", jwt.RoleAdmin, "stock-ledger", 5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	token, err := jwt.Generate(secret, "user-1", jwt.RoleAdmin, "stock-ledger", -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse(secret, token)
	assert.ErrorIs(t, err, gojwt.ErrTokenExpired)
}

func TestParse_SubjectFallback(t *testing.T) {
	claims := jwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   "user-sub",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		Role: jwt.RoleVendedor,
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	userID, role, err := jwt.Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-sub", userID)
	assert.Equal(t, jwt.RoleVendedor, role)
}

func TestGenerate_EmptySecret(t *testing.T) {
	_, err := jwt.Generate("", "user-1", jwt.RoleAdmin, "", 5)
	assert.Error(t, err)
}
