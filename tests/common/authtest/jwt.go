//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"taskbridge-server/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const TestSecret = "test-jwt-secret"

// SignTestToken mints a token the way the external identity provider would.
func SignTestToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	token, err := jwt.SignToken(TestSecret, userID, time.Hour)
	require.NoError(t, err)
	return token
}

// SignExpiredToken mints a token that expired an hour ago.
func SignExpiredToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	token, err := jwt.SignToken(TestSecret, userID, -time.Hour)
	require.NoError(t, err)
	return token
}
