package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/zaloga/internal/model"
)

func testSession(ttl time.Duration) *model.Session {
	now := time.Now()
	return &model.Session{ID: "sess-1", UserID: 1, CreatedAt: now, ExpiresAt: now.Add(ttl)}
}

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret-key"

	token, err := GenerateToken(secret, testSession(time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.ID)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(1), userID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret1", testSession(time.Hour))
	require.NoError(t, err)

	_, err = ValidateToken("secret2", token)
	assert.Error(t, err)
}

func TestValidateTokenInvalid(t *testing.T) {
	_, err := ValidateToken("secret", "not-a-token")
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateToken("secret", testSession(-time.Minute))
	require.NoError(t, err)

	_, err = ValidateToken("secret", token)
	assert.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	secret := "test"
	sess := testSession(DefaultSessionTTL)
	token, err := GenerateToken(secret, sess)
	require.NoError(t, err)
	claims, err := ValidateToken(secret, token)
	require.NoError(t, err)

	// NumericDate truncates to the second.
	diff := sess.ExpiresAt.Sub(claims.ExpiresAt.Time)
	assert.GreaterOrEqual(t, diff, time.Duration(0))
	assert.LessOrEqual(t, diff, time.Second)
}
