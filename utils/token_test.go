package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTokenEnv(t *testing.T) {
	t.Setenv("JWT_ACCESS_KEY", "test-access-key")
	t.Setenv("JWT_REFRESH_KEY", "test-refresh-key")
	t.Setenv("JWT_ACCESS_EXPIRE", "15")
	t.Setenv("JWT_REFRESH_EXPIRE", "10080")
}

func TestGenerateTokensRoundtrip(t *testing.T) {
	setTokenEnv(t)

	tokens, err := GenerateTokens("42", "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, tokens.Access)
	require.NotEmpty(t, tokens.Refresh)

	meta, err := CheckAndExtractTokenMetadata(tokens.Access, "JWT_ACCESS_KEY")
	require.NoError(t, err)
	assert.Equal(t, "42", meta.Id)
	assert.Equal(t, "user@example.com", meta.Email)
	assert.Greater(t, meta.Exp, time.Now().Unix())

	meta, err = CheckAndExtractTokenMetadata(tokens.Refresh, "JWT_REFRESH_KEY")
	require.NoError(t, err)
	assert.Equal(t, "42", meta.Id)
}

func TestCheckTokenWrongKey(t *testing.T) {
	setTokenEnv(t)

	tokens, err := GenerateTokens("42", "user@example.com")
	require.NoError(t, err)

	_, err = CheckAndExtractTokenMetadata(tokens.Access, "JWT_REFRESH_KEY")
	assert.Error(t, err, "expected access token to fail against the refresh key")

	_, err = CheckAndExtractTokenMetadata("not-a-token", "JWT_ACCESS_KEY")
	assert.Error(t, err)
}

func TestPurposeTokenRoundtrip(t *testing.T) {
	setTokenEnv(t)

	token, err := GeneratePurposeToken("42", PurposeReset, 10*time.Minute)
	require.NoError(t, err)

	meta, err := CheckPurposeToken(token, PurposeReset)
	require.NoError(t, err)
	assert.Equal(t, "42", meta.Id)
	assert.Equal(t, PurposeReset, meta.Purpose)
}

func TestPurposeTokenMismatch(t *testing.T) {
	setTokenEnv(t)

	token, err := GeneratePurposeToken("42", PurposeGoogleState, 10*time.Minute)
	require.NoError(t, err)

	_, err = CheckPurposeToken(token, PurposeReset)
	assert.ErrorIs(t, err, ErrWrongPurpose)
}

func TestPurposeTokenExpired(t *testing.T) {
	setTokenEnv(t)

	token, err := GeneratePurposeToken("42", PurposeReset, -time.Minute)
	require.NoError(t, err)

	_, err = CheckPurposeToken(token, PurposeReset)
	assert.Error(t, err, "expected an expired token to be rejected")
}
