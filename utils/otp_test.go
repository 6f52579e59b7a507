package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOtpCodeValidWithinWindow(t *testing.T) {
	secret, err := NewOtpSecret()
	require.NoError(t, err)

	issued := time.Now()
	code, err := GenerateOtpCode(secret, issued)
	require.NoError(t, err)
	assert.Len(t, code, 6)

	assert.True(t, ValidateOtpCode(code, secret, issued))
	assert.True(t, ValidateOtpCode(code, secret, issued.Add(5*time.Minute)),
		"expected code to stay valid inside the window")
}

func TestOtpCodeExpires(t *testing.T) {
	secret, err := NewOtpSecret()
	require.NoError(t, err)

	issued := time.Now()
	code, err := GenerateOtpCode(secret, issued)
	require.NoError(t, err)

	// One period of skew means the code can survive up to two full periods
	// past its issue period; well beyond that it must be dead.
	assert.False(t, ValidateOtpCode(code, secret, issued.Add(3*OtpWindow)),
		"expected code to be rejected long after the window")
}

func TestOtpCodeWrongSecret(t *testing.T) {
	secret, err := NewOtpSecret()
	require.NoError(t, err)
	other, err := NewOtpSecret()
	require.NoError(t, err)

	now := time.Now()
	code, err := GenerateOtpCode(secret, now)
	require.NoError(t, err)

	assert.False(t, ValidateOtpCode(code, other, now))
	assert.False(t, ValidateOtpCode("000000", secret, now))
	assert.False(t, ValidateOtpCode("", secret, now))
}

func TestNewOtpSecretUnique(t *testing.T) {
	a, err := NewOtpSecret()
	require.NoError(t, err)
	b, err := NewOtpSecret()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
