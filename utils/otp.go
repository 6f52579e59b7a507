package utils

import (
	"crypto/rand"
	"encoding/base32"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// OtpWindow is the validity window of an emailed verification code.
const OtpWindow = 10 * time.Minute

// otpOpts stretches the TOTP period to cover the whole emailed-code window,
// with one period of skew so a code issued near a boundary still validates.
var otpOpts = totp.ValidateOpts{
	Period:    uint(OtpWindow / time.Second),
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// NewOtpSecret generates a fresh per-token OTP secret.
func NewOtpSecret() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf), nil
}

// GenerateOtpCode derives the 6-digit code for a secret at time t.
func GenerateOtpCode(secret string, t time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, t, otpOpts)
}

// ValidateOtpCode reports whether code matches secret within the window.
func ValidateOtpCode(code string, secret string, t time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, t, otpOpts)
	return err == nil && ok
}
