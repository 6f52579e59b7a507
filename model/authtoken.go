package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	TokenPurposeEmailVerification = "emailVerification"
	TokenPurposePasswordReset     = "passwordReset"
)

// MaxVerificationAttempts caps how often a single OTP may be guessed.
const MaxVerificationAttempts = 5

// AuthToken is a short-lived OTP challenge. Secret is the OTP generator
// secret, never the code itself; the code is derived on demand and validated
// against the secret within the token's window.
type AuthToken struct {
	gorm.Model
	UserID  uint   `gorm:"index;not null" json:"user_id"`
	Email   string `json:"email"`
	Purpose string `gorm:"not null" json:"purpose"`
	Secret  string `gorm:"not null" json:"-"`

	VerificationAttempts int       `gorm:"not null;default:0" json:"-"`
	ExpiresAt            time.Time `gorm:"not null" json:"expires_at"`
}

func (t *AuthToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

func (t *AuthToken) AttemptsExhausted() bool {
	return t.VerificationAttempts >= MaxVerificationAttempts
}
