package utils

import (
	"errors"
	"mechat-service/config"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tokens struct to describe tokens object.
type Tokens struct {
	Access  string
	Refresh string
}

// TokenMetadata struct to describe metadata in JWT.
type TokenMetadata struct {
	Id      string
	Email   string
	Purpose string
	Exp     int64
}

const (
	PurposeReset       = "reset"
	PurposeGoogleState = "googleState"
)

var ErrWrongPurpose = errors.New("token purpose mismatch")

// GenerateTokens func for generate a new Access & Refresh tokens.
func GenerateTokens(id string, email string) (*Tokens, error) {
	// Generate JWT Access token.
	accessToken, err := generateToken(
		id,
		email,
		"JWT_ACCESS_EXPIRE",
		"JWT_ACCESS_KEY",
	)
	if err != nil {
		return nil, err
	}

	// Generate JWT Refresh token.
	refreshToken, err := generateToken(
		id,
		email,
		"JWT_REFRESH_EXPIRE",
		"JWT_REFRESH_KEY",
	)
	if err != nil {
		return nil, err
	}

	return &Tokens{
		Access:  accessToken,
		Refresh: refreshToken,
	}, nil
}

func generateToken(id string, email string, expire string, key string) (string, error) {
	minutesCount, _ := strconv.Atoi(config.Config(expire))

	claims := jwt.MapClaims{}

	claims["id"] = id
	claims["email"] = email
	claims["exp"] = time.Now().Add(time.Minute * time.Duration(minutesCount)).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	t, err := token.SignedString([]byte(config.Config(key)))
	if err != nil {
		return "", err
	}

	return t, nil
}

// GeneratePurposeToken issues a short-lived single-purpose token (password
// reset, Google OAuth state).
func GeneratePurposeToken(id string, purpose string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{}

	claims["id"] = id
	claims["purpose"] = purpose
	claims["exp"] = time.Now().Add(ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString([]byte(config.Config("JWT_ACCESS_KEY")))
}

func CheckAndExtractTokenMetadata(token string, key string) (*TokenMetadata, error) {
	t, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.Config(key)), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok || !t.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	meta := &TokenMetadata{}
	if id, ok := claims["id"].(string); ok {
		meta.Id = id
	}
	if email, ok := claims["email"].(string); ok {
		meta.Email = email
	}
	if purpose, ok := claims["purpose"].(string); ok {
		meta.Purpose = purpose
	}
	if exp, ok := claims["exp"].(float64); ok {
		meta.Exp = int64(exp)
	}
	return meta, nil
}

// CheckPurposeToken validates a single-purpose token and enforces its purpose.
func CheckPurposeToken(token string, purpose string) (*TokenMetadata, error) {
	meta, err := CheckAndExtractTokenMetadata(token, "JWT_ACCESS_KEY")
	if err != nil {
		return nil, err
	}
	if meta.Purpose != purpose {
		return nil, ErrWrongPurpose
	}
	return meta, nil
}
