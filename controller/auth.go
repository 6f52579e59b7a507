package controller

import (
	"context"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"mechat-service/database"
	"mechat-service/event/listener"
	"mechat-service/model"
	"mechat-service/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type AuthRegisterInput struct {
	Name        string `json:"name" form:"name"`
	Email       string `json:"email" form:"email"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber"`
	Password    string `json:"password" form:"password"`
}

type AuthVerifyAccountInput struct {
	Email string `json:"email" form:"email"`
	Otp   string `json:"otp" form:"otp"`
}

type AuthLoginInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type AuthRenewTokenInput struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type AuthFindAccountInput struct {
	Email string `json:"email" form:"email"`
}

type AuthVerifyOtpInput struct {
	Email  string `json:"email" form:"email"`
	Otp    string `json:"otp" form:"otp"`
	UserId string `json:"userId" form:"userId"`
}

type AuthUpdatePasswordInput struct {
	Password string `json:"password" form:"password"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AuthRegister creates an unverified account and mails a verification OTP.
// Registering over an existing unverified account replaces it.
func AuthRegister(c *fiber.Ctx) error {
	input := new(AuthRegisterInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	input.Email = normalizeEmail(input.Email)
	if input.Name == "" || input.Password == "" || input.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Insufficient details provided",
			"data":    nil,
		})
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid email address",
			"data":    nil,
		})
	}

	existing := new(model.User)
	if err := database.Postgres.Where(&model.User{Email: input.Email}).First(existing).Error; err == nil {
		if existing.Verified {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"status":  "error",
				"message": "User already exists",
				"data":    nil,
			})
		}
		// Unverified leftovers give way to a fresh registration.
		if err := database.Postgres.Unscoped().Delete(existing).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Internal server error",
				"data":    nil,
			})
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), 14)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	user := &model.User{
		Name:       input.Name,
		Email:      input.Email,
		Password:   string(hash),
		Role:       "user",
		ProfilePic: model.DefaultProfilePic,
		StatusLine: model.DefaultStatusLine,
		LastSeen:   time.Now(),
	}
	if input.PhoneNumber != "" {
		user.PhoneNumber = &input.PhoneNumber
	}

	if err := database.Postgres.Create(user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	// Add casbin policy
	database.Casbin().AddGroupingPolicy(fmt.Sprint(user.ID), user.Role)

	code, err := issueOtp(user, model.TokenPurposeEmailVerification)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	publishMail(listener.MailActionVerification, listener.MailJob{
		To:   user.Email,
		Name: user.Name,
		Code: code,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "User registered successfully. OTP sent for verification.",
		"data": fiber.Map{
			"id": user.ID,
		},
	})
}

// issueOtp replaces any outstanding token for (user, purpose) with a fresh
// secret and returns the derived 6-digit code.
func issueOtp(user *model.User, purpose string) (string, error) {
	secret, err := utils.NewOtpSecret()
	if err != nil {
		return "", err
	}

	if err := database.Postgres.Unscoped().
		Where(&model.AuthToken{UserID: user.ID, Purpose: purpose}).
		Delete(&model.AuthToken{}).Error; err != nil {
		return "", err
	}

	token := &model.AuthToken{
		UserID:    user.ID,
		Email:     user.Email,
		Purpose:   purpose,
		Secret:    secret,
		ExpiresAt: time.Now().Add(utils.OtpWindow),
	}
	if err := database.Postgres.Create(token).Error; err != nil {
		return "", err
	}

	return utils.GenerateOtpCode(secret, time.Now())
}

// checkOtp validates a submitted code against the user's outstanding token,
// burning an attempt on failure. The token is consumed on success.
func checkOtp(user *model.User, purpose string, code string) (string, bool) {
	token := new(model.AuthToken)
	if err := database.Postgres.
		Where(&model.AuthToken{UserID: user.ID, Purpose: purpose}).
		First(token).Error; err != nil {
		return "OTP not found", false
	}

	if token.Expired(time.Now()) {
		return "OTP has expired", false
	}
	if token.AttemptsExhausted() {
		return "Maximum verification attempts exceeded. Please try again later.", false
	}

	if !utils.ValidateOtpCode(code, token.Secret, time.Now()) {
		token.VerificationAttempts++
		database.Postgres.Save(token)
		return "Invalid OTP. Please try again.", false
	}

	database.Postgres.Unscoped().Delete(token)
	return "", true
}

// AuthVerifyAccount confirms the emailed OTP and marks the account verified.
func AuthVerifyAccount(c *fiber.Ctx) error {
	input := new(AuthVerifyAccountInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	input.Email = normalizeEmail(input.Email)
	if input.Email == "" || input.Otp == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Insufficient details provided",
			"data":    nil,
		})
	}

	user := new(model.User)
	if err := database.Postgres.Where(&model.User{Email: input.Email}).First(user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "User not found",
			"data":    nil,
		})
	}

	if msg, ok := checkOtp(user, model.TokenPurposeEmailVerification, input.Otp); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": msg,
			"data":    nil,
		})
	}

	user.Verified = true
	if err := database.Postgres.Save(user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	publishMail(listener.MailActionWelcome, listener.MailJob{
		To:   user.Email,
		Name: user.Name,
	})

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Account verified successfully",
		"data":    nil,
	})
}

// AuthLogin checks credentials and issues the session cookie plus token pair.
func AuthLogin(c *fiber.Ctx) error {
	input := new(AuthLoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	input.Email = normalizeEmail(input.Email)
	if input.Email == "" || input.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Insufficient details provided",
			"data":    nil,
		})
	}

	user := new(model.User)
	if err := database.Postgres.Where(&model.User{Email: input.Email}).First(user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "User not found",
			"data":    nil,
		})
	}

	if !user.Verified {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  "error",
			"message": "Please verify your account first",
			"data":    nil,
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		database.Postgres.Model(user).Update("login_attempts", user.LoginAttempts+1)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid credentials",
			"data":    nil,
		})
	}

	idStr := strconv.FormatUint(uint64(user.ID), 10)

	tokens, err := utils.GenerateTokens(idStr, user.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	if err := database.Redis[0].Set(context.Background(), idStr, tokens.Refresh, 0).Err(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	database.Postgres.Model(user).Updates(map[string]interface{}{
		"login_attempts": 0,
		"last_seen":      time.Now(),
	})

	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    tokens.Access,
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
	})

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Login successful! You are now logged in.",
		"data": fiber.Map{
			"access":  tokens.Access,
			"refresh": tokens.Refresh,
			"user": fiber.Map{
				"id":          user.ID,
				"name":        user.Name,
				"email":       user.Email,
				"profile_pic": user.ProfilePic,
			},
		},
	})
}

// AuthLogout clears the session cookie and revokes the stored refresh token.
func AuthLogout(c *fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request",
			"data":    nil,
		})
	}

	database.Redis[0].Del(context.Background(), strconv.FormatUint(uint64(userID), 10))

	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "",
		HTTPOnly: true,
		Expires:  time.Now().Add(-time.Hour),
	})

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Logout successful",
		"data":    nil,
	})
}

// AuthTokenRenew swaps a valid refresh token for a fresh token pair.
func AuthTokenRenew(c *fiber.Ctx) error {
	renew := new(AuthRenewTokenInput)
	if err := c.BodyParser(renew); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	claims, err := utils.CheckAndExtractTokenMetadata(renew.RefreshToken, "JWT_REFRESH_KEY")
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid token",
			"data":    nil,
		})
	}

	userToken, err := database.Redis[0].Get(context.Background(), claims.Id).Result()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	if userToken != renew.RefreshToken {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Unauthorized, your refresh token was already used",
			"data":    nil,
		})
	}

	tokens, err := utils.GenerateTokens(claims.Id, claims.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	// Save refresh token to Redis
	if err := database.Redis[0].Set(context.Background(), claims.Id, tokens.Refresh, 0).Err(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": nil,
		"data": fiber.Map{
			"access":  tokens.Access,
			"refresh": tokens.Refresh,
		},
	})
}

// AuthFindAccount starts a password reset. The response never reveals whether
// the email exists.
func AuthFindAccount(c *fiber.Ctx) error {
	input := new(AuthFindAccountInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	input.Email = normalizeEmail(input.Email)
	if input.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Email is required",
			"data":    nil,
		})
	}

	user := new(model.User)
	if err := database.Postgres.Where(&model.User{Email: input.Email}).First(user).Error; err != nil {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "If this email exists, an OTP has been sent",
			"data":    nil,
		})
	}

	code, err := issueOtp(user, model.TokenPurposePasswordReset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	publishMail(listener.MailActionPasswordReset, listener.MailJob{
		To:   user.Email,
		Code: code,
	})

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "If this email exists, an OTP has been sent",
		"data": fiber.Map{
			"userId": user.ID,
		},
	})
}

// AuthVerifyOtp confirms a reset OTP and issues the short-lived reset token.
func AuthVerifyOtp(c *fiber.Ctx) error {
	input := new(AuthVerifyOtpInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	input.Email = normalizeEmail(input.Email)
	if input.Email == "" || input.Otp == "" || input.UserId == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Insufficient details provided",
			"data":    nil,
		})
	}

	user := new(model.User)
	if err := database.Postgres.
		Where(&model.User{Email: input.Email}).
		First(user, input.UserId).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "User not found",
			"data":    nil,
		})
	}

	if msg, ok := checkOtp(user, model.TokenPurposePasswordReset, input.Otp); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": msg,
			"data":    nil,
		})
	}

	resetToken, err := utils.GeneratePurposeToken(
		strconv.FormatUint(uint64(user.ID), 10),
		utils.PurposeReset,
		10*time.Minute,
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "resetToken",
		Value:    resetToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Expires:  time.Now().Add(10 * time.Minute),
	})

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "OTP verified successfully",
		"data": fiber.Map{
			"resetToken": resetToken,
		},
	})
}

// AuthUpdatePassword sets a new password using the reset token from
// AuthVerifyOtp.
func AuthUpdatePassword(c *fiber.Ctx) error {
	token := c.Cookies("resetToken")
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Missing authorization token",
			"data":    nil,
		})
	}

	claims, err := utils.CheckPurposeToken(token, utils.PurposeReset)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid or expired token",
			"data":    nil,
		})
	}

	input := new(AuthUpdatePasswordInput)
	if err := c.BodyParser(input); err != nil || input.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Password is required",
			"data":    nil,
		})
	}

	user := new(model.User)
	if err := database.Postgres.First(user, claims.Id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "User not found",
			"data":    nil,
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), 14)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}
	user.Password = string(hash)
	if err := database.Postgres.Save(user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "resetToken",
		Value:    "",
		HTTPOnly: true,
		Expires:  time.Now().Add(-time.Hour),
	})

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Password updated successfully",
		"data":    nil,
	})
}

// AuthResendOtp reissues a password-reset OTP.
func AuthResendOtp(c *fiber.Ctx) error {
	input := new(AuthFindAccountInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	input.Email = normalizeEmail(input.Email)
	if input.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Email is required",
			"data":    nil,
		})
	}

	user := new(model.User)
	if err := database.Postgres.Where(&model.User{Email: input.Email}).First(user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "User not found",
			"data":    nil,
		})
	}

	code, err := issueOtp(user, model.TokenPurposePasswordReset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	publishMail(listener.MailActionPasswordReset, listener.MailJob{
		To:   user.Email,
		Code: code,
	})

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "OTP resent successfully",
		"data":    nil,
	})
}
