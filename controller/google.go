package controller

import (
	"strconv"
	"strings"
	"time"

	"mechat-service/config"
	"mechat-service/database"
	"mechat-service/google"
	"mechat-service/model"
	"mechat-service/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ContactsProvider is swapped for a fake in tests.
var ContactsProvider google.Provider

func contactsProvider() google.Provider {
	if ContactsProvider == nil {
		ContactsProvider = google.NewProvider()
	}
	return ContactsProvider
}

// GoogleAuthRedirect sends the caller to Google's consent screen. The state
// parameter carries a short-lived token binding the callback to this user.
func GoogleAuthRedirect(c *fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid token payload",
			"data":    nil,
		})
	}

	state, err := utils.GeneratePurposeToken(
		strconv.FormatUint(uint64(userID), 10),
		utils.PurposeGoogleState,
		10*time.Minute,
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	return c.Redirect(contactsProvider().AuthCodeURL(state), fiber.StatusFound)
}

// GoogleState hands the frontend a state token for a client-driven consent
// flow, where the browser builds the consent URL itself.
func GoogleState(c *fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid token payload",
			"data":    nil,
		})
	}

	state, err := utils.GeneratePurposeToken(
		strconv.FormatUint(uint64(userID), 10),
		utils.PurposeGoogleState,
		10*time.Minute,
	)
	if err != nil {
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
			"state": state,
		},
	})
}

// GoogleCallback handles the OAuth redirect: exchanges the code, imports the
// contact list, matches contacts against registered users, and hands the
// frontend a one-time suggestion token.
func GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Missing authorization code",
			"data":    nil,
		})
	}

	ownerID, ok := callbackOwner(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Unauthorized",
			"data":    nil,
		})
	}

	contacts, err := contactsProvider().FetchContacts(c.Context(), code)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"status":  "error",
			"message": "Could not fetch Google contacts",
			"data":    nil,
		})
	}

	rows := make([]model.Contact, 0, len(contacts))
	emails := make([]string, 0, len(contacts))
	phones := make([]string, 0, len(contacts))
	for _, contact := range contacts {
		row := model.Contact{
			OwnerID:      ownerID,
			ResourceName: contact.ResourceName,
			Photo:        contact.Photo,
		}
		if len(contact.Names) > 0 {
			row.Name = contact.Names[0]
		}
		if len(contact.Emails) > 0 {
			row.Email = strings.ToLower(contact.Emails[0])
			emails = append(emails, row.Email)
		}
		if len(contact.Phones) > 0 {
			row.Phone = contact.Phones[0]
			phones = append(phones, row.Phone)
		}
		rows = append(rows, row)
	}

	// A re-sync replaces the owner's whole imported set.
	database.Postgres.Unscoped().
		Where(&model.Contact{OwnerID: ownerID}).
		Delete(&model.Contact{})
	if len(rows) > 0 {
		if err := database.Postgres.Create(&rows).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Internal server error",
				"data":    nil,
			})
		}
	}

	matched := []model.User{}
	if len(emails) > 0 || len(phones) > 0 {
		query := database.Postgres.
			Where("verified = ? AND id <> ?", true, ownerID)
		switch {
		case len(emails) > 0 && len(phones) > 0:
			query = query.Where("email IN ? OR phone_number IN ?", emails, phones)
		case len(emails) > 0:
			query = query.Where("email IN ?", emails)
		default:
			query = query.Where("phone_number IN ?", phones)
		}
		if err := query.Find(&matched).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Internal server error",
				"data":    nil,
			})
		}
	}

	suggestion := &model.Suggestion{
		Token:         uuid.NewString(),
		UserID:        ownerID,
		ContactsCount: len(rows),
		Users:         matched,
		ExpiresAt:     time.Now().Add(model.SuggestionTTL),
	}
	if err := database.Postgres.Create(suggestion).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	return c.Redirect(
		config.Config("FRONTEND_ORIGIN")+"/contacts/sync?token="+suggestion.Token,
		fiber.StatusFound,
	)
}

// callbackOwner resolves who initiated the consent flow: the state token if
// present, otherwise the session cookie.
func callbackOwner(c *fiber.Ctx) (uint, bool) {
	if state := c.Query("state"); state != "" {
		meta, err := utils.CheckPurposeToken(state, utils.PurposeGoogleState)
		if err == nil {
			id, parseErr := strconv.ParseUint(meta.Id, 10, 64)
			if parseErr == nil && id > 0 {
				return uint(id), true
			}
		}
	}

	cookie := c.Cookies("token")
	if cookie == "" {
		return 0, false
	}
	meta, err := utils.CheckAndExtractTokenMetadata(cookie, "JWT_ACCESS_KEY")
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseUint(meta.Id, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// GoogleSync returns the match results behind a suggestion token. Only the
// user who ran the sync may read them, and only before the token expires.
func GoogleSync(c *fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid token payload",
			"data":    nil,
		})
	}

	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Missing sync token",
			"data":    nil,
		})
	}

	suggestion := new(model.Suggestion)
	if err := database.Postgres.
		Where(&model.Suggestion{Token: token}).
		Preload("Users").
		First(suggestion).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "Suggestion not found",
			"data":    nil,
		})
	}

	if suggestion.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  "error",
			"message": "Forbidden",
			"data":    nil,
		})
	}

	if suggestion.Expired(time.Now()) {
		return c.Status(fiber.StatusGone).JSON(fiber.Map{
			"status":  "error",
			"message": "Suggestion has expired",
			"data":    nil,
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": nil,
		"data": fiber.Map{
			"contacts_count": suggestion.ContactsCount,
			"users":          suggestion.Users,
		},
	})
}
