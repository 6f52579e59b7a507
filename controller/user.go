package controller

import (
	"io"
	"strings"

	"mechat-service/database"
	"mechat-service/model"
	"mechat-service/upload"

	"github.com/gofiber/fiber/v2"
)

type UserUpdateProfileInput struct {
	Name        string `json:"name" form:"name"`
	Email       string `json:"email" form:"email"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber"`
	Bio         string `json:"bio" form:"bio"`
	ProfilePic  string `json:"profilePic" form:"profilePic"`
}

// UserProfile returns the authenticated user's own account.
func UserProfile(c *fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid token payload",
			"data":    nil,
		})
	}

	user := new(model.User)
	if err := database.Postgres.First(user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "User not found",
			"data":    nil,
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": nil,
		"data":    user,
	})
}

// friendIDs returns the ids of everyone the user is connected to.
func friendIDs(userID uint) ([]uint, error) {
	rows := []model.Friend{}
	if err := database.Postgres.Where(&model.Friend{UserID: userID}).Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.FriendID)
	}
	return ids, nil
}

// UserAll lists verified users the caller could invite: everyone except
// themselves and their current friends, paginated.
func UserAll(c *fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid token payload",
			"data":    nil,
		})
	}

	excluded, err := friendIDs(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}
	excluded = append(excluded, userID)

	page, limit := pageParams(c, 20, 100)

	var total int64
	if err := database.Postgres.Model(&model.User{}).
		Where("verified = ? AND id NOT IN ?", true, excluded).
		Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	users := []model.User{}
	if err := database.Postgres.
		Where("verified = ? AND id NOT IN ?", true, excluded).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
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
			"results": users,
			"total":   total,
			"page":    page,
			"limit":   limit,
		},
	})
}

// UserSearch finds verified users by name, email, or phone. Prefix matches
// rank before contains matches.
func UserSearch(c *fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid token payload",
			"data":    nil,
		})
	}

	q := strings.TrimSpace(c.Query("q"))
	page, limit := pageParams(c, 20, 100)

	if q == "" {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": nil,
			"data": fiber.Map{
				"results": []model.User{},
				"total":   0,
			},
		})
	}

	prefix := q + "%"
	contains := "%" + q + "%"

	results := []model.User{}
	if err := database.Postgres.
		Where("verified = ? AND id <> ?", true, userID).
		Where("name ILIKE ? OR email ILIKE ? OR phone_number ILIKE ?", prefix, prefix, prefix).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&results).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	if len(results) < limit {
		seen := make([]uint, 0, len(results)+1)
		for _, u := range results {
			seen = append(seen, u.ID)
		}
		seen = append(seen, userID)

		extra := []model.User{}
		if err := database.Postgres.
			Where("verified = ? AND id NOT IN ?", true, seen).
			Where("name ILIKE ? OR email ILIKE ? OR phone_number ILIKE ?", contains, contains, contains).
			Limit(limit - len(results)).
			Find(&extra).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Internal server error",
				"data":    nil,
			})
		}
		results = append(results, extra...)
	}

	var total int64
	if err := database.Postgres.Model(&model.User{}).
		Where("verified = ? AND id <> ?", true, userID).
		Where("name ILIKE ? OR email ILIKE ? OR phone_number ILIKE ?", contains, contains, contains).
		Count(&total).Error; err != nil {
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
			"results": results,
			"total":   total,
			"page":    page,
			"limit":   limit,
			"query":   q,
		},
	})
}

// UserUpdateProfile updates basic fields and the avatar. The avatar arrives
// as a multipart file, a data URL, or an already-hosted URL.
func UserUpdateProfile(c *fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid token payload",
			"data":    nil,
		})
	}

	input := new(UserUpdateProfileInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	user := new(model.User)
	if err := database.Postgres.First(user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "User not found",
			"data":    nil,
		})
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Email != "" {
		user.Email = normalizeEmail(input.Email)
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.PhoneNumber != "" {
		user.PhoneNumber = &input.PhoneNumber
	}

	if file, err := c.FormFile("profilePic"); err == nil && file != nil {
		f, err := file.Open()
		if err == nil {
			data, readErr := io.ReadAll(f)
			f.Close()
			if readErr == nil {
				mime := file.Header.Get("Content-Type")
				if mime == "" {
					mime = "image/jpeg"
				}
				url, _, storeErr := upload.Store(data, mime)
				if storeErr != nil {
					return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
						"status":  "error",
						"message": "Image upload failed",
						"data":    nil,
					})
				}
				user.ProfilePic = url
			}
		}
	} else if input.ProfilePic != "" {
		if strings.HasPrefix(input.ProfilePic, "data:") {
			url, _, err := upload.StoreDataURL(input.ProfilePic)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"status":  "error",
					"message": "Image upload failed",
					"data":    nil,
				})
			}
			user.ProfilePic = url
		} else {
			user.ProfilePic = input.ProfilePic
		}
	}

	if err := database.Postgres.Save(user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Profile updated successfully!",
		"data":    user,
	})
}

// UserFriends lists a user's confirmed connections.
func UserFriends(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid user ID",
			"data":    nil,
		})
	}

	user := new(model.User)
	if err := database.Postgres.First(user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "User not found",
			"data":    nil,
		})
	}

	rows := []model.Friend{}
	if err := database.Postgres.
		Where(&model.Friend{UserID: user.ID}).
		Preload("Friend").
		Find(&rows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	friends := make([]model.User, 0, len(rows))
	for _, row := range rows {
		friends = append(friends, row.Friend)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": nil,
		"data": fiber.Map{
			"friends": friends,
		},
	})
}
