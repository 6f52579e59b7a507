package controller

import (
	"mechat-service/database"
	"mechat-service/model"

	"github.com/gofiber/fiber/v2"
)

// AdminUsers lists every account, paginated. Reachable only through the
// RBAC-guarded admin group.
func AdminUsers(c *fiber.Ctx) error {
	page, limit := pageParams(c, 50, 500)

	var total int64
	if err := database.Postgres.Model(&model.User{}).Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	users := []model.User{}
	if err := database.Postgres.
		Order("id asc").
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
			"users": users,
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
