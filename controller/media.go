package controller

import (
	"encoding/base64"

	"mechat-service/database"
	"mechat-service/model"

	"github.com/gofiber/fiber/v2"
)

// MediaServe streams a stored upload back to the client.
func MediaServe(c *fiber.Ctx) error {
	media := new(model.Media)
	if err := database.Postgres.First(media, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "Media not found",
			"data":    nil,
		})
	}

	data, err := base64.StdEncoding.DecodeString(media.Data)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	c.Set(fiber.HeaderContentType, media.Mime)
	return c.Send(data)
}
