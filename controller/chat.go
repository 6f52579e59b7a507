package controller

import (
	"time"

	"mechat-service/database"
	"mechat-service/model"

	"github.com/gofiber/fiber/v2"
)

// ChatSummary is one entry of the conversation list: the chat joined with the
// other participant, ready for a sidebar render.
type ChatSummary struct {
	ID          uint           `json:"id"`
	Type        string         `json:"type"`
	Participant model.User     `json:"participant"`
	LastMessage *model.Message `json:"last_message"`
	UpdatedAt   string         `json:"updated_at"`
}

// ChatAll lists the caller's conversations, most recently active first.
func ChatAll(c *fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid token payload",
			"data":    nil,
		})
	}

	chats := []model.Chat{}
	if err := database.Postgres.
		Where("low_id = ? OR high_id = ?", userID, userID).
		Preload("Low").
		Preload("High").
		Preload("LastMessage").
		Preload("LastMessage.Sender").
		Order("updated_at desc").
		Find(&chats).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	summaries := make([]ChatSummary, 0, len(chats))
	for _, chat := range chats {
		other := chat.High
		if chat.OtherParticipant(userID) == chat.LowID {
			other = chat.Low
		}
		summaries = append(summaries, ChatSummary{
			ID:          chat.ID,
			Type:        chat.Type,
			Participant: other,
			LastMessage: chat.LastMessage,
			UpdatedAt:   chat.UpdatedAt.Format(time.RFC3339),
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": nil,
		"data": fiber.Map{
			"chats": summaries,
		},
	})
}
