package controller

import (
	"errors"
	"strconv"

	"mechat-service/database"
	"mechat-service/model"
	"mechat-service/socketio"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func paramUserID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func areFriends(a uint, b uint) (bool, error) {
	var count int64
	err := database.Postgres.Model(&model.Friend{}).
		Where(&model.Friend{UserID: a, FriendID: b}).
		Count(&count).Error
	return count > 0, err
}

// InvitationSend creates a friend invitation. A pending or accepted invitation
// in either direction blocks a new one; a rejected invitation does not, so the
// sender may try again.
func InvitationSend(c *fiber.Ctx) error {
	senderID, ok := authUserID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid token payload",
			"data":    nil,
		})
	}

	receiverID, ok := paramUserID(c, "receiverId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid user ID",
			"data":    nil,
		})
	}
	if receiverID == senderID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "You cannot invite yourself",
			"data":    nil,
		})
	}

	receiver := new(model.User)
	if err := database.Postgres.First(receiver, receiverID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "User not found",
			"data":    nil,
		})
	}

	friends, err := areFriends(senderID, receiverID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}
	if friends {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status":  "error",
			"message": "You are already friends with this user",
			"data":    nil,
		})
	}

	existing := []model.Invitation{}
	if err := database.Postgres.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			senderID, receiverID, receiverID, senderID).
		Find(&existing).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}
	for _, inv := range existing {
		if inv.BlocksResend() {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"status":  "error",
				"message": "An invitation already exists between you and this user",
				"data":    nil,
			})
		}
	}

	invitation := &model.Invitation{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     model.InvitationStatusPending,
		IsActive:   true,
	}
	if err := database.Postgres.Create(invitation).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	database.Postgres.Preload("Sender").First(invitation, invitation.ID)

	socketio.NotifyUser(strconv.FormatUint(uint64(receiverID), 10), "invitationReceived", invitation)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Invitation sent successfully!",
		"data":    invitation,
	})
}

// InvitationAll lists pending invitations addressed to a user, newest first.
func InvitationAll(c *fiber.Ctx) error {
	userID, ok := paramUserID(c, "userId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid user ID",
			"data":    nil,
		})
	}

	invitations := []model.Invitation{}
	if err := database.Postgres.
		Where(&model.Invitation{ReceiverID: userID, Status: model.InvitationStatusPending, IsActive: true}).
		Preload("Sender").
		Order("id desc").
		Find(&invitations).Error; err != nil {
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
			"invitations": invitations,
		},
	})
}

// InvitationAccept confirms a pending invitation and records the friendship
// in both directions inside one transaction.
func InvitationAccept(c *fiber.Ctx) error {
	senderID, ok := paramUserID(c, "receiverId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid user ID",
			"data":    nil,
		})
	}

	userID, ok := authUserID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid token payload",
			"data":    nil,
		})
	}

	invitation := new(model.Invitation)
	if err := database.Postgres.
		Where(&model.Invitation{SenderID: senderID, ReceiverID: userID, IsActive: true}).
		First(invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "Invitation not found",
				"data":    nil,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	if err := invitation.Accept(); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status":  "error",
			"message": "Invitation is no longer pending",
			"data":    nil,
		})
	}

	err := database.Postgres.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(invitation).Error; err != nil {
			return err
		}
		if err := tx.Create(&model.Friend{UserID: senderID, FriendID: userID}).Error; err != nil {
			return err
		}
		return tx.Create(&model.Friend{UserID: userID, FriendID: senderID}).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	accepter := new(model.User)
	database.Postgres.First(accepter, userID)
	socketio.NotifyUser(strconv.FormatUint(uint64(senderID), 10), "invitationAccepted", accepter)

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Invitation accepted!",
		"data":    invitation,
	})
}

// InvitationReject declines a pending invitation. The row is kept so the
// rejection is auditable; IsActive drops so the sender may invite again later.
func InvitationReject(c *fiber.Ctx) error {
	senderID, ok := paramUserID(c, "senderId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid user ID",
			"data":    nil,
		})
	}

	userID, ok := authUserID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid token payload",
			"data":    nil,
		})
	}

	invitation := new(model.Invitation)
	if err := database.Postgres.
		Where(&model.Invitation{SenderID: senderID, ReceiverID: userID, IsActive: true}).
		First(invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "Invitation not found",
				"data":    nil,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	if err := invitation.Reject(); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status":  "error",
			"message": "Invitation is no longer pending",
			"data":    nil,
		})
	}

	if err := database.Postgres.Save(invitation).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Invitation rejected",
		"data":    invitation,
	})
}
