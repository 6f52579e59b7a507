package controller

import (
	"io"
	"strconv"
	"time"

	"mechat-service/database"
	"mechat-service/model"
	"mechat-service/socketio"
	"mechat-service/upload"

	"github.com/gofiber/fiber/v2"
)

type MessageSendInput struct {
	ReceiverId string `json:"receiverId" form:"receiverId"`
	Content    string `json:"content" form:"content"`
	Media      string `json:"media" form:"media"`
	ReplyTo    string `json:"replyTo" form:"replyTo"`
}

type MessageReactInput struct {
	MessageId string `json:"messageId" form:"messageId"`
	Reaction  string `json:"reaction" form:"reaction"`
}

// paginationWindow computes the oldest-first offset for a newest-window-first
// page walk: page 1 is the newest window, higher pages reach further back,
// and hasMore reports whether older messages remain beyond this page.
func paginationWindow(total int, page int, limit int) (skip int, hasMore bool) {
	skip = total - page*limit
	if skip < 0 {
		skip = 0
	}
	return skip, skip > 0
}

// resolveMedia turns the request's media input (uploaded file, data URL, or
// hosted URL) into a stored URL and type classification. An empty result with
// nil error means no media was attached.
func resolveMedia(c *fiber.Ctx, media string) (string, string, error) {
	if file, err := c.FormFile("mediaUrl"); err == nil && file != nil {
		f, err := file.Open()
		if err != nil {
			return "", "", err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return "", "", err
		}
		mime := file.Header.Get("Content-Type")
		if mime == "" {
			mime = "image/jpeg"
		}
		return upload.Store(data, mime)
	}

	if media == "" {
		return "", "", nil
	}
	if _, _, err := upload.ParseDataURL(media); err == nil {
		return upload.StoreDataURL(media)
	}
	// Already hosted somewhere; keep the URL and classify by extension.
	return media, upload.ClassifyURL(media), nil
}

// MessageSend persists a message on the durable path and pushes a real-time
// notification to the receiver when online. The push is fire-and-forget; an
// offline receiver fetches the message later through the history endpoint.
func MessageSend(c *fiber.Ctx) error {
	senderID, ok := authUserID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid token payload",
			"data":    nil,
		})
	}

	input := new(MessageSendInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	receiverID, err := strconv.ParseUint(input.ReceiverId, 10, 64)
	hasFile := false
	if file, ferr := c.FormFile("mediaUrl"); ferr == nil && file != nil {
		hasFile = true
	}
	if err != nil || receiverID == 0 || (input.Content == "" && input.Media == "" && !hasFile) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "receiverId and content or media required",
			"data":    nil,
		})
	}

	receiver := new(model.User)
	if err := database.Postgres.First(receiver, receiverID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "Receiver not found",
			"data":    nil,
		})
	}

	chat, err := database.FindOrCreateChat(senderID, uint(receiverID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	// Upload before creating the row so a failed upload leaves no orphan
	// message behind.
	mediaURL, messageType, err := resolveMedia(c, input.Media)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Media upload failed",
			"data":    nil,
		})
	}
	if mediaURL == "" {
		messageType = model.MessageTypeText
	}

	message := &model.Message{
		ChatID:      chat.ID,
		SenderID:    senderID,
		Content:     input.Content,
		MediaURL:    mediaURL,
		MessageType: messageType,
		Status:      model.MessageStatusSent,
	}
	if input.ReplyTo != "" {
		if replyID, err := strconv.ParseUint(input.ReplyTo, 10, 64); err == nil {
			id := uint(replyID)
			message.ReplyToID = &id
		}
	}

	if err := database.Postgres.Create(message).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	if err := database.Postgres.Model(chat).Update("last_message_id", message.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	if err := database.Postgres.
		Preload("Sender").
		Preload("ReplyTo").
		Preload("ReplyTo.Sender").
		First(message, message.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	// Real-time path; receiver offline is a normal condition, not a failure.
	socketio.NotifyUser(input.ReceiverId, "receiveMessage", fiber.Map{
		"senderId":  senderID,
		"data":      message,
		"createdAt": time.Now(),
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Message sent successfully!",
		"data":    message,
	})
}

// MessagesInChat pulls a page of history with the chat's other participant.
// Reading marks every not-yet-seen message from the other side as seen.
func MessagesInChat(c *fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid token payload",
			"data":    nil,
		})
	}

	receiverID, err := strconv.ParseUint(c.Params("activeChatUserId"), 10, 64)
	if err != nil || receiverID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "User ID and Receiver ID required!",
			"data":    nil,
		})
	}

	chat, err := database.FindOrCreateChat(userID, uint(receiverID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	page, limit := pageParams(c, 20, 200)
	q := c.Query("q")

	base := database.Postgres.Model(&model.Message{}).Where("chat_id = ?", chat.ID)
	if q != "" {
		base = base.Where("content ILIKE ?", "%"+q+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	skip, hasMore := paginationWindow(int(total), page, limit)

	results := []model.Message{}
	query := database.Postgres.
		Where("chat_id = ?", chat.ID).
		Preload("Sender").
		Preload("ReplyTo").
		Preload("ReplyTo.Sender").
		Preload("Reactions").
		Order("id asc").
		Offset(skip).
		Limit(limit)
	if q != "" {
		query = query.Where("content ILIKE ?", "%"+q+"%")
	}
	if err := query.Find(&results).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	// Bulk sent -> seen for the other participant's messages; a successful
	// read is the status transition, there is no explicit event for it.
	if err := database.Postgres.Model(&model.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND status <> ?", chat.ID, userID, model.MessageStatusSeen).
		Update("status", model.MessageStatusSeen).Error; err != nil {
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
			"hasMore": hasMore,
		},
	})
}

// MessageReact toggles the caller's reaction on a message: same emoji removes
// it, a different emoji replaces it, otherwise a new reaction is added.
func MessageReact(c *fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid token payload",
			"data":    nil,
		})
	}

	input := new(MessageReactInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}
	if input.MessageId == "" || input.Reaction == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Message ID and reaction are required",
			"data":    nil,
		})
	}

	message := new(model.Message)
	if err := database.Postgres.Preload("Reactions").First(message, input.MessageId).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "Message not found",
			"data":    nil,
		})
	}

	now := time.Now()
	updated, op := model.ToggleReaction(message.Reactions, userID, input.Reaction, now)

	var err error
	switch op {
	case model.ReactionRemoved:
		err = database.Postgres.Unscoped().
			Where(&model.Reaction{MessageID: message.ID, UserID: userID}).
			Delete(&model.Reaction{}).Error
	case model.ReactionReplaced:
		err = database.Postgres.Model(&model.Reaction{}).
			Where(&model.Reaction{MessageID: message.ID, UserID: userID}).
			Updates(map[string]interface{}{"emoji": input.Reaction, "reacted_at": now}).Error
	case model.ReactionAdded:
		err = database.Postgres.Create(&model.Reaction{
			MessageID: message.ID,
			UserID:    userID,
			Emoji:     input.Reaction,
			ReactedAt: now,
		}).Error
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	chat := new(model.Chat)
	if err := database.Postgres.First(chat, message.ChatID).Error; err == nil {
		other := chat.OtherParticipant(userID)
		socketio.NotifyUser(strconv.FormatUint(uint64(other), 10), "messageReacted", fiber.Map{
			"messageId": message.ID,
			"userId":    userID,
			"reaction":  input.Reaction,
			"reactions": updated,
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Reaction updated successfully",
		"data":    updated,
	})
}

// MessageDelete soft-deletes a message the caller owns: the content becomes a
// tombstone and the row is retained.
func MessageDelete(c *fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid token payload",
			"data":    nil,
		})
	}

	message := new(model.Message)
	if err := database.Postgres.First(message, c.Params("messageId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "Message not found",
			"data":    nil,
		})
	}

	if message.SenderID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  "error",
			"message": "Not authorized",
			"data":    nil,
		})
	}

	message.Content = model.DeletedMessageContent
	message.IsDeleted = true
	if err := database.Postgres.Save(message).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	chat := new(model.Chat)
	if err := database.Postgres.First(chat, message.ChatID).Error; err == nil {
		other := chat.OtherParticipant(userID)
		socketio.NotifyUser(strconv.FormatUint(uint64(other), 10), "messageDeleted", fiber.Map{
			"messageId": message.ID,
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Message deleted successfully",
		"data":    nil,
	})
}
