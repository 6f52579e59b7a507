package controller

import (
	"encoding/json"
	"strconv"

	"mechat-service/event"
	"mechat-service/event/listener"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// authUserID extracts the authenticated user's id set by the JWT middleware.
func authUserID(c *fiber.Ctx) (uint, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return 0, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	idStr, ok := claims["id"].(string)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func publishMail(action string, job listener.MailJob) {
	data, _ := json.Marshal(job)
	event.Emit("mail", action, data)
}

// pageParams clamps page/limit query values into [1,inf) and [1,maxLimit].
func pageParams(c *fiber.Ctx, defaultLimit int, maxLimit int) (int, int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
