package controller

import (
	"fmt"
	"net/http/httptest"
	"strconv"
	"testing"

	"mechat-service/database"
	"mechat-service/model"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDatabase(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Chat{},
		&model.Message{},
		&model.Reaction{},
	))
	database.Postgres = db
}

// newAuthedApp builds a fiber app whose requests carry the claims the JWT
// middleware would have set for userID.
func newAuthedApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
			"id": strconv.FormatUint(uint64(userID), 10),
		}))
		return c.Next()
	})
	return app
}

func seedMessage(t *testing.T) (sender model.User, other model.User, message model.Message) {
	sender = model.User{Name: "sender", Email: "sender@example.com", Password: "x"}
	other = model.User{Name: "other", Email: "other@example.com", Password: "x"}
	require.NoError(t, database.Postgres.Create(&sender).Error)
	require.NoError(t, database.Postgres.Create(&other).Error)

	chat, err := database.FindOrCreateChat(sender.ID, other.ID)
	require.NoError(t, err)

	message = model.Message{
		ChatID:      chat.ID,
		SenderID:    sender.ID,
		Content:     "hello there",
		MessageType: model.MessageTypeText,
		Status:      model.MessageStatusSent,
	}
	require.NoError(t, database.Postgres.Create(&message).Error)
	return sender, other, message
}

func TestMessageDeleteRejectsNonOwner(t *testing.T) {
	newTestDatabase(t)
	_, other, message := seedMessage(t)

	app := newAuthedApp(other.ID)
	app.Patch("/delete/:messageId", MessageDelete)

	req := httptest.NewRequest(fiber.MethodPatch, fmt.Sprintf("/delete/%d", message.ID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	stored := new(model.Message)
	require.NoError(t, database.Postgres.First(stored, message.ID).Error)
	assert.Equal(t, "hello there", stored.Content, "content must survive a rejected delete")
	assert.False(t, stored.IsDeleted)
}

func TestMessageDeleteByOwnerTombstones(t *testing.T) {
	newTestDatabase(t)
	sender, _, message := seedMessage(t)

	app := newAuthedApp(sender.ID)
	app.Patch("/delete/:messageId", MessageDelete)

	req := httptest.NewRequest(fiber.MethodPatch, fmt.Sprintf("/delete/%d", message.ID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	stored := new(model.Message)
	require.NoError(t, database.Postgres.First(stored, message.ID).Error)
	assert.Equal(t, model.DeletedMessageContent, stored.Content)
	assert.True(t, stored.IsDeleted)
}

func TestMessageDeleteUnknownMessage(t *testing.T) {
	newTestDatabase(t)
	sender, _, _ := seedMessage(t)

	app := newAuthedApp(sender.ID)
	app.Patch("/delete/:messageId", MessageDelete)

	req := httptest.NewRequest(fiber.MethodPatch, "/delete/9999", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPaginationWindow(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		page    int
		limit   int
		skip    int
		hasMore bool
	}{
		{"empty history", 0, 1, 20, 0, false},
		{"fits in one page", 5, 1, 20, 0, false},
		{"exactly one page", 20, 1, 20, 0, false},
		{"first page of many", 50, 1, 20, 30, true},
		{"second page", 50, 2, 20, 10, true},
		{"last partial page", 50, 3, 20, 0, false},
		{"page beyond history", 50, 4, 20, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			skip, hasMore := paginationWindow(tc.total, tc.page, tc.limit)
			assert.Equal(t, tc.skip, skip)
			assert.Equal(t, tc.hasMore, hasMore)
		})
	}
}

func TestPaginationWindowWalksWholeHistory(t *testing.T) {
	// Walking page by page until hasMore goes false must cover every
	// message exactly once, newest windows first.
	total, limit := 47, 10
	covered := 0
	prevSkip := total
	for page := 1; ; page++ {
		skip, hasMore := paginationWindow(total, page, limit)
		assert.Less(t, skip, prevSkip, "each page must reach further back")
		covered += min(prevSkip-skip, limit)
		prevSkip = skip
		if !hasMore {
			break
		}
	}
	assert.Equal(t, total, covered)
}
