package router

import (
	"time"

	"mechat-service/controller"
	"mechat-service/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func Rest(app *fiber.App) {
	api := app.Group("/v1", logger.New())

	// Recovery flows are rate limited per client IP.
	otpLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
	})

	// Auth
	auth := api.Group("/auth")
	auth.Post("/register", controller.AuthRegister)
	auth.Post("/verify-account", controller.AuthVerifyAccount)
	auth.Post("/login", controller.AuthLogin)
	auth.Post("/logout", middleware.JWT(), controller.AuthLogout)
	auth.Post("/token/renew", controller.AuthTokenRenew)
	auth.Post("/find-account", otpLimiter, controller.AuthFindAccount)
	auth.Post("/verify-otp", otpLimiter, controller.AuthVerifyOtp)
	auth.Post("/resend-otp", otpLimiter, controller.AuthResendOtp)
	auth.Patch("/update-password", controller.AuthUpdatePassword)

	// User
	user := api.Group("/users", middleware.JWT())
	user.Get("/profile", controller.UserProfile)
	user.Put("/profile", controller.UserUpdateProfile)
	user.Get("/search", controller.UserSearch)
	user.Get("/friends/:userId", controller.UserFriends)
	user.Get("/", controller.UserAll)

	// Invitation
	invitation := api.Group("/invitations", middleware.JWT())
	invitation.Post("/send/:receiverId", controller.InvitationSend)
	invitation.Post("/add-friend/:receiverId", controller.InvitationAccept)
	invitation.Patch("/reject/:senderId", controller.InvitationReject)
	invitation.Get("/:userId", controller.InvitationAll)

	// Message
	message := api.Group("/messages", middleware.JWT())
	message.Post("/send", controller.MessageSend)
	message.Post("/react", controller.MessageReact)
	message.Patch("/delete/:messageId", controller.MessageDelete)
	message.Get("/:activeChatUserId", controller.MessagesInChat)

	// Chat
	chat := api.Group("/chats", middleware.JWT())
	chat.Get("/", controller.ChatAll)

	// Google contacts
	google := api.Group("/google")
	google.Get("/auth", middleware.JWT(), controller.GoogleAuthRedirect)
	google.Get("/state", middleware.JWT(), controller.GoogleState)
	google.Get("/callback", controller.GoogleCallback)
	google.Get("/sync", middleware.JWT(), controller.GoogleSync)

	// Media
	media := api.Group("/media")
	media.Get("/:id", controller.MediaServe)

	// Admin
	admin := api.Group("/admin", middleware.JWT(), middleware.RBAC())
	admin.Get("/users", controller.AdminUsers)
}
