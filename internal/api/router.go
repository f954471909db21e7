package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/andreivolkov/gatechat/internal/auth"
	"github.com/andreivolkov/gatechat/internal/gateway"
	"github.com/andreivolkov/gatechat/internal/redis"
)

// Dependencies holds all handler instances and middleware for route wiring.
type Dependencies struct {
	Auth        *AuthHandler
	Users       *UserHandler
	Channels    *ChannelHandler
	Subchannels *SubchannelHandler
	Members     *MemberHandler
	Roles       *RoleHandler
	Messages    *MessageHandler
	Invites     *InviteHandler
	Uploads     *UploadHandler
	Gateway     *gateway.Manager

	TokenService *auth.TokenService
	Redis        *redis.Client
}

// SetupRouter registers all API routes on the Echo instance.
func SetupRouter(e *echo.Echo, deps *Dependencies) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// WebSocket gateway
	e.GET("/gateway", deps.Gateway.HandleWebSocket)

	v1 := e.Group("/api/v1")

	// Auth routes — no auth middleware, stricter rate limit
	authGroup := v1.Group("/auth",
		RateLimitMiddleware(deps.Redis, 5, time.Minute),
	)
	authGroup.POST("/register", deps.Auth.Register)
	authGroup.POST("/login", deps.Auth.Login)
	authGroup.POST("/refresh", deps.Auth.Refresh)

	// Protected routes — require JWT auth + general rate limit
	authMw := deps.TokenService.Middleware()
	protected := v1.Group("", authMw,
		RateLimitMiddleware(deps.Redis, 50, time.Minute),
	)

	// Auth (protected)
	protected.POST("/auth/logout", deps.Auth.Logout)

	// Users
	protected.GET("/users/@me", deps.Users.GetMe)
	protected.PATCH("/users/@me", deps.Users.UpdateMe)
	protected.GET("/users/:id", deps.Users.GetUser)
	protected.PUT("/users/@me/balances", deps.Users.RecordBalance)
	protected.GET("/users/@me/channels", deps.Channels.ListMyChannels)

	// Channels
	protected.POST("/channels", deps.Channels.CreateChannel)
	protected.GET("/channels/:id", deps.Channels.GetChannel)
	protected.PATCH("/channels/:id", deps.Channels.UpdateChannel)
	protected.DELETE("/channels/:id", deps.Channels.DeleteChannel)

	// Membership
	protected.PUT("/channels/:id/members/@me", deps.Channels.JoinChannel)
	protected.DELETE("/channels/:id/members/@me", deps.Channels.LeaveChannel)
	protected.GET("/channels/:id/members", deps.Members.ListMembers)
	protected.GET("/channels/:id/members/:user_id", deps.Members.GetMember)
	protected.DELETE("/channels/:id/members/:user_id", deps.Members.KickMember)

	// Token gates
	protected.PUT("/channels/:id/gate", deps.Channels.SetGate)
	protected.GET("/channels/:id/gate", deps.Channels.GetGate)
	protected.DELETE("/channels/:id/gate", deps.Channels.ClearGate)

	// Roles
	protected.POST("/channels/:id/roles", deps.Roles.CreateRole)
	protected.GET("/channels/:id/roles", deps.Roles.ListRoles)
	protected.PATCH("/channels/:id/roles/:role_id", deps.Roles.UpdateRole)
	protected.DELETE("/channels/:id/roles/:role_id", deps.Roles.DeleteRole)
	protected.PUT("/channels/:id/members/:user_id/roles/:role_id", deps.Roles.AssignRole)
	protected.DELETE("/channels/:id/members/:user_id/roles/:role_id", deps.Roles.RemoveRole)
	protected.GET("/channels/:id/members/@me/permissions", deps.Roles.GetMyPermissions)

	// Subchannels
	protected.POST("/channels/:id/subchannels", deps.Subchannels.CreateSubchannel)
	protected.GET("/channels/:id/subchannels", deps.Subchannels.ListSubchannels)
	protected.PATCH("/subchannels/:id", deps.Subchannels.UpdateSubchannel)
	protected.DELETE("/subchannels/:id", deps.Subchannels.DeleteSubchannel)

	// Messages
	protected.POST("/subchannels/:id/messages", deps.Messages.SendMessage)
	protected.GET("/subchannels/:id/messages", deps.Messages.GetMessages)
	protected.PATCH("/messages/:id", deps.Messages.EditMessage)
	protected.DELETE("/messages/:id", deps.Messages.DeleteMessage)
	protected.PUT("/messages/:id/pin", deps.Messages.PinMessage)
	protected.DELETE("/messages/:id/pin", deps.Messages.UnpinMessage)

	// Invites
	protected.POST("/channels/:id/invites", deps.Invites.CreateInvite)
	protected.GET("/channels/:id/invites", deps.Invites.ListInvites)
	protected.GET("/invites/:code", deps.Invites.GetInvite)
	protected.POST("/invites/:code", deps.Invites.AcceptInvite)
	protected.DELETE("/invites/:code", deps.Invites.RevokeInvite)

	// Uploads
	protected.POST("/uploads", deps.Uploads.Upload)
}
