package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/andreivolkov/gatechat/internal/api"
	"github.com/andreivolkov/gatechat/internal/auth"
	"github.com/andreivolkov/gatechat/internal/config"
	"github.com/andreivolkov/gatechat/internal/database"
	"github.com/andreivolkov/gatechat/internal/gateway"
	"github.com/andreivolkov/gatechat/internal/models"
	redisclient "github.com/andreivolkov/gatechat/internal/redis"
	"github.com/andreivolkov/gatechat/internal/service"
	"github.com/andreivolkov/gatechat/internal/snowflake"
	"github.com/andreivolkov/gatechat/internal/storage"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// --- Infrastructure ---

	pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	rdb, err := redisclient.NewClient(cfg.RedisURL)
	if err != nil {
		slog.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	sf, err := snowflake.NewGenerator(cfg.WorkerID, cfg.ProcessID)
	if err != nil {
		slog.Error("snowflake init failed", "error", err)
		os.Exit(1)
	}

	if cfg.MinIOEndpoint == "" {
		slog.Error("MINIO_ENDPOINT is required")
		os.Exit(1)
	}
	objStore, err := storage.NewMinIOClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket)
	if err != nil {
		slog.Error("minio init failed", "error", err)
		os.Exit(1)
	}

	tokenSvc := auth.NewTokenService(cfg.JWTSecret, cfg.AccessExpiry, cfg.RefreshExpiry)

	// --- Repositories ---

	users := database.NewUserRepository(pool)
	channels := database.NewChannelRepository(pool)
	subchannels := database.NewSubchannelRepository(pool)
	roles := database.NewRoleRepository(pool)
	members := database.NewMemberRepository(pool)
	messages := database.NewMessageRepository(pool)
	invites := database.NewInviteRepository(pool)
	gates := database.NewGateRepository(pool)

	// Template roles are global rows with fixed IDs; re-seeding is a no-op.
	if err := roles.SeedTemplates(ctx, models.DefaultTemplateRoles()); err != nil {
		slog.Error("seeding template roles failed", "error", err)
		os.Exit(1)
	}

	// --- Gateway ---

	gwManager := gateway.NewManager(tokenSvc, channels, rdb)

	// --- Services ---

	perms := service.NewPermissionChecker(channels, members, roles)
	gateSvc := service.NewGateService(gates, rdb, perms)
	channelSvc := service.NewChannelService(channels, subchannels, roles, members, gateSvc, sf, gwManager, perms)
	subchannelSvc := service.NewSubchannelService(subchannels, sf, gwManager, perms)
	roleSvc := service.NewRoleService(channels, roles, members, sf, gwManager, perms)
	memberSvc := service.NewMemberService(channels, members, gwManager, perms)
	messageSvc := service.NewMessageService(subchannels, messages, sf, gwManager, perms)
	inviteSvc := service.NewInviteService(invites, channelSvc, perms)
	authSvc := service.NewAuthService(users, tokenSvc, rdb, sf)
	userSvc := service.NewUserService(users)
	uploadSvc := service.NewUploadService(objStore)

	// --- Handlers ---

	deps := &api.Dependencies{
		Auth:         api.NewAuthHandler(authSvc),
		Users:        api.NewUserHandler(userSvc, gateSvc),
		Channels:     api.NewChannelHandler(channelSvc, gateSvc),
		Subchannels:  api.NewSubchannelHandler(subchannelSvc),
		Members:      api.NewMemberHandler(memberSvc),
		Roles:        api.NewRoleHandler(roleSvc, perms),
		Messages:     api.NewMessageHandler(messageSvc),
		Invites:      api.NewInviteHandler(inviteSvc),
		Uploads:      api.NewUploadHandler(uploadSvc),
		Gateway:      gwManager,
		TokenService: tokenSvc,
		Redis:        rdb,
	}

	// --- Echo ---

	e := echo.New()
	e.HidePort = true
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"error", v.Error,
			)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	api.SetupRouter(e, deps)

	// --- Start ---

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("gatechat starting", "addr", cfg.ServerAddr)
		if err := e.Start(cfg.ServerAddr); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCtx.Done()
	slog.Info("shutting down")
	if err := e.Shutdown(context.Background()); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
