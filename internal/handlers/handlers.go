package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"clubportal/api/internal/config"
	"clubportal/api/internal/middleware"
	"clubportal/api/internal/models"
	"clubportal/api/internal/repository"
	"clubportal/api/internal/security"
	"clubportal/api/internal/service"
)

type HandlerSet struct {
	log        zerolog.Logger
	cfg        *config.AppConfig
	auth       *service.AuthService
	moderation *service.ModerationService
	admin      *service.AdminService
	db         *pgxpool.Pool
	cache      *redis.Client
	sessions   *repository.SessionRepository
	bans       *repository.BanRepository
	settings   *repository.SettingsRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, cfg *config.AppConfig) HandlerSet {
	sessionRepo := repository.NewSessionRepository(db)
	banRepo := repository.NewBanRepository(db)
	waitlistRepo := repository.NewWaitlistRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	chatRepo := repository.NewChatRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	secrets := security.TierSecrets{
		Owner: cfg.Security.OwnerPasscode,
		Admin: cfg.Security.AdminPasscode,
		User:  cfg.Security.UserPasscode,
	}

	auth := service.NewAuthService(sessionRepo, banRepo, waitlistRepo, profileRepo, settingsRepo, secrets, log)
	moderation := service.NewModerationService(chatRepo, cfg.Chat.UndoWindow, log)
	admin := service.NewAdminService(sessionRepo, banRepo, waitlistRepo, settingsRepo, log)

	return HandlerSet{
		log:        log,
		cfg:        cfg,
		auth:       auth,
		moderation: moderation,
		admin:      admin,
		db:         db,
		cache:      cache,
		sessions:   sessionRepo,
		bans:       banRepo,
		settings:   settingsRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/login",
			middleware.LoginRateLimit(h.cache, h.cfg.Security.LoginRateLimit, h.cfg.Security.LoginRateWindow, h.log),
			h.Login,
		)

		identity := middleware.Identity(h.sessions, h.bans, h.settings, h.log)

		protected := v1.Group("/auth")
		protected.Use(identity)
		protected.POST("/username", h.SetUsername)
		protected.GET("/me", h.Me)

		chat := v1.Group("/chat")
		chat.Use(identity)
		chat.GET("/messages", h.ListMessages)
		chat.POST("/messages", h.PostMessage)
		chat.POST("/messages/:id/actions", h.MessageAction)

		admin := v1.Group("/admin")
		admin.Use(identity, middleware.RequireAtLeast(models.RoleAdmin))
		admin.POST("/ban", h.Ban)
		admin.POST("/unban", h.Unban)
		admin.GET("/sessions", h.ListSessions)
		admin.DELETE("/sessions/:deviceId", h.DeleteSession)

		owner := v1.Group("/admin")
		owner.Use(identity, middleware.RequireAtLeast(models.RoleOwner))
		owner.POST("/role", h.ChangeRole)
		owner.POST("/site", h.ToggleSite)
		owner.GET("/waitlist", h.ListWaitlist)
		owner.POST("/waitlist/:id/review", h.ReviewWaitlist)
	}
}
