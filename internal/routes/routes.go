package routes

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/auth"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
	"github.com/BruksfildServices01/barber-booking/internal/storage"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// RegisterRoutes wires the application onto r. The returned dispatcher must
// be closed on shutdown so queued audit events are flushed.
func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	m *metrics.Metrics,
	cfg *config.Config,
) *audit.Dispatcher {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins...))
	if m != nil {
		r.Use(m.Middleware())
	}

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	repo := infraRepo.NewGormRepository(db)

	auditDispatcher := audit.NewDispatcher(audit.New(db), m.IncAuditDropped)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	sessions := auth.NewRedisSessionStore(rdb)

	var notifier auth.Notifier = notify.NewLogNotifier(cfg.AppURL)
	if cfg.SMTPEnabled() {
		notifier = notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.AppURL)
	}

	authService := auth.NewService(repo, tokens, sessions, notifier)
	if err := authService.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// a nil *AvatarService must not reach the handler as a non-nil interface
	var avatars handlers.AvatarUploader
	if cfg.S3Enabled() {
		avatars = storage.NewAvatarService(storage.NewS3Store(storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		}))
	}

	// ======================================================
	// USE CASES - BOOKINGS
	// ======================================================
	calendar := ucBooking.NewCalendar(timezone.Location(cfg.Timezone))

	getAvailabilityUC := ucBooking.NewGetAvailability(repo, calendar)
	createBookingUC := ucBooking.NewCreateBooking(repo, nil, calendar, auditDispatcher, m)
	changeStatusUC := ucBooking.NewChangeStatus(repo, auditDispatcher, m)
	listBookingsUC := ucBooking.NewListBookings(repo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(authService)
	meHandler := handlers.NewMeHandler(authService, repo)
	serviceHandler := handlers.NewServiceHandler(repo)
	barberHandler := handlers.NewBarberHandler(repo, avatars, auditDispatcher)
	usersHandler := handlers.NewUsersHandler(repo, auditDispatcher)
	workingHoursHandler := handlers.NewWorkingHoursHandler(repo, auditDispatcher)
	auditLogsHandler := handlers.NewAuditLogsHandler(repo)

	bookingHandler := handlers.NewBookingHandler(
		getAvailabilityUC,
		createBookingUC,
		changeStatusUC,
		listBookingsUC,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/services", serviceHandler.List)
		api.GET("/barbers", barberHandler.List)
		api.GET("/barbers/:id", barberHandler.Get)
		api.GET("/availability", bookingHandler.Availability)
		api.GET("/working-hours", workingHoursHandler.Get)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.GET("/auth/confirm", authHandler.Confirm)
		api.POST("/auth/confirm", authHandler.Confirm)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// SECURED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(authService))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.POST("/auth/logout", authHandler.Logout)

			secured.GET("/bookings", bookingHandler.List)
			secured.POST("/bookings", middleware.RequireRole(auth.RoleCustomer), bookingHandler.Create)
			secured.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)
			secured.PATCH("/bookings/:id/complete",
				middleware.RequireRole(auth.RoleAdmin, auth.RoleBarber), bookingHandler.Complete)
			secured.PATCH("/bookings/:id/status", bookingHandler.UpdateStatus)

			staff := middleware.RequireRole(auth.RoleAdmin, auth.RoleBarber)
			secured.PATCH("/barbers/:id/availability", staff, barberHandler.SetAvailability)
			secured.POST("/barbers/:id/avatar", staff, barberHandler.UploadAvatar)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(authService), middleware.RequireRole(auth.RoleAdmin))
		{
			admin.POST("/services", serviceHandler.Create)
			admin.PATCH("/services/:id", serviceHandler.Update)
			admin.DELETE("/services/:id", serviceHandler.Delete)

			admin.POST("/barbers", barberHandler.Create)
			admin.PATCH("/barbers/:id", barberHandler.Update)
			admin.DELETE("/barbers/:id", barberHandler.Delete)
			admin.POST("/barbers/:id/account", usersHandler.CreateBarberAccount)

			admin.GET("/users", usersHandler.List)

			admin.GET("/working-hours", workingHoursHandler.Get)
			admin.PUT("/working-hours", workingHoursHandler.Update)

			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}

	return auditDispatcher
}

