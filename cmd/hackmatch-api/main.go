package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimitrije/hackmatch-api/internal/config"
	"github.com/dimitrije/hackmatch-api/internal/database"
	"github.com/dimitrije/hackmatch-api/internal/events"
	"github.com/dimitrije/hackmatch-api/internal/handlers"
	"github.com/dimitrije/hackmatch-api/internal/logger"
	authmw "github.com/dimitrije/hackmatch-api/internal/middleware"
	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/dimitrije/hackmatch-api/internal/services"
	"github.com/dimitrije/hackmatch-api/internal/sse"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		p, err := events.Dial(ctx, cfg.AMQPURL, zlog)
		if err != nil {
			zlog.Fatal("failed to connect to broker", zap.Error(err))
		}
		publisher = p
	}
	defer func() { _ = publisher.Close() }()

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db)
	hackathonService := services.NewHackathonService(db)
	teamService := services.NewTeamService(db)
	resumeService := services.NewResumeService(db, cfg.UploadDir, cfg.MaxResumeBytes)
	complaintService := services.NewComplaintService(db)
	announcementService := services.NewAnnouncementService(db)
	notificationService := services.NewNotificationService(db)
	analyticsService := services.NewAnalyticsService(db)
	emailService := services.NewEmailService(cfg.SMTP, cfg.FrontendURL)

	hub := sse.NewHub()
	go hub.Run()

	notifier := services.NewNotifier(notificationService, userService, hub, publisher, emailService, zlog)
	defer notifier.Wait()

	authHandler := handlers.NewAuthHandler(cfg, userService, tokenService, jwtService, zlog)
	userHandler := handlers.NewUserHandler(userService, zlog)
	hackathonHandler := handlers.NewHackathonHandler(hackathonService, notifier, zlog)
	teamHandler := handlers.NewTeamHandler(teamService, hackathonService, notifier, zlog)
	resumeHandler := handlers.NewResumeHandler(resumeService, zlog)
	complaintHandler := handlers.NewComplaintHandler(complaintService, notifier, zlog)
	announcementHandler := handlers.NewAnnouncementHandler(announcementService, hackathonService, notifier, zlog)
	notificationHandler := handlers.NewNotificationHandler(notificationService, hub, zlog)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, zlog)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	app.Use(middleware.BodyParser())
	app.Use(authmw.RequestLogger(zlog))

	api := app.Group("/api/v1")

	api.Post("/signup", authHandler.Signup)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.RefreshToken)
	api.Post("/logout", authHandler.Logout)

	auth := api.Group("/auth")
	auth.Get("/:provider/consent", authHandler.GetConsentURL)
	auth.Get("/:provider/callback", authHandler.Callback)
	auth.Post("/exchange", authHandler.ExchangeCode)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	student := protected.Group("", authmw.RequireRole(models.RoleStudent))
	organization := protected.Group("", authmw.RequireRole(models.RoleOrganization))
	staff := protected.Group("", authmw.RequireRole(models.RoleOrganization, models.RoleAdmin))
	admin := protected.Group("", authmw.RequireRole(models.RoleAdmin))

	protected.Post("/logout-all", authHandler.LogoutAll)

	protected.Get("/profile", userHandler.GetProfile)
	protected.Patch("/profile", userHandler.UpdateProfile)
	protected.Get("/users/:id", userHandler.GetUser)

	protected.Get("/hackathons", hackathonHandler.List)
	organization.Get("/hackathons/mine", hackathonHandler.Mine)
	organization.Post("/hackathons", hackathonHandler.Create)
	protected.Get("/hackathon/:id", hackathonHandler.Get)
	organization.Patch("/hackathon/:id", hackathonHandler.Update)
	staff.Delete("/hackathon/:id", hackathonHandler.Delete)
	admin.Patch("/hackathon/:id/status", hackathonHandler.UpdateStatus)
	staff.Get("/hackathon/:id/teams", teamHandler.HackathonTeams)
	protected.Get("/hackathon/:id/open-teams", teamHandler.OpenTeams)
	protected.Get("/hackathon/:id/my-team", teamHandler.MyTeam)

	student.Post("/create-team", teamHandler.Create)
	student.Post("/join-team", teamHandler.JoinByCode)
	protected.Get("/teams/mine", teamHandler.Mine)
	protected.Get("/team/:id", teamHandler.Get)
	protected.Patch("/team/:id", teamHandler.Update)
	protected.Post("/team/:id/join-code", teamHandler.GenerateJoinCode)
	student.Post("/team/:id/join-requests", teamHandler.RequestToJoin)
	protected.Get("/team/:id/join-requests", teamHandler.ListJoinRequests)
	protected.Delete("/team/:id/members/:memberId", teamHandler.RemoveMember)
	protected.Post("/team/:id/leave", teamHandler.Leave)
	protected.Post("/team/:id/register", teamHandler.Register)
	staff.Patch("/team/:id/shortlist", teamHandler.Shortlist)
	admin.Patch("/team/:id/suspend", teamHandler.Suspend)

	protected.Get("/join-requests/mine", teamHandler.MyJoinRequests)
	protected.Post("/join-requests/:id/accept", teamHandler.AcceptJoinRequest)
	protected.Post("/join-requests/:id/reject", teamHandler.RejectJoinRequest)

	student.Post("/upload/resume", resumeHandler.Upload)
	protected.Get("/resume/me", resumeHandler.Me)
	protected.Get("/resume/user/:userId", resumeHandler.ByUser)
	protected.Get("/resume/user/:userId/file", resumeHandler.Download)

	protected.Post("/complaints", complaintHandler.Create)
	protected.Get("/complaints/mine", complaintHandler.Mine)
	admin.Get("/complaints", complaintHandler.List)
	admin.Patch("/complaints/:id", complaintHandler.Update)

	protected.Get("/announcements", announcementHandler.List)
	staff.Post("/announcements", announcementHandler.Create)
	staff.Delete("/announcements/:id", announcementHandler.Delete)

	protected.Get("/notifications", notificationHandler.List)
	protected.Get("/notifications/stream", notificationHandler.Stream)
	protected.Patch("/notifications/:id/read", notificationHandler.MarkRead)
	protected.Post("/notifications/read-all", notificationHandler.MarkAllRead)

	admin.Get("/admin/stats", analyticsHandler.Admin)
	admin.Get("/admin/users", userHandler.ListUsers)
	admin.Patch("/admin/users/:id/role", userHandler.SetRole)
	organization.Get("/organization/stats", analyticsHandler.Organization)
	student.Get("/student/stats", analyticsHandler.Student)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go authHandler.CleanupStates(ctx)

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := tokenService.CleanupExpired(ctx)
				if err != nil {
					zlog.Warn("refresh token cleanup failed", zap.Error(err))
					continue
				}
				zlog.Debug("refresh tokens cleaned up", zap.Int64("removed", removed))
			}
		}
	}()

	go func() {
		zlog.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("server failed", zap.Error(err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
