package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-crm-api/internal/handler"
	"go-crm-api/internal/mailer"
	"go-crm-api/internal/middleware"
	"go-crm-api/internal/model"
	"go-crm-api/internal/otp"
	"go-crm-api/internal/rbac"
	"go-crm-api/internal/repository"
	"go-crm-api/internal/search"
	"go-crm-api/internal/service"
	"go-crm-api/internal/ws"
	"go-crm-api/pkg/database"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env file not found")
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if os.Getenv("LOG_LEVEL") == "debug" {
		log.SetLevel(logrus.DebugLevel)
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Activity{},
		&model.Department{},
		&model.User{},
		&model.Admin{},
		&model.Package{},
		&model.Lead{},
		&model.RolePermission{},
		&model.AdminPermission{},
		&model.SpecialUserPermission{},
	)

	// 3. Seed the activity catalog and the bootstrap super admin
	seedActivitiesAndSuperAdmin(db, log)

	// 4. External services
	rdb := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	otpStore := otp.NewStore(rdb)

	leadIndex, err := search.NewFromEnv()
	if err != nil {
		log.WithError(err).Warn("search index unavailable, lead search falls back to the database")
	}

	mail := mailer.NewFromEnv(log)

	// 5. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run()

	// 6. Dependency Injection (Wiring Layers)
	activityRepo := repository.NewActivityRepo(db)
	deptRepo := repository.NewDepartmentRepo(db)
	userRepo := repository.NewUserRepo(db)
	adminRepo := repository.NewAdminRepo(db)
	permRepo := repository.NewPermissionRepo(db)
	leadRepo := repository.NewLeadRepo(db)
	pkgRepo := repository.NewPackageRepo(db)

	resolver := rbac.NewResolver(activityRepo, permRepo)

	permService := service.NewPermissionService(activityRepo, permRepo, deptRepo, adminRepo, userRepo, resolver)
	authService := service.NewAuthService(userRepo, adminRepo, resolver, permService, otpStore, mail, wsHub, log)
	userService := service.NewUserService(userRepo, deptRepo)
	adminService := service.NewAdminService(adminRepo)
	deptService := service.NewDepartmentService(deptRepo)
	pkgService := service.NewPackageService(pkgRepo)
	leadService := service.NewLeadService(leadRepo, userRepo, pkgRepo, leadIndex, mail, wsHub, log)

	authHandler := handler.NewAuthHandler(authService)
	permHandler := handler.NewPermissionHandler(permService)
	userHandler := handler.NewUserHandler(userService)
	adminHandler := handler.NewAdminHandler(adminService)
	deptHandler := handler.NewDepartmentHandler(deptService)
	pkgHandler := handler.NewPackageHandler(pkgService)
	leadHandler := handler.NewLeadHandler(leadService)

	// 7. Nightly maintenance: archive stale leads, re-sync the search index
	scheduler := cron.New()
	scheduler.AddFunc("@daily", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		archived, err := leadService.ArchiveStale(ctx, 90*24*time.Hour)
		if err != nil {
			log.WithError(err).Error("stale lead sweep failed")
		} else if archived > 0 {
			log.WithField("archived", archived).Info("stale lead sweep done")
		}

		if indexed, err := leadService.ReindexAll(ctx); err != nil {
			log.WithError(err).Error("lead reindex failed")
		} else {
			log.WithField("indexed", indexed).Info("lead reindex done")
		}
	})
	scheduler.Start()

	// 8. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "CRM API v1.0",
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// 9. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/admin/login", authHandler.AdminLogin)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo, adminRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo, adminRepo))

	// Activity registry and the caller's own rights grid
	protected.Get("/activity/all", permHandler.ListActivities)
	protected.Get("/permissions/me", permHandler.MyPermissions)

	// Permission assignment (guarded by the Permission Management activity)
	canViewPerms := middleware.RequirePermission(resolver, model.ActivityPermissions, model.ActionView)
	canEditPerms := middleware.RequirePermission(resolver, model.ActivityPermissions, model.ActionEdit)
	protected.Get("/role-permissions/department/:deptId", canViewPerms, permHandler.GetRolePermissions)
	protected.Post("/role-permissions/add", canEditPerms, permHandler.AssignRolePermissions)
	protected.Put("/role-permissions/:id", canEditPerms, permHandler.UpdateRolePermission)
	protected.Get("/admin-permissions/admin/:adminId", canViewPerms, permHandler.GetAdminPermissions)
	protected.Post("/admin-permissions/admin/:adminId", canEditPerms, permHandler.AssignAdminPermissions)
	protected.Get("/special-user-permission/:userId", canViewPerms, permHandler.GetSpecialUserPermissions)
	protected.Post("/special-user-permission/:userId", canEditPerms, permHandler.AssignSpecialUserPermissions)

	// Leads
	guard := func(activity string, action model.Action) fiber.Handler {
		return middleware.RequirePermission(resolver, activity, action)
	}
	protected.Get("/leads", guard(model.ActivityLeads, model.ActionView), leadHandler.List)
	protected.Get("/leads/search", guard(model.ActivityLeads, model.ActionView), leadHandler.Search)
	protected.Get("/leads/stats", guard(model.ActivityDashboard, model.ActionView), leadHandler.Stats)
	protected.Get("/leads/:id", guard(model.ActivityLeads, model.ActionView), leadHandler.Get)
	protected.Post("/leads", guard(model.ActivityLeads, model.ActionAdd), leadHandler.Create)
	protected.Put("/leads/:id", guard(model.ActivityLeads, model.ActionEdit), leadHandler.Update)
	protected.Patch("/leads/:id/assign", guard(model.ActivityLeads, model.ActionEdit), leadHandler.Assign)
	protected.Patch("/leads/:id/status", guard(model.ActivityLeads, model.ActionEdit), leadHandler.UpdateStatus)
	protected.Patch("/leads/:id/archive", guard(model.ActivityLeads, model.ActionDelete), leadHandler.Archive)

	// Users
	protected.Get("/users", guard(model.ActivityUsers, model.ActionView), userHandler.List)
	protected.Get("/users/:id", guard(model.ActivityUsers, model.ActionView), userHandler.Get)
	protected.Post("/users", guard(model.ActivityUsers, model.ActionAdd), userHandler.Create)
	protected.Put("/users/:id", guard(model.ActivityUsers, model.ActionEdit), userHandler.Update)
	protected.Patch("/users/:id/status", guard(model.ActivityUsers, model.ActionDelete), userHandler.SetStatus)

	// Admins
	protected.Get("/admins", guard(model.ActivityAdmins, model.ActionView), adminHandler.List)
	protected.Get("/admins/:id", guard(model.ActivityAdmins, model.ActionView), adminHandler.Get)
	protected.Post("/admins", guard(model.ActivityAdmins, model.ActionAdd), adminHandler.Create)
	protected.Put("/admins/:id", guard(model.ActivityAdmins, model.ActionEdit), adminHandler.Update)
	protected.Patch("/admins/:id/status", guard(model.ActivityAdmins, model.ActionDelete), adminHandler.SetStatus)

	// Departments
	protected.Get("/departments", guard(model.ActivityDepartments, model.ActionView), deptHandler.List)
	protected.Get("/departments/:id", guard(model.ActivityDepartments, model.ActionView), deptHandler.Get)
	protected.Post("/departments", guard(model.ActivityDepartments, model.ActionAdd), deptHandler.Create)
	protected.Put("/departments/:id", guard(model.ActivityDepartments, model.ActionEdit), deptHandler.Update)
	protected.Patch("/departments/:id/status", guard(model.ActivityDepartments, model.ActionDelete), deptHandler.SetStatus)

	// Packages
	protected.Get("/packages", guard(model.ActivityPackages, model.ActionView), pkgHandler.List)
	protected.Get("/packages/:id", guard(model.ActivityPackages, model.ActionView), pkgHandler.Get)
	protected.Post("/packages", guard(model.ActivityPackages, model.ActionAdd), pkgHandler.Create)
	protected.Put("/packages/:id", guard(model.ActivityPackages, model.ActionEdit), pkgHandler.Update)
	protected.Patch("/packages/:id/status", guard(model.ActivityPackages, model.ActionDelete), pkgHandler.SetStatus)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 10. Graceful Shutdown
	go func() {
		port := getEnv("PORT", "3000")
		if err := app.Listen(":" + port); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	scheduler.Stop()
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}
	log.Info("server exited")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// seedActivitiesAndSuperAdmin makes a fresh database usable: the activity
// catalog is created, and a super admin is bootstrapped with explicit
// permission rows on every activity. There is no code-level bypass for
// super admins; their access lives in the same tables as everyone else's.
func seedActivitiesAndSuperAdmin(db *gorm.DB, log *logrus.Logger) {
	activityRepo := repository.NewActivityRepo(db)
	adminRepo := repository.NewAdminRepo(db)
	permRepo := repository.NewPermissionRepo(db)

	if err := activityRepo.SeedDefaults(); err != nil {
		log.WithError(err).Warn("failed to seed activities")
	}

	email := getEnv("SUPER_ADMIN_EMAIL", "admin@example.com")
	if _, err := adminRepo.FindByEmail(email); err == nil {
		return
	}

	admin := &model.Admin{
		Email:    email,
		FullName: "Super Administrator",
		IsSuper:  true,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(getEnv("SUPER_ADMIN_PASSWORD", "admin123")); err != nil {
		log.WithError(err).Warn("failed to hash super admin password")
		return
	}
	if err := adminRepo.Create(admin); err != nil {
		log.WithError(err).Warn("failed to create super admin")
		return
	}

	activities, err := activityRepo.FindAll()
	if err != nil {
		log.WithError(err).Warn("failed to load activities for super admin grants")
		return
	}
	for _, a := range activities {
		row := &model.AdminPermission{
			AdminID:    admin.ID,
			ActivityID: a.ID,
			Rights:     model.Rights{CanView: true, CanAdd: true, CanEdit: true, CanDelete: true},
		}
		if err := permRepo.UpsertAdminPermission(row); err != nil {
			log.WithError(err).WithField("activity", a.Name).Warn("failed to grant super admin permission")
		}
	}
	log.WithField("email", email).Info("super admin created")
}
