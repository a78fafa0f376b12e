package main

import (
	"context"
	"log"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/plantops/skilltrack/pkg/auth"
	"github.com/plantops/skilltrack/pkg/config"
	"github.com/plantops/skilltrack/pkg/database"
	"github.com/plantops/skilltrack/pkg/handlers"
	"github.com/plantops/skilltrack/pkg/middleware"
	"github.com/plantops/skilltrack/pkg/repositories"
	"github.com/plantops/skilltrack/pkg/services"
	"github.com/plantops/skilltrack/pkg/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("bind_addr", cfg.BindAddr),
		zap.String("port", cfg.Port),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", cfg.Database.Host),
		zap.String("uploads_dir", cfg.Uploads.Dir))

	ctx := context.Background()

	if err := database.RunMigrations(cfg.Database.ConnectionString(), cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient == nil {
		logger.Warn("Redis not configured, token revocation tracking disabled")
	}

	fileStore, err := storage.NewLocalStore(cfg.Uploads.Dir)
	if err != nil {
		logger.Fatal("Failed to initialize upload storage", zap.Error(err))
	}

	// Repositories
	employeeRepo := repositories.NewEmployeeRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)
	skillRepo := repositories.NewSkillRepository(db)
	recordRepo := repositories.NewSkillRecordRepository(db)
	documentRepo := repositories.NewSkillDocumentRepository(db)
	auditRepo := repositories.NewAuditLogRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	userRepo := repositories.NewUserRepository(db)

	// Services
	auditService := services.NewAuditService(auditRepo, logger)
	notificationService := services.NewNotificationService(notificationRepo, logger)
	seedingService := services.NewSeedingService(recordRepo, skillRepo, employeeRepo, logger)
	progressionService := services.NewProgressionService(recordRepo, documentRepo, employeeRepo, fileStore, auditService, notificationService, logger)
	documentService := services.NewDocumentService(documentRepo, recordRepo, userRepo, skillRepo, fileStore, progressionService, auditService, logger)
	employeeService := services.NewEmployeeService(employeeRepo, seedingService, auditService, notificationService, logger)
	skillService := services.NewSkillService(skillRepo, catalogRepo, seedingService, auditService, notificationService, logger)
	catalogService := services.NewCatalogService(catalogRepo, auditService, logger)
	authService := auth.NewService(userRepo, redisClient, cfg.Auth.SigningKey, cfg.Auth.TokenTTL, logger)
	authMiddleware := auth.NewMiddleware(authService, cfg.Auth.EnableVerification, logger)

	mux := http.NewServeMux()
	maxUpload := cfg.Uploads.MaxFileSizeBytes()

	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(authService, auditService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewEmployeesHandler(employeeService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewSkillsHandler(skillService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewCatalogHandler(catalogService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewEmployeeSkillsHandler(progressionService, maxUpload, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewSkillDocumentsHandler(documentService, maxUpload, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewLogsHandler(auditService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewNotificationsHandler(notificationService, logger).RegisterRoutes(mux, authMiddleware)

	handler := middleware.RequestLogger(logger)(mux)

	addr := net.JoinHostPort(cfg.BindAddr, cfg.Port)
	logger.Info("Starting skilltrack", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
