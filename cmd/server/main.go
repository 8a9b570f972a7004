package main

import (
	"fmt"
	"os"

	"github.com/pivotpoint/backend-go/internal/api"
	"github.com/pivotpoint/backend-go/internal/config"
	"github.com/pivotpoint/backend-go/internal/database"
	"github.com/pivotpoint/backend-go/internal/database/repository"
	"github.com/pivotpoint/backend-go/internal/database/schema"
	"github.com/pivotpoint/backend-go/internal/database/service"
	"github.com/pivotpoint/backend-go/internal/handler"
	"github.com/pivotpoint/backend-go/internal/logger"
	"github.com/pivotpoint/backend-go/internal/middleware"
)

func main() {
	// 1. Config
	cfg := config.LoadConfig()

	// 2. Logger
	appLogger := logger.New(cfg)

	appLogger.Info("🚀 [PivotPoint] Starting backend...",
		"environment", cfg.AppEnv,
	)

	// 3. Connect to Database (schema is reconciled before this returns)
	db, err := database.ConnectDatabase(cfg, appLogger)
	if err != nil {
		appLogger.Error("❌ Failed to connect to database", "error", err)
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Error("❌ Failed to get underlying sql.DB", "error", err)
		os.Exit(1)
	}

	// 4. Initialize Repositories
	userRepo := repository.NewUserRepository(db)
	decisionRepo := repository.NewDecisionRepository(db)
	itemRepo := repository.NewItemRepository(db)

	// 5. Initialize Services
	authService := service.NewAuthService(userRepo, cfg, appLogger)
	decisionService := service.NewDecisionService(decisionRepo, itemRepo, appLogger)

	// 6. Initialize Handlers & Middleware
	reconciler := schema.NewReconciler(sqlDB, appLogger)
	authHandler := handler.NewAuthHandler(authService, appLogger)
	userHandler := handler.NewUserHandler(authService, appLogger)
	decisionHandler := handler.NewDecisionHandler(decisionService, appLogger)
	healthHandler := handler.NewHealthHandler(sqlDB, reconciler, appLogger)
	authMiddleware := middleware.NewAuthMiddleware(authService, appLogger)

	// 7. Setup Router
	r := api.SetupRouter(authHandler, userHandler, decisionHandler, healthHandler, authMiddleware, cfg.CORSAllowedOrigins)

	// 8. Start HTTP Server
	addr := fmt.Sprintf(":%s", cfg.ApiServicePort)
	appLogger.Info("🌍 [PivotPoint] HTTP Server running...", "port", cfg.ApiServicePort)
	if err := r.Run(addr); err != nil {
		appLogger.Error("❌ HTTP Server failed to start", "error", err)
		os.Exit(1)
	}
}
