package main

import (
  "context"
  "fmt"
  "os"
  "time"

  "github.com/stockyard-org/stockyard-backend/internal/blacklist"
  "github.com/stockyard-org/stockyard-backend/internal/db"
  "github.com/stockyard-org/stockyard-backend/internal/handlers"
  "github.com/stockyard-org/stockyard-backend/internal/logger"
  "github.com/stockyard-org/stockyard-backend/internal/middleware"
  "github.com/stockyard-org/stockyard-backend/internal/repos"
  "github.com/stockyard-org/stockyard-backend/internal/scope"
  "github.com/stockyard-org/stockyard-backend/internal/server"
  "github.com/stockyard-org/stockyard-backend/internal/services"
  "github.com/stockyard-org/stockyard-backend/internal/utils"
)

func main() {
  // Logger Setup
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Environment Variables
  log.Info("Attempting to load environment variables for Main now...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
  redisAddress := utils.GetEnv("REDIS_ADDRESS", "", log)
  redisPassword := utils.GetEnv("REDIS_PASSWORD", "", log)
  adminUsername := utils.GetEnv("ADMIN_USERNAME", "", log)
  adminPassword := utils.GetEnv("ADMIN_PASSWORD", "", log)
  accessTTL := time.Duration(accessTokenTTL) * time.Second
  refreshTTL := time.Duration(refreshTokenTTL) * time.Second

  // Postgres Setup
  log.Info("Setting Up Postgres from Main now...")
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("DB init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()
  log.Info("Postgres Setup From Main Successful :)")

  // Admin Bootstrap
  if err := postgresService.EnsureAdminUser(context.Background(), adminUsername, adminPassword); err != nil {
    log.Warn("Failed to bootstrap admin user :(", "error", err)
  }

  // Repositories Setup
  log.Info("Setting Up Repositories from Main now...")
  userRepo := repos.NewUserRepo(thePG, log)
  clientRepo := repos.NewClientRepo(thePG, log)
  warehouseRepo := repos.NewWarehouseRepo(thePG, log)
  recordRepo := repos.NewRecordRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  log.Info("Repositories Set Up From Main Successful :)")

  // Blacklist Setup
  log.Info("Setting Up Token Blacklist From Main now...")
  var tokenBlacklist blacklist.Blacklist
  if redisAddress != "" {
    redisBlacklist, rErr := blacklist.NewRedisBlacklist(log, redisAddress, redisPassword)
    if rErr != nil {
      log.Warn("Failed to init redis blacklist, falling back to memory", "error", rErr)
      tokenBlacklist = blacklist.NewMemoryBlacklist()
    } else {
      tokenBlacklist = redisBlacklist
    }
  } else {
    tokenBlacklist = blacklist.NewMemoryBlacklist()
  }
  log.Info("Token Blacklist Set Up From Main Successful :)")

  // Services Setup
  log.Info("Setting up Services from Main now...")
  resolver := scope.NewResolver(log)
  cascadeService := services.NewCascadeService(thePG, log, clientRepo, warehouseRepo, recordRepo)
  revocationService := services.NewTokenRevocationService(thePG, log, userTokenRepo, tokenBlacklist, accessTTL)
  authService := services.NewAuthService(thePG, log, userRepo, clientRepo, userTokenRepo, revocationService, tokenBlacklist, jwtSecretKey, accessTTL, refreshTTL)
  clientService := services.NewClientService(thePG, log, userRepo, clientRepo, resolver, cascadeService, revocationService)
  warehouseService := services.NewWarehouseService(thePG, log, clientRepo, warehouseRepo, resolver, cascadeService)
  recordService := services.NewRecordService(thePG, log, warehouseRepo, recordRepo, resolver, cascadeService)
  log.Info("Services Set Up From Main Successful :)")

  // Handler Setup
  log.Info("Setting Up Handlers from Main now...")
  authHandler := handlers.NewAuthHandler(authService)
  clientHandler := handlers.NewClientHandler(clientService)
  warehouseHandler := handlers.NewWarehouseHandler(warehouseService)
  recordHandler := handlers.NewRecordHandler(recordService)
  log.Info("Handlers Set Up From Main Successful :)")

  // MiddleWare Setup
  log.Info("Setting Up Middleware from Main now...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)
  log.Info("Middleware Set Up From Main Successful :)")

  // Router Setup
  log.Info("Setting Up Router from Main now...")
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:      authHandler,
    AuthMiddleware:   authMiddleware,
    ClientHandler:    clientHandler,
    WarehouseHandler: warehouseHandler,
    RecordHandler:    recordHandler,
  })
  log.Info("Router Set Up From Main Successful :)")

  port := utils.GetEnv("PORT", "8080", log)
  log.Info("Starting Server now...", "port", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server exited with error", "error", err)
    os.Exit(1)
  }
}
