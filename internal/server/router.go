package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"

  "github.com/stockyard-org/stockyard-backend/internal/handlers"
  "github.com/stockyard-org/stockyard-backend/internal/middleware"
)

type RouterConfig struct {
  AuthHandler      *handlers.AuthHandler
  AuthMiddleware   *middleware.AuthMiddleware
  ClientHandler    *handlers.ClientHandler
  WarehouseHandler *handlers.WarehouseHandler
  RecordHandler    *handlers.RecordHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  //-----------------------------------------
  // Cors Setup
  //-----------------------------------------
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:3000",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  //-----------------------------------------
  // Health Routes
  //-----------------------------------------
  router.GET("/healthz", handlers.Healthz)

  //-----------------------------------------
  // Public Routes
  //-----------------------------------------
  api := router.Group("/api")
  {
    api.POST("/login", cfg.AuthHandler.Login)
  }

  //------------------------------------------
  // Protected Routes
  //------------------------------------------
  protected := api.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  protected.POST("/refresh", cfg.AuthHandler.Refresh)
  protected.POST("/logout", cfg.AuthHandler.Logout)

  //Clients
  protected.GET("/clients", cfg.ClientHandler.ListClients)
  protected.GET("/clients/:id", cfg.ClientHandler.GetClient)

  //Warehouses
  protected.GET("/warehouses", cfg.WarehouseHandler.ListWarehouses)
  protected.GET("/warehouses/:id", cfg.WarehouseHandler.GetWarehouse)

  //Records
  protected.GET("/records", cfg.RecordHandler.ListRecords)
  protected.GET("/records/:id", cfg.RecordHandler.GetRecord)

  //------------------------------------------
  // Staff Routes
  //------------------------------------------
  staff := protected.Group("/")
  staff.Use(cfg.AuthMiddleware.RequireStaff())
  staff.POST("/register", cfg.AuthHandler.Register)

  staff.PATCH("/clients/:id", cfg.ClientHandler.UpdateClient)
  staff.DELETE("/clients/:id", cfg.ClientHandler.DeleteClient)

  staff.POST("/warehouses", cfg.WarehouseHandler.CreateWarehouse)
  staff.PATCH("/warehouses/:id", cfg.WarehouseHandler.UpdateWarehouse)
  staff.DELETE("/warehouses/:id", cfg.WarehouseHandler.DeleteWarehouse)

  staff.POST("/records", cfg.RecordHandler.CreateRecord)
  staff.PATCH("/records/:id", cfg.RecordHandler.UpdateRecord)
  staff.DELETE("/records/:id", cfg.RecordHandler.DeleteRecord)

  return router
}
