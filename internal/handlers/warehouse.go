package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/stockyard-org/stockyard-backend/internal/services"
)

type WarehouseHandler struct {
  warehouseService services.WarehouseService
}

func NewWarehouseHandler(warehouseService services.WarehouseService) *WarehouseHandler {
  return &WarehouseHandler{warehouseService: warehouseService}
}

func (wh *WarehouseHandler) CreateWarehouse(c *gin.Context) {
  var req struct {
    Name     string `json:"name"`
    Address  string `json:"address"`
    ClientID string `json:"client_id"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  clientUUID, parseErr := uuid.Parse(req.ClientID)
  if parseErr != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id UUID", "field": "client_id"})
    return
  }
  warehouse, err := wh.warehouseService.CreateWarehouse(c.Request.Context(), clientUUID, req.Name, req.Address)
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusCreated, gin.H{
    "success":   true,
    "warehouse": warehouse,
  })
}

func (wh *WarehouseHandler) ListWarehouses(c *gin.Context) {
  warehouses, err := wh.warehouseService.ListWarehouses(c.Request.Context())
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"warehouses": warehouses})
}

func (wh *WarehouseHandler) GetWarehouse(c *gin.Context) {
  warehouseID, ok := parsePathID(c)
  if !ok {
    return
  }
  warehouse, err := wh.warehouseService.GetWarehouse(c.Request.Context(), warehouseID)
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"warehouse": warehouse})
}

func (wh *WarehouseHandler) UpdateWarehouse(c *gin.Context) {
  warehouseID, ok := parsePathID(c)
  if !ok {
    return
  }
  var req struct {
    Name     *string `json:"name,omitempty"`
    Address  *string `json:"address,omitempty"`
    ClientID *string `json:"client_id,omitempty"`
    Active   *bool   `json:"is_active,omitempty"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  patch := services.WarehousePatch{
    Name:    req.Name,
    Address: req.Address,
    Active:  req.Active,
  }
  if req.ClientID != nil {
    clientUUID, parseErr := uuid.Parse(*req.ClientID)
    if parseErr != nil {
      c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id UUID", "field": "client_id"})
      return
    }
    patch.ClientID = &clientUUID
  }
  warehouse, err := wh.warehouseService.UpdateWarehouse(c.Request.Context(), warehouseID, patch)
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{
    "success":   true,
    "warehouse": warehouse,
  })
}

func (wh *WarehouseHandler) DeleteWarehouse(c *gin.Context) {
  warehouseID, ok := parsePathID(c)
  if !ok {
    return
  }
  if err := wh.warehouseService.DeactivateWarehouse(c.Request.Context(), warehouseID); err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "warehouse deactivated successfully"})
}
