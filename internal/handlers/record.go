package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "gorm.io/datatypes"

  "github.com/stockyard-org/stockyard-backend/internal/services"
)

type RecordHandler struct {
  recordService services.RecordService
}

func NewRecordHandler(recordService services.RecordService) *RecordHandler {
  return &RecordHandler{recordService: recordService}
}

func (rh *RecordHandler) CreateRecord(c *gin.Context) {
  var req struct {
    WarehouseID string         `json:"warehouse_id"`
    RecordType  string         `json:"record_type"`
    Quantity    int            `json:"quantity"`
    Metadata    datatypes.JSON `json:"metadata,omitempty"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  warehouseUUID, parseErr := uuid.Parse(req.WarehouseID)
  if parseErr != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid warehouse_id UUID", "field": "warehouse_id"})
    return
  }
  record, err := rh.recordService.CreateRecord(c.Request.Context(), warehouseUUID, req.RecordType, req.Quantity, req.Metadata)
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusCreated, gin.H{
    "success": true,
    "record":  record,
  })
}

func (rh *RecordHandler) ListRecords(c *gin.Context) {
  records, err := rh.recordService.ListRecords(c.Request.Context())
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"records": records})
}

func (rh *RecordHandler) GetRecord(c *gin.Context) {
  recordID, ok := parsePathID(c)
  if !ok {
    return
  }
  record, err := rh.recordService.GetRecord(c.Request.Context(), recordID)
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"record": record})
}

func (rh *RecordHandler) UpdateRecord(c *gin.Context) {
  recordID, ok := parsePathID(c)
  if !ok {
    return
  }
  var req struct {
    RecordType *string        `json:"record_type,omitempty"`
    Quantity   *int           `json:"quantity,omitempty"`
    Metadata   datatypes.JSON `json:"metadata,omitempty"`
    Active     *bool          `json:"is_active,omitempty"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  record, err := rh.recordService.UpdateRecord(c.Request.Context(), recordID, services.RecordPatch{
    RecordType: req.RecordType,
    Quantity:   req.Quantity,
    Metadata:   req.Metadata,
    Active:     req.Active,
  })
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{
    "success": true,
    "record":  record,
  })
}

func (rh *RecordHandler) DeleteRecord(c *gin.Context) {
  recordID, ok := parsePathID(c)
  if !ok {
    return
  }
  if err := rh.recordService.DeactivateRecord(c.Request.Context(), recordID); err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "record deactivated successfully"})
}
