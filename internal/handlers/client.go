package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/stockyard-org/stockyard-backend/internal/services"
)

type ClientHandler struct {
  clientService services.ClientService
}

func NewClientHandler(clientService services.ClientService) *ClientHandler {
  return &ClientHandler{clientService: clientService}
}

// parsePathID rejects malformed identifiers before any lookup happens. A
// well-formed UUID that matches nothing is a 404 from the service instead.
func parsePathID(c *gin.Context) (uuid.UUID, bool) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id", "field": "id"})
    return uuid.Nil, false
  }
  return id, true
}

func (ch *ClientHandler) ListClients(c *gin.Context) {
  clients, err := ch.clientService.ListClients(c.Request.Context())
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"clients": clients})
}

func (ch *ClientHandler) GetClient(c *gin.Context) {
  clientID, ok := parsePathID(c)
  if !ok {
    return
  }
  client, err := ch.clientService.GetClient(c.Request.Context(), clientID)
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"client": client})
}

func (ch *ClientHandler) UpdateClient(c *gin.Context) {
  clientID, ok := parsePathID(c)
  if !ok {
    return
  }
  var req struct {
    Username *string `json:"username,omitempty"`
    Password *string `json:"password,omitempty"`
    Active   *bool   `json:"is_active,omitempty"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  client, err := ch.clientService.UpdateClient(c.Request.Context(), clientID, services.ClientPatch{
    Username: req.Username,
    Password: req.Password,
    Active:   req.Active,
  })
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{
    "success": true,
    "client":  client,
  })
}

func (ch *ClientHandler) DeleteClient(c *gin.Context) {
  clientID, ok := parsePathID(c)
  if !ok {
    return
  }
  if err := ch.clientService.DeactivateClient(c.Request.Context(), clientID); err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "client deactivated successfully"})
}
