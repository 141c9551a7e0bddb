package middleware

import (
  "errors"
  "net/http"
  "strings"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/stockyard-org/stockyard-backend/internal/errordata"
  "github.com/stockyard-org/stockyard-backend/internal/logger"
  "github.com/stockyard-org/stockyard-backend/internal/requestdata"
  "github.com/stockyard-org/stockyard-backend/internal/services"
)

type AuthMiddleware struct {
  log         *logger.Logger
  authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
  middlewareLogger := log.With("Middleware", "AuthMiddleware")
  return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
  return func(c *gin.Context) {
    tokenString := extractTokenFromAll(c)
    if tokenString == "" {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
      return
    }
    ctx := errordata.WithErrorData(c.Request.Context())
    ctx, err := am.authService.SetContextFromToken(ctx, tokenString)
    if err != nil {
      if errors.Is(err, services.ErrAccountInactive) {
        c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
        return
      }
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
      return
    }
    c.Request = c.Request.WithContext(ctx)
    rd := requestdata.GetRequestData(ctx)
    if rd == nil || rd.UserID == uuid.Nil {
      c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden - invalid user id"})
      return
    }
    if !rd.IsActive {
      c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "this account is inactive"})
      return
    }
    c.Next()
  }
}

// RequireStaff layers on top of RequireAuth; routes use both in order.
func (am *AuthMiddleware) RequireStaff() gin.HandlerFunc {
  return func(c *gin.Context) {
    rd := requestdata.GetRequestData(c.Request.Context())
    if rd == nil {
      c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "request data missing"})
      return
    }
    if !rd.Admin() {
      am.log.Warn("Non-admin caller hit a staff route", "userID", rd.UserID)
      c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
      return
    }
    c.Next()
  }
}

func extractTokenFromAll(c *gin.Context) string {
  if qToken := c.Query("token"); qToken != "" {
    return qToken
  }
  authHeader := c.GetHeader("Authorization")
  if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
    return authHeader[7:]
  }
  return ""
}
