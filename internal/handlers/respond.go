package handlers

import (
  "errors"
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/stockyard-org/stockyard-backend/internal/domainerr"
  "github.com/stockyard-org/stockyard-backend/internal/errordata"
)

// respondError maps domain errors onto HTTP statuses. Anything that is not
// one of the caller-visible error kinds becomes a 500, with the best-effort
// message stashed in the context's error data if one was set.
func respondError(c *gin.Context, err error) {
  var ve *domainerr.ValidationError
  switch {
  case errors.As(err, &ve):
    body := gin.H{"error": ve.Error()}
    if ve.Field != "" {
      body["field"] = ve.Field
    }
    c.JSON(http.StatusBadRequest, body)
  case domainerr.IsNotFound(err):
    c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
  case domainerr.IsConflict(err):
    c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
  case domainerr.IsAuthorization(err):
    c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
  default:
    ed := errordata.GetErrorData(c.Request.Context())
    if ed != nil && ed.HasMessage() {
      c.JSON(http.StatusInternalServerError, gin.H{"error": ed.Message})
      return
    }
    c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
  }
}
