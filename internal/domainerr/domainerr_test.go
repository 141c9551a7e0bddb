package domainerr_test

import (
  "errors"
  "fmt"
  "testing"

  "github.com/stretchr/testify/assert"

  "github.com/stockyard-org/stockyard-backend/internal/domainerr"
)

func TestErrorKindsAreDistinct(t *testing.T) {
  validation := domainerr.NewValidation("name", "a name is required")
  notFound := domainerr.NewNotFound("warehouse")
  conflict := domainerr.NewConflict("the warehouse is already inactive")
  authorization := domainerr.NewAuthorization("insufficient permissions")

  assert.True(t, domainerr.IsValidation(validation))
  assert.False(t, domainerr.IsValidation(notFound))
  assert.True(t, domainerr.IsNotFound(notFound))
  assert.True(t, domainerr.IsConflict(conflict))
  assert.True(t, domainerr.IsAuthorization(authorization))
  assert.False(t, domainerr.IsNotFound(errors.New("plain")))
}

func TestKindSurvivesWrapping(t *testing.T) {
  wrapped := fmt.Errorf("updating warehouse: %w", domainerr.NewNotFound("warehouse"))
  assert.True(t, domainerr.IsNotFound(wrapped))

  var nf *domainerr.NotFoundError
  assert.True(t, errors.As(wrapped, &nf))
  assert.Equal(t, "warehouse", nf.Resource)
}

func TestMessages(t *testing.T) {
  assert.Equal(t, "warehouse not found", domainerr.NewNotFound("warehouse").Error())
  assert.Equal(t, "name: a name is required", domainerr.NewValidation("name", "a name is required").Error())
  assert.Equal(t, "a name is required", domainerr.NewValidation("", "a name is required").Error())
}
