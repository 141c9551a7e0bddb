package domainerr

import (
  "errors"
  "fmt"
)

// The four caller-visible error kinds. Every domain operation resolves its
// failures into one of these before returning; anything else is treated as
// an internal error at the HTTP boundary.
//
// NotFound deliberately covers both "does not exist" and "outside the
// caller's scope" so a reference probe cannot leak existence.

type ValidationError struct {
  Field   string
  Message string
}

func (e *ValidationError) Error() string {
  if e.Field == "" {
    return e.Message
  }
  return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidation(field, message string) error {
  return &ValidationError{Field: field, Message: message}
}

type NotFoundError struct {
  Resource string
}

func (e *NotFoundError) Error() string {
  return fmt.Sprintf("%s not found", e.Resource)
}

func NewNotFound(resource string) error {
  return &NotFoundError{Resource: resource}
}

type ConflictError struct {
  Message string
}

func (e *ConflictError) Error() string {
  return e.Message
}

func NewConflict(message string) error {
  return &ConflictError{Message: message}
}

type AuthorizationError struct {
  Message string
}

func (e *AuthorizationError) Error() string {
  return e.Message
}

func NewAuthorization(message string) error {
  return &AuthorizationError{Message: message}
}

func IsValidation(err error) bool {
  var ve *ValidationError
  return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
  var nf *NotFoundError
  return errors.As(err, &nf)
}

func IsConflict(err error) bool {
  var ce *ConflictError
  return errors.As(err, &ce)
}

func IsAuthorization(err error) bool {
  var ae *AuthorizationError
  return errors.As(err, &ae)
}
