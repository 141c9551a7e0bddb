package utils

import (
  "golang.org/x/crypto/bcrypt"

  "github.com/stockyard-org/stockyard-backend/internal/domainerr"
  "github.com/stockyard-org/stockyard-backend/internal/logger"
  "github.com/stockyard-org/stockyard-backend/internal/normalization"
)

// ValidateCredentials checks the identity/credential pair shared by
// registration and login. Uniqueness is checked separately by the callers
// that need it.
func ValidateCredentials(log *logger.Logger, username, password string) error {
  if normalization.ParseInputString(username) == "" {
    log.Warn("Username is empty, cannot proceed")
    return domainerr.NewValidation("username", "a username is required")
  }
  if password == "" {
    log.Warn("Password is empty, cannot proceed")
    return domainerr.NewValidation("password", "a password is required")
  }
  return nil
}

// HashPassword bcrypt-hashes a plaintext credential. The plaintext is never
// stored or echoed back.
func HashPassword(log *logger.Logger, password string) (string, error) {
  hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
  if err != nil {
    log.Warn("Failure to hash password", "error", err)
    return "", err
  }
  return string(hashed), nil
}

// CheckPassword compares a plaintext credential against its stored hash.
func CheckPassword(hashed, password string) bool {
  return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
