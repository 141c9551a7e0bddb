package types

import (
  "time"

  "github.com/google/uuid"
)

// UserToken is one issued session: the signed access token plus the opaque
// refresh token that can renew it. Revocation deletes the row and
// blacklists the access token for the remainder of its lifetime.
type UserToken struct {
  ID            uuid.UUID   `gorm:"type:uuid;primaryKey"`
  UserID        uuid.UUID   `gorm:"type:uuid;index;not null;column:user_id"`
  User          *User       `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID"`

  AccessToken   string      `gorm:"uniqueIndex;not null;column:access_token"`
  RefreshToken  string      `gorm:"uniqueIndex;not null;column:refresh_token"`
  ExpiresAt     time.Time   `gorm:"column:expires_at"`

  CreatedAt     time.Time
  UpdatedAt     time.Time
}

func (UserToken) TableName() string {
  return "user_token"
}
