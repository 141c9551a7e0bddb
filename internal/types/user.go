package types

import (
  "time"

  "github.com/google/uuid"
)

// User is the authentication principal backing a Client. It is never
// hard-deleted; deactivation flips IsActive.
type User struct {
  ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  Username      string      `gorm:"uniqueIndex;not null;column:username" json:"username"`
  Password      string      `gorm:"not null;column:password" json:"-"`
  IsSuperuser   bool        `gorm:"not null;default:false;column:is_superuser" json:"isSuperuser"`
  IsStaff       bool        `gorm:"not null;default:false;column:is_staff" json:"isStaff"`
  IsActive      bool        `gorm:"not null;default:true;column:is_active" json:"isActive"`

  CreatedAt     time.Time   `json:"createdAt"`
  UpdatedAt     time.Time   `json:"updatedAt"`
}

func (User) TableName() string {
  return "user"
}
