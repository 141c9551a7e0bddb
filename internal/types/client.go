package types

import (
  "time"

  "github.com/google/uuid"
)

// Client is the tenant root of the ownership tree. It shares its identity
// with the backing User (the user's id is the client's primary key) but
// tracks its own activity flag.
type Client struct {
  UserID        uuid.UUID     `gorm:"type:uuid;primaryKey;column:user_id" json:"id"`
  User          *User         `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  Warehouses    []*Warehouse  `gorm:"foreignKey:ClientID" json:"warehouses,omitempty"`
  IsActive      bool          `gorm:"not null;default:true;column:is_active" json:"isActive"`

  CreatedAt     time.Time     `json:"createdAt"`
  UpdatedAt     time.Time     `json:"updatedAt"`
}

func (Client) TableName() string {
  return "client"
}

// ID is the client's external reference, which is the backing user's id.
func (c *Client) ID() uuid.UUID {
  return c.UserID
}

// Username resolves to the backing user's username when preloaded.
func (c *Client) Username() string {
  if c.User == nil {
    return ""
  }
  return c.User.Username
}
