package types

import (
  "time"

  "github.com/google/uuid"
)

type Warehouse struct {
  ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  Name          string      `gorm:"not null;column:name" json:"name"`
  Address       string      `gorm:"not null;column:address" json:"address"`
  ClientID      uuid.UUID   `gorm:"type:uuid;index;not null;column:client_id" json:"clientID"`
  Client        *Client     `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClientID;references:UserID" json:"-"`
  Records       []*Record   `gorm:"foreignKey:WarehouseID" json:"records,omitempty"`
  IsActive      bool        `gorm:"not null;default:true;column:is_active" json:"isActive"`

  CreatedAt     time.Time   `json:"createdAt"`
  UpdatedAt     time.Time   `json:"updatedAt"`
}

func (Warehouse) TableName() string {
  return "warehouse"
}
