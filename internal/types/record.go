package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
)

// Record movement types.
const (
  RecordTypeIn  = "IN"
  RecordTypeOut = "OUT"
)

// Record is a stock movement entry. RecordType and Quantity are write-once:
// set at creation and never altered by updates. Metadata and the activity
// flag are the only mutable fields.
type Record struct {
  ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  WarehouseID   uuid.UUID       `gorm:"type:uuid;index;not null;column:warehouse_id" json:"warehouseID"`
  Warehouse     *Warehouse      `gorm:"constraint:OnDelete:CASCADE;foreignKey:WarehouseID;references:ID" json:"-"`
  RecordType    string          `gorm:"not null;column:record_type" json:"recordType"`
  Quantity      int             `gorm:"not null;default:0;column:quantity" json:"quantity"`
  Metadata      datatypes.JSON  `gorm:"column:metadata" json:"metadata,omitempty"`
  IsActive      bool            `gorm:"not null;default:true;column:is_active" json:"isActive"`

  CreatedAt     time.Time       `json:"createdAt"`
  UpdatedAt     time.Time       `json:"updatedAt"`
}

func (Record) TableName() string {
  return "record"
}
