package scope

import (
  "gorm.io/gorm"

  "github.com/stockyard-org/stockyard-backend/internal/logger"
  "github.com/stockyard-org/stockyard-backend/internal/requestdata"
  "github.com/stockyard-org/stockyard-backend/internal/types"
)

// Resolver builds the per-caller visibility predicate for each entity kind.
// The same query shape backs list endpoints and point lookups, so a direct
// reference to an out-of-scope row fails exactly like a nonexistent one.
//
// Rules:
//   - staff callers see every row that is active at its own level
//   - non-staff callers see only rows in their own ownership chain, with
//     every level of the chain (own row and all ancestors) active
//   - a caller that is itself inactive resolves to the empty set
type Resolver struct {
  log *logger.Logger
}

func NewResolver(baseLog *logger.Logger) *Resolver {
  return &Resolver{log: baseLog.With("component", "ScopeResolver")}
}

// Clients returns a query over the client rows visible to the caller.
func (r *Resolver) Clients(tx *gorm.DB, rd *requestdata.RequestData) *gorm.DB {
  query := tx.Model(&types.Client{}).
    Preload("User").
    Preload("Warehouses", "is_active = ?", true)
  if rd == nil || !rd.IsActive {
    r.log.Debug("Caller missing or inactive, resolving client scope to empty set")
    return query.Where("1 = 0")
  }
  query = query.
    Joins(`JOIN "user" ON "user".id = client.user_id`).
    Where("client.is_active = ?", true).
    Where(`"user".is_active = ?`, true)
  if rd.Admin() {
    return query
  }
  return query.Where("client.user_id = ?", rd.UserID)
}

// Warehouses returns a query over the warehouse rows visible to the caller.
func (r *Resolver) Warehouses(tx *gorm.DB, rd *requestdata.RequestData) *gorm.DB {
  query := tx.Model(&types.Warehouse{}).
    Preload("Records", "is_active = ?", true)
  if rd == nil || !rd.IsActive {
    r.log.Debug("Caller missing or inactive, resolving warehouse scope to empty set")
    return query.Where("1 = 0")
  }
  query = query.Where("warehouse.is_active = ?", true)
  if rd.Admin() {
    return query
  }
  return query.
    Joins(`JOIN client ON client.user_id = warehouse.client_id`).
    Joins(`JOIN "user" ON "user".id = client.user_id`).
    Where("client.is_active = ?", true).
    Where(`"user".is_active = ?`, true).
    Where("client.user_id = ?", rd.UserID)
}

// Records returns a query over the record rows visible to the caller.
func (r *Resolver) Records(tx *gorm.DB, rd *requestdata.RequestData) *gorm.DB {
  query := tx.Model(&types.Record{})
  if rd == nil || !rd.IsActive {
    r.log.Debug("Caller missing or inactive, resolving record scope to empty set")
    return query.Where("1 = 0")
  }
  query = query.Where("record.is_active = ?", true)
  if rd.Admin() {
    return query
  }
  return query.
    Joins("JOIN warehouse ON warehouse.id = record.warehouse_id").
    Joins("JOIN client ON client.user_id = warehouse.client_id").
    Joins(`JOIN "user" ON "user".id = client.user_id`).
    Where("warehouse.is_active = ?", true).
    Where("client.is_active = ?", true).
    Where(`"user".is_active = ?`, true).
    Where("client.user_id = ?", rd.UserID)
}
