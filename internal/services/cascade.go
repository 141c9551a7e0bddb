package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/stockyard-org/stockyard-backend/internal/logger"
  "github.com/stockyard-org/stockyard-backend/internal/repos"
)

// EntityKind selects the cascade path.
type EntityKind string

const (
  KindClient    EntityKind = "client"
  KindWarehouse EntityKind = "warehouse"
  KindRecord    EntityKind = "record"
)

// CascadeService deactivates an entity and every descendant under it in one
// transaction. Flag flips are unconditional bulk updates, so re-running a
// cascade over already-inactive descendants is a silent no-op. Reactivation
// is deliberately not cascaded: flipping a parent back on leaves descendants
// inactive until each is reactivated on its own.
type CascadeService interface {
  Deactivate(ctx context.Context, kind EntityKind, id uuid.UUID) error
  DeactivateWithTransaction(ctx context.Context, tx *gorm.DB, kind EntityKind, id uuid.UUID) error
}

type cascadeService struct {
  db            *gorm.DB
  log           *logger.Logger
  clientRepo    repos.ClientRepo
  warehouseRepo repos.WarehouseRepo
  recordRepo    repos.RecordRepo
}

func NewCascadeService(
  db *gorm.DB,
  log *logger.Logger,
  clientRepo repos.ClientRepo,
  warehouseRepo repos.WarehouseRepo,
  recordRepo repos.RecordRepo,
) CascadeService {
  serviceLog := log.With("service", "CascadeService")
  return &cascadeService{
    db:            db,
    log:           serviceLog,
    clientRepo:    clientRepo,
    warehouseRepo: warehouseRepo,
    recordRepo:    recordRepo,
  }
}

func (cs *cascadeService) Deactivate(ctx context.Context, kind EntityKind, id uuid.UUID) error {
  return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    return cs.DeactivateWithTransaction(ctx, tx, kind, id)
  })
}

func (cs *cascadeService) DeactivateWithTransaction(ctx context.Context, tx *gorm.DB, kind EntityKind, id uuid.UUID) error {
  if tx == nil {
    cs.log.Warn("DeactivateWithTransaction called with nil transaction")
    return fmt.Errorf("transaction cannot be nil")
  }
  if id == uuid.Nil {
    cs.log.Warn("Deactivate called with nil id")
    return fmt.Errorf("entity id cannot be nil")
  }
  cs.log.Info("Starting cascade deactivation now...", "kind", kind, "id", id)

  switch kind {
  case KindClient:
    return cs.deactivateClient(ctx, tx, id)
  case KindWarehouse:
    return cs.deactivateWarehouse(ctx, tx, id)
  case KindRecord:
    return cs.deactivateRecord(ctx, tx, id)
  default:
    cs.log.Warn("Unknown entity kind for cascade", "kind", kind)
    return fmt.Errorf("unknown entity kind: '%s'", kind)
  }
}

func (cs *cascadeService) deactivateClient(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) error {
  if err := cs.clientRepo.SoftDeleteByUserIDs(ctx, tx, []uuid.UUID{clientID}); err != nil {
    cs.log.Error("Failed to deactivate client", "clientID", clientID, "error", err)
    return fmt.Errorf("failed to deactivate client: %w", err)
  }
  // Descendants are collected regardless of their current flag so a partial
  // earlier cascade is repaired rather than skipped.
  warehouses, err := cs.warehouseRepo.GetByClientIDs(ctx, tx, []uuid.UUID{clientID})
  if err != nil {
    cs.log.Error("Failed to fetch warehouses for client cascade", "clientID", clientID, "error", err)
    return fmt.Errorf("failed to fetch warehouses for cascade: %w", err)
  }
  if err := cs.warehouseRepo.SoftDeleteByClientIDs(ctx, tx, []uuid.UUID{clientID}); err != nil {
    cs.log.Error("Failed to deactivate warehouses for client cascade", "clientID", clientID, "error", err)
    return fmt.Errorf("failed to deactivate warehouses: %w", err)
  }
  var warehouseIDs []uuid.UUID
  for _, warehouse := range warehouses {
    warehouseIDs = append(warehouseIDs, warehouse.ID)
  }
  if err := cs.recordRepo.SoftDeleteByWarehouseIDs(ctx, tx, warehouseIDs); err != nil {
    cs.log.Error("Failed to deactivate records for client cascade", "clientID", clientID, "error", err)
    return fmt.Errorf("failed to deactivate records: %w", err)
  }
  cs.log.Info("Client cascade complete", "clientID", clientID, "warehouses", len(warehouseIDs))
  return nil
}

func (cs *cascadeService) deactivateWarehouse(ctx context.Context, tx *gorm.DB, warehouseID uuid.UUID) error {
  if err := cs.warehouseRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{warehouseID}); err != nil {
    cs.log.Error("Failed to deactivate warehouse", "warehouseID", warehouseID, "error", err)
    return fmt.Errorf("failed to deactivate warehouse: %w", err)
  }
  if err := cs.recordRepo.SoftDeleteByWarehouseIDs(ctx, tx, []uuid.UUID{warehouseID}); err != nil {
    cs.log.Error("Failed to deactivate records for warehouse cascade", "warehouseID", warehouseID, "error", err)
    return fmt.Errorf("failed to deactivate records: %w", err)
  }
  cs.log.Info("Warehouse cascade complete", "warehouseID", warehouseID)
  return nil
}

func (cs *cascadeService) deactivateRecord(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) error {
  if err := cs.recordRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{recordID}); err != nil {
    cs.log.Error("Failed to deactivate record", "recordID", recordID, "error", err)
    return fmt.Errorf("failed to deactivate record: %w", err)
  }
  cs.log.Info("Record deactivation complete", "recordID", recordID)
  return nil
}
