package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/stockyard-org/stockyard-backend/internal/logger"
  "github.com/stockyard-org/stockyard-backend/internal/types"
)

type WarehouseRepo interface {
  // CREATE
  Create(ctx context.Context, tx *gorm.DB, warehouses []*types.Warehouse) ([]*types.Warehouse, error)

  // READ
  GetByIDs(ctx context.Context, tx *gorm.DB, warehouseIDs []uuid.UUID) ([]*types.Warehouse, error)
  GetByClientIDs(ctx context.Context, tx *gorm.DB, clientIDs []uuid.UUID) ([]*types.Warehouse, error)

  // UPDATE
  Update(ctx context.Context, tx *gorm.DB, warehouses []*types.Warehouse) ([]*types.Warehouse, error)

  // SOFT DELETE
  SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, warehouseIDs []uuid.UUID) error
  SoftDeleteByClientIDs(ctx context.Context, tx *gorm.DB, clientIDs []uuid.UUID) error
}

type warehouseRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewWarehouseRepo(db *gorm.DB, baseLog *logger.Logger) WarehouseRepo {
  repoLog := baseLog.With("repo", "WarehouseRepo")
  return &warehouseRepo{db: db, log: repoLog}
}

func (wr *warehouseRepo) Create(ctx context.Context, tx *gorm.DB, warehouses []*types.Warehouse) ([]*types.Warehouse, error) {
  wr.log.Info("Starting Create Warehouses now...")

  transaction := tx
  if transaction == nil {
    transaction = wr.db
    wr.log.Debug("Transaction is nil, using wr.db")
  }
  if len(warehouses) == 0 {
    wr.log.Debug("No warehouses provided, returning empty slice")
    return []*types.Warehouse{}, nil
  }
  wr.log.Debug("Creating warehouses in DB", "count", len(warehouses))
  if err := transaction.WithContext(ctx).Create(&warehouses).Error; err != nil {
    wr.log.Error("Failed to create warehouses", "error", err)
    return nil, err
  }
  wr.log.Info("Successfully created warehouses", "count", len(warehouses))
  return warehouses, nil
}

func (wr *warehouseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, warehouseIDs []uuid.UUID) ([]*types.Warehouse, error) {
  wr.log.Info("Starting GetByIDs for Warehouses...")

  transaction := tx
  if transaction == nil {
    transaction = wr.db
    wr.log.Debug("Transaction is nil, using wr.db")
  }
  var results []*types.Warehouse
  if len(warehouseIDs) == 0 {
    wr.log.Debug("No warehouseIDs provided, returning empty slice")
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", warehouseIDs).
    Find(&results).Error; err != nil {
    wr.log.Error("Failed to fetch warehouses by IDs", "error", err)
    return nil, err
  }
  wr.log.Info("Successfully fetched warehouses by IDs", "count", len(results))
  return results, nil
}

// GetByClientIDs returns every warehouse owned by the given clients,
// active or not. The cascade engine needs the full descendant set.
func (wr *warehouseRepo) GetByClientIDs(ctx context.Context, tx *gorm.DB, clientIDs []uuid.UUID) ([]*types.Warehouse, error) {
  wr.log.Info("Starting GetByClientIDs for Warehouses...")

  transaction := tx
  if transaction == nil {
    transaction = wr.db
    wr.log.Debug("Transaction is nil, using wr.db")
  }
  var results []*types.Warehouse
  if len(clientIDs) == 0 {
    wr.log.Debug("No clientIDs provided, returning empty slice")
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("client_id IN ?", clientIDs).
    Find(&results).Error; err != nil {
    wr.log.Error("Failed to fetch warehouses by client IDs", "error", err)
    return nil, err
  }
  wr.log.Info("Successfully fetched warehouses by client IDs", "count", len(results))
  return results, nil
}

func (wr *warehouseRepo) Update(ctx context.Context, tx *gorm.DB, warehouses []*types.Warehouse) ([]*types.Warehouse, error) {
  wr.log.Info("Starting Update Warehouses now...")

  transaction := tx
  if transaction == nil {
    transaction = wr.db
    wr.log.Debug("Transaction is nil, using wr.db")
  }
  if len(warehouses) == 0 {
    wr.log.Debug("No warehouses provided, skipping update")
    return []*types.Warehouse{}, nil
  }
  for _, warehouse := range warehouses {
    if err := transaction.WithContext(ctx).
      Omit("Client", "Records").
      Save(warehouse).Error; err != nil {
      wr.log.Error("Failed to update warehouse", "warehouseID", warehouse.ID, "error", err)
      return nil, err
    }
  }
  wr.log.Info("Successfully updated warehouses", "count", len(warehouses))
  return warehouses, nil
}

func (wr *warehouseRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, warehouseIDs []uuid.UUID) error {
  wr.log.Info("Starting SoftDeleteByIDs for Warehouses now...")

  transaction := tx
  if transaction == nil {
    transaction = wr.db
    wr.log.Debug("Transaction is nil, using wr.db")
  }
  if len(warehouseIDs) == 0 {
    wr.log.Debug("No warehouseIDs provided, skipping soft delete")
    return nil
  }
  if err := transaction.WithContext(ctx).
    Model(&types.Warehouse{}).
    Where("id IN ?", warehouseIDs).
    Update("is_active", false).Error; err != nil {
    wr.log.Error("Failed to soft delete warehouses by IDs", "error", err)
    return err
  }
  wr.log.Info("Successfully soft deleted warehouses by IDs", "count", len(warehouseIDs))
  return nil
}

func (wr *warehouseRepo) SoftDeleteByClientIDs(ctx context.Context, tx *gorm.DB, clientIDs []uuid.UUID) error {
  wr.log.Info("Starting SoftDeleteByClientIDs for Warehouses now...")

  transaction := tx
  if transaction == nil {
    transaction = wr.db
    wr.log.Debug("Transaction is nil, using wr.db")
  }
  if len(clientIDs) == 0 {
    wr.log.Debug("No clientIDs provided, skipping soft delete")
    return nil
  }
  if err := transaction.WithContext(ctx).
    Model(&types.Warehouse{}).
    Where("client_id IN ?", clientIDs).
    Update("is_active", false).Error; err != nil {
    wr.log.Error("Failed to soft delete warehouses by client IDs", "error", err)
    return err
  }
  wr.log.Info("Successfully soft deleted warehouses by client IDs", "count", len(clientIDs))
  return nil
}
