package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/stockyard-org/stockyard-backend/internal/logger"
  "github.com/stockyard-org/stockyard-backend/internal/types"
)

type RecordRepo interface {
  // CREATE
  Create(ctx context.Context, tx *gorm.DB, records []*types.Record) ([]*types.Record, error)

  // READ
  GetByIDs(ctx context.Context, tx *gorm.DB, recordIDs []uuid.UUID) ([]*types.Record, error)
  GetByWarehouseIDs(ctx context.Context, tx *gorm.DB, warehouseIDs []uuid.UUID) ([]*types.Record, error)

  // UPDATE
  Update(ctx context.Context, tx *gorm.DB, records []*types.Record) ([]*types.Record, error)

  // SOFT DELETE
  SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, recordIDs []uuid.UUID) error
  SoftDeleteByWarehouseIDs(ctx context.Context, tx *gorm.DB, warehouseIDs []uuid.UUID) error
}

type recordRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewRecordRepo(db *gorm.DB, baseLog *logger.Logger) RecordRepo {
  repoLog := baseLog.With("repo", "RecordRepo")
  return &recordRepo{db: db, log: repoLog}
}

func (rr *recordRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.Record) ([]*types.Record, error) {
  rr.log.Info("Starting Create Records now...")

  transaction := tx
  if transaction == nil {
    transaction = rr.db
    rr.log.Debug("Transaction is nil, using rr.db")
  }
  if len(records) == 0 {
    rr.log.Debug("No records provided, returning empty slice")
    return []*types.Record{}, nil
  }
  rr.log.Debug("Creating records in DB", "count", len(records))
  if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
    rr.log.Error("Failed to create records", "error", err)
    return nil, err
  }
  rr.log.Info("Successfully created records", "count", len(records))
  return records, nil
}

func (rr *recordRepo) GetByIDs(ctx context.Context, tx *gorm.DB, recordIDs []uuid.UUID) ([]*types.Record, error) {
  rr.log.Info("Starting GetByIDs for Records...")

  transaction := tx
  if transaction == nil {
    transaction = rr.db
    rr.log.Debug("Transaction is nil, using rr.db")
  }
  var results []*types.Record
  if len(recordIDs) == 0 {
    rr.log.Debug("No recordIDs provided, returning empty slice")
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", recordIDs).
    Find(&results).Error; err != nil {
    rr.log.Error("Failed to fetch records by IDs", "error", err)
    return nil, err
  }
  rr.log.Info("Successfully fetched records by IDs", "count", len(results))
  return results, nil
}

func (rr *recordRepo) GetByWarehouseIDs(ctx context.Context, tx *gorm.DB, warehouseIDs []uuid.UUID) ([]*types.Record, error) {
  rr.log.Info("Starting GetByWarehouseIDs for Records...")

  transaction := tx
  if transaction == nil {
    transaction = rr.db
    rr.log.Debug("Transaction is nil, using rr.db")
  }
  var results []*types.Record
  if len(warehouseIDs) == 0 {
    rr.log.Debug("No warehouseIDs provided, returning empty slice")
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("warehouse_id IN ?", warehouseIDs).
    Find(&results).Error; err != nil {
    rr.log.Error("Failed to fetch records by warehouse IDs", "error", err)
    return nil, err
  }
  rr.log.Info("Successfully fetched records by warehouse IDs", "count", len(results))
  return results, nil
}

func (rr *recordRepo) Update(ctx context.Context, tx *gorm.DB, records []*types.Record) ([]*types.Record, error) {
  rr.log.Info("Starting Update Records now...")

  transaction := tx
  if transaction == nil {
    transaction = rr.db
    rr.log.Debug("Transaction is nil, using rr.db")
  }
  if len(records) == 0 {
    rr.log.Debug("No records provided, skipping update")
    return []*types.Record{}, nil
  }
  for _, record := range records {
    if err := transaction.WithContext(ctx).
      Omit("Warehouse").
      Save(record).Error; err != nil {
      rr.log.Error("Failed to update record", "recordID", record.ID, "error", err)
      return nil, err
    }
  }
  rr.log.Info("Successfully updated records", "count", len(records))
  return records, nil
}

func (rr *recordRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, recordIDs []uuid.UUID) error {
  rr.log.Info("Starting SoftDeleteByIDs for Records now...")

  transaction := tx
  if transaction == nil {
    transaction = rr.db
    rr.log.Debug("Transaction is nil, using rr.db")
  }
  if len(recordIDs) == 0 {
    rr.log.Debug("No recordIDs provided, skipping soft delete")
    return nil
  }
  if err := transaction.WithContext(ctx).
    Model(&types.Record{}).
    Where("id IN ?", recordIDs).
    Update("is_active", false).Error; err != nil {
    rr.log.Error("Failed to soft delete records by IDs", "error", err)
    return err
  }
  rr.log.Info("Successfully soft deleted records by IDs", "count", len(recordIDs))
  return nil
}

func (rr *recordRepo) SoftDeleteByWarehouseIDs(ctx context.Context, tx *gorm.DB, warehouseIDs []uuid.UUID) error {
  rr.log.Info("Starting SoftDeleteByWarehouseIDs for Records now...")

  transaction := tx
  if transaction == nil {
    transaction = rr.db
    rr.log.Debug("Transaction is nil, using rr.db")
  }
  if len(warehouseIDs) == 0 {
    rr.log.Debug("No warehouseIDs provided, skipping soft delete")
    return nil
  }
  if err := transaction.WithContext(ctx).
    Model(&types.Record{}).
    Where("warehouse_id IN ?", warehouseIDs).
    Update("is_active", false).Error; err != nil {
    rr.log.Error("Failed to soft delete records by warehouse IDs", "error", err)
    return err
  }
  rr.log.Info("Successfully soft deleted records by warehouse IDs", "count", len(warehouseIDs))
  return nil
}
