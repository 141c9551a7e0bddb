package services

import (
  "context"
  "errors"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/stockyard-org/stockyard-backend/internal/domainerr"
  "github.com/stockyard-org/stockyard-backend/internal/logger"
  "github.com/stockyard-org/stockyard-backend/internal/normalization"
  "github.com/stockyard-org/stockyard-backend/internal/repos"
  "github.com/stockyard-org/stockyard-backend/internal/requestdata"
  "github.com/stockyard-org/stockyard-backend/internal/scope"
  "github.com/stockyard-org/stockyard-backend/internal/types"
)

// RecordPatch carries the writable record fields. Quantity and RecordType
// are present so callers can send them, but updates leave both untouched:
// a record's movement is fixed at creation time.
type RecordPatch struct {
  RecordType *string
  Quantity   *int
  Metadata   datatypes.JSON
  Active     *bool
}

type RecordService interface {
  CreateRecord(ctx context.Context, warehouseID uuid.UUID, recordType string, quantity int, metadata datatypes.JSON) (*types.Record, error)
  GetRecord(ctx context.Context, recordID uuid.UUID) (*types.Record, error)
  ListRecords(ctx context.Context) ([]*types.Record, error)
  UpdateRecord(ctx context.Context, recordID uuid.UUID, patch RecordPatch) (*types.Record, error)
  DeactivateRecord(ctx context.Context, recordID uuid.UUID) error
}

type recordService struct {
  db            *gorm.DB
  log           *logger.Logger
  warehouseRepo repos.WarehouseRepo
  recordRepo    repos.RecordRepo
  resolver      *scope.Resolver
  cascade       CascadeService
}

func NewRecordService(
  db *gorm.DB,
  log *logger.Logger,
  warehouseRepo repos.WarehouseRepo,
  recordRepo repos.RecordRepo,
  resolver *scope.Resolver,
  cascade CascadeService,
) RecordService {
  serviceLog := log.With("service", "RecordService")
  return &recordService{
    db:            db,
    log:           serviceLog,
    warehouseRepo: warehouseRepo,
    recordRepo:    recordRepo,
    resolver:      resolver,
    cascade:       cascade,
  }
}

func validateRecordType(recordType string) (string, error) {
  recordType = normalization.ParseInputString(recordType)
  if recordType != types.RecordTypeIn && recordType != types.RecordTypeOut {
    return "", domainerr.NewValidation("record_type", "record type must be IN or OUT")
  }
  return recordType, nil
}

func (rs *recordService) CreateRecord(ctx context.Context, warehouseID uuid.UUID, recordType string, quantity int, metadata datatypes.JSON) (*types.Record, error) {
  rs.log.Info("Starting CreateRecord now...", "warehouseID", warehouseID)
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    rs.log.Warn("Request Data is not set in context")
    return nil, domainerr.NewAuthorization("authentication required")
  }
  if !rd.Admin() {
    rs.log.Warn("Non-admin caller attempted record creation", "userID", rd.UserID)
    return nil, domainerr.NewAuthorization("you do not have permission to create a record")
  }
  recordType, err := validateRecordType(recordType)
  if err != nil {
    rs.log.Warn("Record cannot be created because the record type is invalid")
    return nil, err
  }
  if quantity < 0 {
    rs.log.Warn("Record cannot be created because the quantity is negative", "quantity", quantity)
    return nil, domainerr.NewValidation("quantity", "quantity must be zero or greater")
  }

  var theRecord *types.Record
  txErr := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    warehouses, wErr := rs.warehouseRepo.GetByIDs(ctx, tx, []uuid.UUID{warehouseID})
    if wErr != nil {
      rs.log.Warn("Failed to fetch warehouse for record creation", "error", wErr)
      return fmt.Errorf("failed to fetch warehouse: %w", wErr)
    }
    if len(warehouses) == 0 {
      rs.log.Warn("No warehouse with the passed in warehouse ID", "warehouseID", warehouseID)
      return domainerr.NewNotFound("warehouse")
    }
    if !warehouses[0].IsActive {
      rs.log.Warn("Warehouse is inactive, rejecting record creation", "warehouseID", warehouseID)
      return domainerr.NewConflict("the warehouse is inactive")
    }
    record := &types.Record{
      ID:          uuid.New(),
      WarehouseID: warehouseID,
      RecordType:  recordType,
      Quantity:    quantity,
      Metadata:    metadata,
      IsActive:    true,
    }
    created, rErr := rs.recordRepo.Create(ctx, tx, []*types.Record{record})
    if rErr != nil {
      rs.log.Warn("Failed to create record", "error", rErr)
      return fmt.Errorf("failed to create record: %w", rErr)
    }
    theRecord = created[0]
    return nil
  })
  if txErr != nil {
    return nil, txErr
  }
  rs.log.Info("Successfully created record", "recordID", theRecord.ID)
  return theRecord, nil
}

func (rs *recordService) GetRecord(ctx context.Context, recordID uuid.UUID) (*types.Record, error) {
  rs.log.Info("Starting GetRecord now...", "recordID", recordID)
  rd := requestdata.GetRequestData(ctx)
  var record types.Record
  err := rs.resolver.Records(rs.db.WithContext(ctx), rd).
    Where("record.id = ?", recordID).
    First(&record).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      rs.log.Debug("Record not visible to caller", "recordID", recordID)
      return nil, domainerr.NewNotFound("record")
    }
    rs.log.Error("Failed to fetch record", "recordID", recordID, "error", err)
    return nil, fmt.Errorf("failed to fetch record: %w", err)
  }
  return &record, nil
}

func (rs *recordService) ListRecords(ctx context.Context) ([]*types.Record, error) {
  rs.log.Info("Starting ListRecords now...")
  rd := requestdata.GetRequestData(ctx)
  var records []*types.Record
  if err := rs.resolver.Records(rs.db.WithContext(ctx), rd).
    Find(&records).Error; err != nil {
    rs.log.Error("Failed to list records", "error", err)
    return nil, fmt.Errorf("failed to list records: %w", err)
  }
  rs.log.Info("Successfully listed records", "count", len(records))
  return records, nil
}

// UpdateRecord writes metadata and the active flag only. RecordType and
// Quantity values on the patch are dropped without error, matching the
// write-once ledger behavior.
func (rs *recordService) UpdateRecord(ctx context.Context, recordID uuid.UUID, patch RecordPatch) (*types.Record, error) {
  rs.log.Info("Starting UpdateRecord now...", "recordID", recordID)
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    rs.log.Warn("Request Data is not set in context")
    return nil, domainerr.NewAuthorization("authentication required")
  }
  if !rd.Admin() {
    rs.log.Warn("Non-admin caller attempted record update", "userID", rd.UserID)
    return nil, domainerr.NewAuthorization("you do not have permission to update this record")
  }

  var theRecord *types.Record
  err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    records, rErr := rs.recordRepo.GetByIDs(ctx, tx, []uuid.UUID{recordID})
    if rErr != nil {
      rs.log.Warn("Failed to fetch record for update", "error", rErr)
      return fmt.Errorf("failed to fetch record for update: %w", rErr)
    }
    if len(records) == 0 {
      rs.log.Debug("No record with that reference", "recordID", recordID)
      return domainerr.NewNotFound("record")
    }
    record := records[0]

    // The owning warehouse is re-read on every update so a deactivated
    // warehouse freezes its ledger immediately.
    warehouses, wErr := rs.warehouseRepo.GetByIDs(ctx, tx, []uuid.UUID{record.WarehouseID})
    if wErr != nil {
      rs.log.Warn("Failed to fetch owning warehouse", "error", wErr)
      return fmt.Errorf("failed to fetch owning warehouse: %w", wErr)
    }
    if len(warehouses) == 0 || !warehouses[0].IsActive {
      rs.log.Warn("Owning warehouse is inactive, rejecting record update", "warehouseID", record.WarehouseID)
      return domainerr.NewConflict("the warehouse is inactive")
    }

    if patch.Active != nil {
      if !*patch.Active {
        if !record.IsActive {
          rs.log.Warn("Record is already inactive", "recordID", recordID)
          return domainerr.NewConflict("the record is already inactive")
        }
        if dErr := rs.cascade.DeactivateWithTransaction(ctx, tx, KindRecord, recordID); dErr != nil {
          return dErr
        }
        record.IsActive = false
      } else if !record.IsActive {
        record.IsActive = true
        if _, uErr := rs.recordRepo.Update(ctx, tx, []*types.Record{record}); uErr != nil {
          rs.log.Warn("Failed to reactivate record", "error", uErr)
          return fmt.Errorf("failed to reactivate record: %w", uErr)
        }
      }
    }

    if patch.Metadata == nil {
      theRecord = record
      return nil
    }
    if !record.IsActive {
      rs.log.Warn("Record is inactive, rejecting update", "recordID", recordID)
      return domainerr.NewConflict("the record is inactive")
    }
    record.Metadata = patch.Metadata
    updated, uErr := rs.recordRepo.Update(ctx, tx, []*types.Record{record})
    if uErr != nil {
      rs.log.Warn("Failed to update record", "error", uErr)
      return fmt.Errorf("failed to update record: %w", uErr)
    }
    theRecord = updated[0]
    return nil
  })
  if err != nil {
    return nil, err
  }
  rs.log.Info("Successfully updated record", "recordID", recordID)
  return theRecord, nil
}

func (rs *recordService) DeactivateRecord(ctx context.Context, recordID uuid.UUID) error {
  rs.log.Info("Starting DeactivateRecord now...", "recordID", recordID)
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    rs.log.Warn("Request Data is not set in context")
    return domainerr.NewAuthorization("authentication required")
  }
  if !rd.Admin() {
    rs.log.Warn("Non-admin caller attempted record deactivation", "userID", rd.UserID)
    return domainerr.NewAuthorization("you do not have permission to delete this record")
  }
  return rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    records, rErr := rs.recordRepo.GetByIDs(ctx, tx, []uuid.UUID{recordID})
    if rErr != nil {
      rs.log.Warn("Failed to fetch record for deactivation", "error", rErr)
      return fmt.Errorf("failed to fetch record for deactivation: %w", rErr)
    }
    if len(records) == 0 {
      rs.log.Debug("No record with that reference", "recordID", recordID)
      return domainerr.NewNotFound("record")
    }
    if !records[0].IsActive {
      rs.log.Warn("Record is already inactive", "recordID", recordID)
      return domainerr.NewConflict("the record is already inactive")
    }
    return rs.cascade.DeactivateWithTransaction(ctx, tx, KindRecord, recordID)
  })
}
