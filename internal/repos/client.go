package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/stockyard-org/stockyard-backend/internal/logger"
  "github.com/stockyard-org/stockyard-backend/internal/types"
)

type ClientRepo interface {
  // CREATE
  Create(ctx context.Context, tx *gorm.DB, clients []*types.Client) ([]*types.Client, error)

  // READ
  GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Client, error)

  // UPDATE
  Update(ctx context.Context, tx *gorm.DB, clients []*types.Client) ([]*types.Client, error)

  // SOFT DELETE
  SoftDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error
}

type clientRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewClientRepo(db *gorm.DB, baseLog *logger.Logger) ClientRepo {
  repoLog := baseLog.With("repo", "ClientRepo")
  return &clientRepo{db: db, log: repoLog}
}

func (cr *clientRepo) Create(ctx context.Context, tx *gorm.DB, clients []*types.Client) ([]*types.Client, error) {
  cr.log.Info("Starting Create Clients now...")

  transaction := tx
  if transaction == nil {
    transaction = cr.db
    cr.log.Debug("Transaction is nil, using cr.db")
  }
  if len(clients) == 0 {
    cr.log.Debug("No clients provided, returning empty slice")
    return []*types.Client{}, nil
  }
  cr.log.Debug("Creating clients in DB", "count", len(clients))
  if err := transaction.WithContext(ctx).Create(&clients).Error; err != nil {
    cr.log.Error("Failed to create clients", "error", err)
    return nil, err
  }
  cr.log.Info("Successfully created clients", "count", len(clients))
  return clients, nil
}

func (cr *clientRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Client, error) {
  cr.log.Info("Starting GetByUserIDs for Clients...")

  transaction := tx
  if transaction == nil {
    transaction = cr.db
    cr.log.Debug("Transaction is nil, using cr.db")
  }
  var results []*types.Client
  if len(userIDs) == 0 {
    cr.log.Debug("No userIDs provided, returning empty slice")
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Preload("User").
    Where("user_id IN ?", userIDs).
    Find(&results).Error; err != nil {
    cr.log.Error("Failed to fetch clients by user IDs", "error", err)
    return nil, err
  }
  cr.log.Info("Successfully fetched clients by user IDs", "count", len(results))
  return results, nil
}

func (cr *clientRepo) Update(ctx context.Context, tx *gorm.DB, clients []*types.Client) ([]*types.Client, error) {
  cr.log.Info("Starting Update Clients now...")

  transaction := tx
  if transaction == nil {
    transaction = cr.db
    cr.log.Debug("Transaction is nil, using cr.db")
  }
  if len(clients) == 0 {
    cr.log.Debug("No clients provided, skipping update")
    return []*types.Client{}, nil
  }
  for _, client := range clients {
    if err := transaction.WithContext(ctx).
      Omit("User", "Warehouses").
      Save(client).Error; err != nil {
      cr.log.Error("Failed to update client", "userID", client.UserID, "error", err)
      return nil, err
    }
  }
  cr.log.Info("Successfully updated clients", "count", len(clients))
  return clients, nil
}

func (cr *clientRepo) SoftDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error {
  cr.log.Info("Starting SoftDeleteByUserIDs for Clients now...")

  transaction := tx
  if transaction == nil {
    transaction = cr.db
    cr.log.Debug("Transaction is nil, using cr.db")
  }
  if len(userIDs) == 0 {
    cr.log.Debug("No userIDs provided, skipping soft delete")
    return nil
  }
  if err := transaction.WithContext(ctx).
    Model(&types.Client{}).
    Where("user_id IN ?", userIDs).
    Update("is_active", false).Error; err != nil {
    cr.log.Error("Failed to soft delete clients by user IDs", "error", err)
    return err
  }
  cr.log.Info("Successfully soft deleted clients by user IDs", "count", len(userIDs))
  return nil
}
