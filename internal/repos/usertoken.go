package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/stockyard-org/stockyard-backend/internal/logger"
  "github.com/stockyard-org/stockyard-backend/internal/types"
)

type UserTokenRepo interface {
  // CREATE
  Create(ctx context.Context, tx *gorm.DB, userTokens []*types.UserToken) ([]*types.UserToken, error)

  // READ
  GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserToken, error)
  GetByAccessTokens(ctx context.Context, tx *gorm.DB, accessTokens []string) ([]*types.UserToken, error)
  GetByRefreshTokens(ctx context.Context, tx *gorm.DB, refreshTokens []string) ([]*types.UserToken, error)

  // FULL (HARD) DELETE
  FullDeleteByTokens(ctx context.Context, tx *gorm.DB, userTokens []*types.UserToken) error
  FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error
}

type userTokenRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
  repoLog := baseLog.With("repo", "UserTokenRepo")
  return &userTokenRepo{db: db, log: repoLog}
}

func (utr *userTokenRepo) Create(ctx context.Context, tx *gorm.DB, userTokens []*types.UserToken) ([]*types.UserToken, error) {
  utr.log.Info("Starting Create UserTokens now...")

  transaction := tx
  if transaction == nil {
    transaction = utr.db
    utr.log.Debug("Transaction is nil, using utr.db")
  }
  if len(userTokens) == 0 {
    utr.log.Debug("No userTokens provided, returning empty slice")
    return []*types.UserToken{}, nil
  }
  utr.log.Debug("Creating userTokens in DB", "count", len(userTokens))
  if err := transaction.WithContext(ctx).Create(&userTokens).Error; err != nil {
    utr.log.Error("Failed to create userTokens", "error", err)
    return nil, err
  }
  utr.log.Info("Successfully created userTokens", "count", len(userTokens))
  return userTokens, nil
}

func (utr *userTokenRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserToken, error) {
  utr.log.Info("Starting GetByUserIDs for UserTokens...")

  transaction := tx
  if transaction == nil {
    transaction = utr.db
    utr.log.Debug("Transaction is nil, using utr.db")
  }
  var results []*types.UserToken
  if len(userIDs) == 0 {
    utr.log.Debug("No userIDs provided, returning empty slice")
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("user_id IN ?", userIDs).
    Find(&results).Error; err != nil {
    utr.log.Error("Failed to fetch userTokens by user IDs", "error", err)
    return nil, err
  }
  utr.log.Info("Successfully fetched userTokens by user IDs", "count", len(results))
  return results, nil
}

func (utr *userTokenRepo) GetByAccessTokens(ctx context.Context, tx *gorm.DB, accessTokens []string) ([]*types.UserToken, error) {
  utr.log.Info("Starting GetByAccessTokens for UserTokens...")

  transaction := tx
  if transaction == nil {
    transaction = utr.db
    utr.log.Debug("Transaction is nil, using utr.db")
  }
  var results []*types.UserToken
  if len(accessTokens) == 0 {
    utr.log.Debug("No accessTokens provided, returning empty slice")
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("access_token IN ?", accessTokens).
    Find(&results).Error; err != nil {
    utr.log.Error("Failed to fetch userTokens by access tokens", "error", err)
    return nil, err
  }
  utr.log.Info("Successfully fetched userTokens by access tokens", "count", len(results))
  return results, nil
}

func (utr *userTokenRepo) GetByRefreshTokens(ctx context.Context, tx *gorm.DB, refreshTokens []string) ([]*types.UserToken, error) {
  utr.log.Info("Starting GetByRefreshTokens for UserTokens...")

  transaction := tx
  if transaction == nil {
    transaction = utr.db
    utr.log.Debug("Transaction is nil, using utr.db")
  }
  var results []*types.UserToken
  if len(refreshTokens) == 0 {
    utr.log.Debug("No refreshTokens provided, returning empty slice")
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("refresh_token IN ?", refreshTokens).
    Find(&results).Error; err != nil {
    utr.log.Error("Failed to fetch userTokens by refresh tokens", "error", err)
    return nil, err
  }
  utr.log.Info("Successfully fetched userTokens by refresh tokens", "count", len(results))
  return results, nil
}

func (utr *userTokenRepo) FullDeleteByTokens(ctx context.Context, tx *gorm.DB, userTokens []*types.UserToken) error {
  utr.log.Info("Starting FullDeleteByTokens for UserTokens now...")

  transaction := tx
  if transaction == nil {
    transaction = utr.db
    utr.log.Debug("Transaction is nil, using utr.db")
  }
  if len(userTokens) == 0 {
    utr.log.Debug("No userTokens provided, skipping delete")
    return nil
  }
  var tokenIDs []uuid.UUID
  for _, token := range userTokens {
    if token != nil {
      tokenIDs = append(tokenIDs, token.ID)
    }
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", tokenIDs).
    Delete(&types.UserToken{}).Error; err != nil {
    utr.log.Error("Failed to delete userTokens", "error", err)
    return err
  }
  utr.log.Info("Successfully deleted userTokens", "count", len(tokenIDs))
  return nil
}

func (utr *userTokenRepo) FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error {
  utr.log.Info("Starting FullDeleteByUserIDs for UserTokens now...")

  transaction := tx
  if transaction == nil {
    transaction = utr.db
    utr.log.Debug("Transaction is nil, using utr.db")
  }
  if len(userIDs) == 0 {
    utr.log.Debug("No userIDs provided, skipping delete")
    return nil
  }
  if err := transaction.WithContext(ctx).
    Where("user_id IN ?", userIDs).
    Delete(&types.UserToken{}).Error; err != nil {
    utr.log.Error("Failed to delete userTokens by user IDs", "error", err)
    return err
  }
  utr.log.Info("Successfully deleted userTokens by user IDs", "count", len(userIDs))
  return nil
}
