package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/stockyard-org/stockyard-backend/internal/logger"
  "github.com/stockyard-org/stockyard-backend/internal/types"
)

type UserRepo interface {
  // CREATE
  Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error)

  // READ
  GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error)
  GetByUsernames(ctx context.Context, tx *gorm.DB, usernames []string) ([]*types.User, error)
  UsernameExists(ctx context.Context, tx *gorm.DB, username string, excludeID uuid.UUID) (bool, error)

  // UPDATE
  Update(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error)

  // SOFT DELETE
  SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error
}

type userRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
  repoLog := baseLog.With("repo", "UserRepo")
  return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
  ur.log.Info("Starting Create Users now...")

  transaction := tx
  if transaction == nil {
    transaction = ur.db
    ur.log.Debug("Transaction is nil, using ur.db")
  }
  if len(users) == 0 {
    ur.log.Debug("No users provided, returning empty slice")
    return []*types.User{}, nil
  }
  ur.log.Debug("Creating users in DB", "count", len(users))
  if err := transaction.WithContext(ctx).Create(&users).Error; err != nil {
    ur.log.Error("Failed to create users", "error", err)
    return nil, err
  }
  ur.log.Info("Successfully created users", "count", len(users))
  return users, nil
}

func (ur *userRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
  ur.log.Info("Starting GetByIDs for Users...")

  transaction := tx
  if transaction == nil {
    transaction = ur.db
    ur.log.Debug("Transaction is nil, using ur.db")
  }
  var results []*types.User
  if len(userIDs) == 0 {
    ur.log.Debug("No userIDs provided, returning empty slice")
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", userIDs).
    Find(&results).Error; err != nil {
    ur.log.Error("Failed to fetch users by IDs", "error", err)
    return nil, err
  }
  ur.log.Info("Successfully fetched users by IDs", "count", len(results))
  return results, nil
}

func (ur *userRepo) GetByUsernames(ctx context.Context, tx *gorm.DB, usernames []string) ([]*types.User, error) {
  ur.log.Info("Starting GetByUsernames for Users...")

  transaction := tx
  if transaction == nil {
    transaction = ur.db
    ur.log.Debug("Transaction is nil, using ur.db")
  }
  var results []*types.User
  if len(usernames) == 0 {
    ur.log.Debug("No usernames provided, returning empty slice")
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("username IN ?", usernames).
    Find(&results).Error; err != nil {
    ur.log.Error("Failed to fetch users by usernames", "error", err)
    return nil, err
  }
  ur.log.Info("Successfully fetched users by usernames", "count", len(results))
  return results, nil
}

// UsernameExists is a case-sensitive exact-match check. excludeID carves the
// user being renamed out of its own uniqueness check.
func (ur *userRepo) UsernameExists(ctx context.Context, tx *gorm.DB, username string, excludeID uuid.UUID) (bool, error) {
  ur.log.Info("Starting UsernameExists now...", "username", username)

  transaction := tx
  if transaction == nil {
    transaction = ur.db
    ur.log.Debug("Transaction is nil, using ur.db")
  }
  var count int64
  query := transaction.WithContext(ctx).
    Model(&types.User{}).
    Where("username = ?", username)
  if excludeID != uuid.Nil {
    query = query.Where("id <> ?", excludeID)
  }
  if err := query.Count(&count).Error; err != nil {
    ur.log.Error("Failed to count users by username", "error", err)
    return false, err
  }
  exists := count > 0
  ur.log.Info("UsernameExists check complete", "username", username, "exists", exists)
  return exists, nil
}

func (ur *userRepo) Update(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
  ur.log.Info("Starting Update Users now...")

  transaction := tx
  if transaction == nil {
    transaction = ur.db
    ur.log.Debug("Transaction is nil, using ur.db")
  }
  if len(users) == 0 {
    ur.log.Debug("No users provided, skipping update")
    return []*types.User{}, nil
  }
  for _, user := range users {
    if err := transaction.WithContext(ctx).Save(user).Error; err != nil {
      ur.log.Error("Failed to update user", "userID", user.ID, "error", err)
      return nil, err
    }
  }
  ur.log.Info("Successfully updated users", "count", len(users))
  return users, nil
}

func (ur *userRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error {
  ur.log.Info("Starting SoftDeleteByIDs for Users now...")

  transaction := tx
  if transaction == nil {
    transaction = ur.db
    ur.log.Debug("Transaction is nil, using ur.db")
  }
  if len(userIDs) == 0 {
    ur.log.Debug("No userIDs provided, skipping soft delete")
    return nil
  }
  if err := transaction.WithContext(ctx).
    Model(&types.User{}).
    Where("id IN ?", userIDs).
    Update("is_active", false).Error; err != nil {
    ur.log.Error("Failed to soft delete users by IDs", "error", err)
    return err
  }
  ur.log.Info("Successfully soft deleted users by IDs", "count", len(userIDs))
  return nil
}
