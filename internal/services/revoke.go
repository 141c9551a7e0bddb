package services

import (
  "context"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/stockyard-org/stockyard-backend/internal/blacklist"
  "github.com/stockyard-org/stockyard-backend/internal/logger"
  "github.com/stockyard-org/stockyard-backend/internal/repos"
)

// TokenRevocationService stops issued sessions from being honored: the
// user_token rows are deleted and the access tokens go onto the blacklist
// for the remainder of their lifetime. Invoked on logout and as the side
// effect of client deactivation.
type TokenRevocationService interface {
  Revoke(ctx context.Context, tx *gorm.DB, accessToken string) error
  RevokeAllFor(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type tokenRevocationService struct {
  db            *gorm.DB
  log           *logger.Logger
  userTokenRepo repos.UserTokenRepo
  tokenBlacklist blacklist.Blacklist
  accessTTL     time.Duration
}

func NewTokenRevocationService(
  db *gorm.DB,
  log *logger.Logger,
  userTokenRepo repos.UserTokenRepo,
  tokenBlacklist blacklist.Blacklist,
  accessTTL time.Duration,
) TokenRevocationService {
  serviceLog := log.With("service", "TokenRevocationService")
  return &tokenRevocationService{
    db:             db,
    log:            serviceLog,
    userTokenRepo:  userTokenRepo,
    tokenBlacklist: tokenBlacklist,
    accessTTL:      accessTTL,
  }
}

func (trs *tokenRevocationService) Revoke(ctx context.Context, tx *gorm.DB, accessToken string) error {
  trs.log.Info("Starting Revoke for single token now...")
  if accessToken == "" {
    trs.log.Debug("Empty access token, nothing to revoke")
    return nil
  }
  foundTokens, err := trs.userTokenRepo.GetByAccessTokens(ctx, tx, []string{accessToken})
  if err != nil {
    trs.log.Error("Failed to fetch user token for revocation", "error", err)
    return fmt.Errorf("failed to fetch user token for revocation: %w", err)
  }
  if len(foundTokens) > 0 {
    if err := trs.userTokenRepo.FullDeleteByTokens(ctx, tx, foundTokens); err != nil {
      trs.log.Error("Failed to delete user token for revocation", "error", err)
      return fmt.Errorf("failed to delete user token: %w", err)
    }
  }
  if err := trs.tokenBlacklist.Add(ctx, accessToken, trs.accessTTL); err != nil {
    trs.log.Error("Failed to blacklist access token", "error", err)
    return err
  }
  trs.log.Info("Token revoked")
  return nil
}

func (trs *tokenRevocationService) RevokeAllFor(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
  trs.log.Info("Starting RevokeAllFor now...", "userID", userID)
  if userID == uuid.Nil {
    trs.log.Debug("Nil userID, nothing to revoke")
    return nil
  }
  foundTokens, err := trs.userTokenRepo.GetByUserIDs(ctx, tx, []uuid.UUID{userID})
  if err != nil {
    trs.log.Error("Failed to fetch user tokens for revocation", "error", err)
    return fmt.Errorf("failed to fetch user tokens for revocation: %w", err)
  }
  if len(foundTokens) == 0 {
    trs.log.Debug("No sessions for user, nothing to revoke")
    return nil
  }
  if err := trs.userTokenRepo.FullDeleteByUserIDs(ctx, tx, []uuid.UUID{userID}); err != nil {
    trs.log.Error("Failed to delete user tokens for revocation", "error", err)
    return fmt.Errorf("failed to delete user tokens: %w", err)
  }
  for _, token := range foundTokens {
    if err := trs.tokenBlacklist.Add(ctx, token.AccessToken, trs.accessTTL); err != nil {
      trs.log.Error("Failed to blacklist access token", "error", err)
      return err
    }
  }
  trs.log.Info("All sessions revoked for user", "userID", userID, "count", len(foundTokens))
  return nil
}
