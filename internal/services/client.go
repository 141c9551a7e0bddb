package services

import (
  "context"
  "errors"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/stockyard-org/stockyard-backend/internal/domainerr"
  "github.com/stockyard-org/stockyard-backend/internal/logger"
  "github.com/stockyard-org/stockyard-backend/internal/normalization"
  "github.com/stockyard-org/stockyard-backend/internal/repos"
  "github.com/stockyard-org/stockyard-backend/internal/requestdata"
  "github.com/stockyard-org/stockyard-backend/internal/scope"
  "github.com/stockyard-org/stockyard-backend/internal/types"
  "github.com/stockyard-org/stockyard-backend/internal/utils"
)

// ClientPatch carries the admin-writable client fields. Username renames go
// through the case-sensitive uniqueness check; passwords are always
// re-hashed. Active false triggers the full cascade, true flips only the
// client itself.
type ClientPatch struct {
  Username *string
  Password *string
  Active   *bool
}

type ClientService interface {
  GetClient(ctx context.Context, clientID uuid.UUID) (*types.Client, error)
  ListClients(ctx context.Context) ([]*types.Client, error)
  UpdateClient(ctx context.Context, clientID uuid.UUID, patch ClientPatch) (*types.Client, error)
  DeactivateClient(ctx context.Context, clientID uuid.UUID) error
}

type clientService struct {
  db         *gorm.DB
  log        *logger.Logger
  userRepo   repos.UserRepo
  clientRepo repos.ClientRepo
  resolver   *scope.Resolver
  cascade    CascadeService
  revocation TokenRevocationService
}

func NewClientService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  clientRepo repos.ClientRepo,
  resolver *scope.Resolver,
  cascade CascadeService,
  revocation TokenRevocationService,
) ClientService {
  serviceLog := log.With("service", "ClientService")
  return &clientService{
    db:         db,
    log:        serviceLog,
    userRepo:   userRepo,
    clientRepo: clientRepo,
    resolver:   resolver,
    cascade:    cascade,
    revocation: revocation,
  }
}

func (cs *clientService) GetClient(ctx context.Context, clientID uuid.UUID) (*types.Client, error) {
  cs.log.Info("Starting GetClient now...", "clientID", clientID)
  rd := requestdata.GetRequestData(ctx)
  var client types.Client
  err := cs.resolver.Clients(cs.db.WithContext(ctx), rd).
    Where("client.user_id = ?", clientID).
    First(&client).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      cs.log.Debug("Client not visible to caller", "clientID", clientID)
      return nil, domainerr.NewNotFound("client")
    }
    cs.log.Error("Failed to fetch client", "clientID", clientID, "error", err)
    return nil, fmt.Errorf("failed to fetch client: %w", err)
  }
  return &client, nil
}

func (cs *clientService) ListClients(ctx context.Context) ([]*types.Client, error) {
  cs.log.Info("Starting ListClients now...")
  rd := requestdata.GetRequestData(ctx)
  var clients []*types.Client
  if err := cs.resolver.Clients(cs.db.WithContext(ctx), rd).
    Find(&clients).Error; err != nil {
    cs.log.Error("Failed to list clients", "error", err)
    return nil, fmt.Errorf("failed to list clients: %w", err)
  }
  cs.log.Info("Successfully listed clients", "count", len(clients))
  return clients, nil
}

func (cs *clientService) UpdateClient(ctx context.Context, clientID uuid.UUID, patch ClientPatch) (*types.Client, error) {
  cs.log.Info("Starting UpdateClient now...", "clientID", clientID)
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    cs.log.Warn("Request Data is not set in context")
    return nil, domainerr.NewAuthorization("authentication required")
  }
  if !rd.Admin() {
    cs.log.Warn("Non-admin caller attempted client update", "userID", rd.UserID)
    return nil, domainerr.NewAuthorization("you do not have permission to update this client")
  }

  err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    clients, cErr := cs.clientRepo.GetByUserIDs(ctx, tx, []uuid.UUID{clientID})
    if cErr != nil {
      cs.log.Warn("Failed to fetch client for update", "error", cErr)
      return fmt.Errorf("failed to fetch client for update: %w", cErr)
    }
    if len(clients) == 0 {
      cs.log.Debug("No client with that reference", "clientID", clientID)
      return domainerr.NewNotFound("client")
    }
    client := clients[0]

    if patch.Active != nil {
      if !*patch.Active {
        if !client.IsActive {
          cs.log.Warn("Client is already inactive", "clientID", clientID)
          return domainerr.NewConflict("the client is already inactive")
        }
        if dErr := cs.cascade.DeactivateWithTransaction(ctx, tx, KindClient, clientID); dErr != nil {
          return dErr
        }
        if rErr := cs.revocation.RevokeAllFor(ctx, tx, clientID); rErr != nil {
          return rErr
        }
        client.IsActive = false
      } else if !client.IsActive {
        // Reactivation flips this client only; its warehouses and records
        // stay inactive until reactivated individually.
        client.IsActive = true
        if _, uErr := cs.clientRepo.Update(ctx, tx, []*types.Client{client}); uErr != nil {
          cs.log.Warn("Failed to reactivate client", "error", uErr)
          return fmt.Errorf("failed to reactivate client: %w", uErr)
        }
      }
    }

    if patch.Username == nil && patch.Password == nil {
      return nil
    }
    if !client.IsActive {
      cs.log.Warn("Cannot modify an inactive client", "clientID", clientID)
      return domainerr.NewConflict("the client is inactive")
    }
    users, uErr := cs.userRepo.GetByIDs(ctx, tx, []uuid.UUID{client.UserID})
    if uErr != nil {
      cs.log.Warn("Failed to fetch backing user for client update", "error", uErr)
      return fmt.Errorf("failed to fetch backing user: %w", uErr)
    }
    if len(users) == 0 {
      cs.log.Error("Client has no backing user", "clientID", clientID)
      return domainerr.NewNotFound("client")
    }
    user := users[0]

    if patch.Username != nil {
      newUsername := normalization.ParseInputString(*patch.Username)
      if newUsername == "" {
        return domainerr.NewValidation("username", "a username is required")
      }
      if newUsername != user.Username {
        exists, eErr := cs.userRepo.UsernameExists(ctx, tx, newUsername, user.ID)
        if eErr != nil {
          cs.log.Warn("Failed to check username existence for rename", "error", eErr)
          return fmt.Errorf("failed checking username existence: %w", eErr)
        }
        if exists {
          cs.log.Warn("Username already in use", "username", newUsername)
          return domainerr.NewValidation("username", "a user with that username already exists")
        }
        user.Username = newUsername
      }
    }
    if patch.Password != nil {
      hashed, hErr := utils.HashPassword(cs.log, *patch.Password)
      if hErr != nil {
        return hErr
      }
      user.Password = hashed
    }
    if _, uErr := cs.userRepo.Update(ctx, tx, []*types.User{user}); uErr != nil {
      cs.log.Warn("Failed to update backing user", "error", uErr)
      return fmt.Errorf("failed to update backing user: %w", uErr)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }

  clients, cErr := cs.clientRepo.GetByUserIDs(ctx, nil, []uuid.UUID{clientID})
  if cErr != nil || len(clients) == 0 {
    cs.log.Error("Failed to reload client after update", "error", cErr)
    return nil, fmt.Errorf("failed to reload client after update: %w", cErr)
  }
  cs.log.Info("Successfully updated client", "clientID", clientID)
  return clients[0], nil
}

// DeactivateClient runs the full cascade (client, its warehouses, their
// records) and revokes every session for the identity, all in one
// transaction.
func (cs *clientService) DeactivateClient(ctx context.Context, clientID uuid.UUID) error {
  cs.log.Info("Starting DeactivateClient now...", "clientID", clientID)
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    cs.log.Warn("Request Data is not set in context")
    return domainerr.NewAuthorization("authentication required")
  }
  if !rd.Admin() {
    cs.log.Warn("Non-admin caller attempted client deactivation", "userID", rd.UserID)
    return domainerr.NewAuthorization("you do not have permission to delete this client")
  }
  return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    clients, cErr := cs.clientRepo.GetByUserIDs(ctx, tx, []uuid.UUID{clientID})
    if cErr != nil {
      cs.log.Warn("Failed to fetch client for deactivation", "error", cErr)
      return fmt.Errorf("failed to fetch client for deactivation: %w", cErr)
    }
    if len(clients) == 0 {
      cs.log.Debug("No client with that reference", "clientID", clientID)
      return domainerr.NewNotFound("client")
    }
    if !clients[0].IsActive {
      cs.log.Warn("Client is already inactive", "clientID", clientID)
      return domainerr.NewConflict("the client is already inactive")
    }
    if dErr := cs.cascade.DeactivateWithTransaction(ctx, tx, KindClient, clientID); dErr != nil {
      return dErr
    }
    return cs.revocation.RevokeAllFor(ctx, tx, clientID)
  })
}
