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
)

// WarehousePatch carries the admin-writable warehouse fields. ClientID
// reassigns ownership and must resolve to an existing active client.
type WarehousePatch struct {
  Name     *string
  Address  *string
  ClientID *uuid.UUID
  Active   *bool
}

type WarehouseService interface {
  CreateWarehouse(ctx context.Context, clientID uuid.UUID, name, address string) (*types.Warehouse, error)
  GetWarehouse(ctx context.Context, warehouseID uuid.UUID) (*types.Warehouse, error)
  ListWarehouses(ctx context.Context) ([]*types.Warehouse, error)
  UpdateWarehouse(ctx context.Context, warehouseID uuid.UUID, patch WarehousePatch) (*types.Warehouse, error)
  DeactivateWarehouse(ctx context.Context, warehouseID uuid.UUID) error
}

type warehouseService struct {
  db            *gorm.DB
  log           *logger.Logger
  clientRepo    repos.ClientRepo
  warehouseRepo repos.WarehouseRepo
  resolver      *scope.Resolver
  cascade       CascadeService
}

func NewWarehouseService(
  db *gorm.DB,
  log *logger.Logger,
  clientRepo repos.ClientRepo,
  warehouseRepo repos.WarehouseRepo,
  resolver *scope.Resolver,
  cascade CascadeService,
) WarehouseService {
  serviceLog := log.With("service", "WarehouseService")
  return &warehouseService{
    db:            db,
    log:           serviceLog,
    clientRepo:    clientRepo,
    warehouseRepo: warehouseRepo,
    resolver:      resolver,
    cascade:       cascade,
  }
}

// CreateWarehouse checks the target client at the moment of insert, inside
// the same transaction. A client deactivated between the check and the
// commit is an accepted race; the next client cascade repairs it.
func (ws *warehouseService) CreateWarehouse(ctx context.Context, clientID uuid.UUID, name, address string) (*types.Warehouse, error) {
  ws.log.Info("Starting CreateWarehouse now...", "clientID", clientID)
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    ws.log.Warn("Request Data is not set in context")
    return nil, domainerr.NewAuthorization("authentication required")
  }
  if !rd.Admin() {
    ws.log.Warn("Non-admin caller attempted warehouse creation", "userID", rd.UserID)
    return nil, domainerr.NewAuthorization("you do not have permission to create a warehouse")
  }
  name = normalization.ParseInputString(name)
  address = normalization.ParseInputString(address)
  if name == "" {
    ws.log.Warn("Warehouse cannot be created because no name was given")
    return nil, domainerr.NewValidation("name", "a name is required")
  }
  if address == "" {
    ws.log.Warn("Warehouse cannot be created because no address was given")
    return nil, domainerr.NewValidation("address", "an address is required")
  }

  var theWarehouse *types.Warehouse
  err := ws.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    clients, cErr := ws.clientRepo.GetByUserIDs(ctx, tx, []uuid.UUID{clientID})
    if cErr != nil {
      ws.log.Warn("Error fetching client by client ID", "error", cErr)
      return fmt.Errorf("failed to fetch client: %w", cErr)
    }
    // An inactive target is reported exactly like a missing one.
    if len(clients) == 0 || !clients[0].IsActive {
      ws.log.Warn("No active client with the passed in client ID", "clientID", clientID)
      return domainerr.NewNotFound("client")
    }
    warehouse := &types.Warehouse{
      ID:       uuid.New(),
      Name:     name,
      Address:  address,
      ClientID: clientID,
      IsActive: true,
    }
    created, wErr := ws.warehouseRepo.Create(ctx, tx, []*types.Warehouse{warehouse})
    if wErr != nil {
      ws.log.Warn("Failed to create warehouse", "error", wErr)
      return fmt.Errorf("failed to create warehouse: %w", wErr)
    }
    theWarehouse = created[0]
    return nil
  })
  if err != nil {
    return nil, err
  }
  ws.log.Info("Successfully created warehouse", "warehouseID", theWarehouse.ID)
  return theWarehouse, nil
}

func (ws *warehouseService) GetWarehouse(ctx context.Context, warehouseID uuid.UUID) (*types.Warehouse, error) {
  ws.log.Info("Starting GetWarehouse now...", "warehouseID", warehouseID)
  rd := requestdata.GetRequestData(ctx)
  var warehouse types.Warehouse
  err := ws.resolver.Warehouses(ws.db.WithContext(ctx), rd).
    Where("warehouse.id = ?", warehouseID).
    First(&warehouse).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      ws.log.Debug("Warehouse not visible to caller", "warehouseID", warehouseID)
      return nil, domainerr.NewNotFound("warehouse")
    }
    ws.log.Error("Failed to fetch warehouse", "warehouseID", warehouseID, "error", err)
    return nil, fmt.Errorf("failed to fetch warehouse: %w", err)
  }
  return &warehouse, nil
}

func (ws *warehouseService) ListWarehouses(ctx context.Context) ([]*types.Warehouse, error) {
  ws.log.Info("Starting ListWarehouses now...")
  rd := requestdata.GetRequestData(ctx)
  var warehouses []*types.Warehouse
  if err := ws.resolver.Warehouses(ws.db.WithContext(ctx), rd).
    Find(&warehouses).Error; err != nil {
    ws.log.Error("Failed to list warehouses", "error", err)
    return nil, fmt.Errorf("failed to list warehouses: %w", err)
  }
  ws.log.Info("Successfully listed warehouses", "count", len(warehouses))
  return warehouses, nil
}

func (ws *warehouseService) UpdateWarehouse(ctx context.Context, warehouseID uuid.UUID, patch WarehousePatch) (*types.Warehouse, error) {
  ws.log.Info("Starting UpdateWarehouse now...", "warehouseID", warehouseID)
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    ws.log.Warn("Request Data is not set in context")
    return nil, domainerr.NewAuthorization("authentication required")
  }
  if !rd.Admin() {
    ws.log.Warn("Non-admin caller attempted warehouse update", "userID", rd.UserID)
    return nil, domainerr.NewAuthorization("you do not have permission to update this warehouse")
  }

  var theWarehouse *types.Warehouse
  err := ws.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    warehouses, wErr := ws.warehouseRepo.GetByIDs(ctx, tx, []uuid.UUID{warehouseID})
    if wErr != nil {
      ws.log.Warn("Failed to fetch warehouse for update", "error", wErr)
      return fmt.Errorf("failed to fetch warehouse for update: %w", wErr)
    }
    if len(warehouses) == 0 {
      ws.log.Debug("No warehouse with that reference", "warehouseID", warehouseID)
      return domainerr.NewNotFound("warehouse")
    }
    warehouse := warehouses[0]

    if patch.Active != nil {
      if !*patch.Active {
        if !warehouse.IsActive {
          ws.log.Warn("Warehouse is already inactive", "warehouseID", warehouseID)
          return domainerr.NewConflict("the warehouse is already inactive")
        }
        if dErr := ws.cascade.DeactivateWithTransaction(ctx, tx, KindWarehouse, warehouseID); dErr != nil {
          return dErr
        }
        warehouse.IsActive = false
      } else if !warehouse.IsActive {
        // Single-entity reactivation; records stay inactive.
        warehouse.IsActive = true
        if _, uErr := ws.warehouseRepo.Update(ctx, tx, []*types.Warehouse{warehouse}); uErr != nil {
          ws.log.Warn("Failed to reactivate warehouse", "error", uErr)
          return fmt.Errorf("failed to reactivate warehouse: %w", uErr)
        }
      }
    }

    if patch.Name == nil && patch.Address == nil && patch.ClientID == nil {
      theWarehouse = warehouse
      return nil
    }
    if !warehouse.IsActive {
      ws.log.Warn("Warehouse is inactive, rejecting update", "warehouseID", warehouseID)
      return domainerr.NewConflict("the warehouse is inactive")
    }

    if patch.ClientID != nil {
      clients, cErr := ws.clientRepo.GetByUserIDs(ctx, tx, []uuid.UUID{*patch.ClientID})
      if cErr != nil {
        ws.log.Warn("Failed to fetch reassignment target client", "error", cErr)
        return fmt.Errorf("failed to fetch target client: %w", cErr)
      }
      if len(clients) == 0 || !clients[0].IsActive {
        ws.log.Warn("Reassignment target client missing or inactive", "clientID", *patch.ClientID)
        return domainerr.NewNotFound("client")
      }
      warehouse.ClientID = *patch.ClientID
    }
    if patch.Name != nil {
      name := normalization.ParseInputString(*patch.Name)
      if name == "" {
        return domainerr.NewValidation("name", "a name is required")
      }
      warehouse.Name = name
    }
    if patch.Address != nil {
      address := normalization.ParseInputString(*patch.Address)
      if address == "" {
        return domainerr.NewValidation("address", "an address is required")
      }
      warehouse.Address = address
    }
    updated, uErr := ws.warehouseRepo.Update(ctx, tx, []*types.Warehouse{warehouse})
    if uErr != nil {
      ws.log.Warn("Failed to update warehouse", "error", uErr)
      return fmt.Errorf("failed to update warehouse: %w", uErr)
    }
    theWarehouse = updated[0]
    return nil
  })
  if err != nil {
    return nil, err
  }
  ws.log.Info("Successfully updated warehouse", "warehouseID", warehouseID)
  return theWarehouse, nil
}

func (ws *warehouseService) DeactivateWarehouse(ctx context.Context, warehouseID uuid.UUID) error {
  ws.log.Info("Starting DeactivateWarehouse now...", "warehouseID", warehouseID)
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    ws.log.Warn("Request Data is not set in context")
    return domainerr.NewAuthorization("authentication required")
  }
  if !rd.Admin() {
    ws.log.Warn("Non-admin caller attempted warehouse deactivation", "userID", rd.UserID)
    return domainerr.NewAuthorization("you do not have permission to delete this warehouse")
  }
  return ws.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    warehouses, wErr := ws.warehouseRepo.GetByIDs(ctx, tx, []uuid.UUID{warehouseID})
    if wErr != nil {
      ws.log.Warn("Failed to fetch warehouse for deactivation", "error", wErr)
      return fmt.Errorf("failed to fetch warehouse for deactivation: %w", wErr)
    }
    if len(warehouses) == 0 {
      ws.log.Debug("No warehouse with that reference", "warehouseID", warehouseID)
      return domainerr.NewNotFound("warehouse")
    }
    if !warehouses[0].IsActive {
      ws.log.Warn("Warehouse is already inactive", "warehouseID", warehouseID)
      return domainerr.NewConflict("the warehouse is already inactive")
    }
    return ws.cascade.DeactivateWithTransaction(ctx, tx, KindWarehouse, warehouseID)
  })
}
