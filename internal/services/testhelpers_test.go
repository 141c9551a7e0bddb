package services_test

import (
  "context"
  "fmt"
  "testing"
  "time"

  "github.com/glebarez/sqlite"
  "github.com/google/uuid"
  "github.com/stretchr/testify/require"
  "gorm.io/gorm"
  gormlogger "gorm.io/gorm/logger"

  "github.com/stockyard-org/stockyard-backend/internal/blacklist"
  "github.com/stockyard-org/stockyard-backend/internal/logger"
  "github.com/stockyard-org/stockyard-backend/internal/repos"
  "github.com/stockyard-org/stockyard-backend/internal/requestdata"
  "github.com/stockyard-org/stockyard-backend/internal/scope"
  "github.com/stockyard-org/stockyard-backend/internal/services"
  "github.com/stockyard-org/stockyard-backend/internal/types"
  "github.com/stockyard-org/stockyard-backend/internal/utils"
)

const (
  testJWTSecret = "test-secret-key-for-unit-tests"
  testPassword  = "correct-horse-battery"
)

type testEnv struct {
  db *gorm.DB

  userRepo      repos.UserRepo
  clientRepo    repos.ClientRepo
  warehouseRepo repos.WarehouseRepo
  recordRepo    repos.RecordRepo
  userTokenRepo repos.UserTokenRepo

  tokenBlacklist *blacklist.MemoryBlacklist

  authService      services.AuthService
  clientService    services.ClientService
  warehouseService services.WarehouseService
  recordService    services.RecordService
  cascadeService   services.CascadeService

  adminID uuid.UUID
}

// newTestEnv wires the full service stack over an isolated in-memory
// database and seeds one staff user.
func newTestEnv(t *testing.T) *testEnv {
  t.Helper()

  dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
  db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
    Logger: gormlogger.Default.LogMode(gormlogger.Silent),
  })
  require.NoError(t, err)
  sqlDB, err := db.DB()
  require.NoError(t, err)
  sqlDB.SetMaxOpenConns(1)
  require.NoError(t, db.AutoMigrate(
    &types.User{},
    &types.Client{},
    &types.Warehouse{},
    &types.Record{},
    &types.UserToken{},
  ))

  log := logger.NewNop()
  userRepo := repos.NewUserRepo(db, log)
  clientRepo := repos.NewClientRepo(db, log)
  warehouseRepo := repos.NewWarehouseRepo(db, log)
  recordRepo := repos.NewRecordRepo(db, log)
  userTokenRepo := repos.NewUserTokenRepo(db, log)

  tokenBlacklist := blacklist.NewMemoryBlacklist()
  resolver := scope.NewResolver(log)
  cascadeService := services.NewCascadeService(db, log, clientRepo, warehouseRepo, recordRepo)
  revocationService := services.NewTokenRevocationService(db, log, userTokenRepo, tokenBlacklist, 15*time.Minute)
  authService := services.NewAuthService(db, log, userRepo, clientRepo, userTokenRepo, revocationService, tokenBlacklist, testJWTSecret, 15*time.Minute, 24*time.Hour)
  clientService := services.NewClientService(db, log, userRepo, clientRepo, resolver, cascadeService, revocationService)
  warehouseService := services.NewWarehouseService(db, log, clientRepo, warehouseRepo, resolver, cascadeService)
  recordService := services.NewRecordService(db, log, warehouseRepo, recordRepo, resolver, cascadeService)

  hashed, err := utils.HashPassword(log, testPassword)
  require.NoError(t, err)
  admin := &types.User{
    ID:       uuid.New(),
    Username: "admin",
    Password: hashed,
    IsStaff:  true,
    IsActive: true,
  }
  require.NoError(t, db.Create(admin).Error)

  return &testEnv{
    db:               db,
    userRepo:         userRepo,
    clientRepo:       clientRepo,
    warehouseRepo:    warehouseRepo,
    recordRepo:       recordRepo,
    userTokenRepo:    userTokenRepo,
    tokenBlacklist:   tokenBlacklist,
    authService:      authService,
    clientService:    clientService,
    warehouseService: warehouseService,
    recordService:    recordService,
    cascadeService:   cascadeService,
    adminID:          admin.ID,
  }
}

func (env *testEnv) adminContext() context.Context {
  return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
    UserID:   env.adminID,
    Username: "admin",
    IsStaff:  true,
    IsActive: true,
  })
}

func (env *testEnv) clientContext(client *types.Client) context.Context {
  return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
    UserID:   client.UserID,
    IsActive: client.IsActive,
  })
}

func (env *testEnv) registerClient(t *testing.T, username string) *types.Client {
  t.Helper()
  client, err := env.authService.RegisterClient(env.adminContext(), username, testPassword)
  require.NoError(t, err)
  return client
}

func (env *testEnv) createWarehouse(t *testing.T, clientID uuid.UUID, name string) *types.Warehouse {
  t.Helper()
  warehouse, err := env.warehouseService.CreateWarehouse(env.adminContext(), clientID, name, "123 Dock St")
  require.NoError(t, err)
  return warehouse
}

func (env *testEnv) createRecord(t *testing.T, warehouseID uuid.UUID, recordType string, quantity int) *types.Record {
  t.Helper()
  record, err := env.recordService.CreateRecord(env.adminContext(), warehouseID, recordType, quantity, nil)
  require.NoError(t, err)
  return record
}

func (env *testEnv) reloadWarehouse(t *testing.T, warehouseID uuid.UUID) *types.Warehouse {
  t.Helper()
  var warehouse types.Warehouse
  require.NoError(t, env.db.First(&warehouse, "id = ?", warehouseID).Error)
  return &warehouse
}

func (env *testEnv) reloadRecord(t *testing.T, recordID uuid.UUID) *types.Record {
  t.Helper()
  var record types.Record
  require.NoError(t, env.db.First(&record, "id = ?", recordID).Error)
  return &record
}

func (env *testEnv) reloadClient(t *testing.T, clientID uuid.UUID) *types.Client {
  t.Helper()
  var client types.Client
  require.NoError(t, env.db.First(&client, "user_id = ?", clientID).Error)
  return &client
}
