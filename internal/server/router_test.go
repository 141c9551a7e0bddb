package server_test

import (
  "bytes"
  "encoding/json"
  "fmt"
  "net/http"
  "net/http/httptest"
  "testing"
  "time"

  "github.com/gin-gonic/gin"
  "github.com/glebarez/sqlite"
  "github.com/google/uuid"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
  "gorm.io/gorm"
  gormlogger "gorm.io/gorm/logger"

  "github.com/stockyard-org/stockyard-backend/internal/blacklist"
  "github.com/stockyard-org/stockyard-backend/internal/handlers"
  "github.com/stockyard-org/stockyard-backend/internal/logger"
  "github.com/stockyard-org/stockyard-backend/internal/middleware"
  "github.com/stockyard-org/stockyard-backend/internal/repos"
  "github.com/stockyard-org/stockyard-backend/internal/scope"
  "github.com/stockyard-org/stockyard-backend/internal/server"
  "github.com/stockyard-org/stockyard-backend/internal/services"
  "github.com/stockyard-org/stockyard-backend/internal/types"
  "github.com/stockyard-org/stockyard-backend/internal/utils"
)

const (
  testJWTSecret = "router-test-secret"
  adminPassword = "router-test-admin-pass"
)

// buildTestServer wires the whole HTTP stack over an in-memory database and
// seeds one staff account ("admin").
func buildTestServer(t *testing.T) *gin.Engine {
  t.Helper()
  gin.SetMode(gin.TestMode)

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

  hashed, err := utils.HashPassword(log, adminPassword)
  require.NoError(t, err)
  require.NoError(t, db.Create(&types.User{
    ID:       uuid.New(),
    Username: "admin",
    Password: hashed,
    IsStaff:  true,
    IsActive: true,
  }).Error)

  return server.NewRouter(server.RouterConfig{
    AuthHandler:      handlers.NewAuthHandler(authService),
    AuthMiddleware:   middleware.NewAuthMiddleware(log, authService),
    ClientHandler:    handlers.NewClientHandler(clientService),
    WarehouseHandler: handlers.NewWarehouseHandler(warehouseService),
    RecordHandler:    handlers.NewRecordHandler(recordService),
  })
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
  t.Helper()
  var buf bytes.Buffer
  if body != nil {
    require.NoError(t, json.NewEncoder(&buf).Encode(body))
  }
  req := httptest.NewRequest(method, path, &buf)
  req.Header.Set("Content-Type", "application/json")
  if token != "" {
    req.Header.Set("Authorization", "Bearer "+token)
  }
  w := httptest.NewRecorder()
  router.ServeHTTP(w, req)
  return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
  t.Helper()
  var out map[string]any
  require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
  return out
}

func loginAs(t *testing.T, router *gin.Engine, username, password string) string {
  t.Helper()
  w := doJSON(t, router, http.MethodPost, "/api/login", "", gin.H{
    "username": username,
    "password": password,
  })
  require.Equal(t, http.StatusOK, w.Code, w.Body.String())
  body := decodeBody(t, w)
  token, _ := body["access_token"].(string)
  require.NotEmpty(t, token)
  return token
}

func registerClientAs(t *testing.T, router *gin.Engine, adminToken, username, password string) string {
  t.Helper()
  w := doJSON(t, router, http.MethodPost, "/api/register", adminToken, gin.H{
    "username": username,
    "password": password,
  })
  require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
  body := decodeBody(t, w)
  client, _ := body["client"].(map[string]any)
  id, _ := client["id"].(string)
  require.NotEmpty(t, id)
  return id
}

func TestHealthz(t *testing.T) {
  router := buildTestServer(t)
  w := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
  assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
  router := buildTestServer(t)

  w := doJSON(t, router, http.MethodGet, "/api/clients", "", nil)
  assert.Equal(t, http.StatusUnauthorized, w.Code)
  w = doJSON(t, router, http.MethodGet, "/api/clients", "garbage-token", nil)
  assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginBadCredentials(t *testing.T) {
  router := buildTestServer(t)

  w := doJSON(t, router, http.MethodPost, "/api/login", "", gin.H{
    "username": "admin",
    "password": "wrong",
  })
  assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterIsStaffOnly(t *testing.T) {
  router := buildTestServer(t)
  adminToken := loginAs(t, router, "admin", adminPassword)
  registerClientAs(t, router, adminToken, "acme", "acme-pass")

  clientToken := loginAs(t, router, "acme", "acme-pass")
  w := doJSON(t, router, http.MethodPost, "/api/register", clientToken, gin.H{
    "username": "globex",
    "password": "globex-pass",
  })
  assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMalformedIDIsBadRequestMissingIsNotFound(t *testing.T) {
  router := buildTestServer(t)
  adminToken := loginAs(t, router, "admin", adminPassword)

  w := doJSON(t, router, http.MethodGet, "/api/clients/not-a-uuid", adminToken, nil)
  assert.Equal(t, http.StatusBadRequest, w.Code)

  w = doJSON(t, router, http.MethodGet, "/api/clients/"+uuid.New().String(), adminToken, nil)
  assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFullInventoryFlow(t *testing.T) {
  router := buildTestServer(t)
  adminToken := loginAs(t, router, "admin", adminPassword)
  clientID := registerClientAs(t, router, adminToken, "acme", "acme-pass")

  // Create a warehouse and a record under it.
  w := doJSON(t, router, http.MethodPost, "/api/warehouses", adminToken, gin.H{
    "name":      "North",
    "address":   "123 Dock St",
    "client_id": clientID,
  })
  require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
  warehouse, _ := decodeBody(t, w)["warehouse"].(map[string]any)
  warehouseID, _ := warehouse["id"].(string)
  require.NotEmpty(t, warehouseID)

  w = doJSON(t, router, http.MethodPost, "/api/records", adminToken, gin.H{
    "warehouse_id": warehouseID,
    "record_type":  "IN",
    "quantity":     100,
  })
  require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
  record, _ := decodeBody(t, w)["record"].(map[string]any)
  recordID, _ := record["id"].(string)
  require.NotEmpty(t, recordID)

  // The owning client sees its chain.
  clientToken := loginAs(t, router, "acme", "acme-pass")
  w = doJSON(t, router, http.MethodGet, "/api/records/"+recordID, clientToken, nil)
  assert.Equal(t, http.StatusOK, w.Code)

  // Ledger fields are write-once: the patch succeeds but drops them.
  w = doJSON(t, router, http.MethodPatch, "/api/records/"+recordID, adminToken, gin.H{
    "record_type": "OUT",
    "quantity":    1,
  })
  require.Equal(t, http.StatusOK, w.Code, w.Body.String())
  patched, _ := decodeBody(t, w)["record"].(map[string]any)
  assert.Equal(t, "IN", patched["recordType"])
  assert.Equal(t, float64(100), patched["quantity"])

  // A non-staff caller cannot mutate, even inside its own chain.
  w = doJSON(t, router, http.MethodDelete, "/api/records/"+recordID, clientToken, nil)
  assert.Equal(t, http.StatusForbidden, w.Code)

  // Deactivating the client hides the whole chain and kills its session.
  w = doJSON(t, router, http.MethodDelete, "/api/clients/"+clientID, adminToken, nil)
  require.Equal(t, http.StatusOK, w.Code, w.Body.String())
  w = doJSON(t, router, http.MethodDelete, "/api/clients/"+clientID, adminToken, nil)
  assert.Equal(t, http.StatusConflict, w.Code)

  w = doJSON(t, router, http.MethodGet, "/api/records/"+recordID, adminToken, nil)
  assert.Equal(t, http.StatusNotFound, w.Code)
  w = doJSON(t, router, http.MethodGet, "/api/records", clientToken, nil)
  assert.Equal(t, http.StatusUnauthorized, w.Code)
}
