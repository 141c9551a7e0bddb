package services_test

import (
  "testing"

  "github.com/google/uuid"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/stockyard-org/stockyard-backend/internal/domainerr"
  "github.com/stockyard-org/stockyard-backend/internal/types"
)

func TestDeactivateClientCascadesWholeSubtree(t *testing.T) {
  env := newTestEnv(t)
  ctx := env.adminContext()

  client := env.registerClient(t, "acme")
  warehouseA := env.createWarehouse(t, client.UserID, "North")
  warehouseB := env.createWarehouse(t, client.UserID, "South")
  recordA := env.createRecord(t, warehouseA.ID, types.RecordTypeIn, 10)
  recordB := env.createRecord(t, warehouseB.ID, types.RecordTypeOut, 5)

  require.NoError(t, env.clientService.DeactivateClient(ctx, client.UserID))

  assert.False(t, env.reloadClient(t, client.UserID).IsActive)
  assert.False(t, env.reloadWarehouse(t, warehouseA.ID).IsActive)
  assert.False(t, env.reloadWarehouse(t, warehouseB.ID).IsActive)
  assert.False(t, env.reloadRecord(t, recordA.ID).IsActive)
  assert.False(t, env.reloadRecord(t, recordB.ID).IsActive)
}

func TestDeactivateWarehouseLeavesSiblingsAlone(t *testing.T) {
  env := newTestEnv(t)
  ctx := env.adminContext()

  client := env.registerClient(t, "acme")
  warehouseA := env.createWarehouse(t, client.UserID, "North")
  warehouseB := env.createWarehouse(t, client.UserID, "South")
  recordA := env.createRecord(t, warehouseA.ID, types.RecordTypeIn, 10)
  recordB := env.createRecord(t, warehouseB.ID, types.RecordTypeIn, 20)

  require.NoError(t, env.warehouseService.DeactivateWarehouse(ctx, warehouseA.ID))

  assert.True(t, env.reloadClient(t, client.UserID).IsActive)
  assert.False(t, env.reloadWarehouse(t, warehouseA.ID).IsActive)
  assert.False(t, env.reloadRecord(t, recordA.ID).IsActive)
  assert.True(t, env.reloadWarehouse(t, warehouseB.ID).IsActive)
  assert.True(t, env.reloadRecord(t, recordB.ID).IsActive)
}

func TestDeactivateRecordTouchesOnlyThatRecord(t *testing.T) {
  env := newTestEnv(t)
  ctx := env.adminContext()

  client := env.registerClient(t, "acme")
  warehouse := env.createWarehouse(t, client.UserID, "North")
  recordA := env.createRecord(t, warehouse.ID, types.RecordTypeIn, 10)
  recordB := env.createRecord(t, warehouse.ID, types.RecordTypeOut, 3)

  require.NoError(t, env.recordService.DeactivateRecord(ctx, recordA.ID))

  assert.False(t, env.reloadRecord(t, recordA.ID).IsActive)
  assert.True(t, env.reloadRecord(t, recordB.ID).IsActive)
  assert.True(t, env.reloadWarehouse(t, warehouse.ID).IsActive)
}

// A client cascade must succeed even when part of the subtree was already
// deactivated by an earlier warehouse cascade.
func TestClientCascadeAfterPartialWarehouseCascade(t *testing.T) {
  env := newTestEnv(t)
  ctx := env.adminContext()

  client := env.registerClient(t, "acme")
  warehouseA := env.createWarehouse(t, client.UserID, "North")
  warehouseB := env.createWarehouse(t, client.UserID, "South")
  record := env.createRecord(t, warehouseB.ID, types.RecordTypeIn, 7)

  require.NoError(t, env.warehouseService.DeactivateWarehouse(ctx, warehouseA.ID))
  require.NoError(t, env.clientService.DeactivateClient(ctx, client.UserID))

  assert.False(t, env.reloadClient(t, client.UserID).IsActive)
  assert.False(t, env.reloadWarehouse(t, warehouseA.ID).IsActive)
  assert.False(t, env.reloadWarehouse(t, warehouseB.ID).IsActive)
  assert.False(t, env.reloadRecord(t, record.ID).IsActive)
}

func TestDeactivateAlreadyInactiveIsConflict(t *testing.T) {
  env := newTestEnv(t)
  ctx := env.adminContext()

  client := env.registerClient(t, "acme")
  warehouse := env.createWarehouse(t, client.UserID, "North")
  record := env.createRecord(t, warehouse.ID, types.RecordTypeIn, 1)

  require.NoError(t, env.recordService.DeactivateRecord(ctx, record.ID))
  assert.True(t, domainerr.IsConflict(env.recordService.DeactivateRecord(ctx, record.ID)))

  require.NoError(t, env.warehouseService.DeactivateWarehouse(ctx, warehouse.ID))
  assert.True(t, domainerr.IsConflict(env.warehouseService.DeactivateWarehouse(ctx, warehouse.ID)))

  require.NoError(t, env.clientService.DeactivateClient(ctx, client.UserID))
  assert.True(t, domainerr.IsConflict(env.clientService.DeactivateClient(ctx, client.UserID)))
}

func TestDeactivateMissingEntityIsNotFound(t *testing.T) {
  env := newTestEnv(t)
  ctx := env.adminContext()

  err := env.clientService.DeactivateClient(ctx, uuid.New())
  assert.True(t, domainerr.IsNotFound(err))
  err = env.warehouseService.DeactivateWarehouse(ctx, uuid.New())
  assert.True(t, domainerr.IsNotFound(err))
  err = env.recordService.DeactivateRecord(ctx, uuid.New())
  assert.True(t, domainerr.IsNotFound(err))
}

func TestNonAdminCannotDeactivate(t *testing.T) {
  env := newTestEnv(t)

  client := env.registerClient(t, "acme")
  warehouse := env.createWarehouse(t, client.UserID, "North")
  ctx := env.clientContext(client)

  err := env.warehouseService.DeactivateWarehouse(ctx, warehouse.ID)
  assert.True(t, domainerr.IsAuthorization(err))
  assert.True(t, env.reloadWarehouse(t, warehouse.ID).IsActive)

  err = env.clientService.DeactivateClient(ctx, client.UserID)
  assert.True(t, domainerr.IsAuthorization(err))
  assert.True(t, env.reloadClient(t, client.UserID).IsActive)
}
