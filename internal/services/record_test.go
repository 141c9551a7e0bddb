package services_test

import (
  "testing"

  "github.com/google/uuid"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
  "gorm.io/datatypes"

  "github.com/stockyard-org/stockyard-backend/internal/domainerr"
  "github.com/stockyard-org/stockyard-backend/internal/services"
  "github.com/stockyard-org/stockyard-backend/internal/types"
)

func TestCreateRecordValidation(t *testing.T) {
  env := newTestEnv(t)
  ctx := env.adminContext()

  client := env.registerClient(t, "acme")
  warehouse := env.createWarehouse(t, client.UserID, "North")

  _, err := env.recordService.CreateRecord(ctx, warehouse.ID, "SIDEWAYS", 10, nil)
  assert.True(t, domainerr.IsValidation(err))
  _, err = env.recordService.CreateRecord(ctx, warehouse.ID, types.RecordTypeIn, -1, nil)
  assert.True(t, domainerr.IsValidation(err))

  record, err := env.recordService.CreateRecord(ctx, warehouse.ID, "  IN ", 0, nil)
  require.NoError(t, err)
  assert.Equal(t, types.RecordTypeIn, record.RecordType)
  assert.Equal(t, 0, record.Quantity)
}

func TestCreateRecordUnderInactiveWarehouse(t *testing.T) {
  env := newTestEnv(t)
  ctx := env.adminContext()

  client := env.registerClient(t, "acme")
  warehouse := env.createWarehouse(t, client.UserID, "North")
  require.NoError(t, env.warehouseService.DeactivateWarehouse(ctx, warehouse.ID))

  _, err := env.recordService.CreateRecord(ctx, warehouse.ID, types.RecordTypeIn, 5, nil)
  assert.True(t, domainerr.IsConflict(err))

  // Nothing was persisted.
  records, rErr := env.recordRepo.GetByWarehouseIDs(ctx, nil, []uuid.UUID{warehouse.ID})
  require.NoError(t, rErr)
  assert.Empty(t, records)
}

func TestUpdateRecordDropsQuantityAndType(t *testing.T) {
  env := newTestEnv(t)
  ctx := env.adminContext()

  client := env.registerClient(t, "acme")
  warehouse := env.createWarehouse(t, client.UserID, "North")
  record := env.createRecord(t, warehouse.ID, types.RecordTypeIn, 100)

  updated, err := env.recordService.UpdateRecord(ctx, record.ID, services.RecordPatch{
    RecordType: strPtr(types.RecordTypeOut),
    Quantity:   intPtr(999),
    Metadata:   datatypes.JSON(`{"note":"stocktake"}`),
  })
  require.NoError(t, err)

  // Metadata landed; the ledger fields did not move.
  assert.Equal(t, types.RecordTypeIn, updated.RecordType)
  assert.Equal(t, 100, updated.Quantity)
  assert.JSONEq(t, `{"note":"stocktake"}`, string(updated.Metadata))

  stored := env.reloadRecord(t, record.ID)
  assert.Equal(t, types.RecordTypeIn, stored.RecordType)
  assert.Equal(t, 100, stored.Quantity)
}

func TestUpdateRecordAfterWarehouseDeactivation(t *testing.T) {
  env := newTestEnv(t)
  ctx := env.adminContext()

  client := env.registerClient(t, "acme")
  warehouse := env.createWarehouse(t, client.UserID, "North")
  record := env.createRecord(t, warehouse.ID, types.RecordTypeIn, 10)
  require.NoError(t, env.warehouseService.DeactivateWarehouse(ctx, warehouse.ID))

  _, err := env.recordService.UpdateRecord(ctx, record.ID, services.RecordPatch{
    Metadata: datatypes.JSON(`{"note":"late edit"}`),
  })
  assert.True(t, domainerr.IsConflict(err))
}

func TestRecordVisibilityFollowsOwnershipChain(t *testing.T) {
  env := newTestEnv(t)
  ctx := env.adminContext()

  clientA := env.registerClient(t, "acme")
  clientB := env.registerClient(t, "globex")
  warehouseA := env.createWarehouse(t, clientA.UserID, "North")
  warehouseB := env.createWarehouse(t, clientB.UserID, "South")
  recordA := env.createRecord(t, warehouseA.ID, types.RecordTypeIn, 1)
  recordB := env.createRecord(t, warehouseB.ID, types.RecordTypeOut, 2)

  // Admin lists both, each client only its own.
  records, err := env.recordService.ListRecords(ctx)
  require.NoError(t, err)
  assert.Len(t, records, 2)

  records, err = env.recordService.ListRecords(env.clientContext(clientA))
  require.NoError(t, err)
  require.Len(t, records, 1)
  assert.Equal(t, recordA.ID, records[0].ID)

  _, err = env.recordService.GetRecord(env.clientContext(clientA), recordB.ID)
  assert.True(t, domainerr.IsNotFound(err))

  // Deactivating the warehouse hides its records from everyone.
  require.NoError(t, env.warehouseService.DeactivateWarehouse(ctx, warehouseA.ID))
  _, err = env.recordService.GetRecord(env.clientContext(clientA), recordA.ID)
  assert.True(t, domainerr.IsNotFound(err))
  _, err = env.recordService.GetRecord(ctx, recordA.ID)
  assert.True(t, domainerr.IsNotFound(err))
}
