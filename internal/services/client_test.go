package services_test

import (
  "testing"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/stockyard-org/stockyard-backend/internal/domainerr"
  "github.com/stockyard-org/stockyard-backend/internal/services"
)

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func TestUpdateClientRename(t *testing.T) {
  env := newTestEnv(t)
  ctx := env.adminContext()

  client := env.registerClient(t, "acme")
  updated, err := env.clientService.UpdateClient(ctx, client.UserID, services.ClientPatch{
    Username: strPtr("acme-renamed"),
  })
  require.NoError(t, err)
  require.NotNil(t, updated.User)
  assert.Equal(t, "acme-renamed", updated.User.Username)

  // The old name is free for a fresh registration again.
  env.registerClient(t, "acme")
}

func TestUpdateClientRenameRejectsTakenUsername(t *testing.T) {
  env := newTestEnv(t)
  ctx := env.adminContext()

  env.registerClient(t, "acme")
  other := env.registerClient(t, "globex")

  _, err := env.clientService.UpdateClient(ctx, other.UserID, services.ClientPatch{
    Username: strPtr("acme"),
  })
  assert.True(t, domainerr.IsValidation(err))

  // Renaming to your own current name is a no-op, not a collision.
  _, err = env.clientService.UpdateClient(ctx, other.UserID, services.ClientPatch{
    Username: strPtr("globex"),
  })
  assert.NoError(t, err)
}

func TestUpdateClientPasswordRotation(t *testing.T) {
  env := newTestEnv(t)
  ctx := env.adminContext()

  client := env.registerClient(t, "acme")
  _, err := env.clientService.UpdateClient(ctx, client.UserID, services.ClientPatch{
    Password: strPtr("new-secret-phrase"),
  })
  require.NoError(t, err)

  _, _, err = env.authService.Login(ctx, "acme", testPassword)
  assert.ErrorIs(t, err, services.ErrInvalidCredentials)
  _, _, err = env.authService.Login(ctx, "acme", "new-secret-phrase")
  assert.NoError(t, err)
}

func TestUpdateClientOnInactiveClientIsConflict(t *testing.T) {
  env := newTestEnv(t)
  ctx := env.adminContext()

  client := env.registerClient(t, "acme")
  require.NoError(t, env.clientService.DeactivateClient(ctx, client.UserID))

  _, err := env.clientService.UpdateClient(ctx, client.UserID, services.ClientPatch{
    Username: strPtr("acme-renamed"),
  })
  assert.True(t, domainerr.IsConflict(err))
}

func TestClientReactivationIsShallow(t *testing.T) {
  env := newTestEnv(t)
  ctx := env.adminContext()

  client := env.registerClient(t, "acme")
  warehouse := env.createWarehouse(t, client.UserID, "North")
  require.NoError(t, env.clientService.DeactivateClient(ctx, client.UserID))

  updated, err := env.clientService.UpdateClient(ctx, client.UserID, services.ClientPatch{
    Active: boolPtr(true),
  })
  require.NoError(t, err)
  assert.True(t, updated.IsActive)

  // Descendants come back one level at a time.
  assert.False(t, env.reloadWarehouse(t, warehouse.ID).IsActive)
}

func TestUpdateClientCanDeactivateViaPatch(t *testing.T) {
  env := newTestEnv(t)
  ctx := env.adminContext()

  client := env.registerClient(t, "acme")
  warehouse := env.createWarehouse(t, client.UserID, "North")

  updated, err := env.clientService.UpdateClient(ctx, client.UserID, services.ClientPatch{
    Active: boolPtr(false),
  })
  require.NoError(t, err)
  assert.False(t, updated.IsActive)
  assert.False(t, env.reloadWarehouse(t, warehouse.ID).IsActive)

  _, err = env.clientService.UpdateClient(ctx, client.UserID, services.ClientPatch{
    Active: boolPtr(false),
  })
  assert.True(t, domainerr.IsConflict(err))
}

func TestDeactivateClientRevokesSessions(t *testing.T) {
  env := newTestEnv(t)
  ctx := env.adminContext()

  client := env.registerClient(t, "acme")
  accessToken, _, err := env.authService.Login(ctx, "acme", testPassword)
  require.NoError(t, err)

  require.NoError(t, env.clientService.DeactivateClient(ctx, client.UserID))

  tokens, err := env.userTokenRepo.GetByAccessTokens(ctx, nil, []string{accessToken})
  require.NoError(t, err)
  assert.Empty(t, tokens)

  revoked, err := env.tokenBlacklist.Contains(ctx, accessToken)
  require.NoError(t, err)
  assert.True(t, revoked)

  _, err = env.authService.SetContextFromToken(ctx, accessToken)
  assert.ErrorIs(t, err, services.ErrTokenRevoked)
}

func TestGetClientVisibility(t *testing.T) {
  env := newTestEnv(t)

  clientA := env.registerClient(t, "acme")
  clientB := env.registerClient(t, "globex")

  // Admin can fetch either.
  got, err := env.clientService.GetClient(env.adminContext(), clientB.UserID)
  require.NoError(t, err)
  assert.Equal(t, clientB.UserID, got.UserID)

  // A client sees itself but not its neighbor.
  ctxA := env.clientContext(clientA)
  _, err = env.clientService.GetClient(ctxA, clientA.UserID)
  assert.NoError(t, err)
  _, err = env.clientService.GetClient(ctxA, clientB.UserID)
  assert.True(t, domainerr.IsNotFound(err))
}

func TestNonAdminCannotUpdateClients(t *testing.T) {
  env := newTestEnv(t)

  clientA := env.registerClient(t, "acme")
  clientB := env.registerClient(t, "globex")
  ctxA := env.clientContext(clientA)

  _, err := env.clientService.UpdateClient(ctxA, clientA.UserID, services.ClientPatch{
    Username: strPtr("acme-renamed"),
  })
  assert.True(t, domainerr.IsAuthorization(err))
  _, err = env.clientService.UpdateClient(ctxA, clientB.UserID, services.ClientPatch{
    Username: strPtr("globex-renamed"),
  })
  assert.True(t, domainerr.IsAuthorization(err))

  // Nothing changed.
  users, uErr := env.userRepo.GetByUsernames(ctxA, nil, []string{"acme", "globex"})
  require.NoError(t, uErr)
  assert.Len(t, users, 2)
}
