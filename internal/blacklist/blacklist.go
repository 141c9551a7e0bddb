package blacklist

import (
  "context"
  "time"
)

// Blacklist is the revoked-access-token set consulted by the auth
// middleware. Entries only need to outlive the token they revoke, so
// implementations may expire them after the supplied TTL.
type Blacklist interface {
  Add(ctx context.Context, token string, ttl time.Duration) error
  Contains(ctx context.Context, token string) (bool, error)
}
