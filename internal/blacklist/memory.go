package blacklist

import (
  "context"
  "sync"
  "time"
)

// MemoryBlacklist is a process-local Blacklist used in tests and when no
// redis address is configured. Revocations do not survive a restart, which
// is acceptable because tokens expire on their own.
type MemoryBlacklist struct {
  mu      sync.Mutex
  entries map[string]time.Time
}

func NewMemoryBlacklist() *MemoryBlacklist {
  return &MemoryBlacklist{entries: make(map[string]time.Time)}
}

func (mb *MemoryBlacklist) Add(_ context.Context, token string, ttl time.Duration) error {
  if token == "" {
    return nil
  }
  mb.mu.Lock()
  defer mb.mu.Unlock()
  mb.entries[token] = time.Now().Add(ttl)
  return nil
}

func (mb *MemoryBlacklist) Contains(_ context.Context, token string) (bool, error) {
  mb.mu.Lock()
  defer mb.mu.Unlock()
  expiry, ok := mb.entries[token]
  if !ok {
    return false, nil
  }
  if time.Now().After(expiry) {
    delete(mb.entries, token)
    return false, nil
  }
  return true, nil
}
