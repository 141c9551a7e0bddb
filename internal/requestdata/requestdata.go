package requestdata

import (
  "context"

  "github.com/google/uuid"
)

type key struct{}

var requestDataKey key

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
  return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
  val := ctx.Value(requestDataKey)
  if rd, ok := val.(*RequestData); ok {
    return rd
  }
  return nil
}

// RequestData is the resolved principal for the current request, set by the
// auth middleware after the token checks pass. Every core operation reads
// the caller from here instead of any ambient session state.
type RequestData struct {
  TokenString   string
  RefreshToken  string
  UserID        uuid.UUID
  Username      string
  IsSuperuser   bool
  IsStaff       bool
  IsActive      bool
}

// Admin reports whether the caller may perform staff-only mutations.
func (rd *RequestData) Admin() bool {
  return rd.IsStaff || rd.IsSuperuser
}
