package errordata

import (
  "context"
)

type key struct{}

var errorDataKey key

// ErrorData carries a best-effort message for unexpected failures. Services
// set it when something internal goes wrong; the HTTP boundary surfaces it
// instead of crashing the request pipeline.
type ErrorData struct {
  Message string
}

func WithErrorData(ctx context.Context) context.Context {
  ed := &ErrorData{Message: ""}
  return context.WithValue(ctx, errorDataKey, ed)
}

func GetErrorData(ctx context.Context) *ErrorData {
  val := ctx.Value(errorDataKey)
  ed, ok := val.(*ErrorData)
  if !ok {
    return nil
  }
  return ed
}

func (ed *ErrorData) SetMessage(msg string) {
  ed.Message = msg
}

func (ed *ErrorData) HasMessage() bool {
  return ed.Message != ""
}
