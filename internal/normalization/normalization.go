package normalization

import (
  "strings"
)

// ParseInputString trims surrounding whitespace and collapses interior runs
// of whitespace to a single space. Case is preserved: usernames are
// case-sensitive in uniqueness checks.
func ParseInputString(in string) string {
  trimmed := strings.TrimSpace(in)
  if trimmed == "" {
    return ""
  }
  return strings.Join(strings.Fields(trimmed), " ")
}

func ParseInputStringPtr(in *string) *string {
  if in == nil {
    return nil
  }
  out := ParseInputString(*in)
  return &out
}
