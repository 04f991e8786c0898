package storage

import (
	"fmt"
)

// AccessError reports a read or write failure of the underlying storage.
// It unwraps to the original error so callers can still match fs.ErrPermission
// and friends.
type AccessError struct {
	Op   string
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// MalformedRecordError reports a persisted record that cannot be turned back
// into a transaction.
type MalformedRecordError struct {
	Line  int // 1-based line or row id, 0 when unknown
	Field string
	Value string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	msg := "malformed record"
	if e.Line > 0 {
		msg = fmt.Sprintf("%s at line %d", msg, e.Line)
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s: field %q", msg, e.Field)
		if e.Value != "" {
			msg = fmt.Sprintf("%s value %q", msg, e.Value)
		}
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }
