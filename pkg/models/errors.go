package models

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is wrapped by every IndexError.
var ErrIndexOutOfRange = errors.New("index out of range")

// IndexError describes a face or attribute index that does not resolve.
// Loaders return it; Model panics with it when a face is addressed past
// the end of its tables.
type IndexError struct {
	Table string // "face", "vertex", "v", "vt" or "vn"
	Face  int
	Slot  int
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("models: face %d slot %d: %s index %d %s [0,%d)",
		e.Face, e.Slot, e.Table, e.Index, ErrIndexOutOfRange, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
