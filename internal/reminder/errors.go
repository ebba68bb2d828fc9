package reminder

import (
	"errors"
	"fmt"
)

var ErrAssignmentNotFound = errors.New("assignment not found")

// StoreError wraps a failure of one of the backing stores.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

type DispatchError struct {
	Recipient string
	Err       error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch to %s: %v", e.Recipient, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}
