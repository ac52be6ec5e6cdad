// Package gateway submits account metadata updates.
package gateway

import (
	"context"
	"errors"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrKeyMismatch      = errors.New("memo key does not match account")
	ErrMetadataTooLarge = errors.New("json metadata too large")
	ErrInvalidMetadata  = errors.New("json metadata is not a valid object")
)

// MaxMetadataSize bounds the serialized json_metadata accepted by the ledger
const MaxMetadataSize = 8192

// Request is an account_update operation
type Request struct {
	ID           string
	JSONMetadata string
	Account      string
	MemoKey      string
}

// Callbacks receive the outcome of UpdateAccount. Exactly one of them is
// called, once, after UpdateAccount has returned.
type Callbacks struct {
	OnSuccess func()
	OnError   func(error)
}

// Gateway submits account updates asynchronously
type Gateway interface {
	UpdateAccount(ctx context.Context, req Request, cb Callbacks) error
}
