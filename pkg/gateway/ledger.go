package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pluqqy/profilectl/pkg/files"
	"github.com/pluqqy/profilectl/pkg/models"
)

// AccountStore is the account book the ledger applies updates to
type AccountStore interface {
	Get(name string) (*models.Account, error)
	UpdateMetadata(name, jsonMetadata string) error
}

// Ledger applies account updates to a local account book on a background goroutine
type Ledger struct {
	store   AccountStore
	latency time.Duration
	logger  *zap.Logger
}

func NewLedger(store AccountStore, latency time.Duration, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{store: store, latency: latency, logger: logger}
}

// UpdateAccount returns immediately; the outcome is reported through cb
func (l *Ledger) UpdateAccount(ctx context.Context, req Request, cb Callbacks) error {
	if cb.OnSuccess == nil || cb.OnError == nil {
		return errors.New("both completion callbacks are required")
	}

	go func() {
		err := l.apply(ctx, req)
		if err != nil {
			l.logger.Warn("account update rejected",
				zap.String("request_id", req.ID),
				zap.String("account", req.Account),
				zap.Error(err))
			cb.OnError(err)
			return
		}
		l.logger.Info("account updated",
			zap.String("request_id", req.ID),
			zap.String("account", req.Account))
		cb.OnSuccess()
	}()

	return nil
}

func (l *Ledger) apply(ctx context.Context, req Request) error {
	if l.latency > 0 {
		timer := time.NewTimer(l.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if len(req.JSONMetadata) > MaxMetadataSize {
		return fmt.Errorf("%w: %d bytes", ErrMetadataTooLarge, len(req.JSONMetadata))
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(req.JSONMetadata), &doc); err != nil || doc == nil {
		return ErrInvalidMetadata
	}

	account, err := l.store.Get(req.Account)
	if err != nil {
		if errors.Is(err, files.ErrAccountNotFound) {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, req.Account)
		}
		return err
	}
	if account.MemoKey != req.MemoKey {
		return ErrKeyMismatch
	}

	return l.store.UpdateMetadata(req.Account, req.JSONMetadata)
}

var _ Gateway = (*Ledger)(nil)
