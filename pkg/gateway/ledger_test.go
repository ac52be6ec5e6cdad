package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluqqy/profilectl/pkg/files"
	"github.com/pluqqy/profilectl/pkg/models"
)

type result struct {
	err error
}

func collect() (Callbacks, <-chan result) {
	done := make(chan result, 2)
	return Callbacks{
		OnSuccess: func() { done <- result{} },
		OnError:   func(err error) { done <- result{err: err} },
	}, done
}

func wait(t *testing.T, done <-chan result) result {
	t.Helper()
	select {
	case r := <-done:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("callback was not invoked")
		return result{}
	}
}

func setupBook(t *testing.T) *files.AccountStore {
	t.Helper()
	t.Chdir(t.TempDir())
	require.NoError(t, files.InitProjectStructure())

	store := files.NewAccountStore()
	require.NoError(t, store.Save(models.Account{Name: "alice", MemoKey: "GLS7memo", JSONMetadata: `{"app":"x"}`}))
	return store
}

func TestLedgerAppliesUpdate(t *testing.T) {
	store := setupBook(t)
	ledger := NewLedger(store, 0, nil)

	cb, done := collect()
	err := ledger.UpdateAccount(context.Background(), Request{
		ID:           "req-1",
		Account:      "alice",
		MemoKey:      "GLS7memo",
		JSONMetadata: `{"app":"x","profile":{"name":"Alice"}}`,
	}, cb)
	require.NoError(t, err)

	r := wait(t, done)
	require.NoError(t, r.err)

	account, err := store.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, `{"app":"x","profile":{"name":"Alice"}}`, account.JSONMetadata)
}

func TestLedgerRejects(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{
			name:    "unknown account",
			req:     Request{Account: "bob", MemoKey: "GLS7memo", JSONMetadata: `{}`},
			wantErr: ErrAccountNotFound,
		},
		{
			name:    "wrong memo key",
			req:     Request{Account: "alice", MemoKey: "GLS7other", JSONMetadata: `{}`},
			wantErr: ErrKeyMismatch,
		},
		{
			name:    "oversized metadata",
			req:     Request{Account: "alice", MemoKey: "GLS7memo", JSONMetadata: `{"a":"` + strings.Repeat("x", MaxMetadataSize) + `"}`},
			wantErr: ErrMetadataTooLarge,
		},
		{
			name:    "not an object",
			req:     Request{Account: "alice", MemoKey: "GLS7memo", JSONMetadata: `[1,2]`},
			wantErr: ErrInvalidMetadata,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupBook(t)
			ledger := NewLedger(store, 0, nil)

			cb, done := collect()
			require.NoError(t, ledger.UpdateAccount(context.Background(), tt.req, cb))

			r := wait(t, done)
			assert.True(t, errors.Is(r.err, tt.wantErr), "got %v", r.err)

			account, err := store.Get("alice")
			require.NoError(t, err)
			assert.Equal(t, `{"app":"x"}`, account.JSONMetadata)
		})
	}
}

func TestLedgerHonorsCancellation(t *testing.T) {
	store := setupBook(t)
	ledger := NewLedger(store, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cb, done := collect()
	require.NoError(t, ledger.UpdateAccount(ctx, Request{Account: "alice", MemoKey: "GLS7memo", JSONMetadata: `{}`}, cb))
	cancel()

	r := wait(t, done)
	assert.ErrorIs(t, r.err, context.Canceled)
}

func TestLedgerRequiresCallbacks(t *testing.T) {
	ledger := NewLedger(nil, 0, nil)
	err := ledger.UpdateAccount(context.Background(), Request{}, Callbacks{OnSuccess: func() {}})
	assert.Error(t, err)
}

func TestMockCompletesInOrder(t *testing.T) {
	m := NewMock()
	var got []string

	for _, id := range []string{"a", "b"} {
		id := id
		require.NoError(t, m.UpdateAccount(context.Background(), Request{ID: id}, Callbacks{
			OnSuccess: func() { got = append(got, id+":ok") },
			OnError:   func(err error) { got = append(got, id+":"+err.Error()) },
		}))
	}

	assert.Equal(t, 2, m.Pending())
	require.NoError(t, m.Succeed())
	require.NoError(t, m.Fail(errors.New("boom")))
	assert.Error(t, m.Succeed())

	assert.Equal(t, []string{"a:ok", "b:boom"}, got)
	last, ok := m.Last()
	require.True(t, ok)
	assert.Equal(t, "b", last.ID)
}
