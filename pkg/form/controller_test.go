package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pluqqy/profilectl/pkg/gateway"
	"github.com/pluqqy/profilectl/pkg/models"
	"github.com/pluqqy/profilectl/pkg/validation"
)

type harness struct {
	ctrl  *Controller
	gw    *gateway.Mock
	queue *Queue
	clock *fakeClock
	logs  *observer.ObservedLogs
	owner bool
}

func newHarness(t *testing.T, account models.Account) *harness {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	h := &harness{
		gw:    gateway.NewMock(),
		queue: NewQueue(16),
		clock: &fakeClock{},
		logs:  logs,
		owner: true,
	}
	ids := 0
	h.ctrl = NewController(account, h.gw, h.queue,
		WithClock(h.clock),
		WithOwnership(func() bool { return h.owner }),
		WithLogger(zap.New(core)),
		WithRequestIDs(func() string {
			ids++
			return fmt.Sprintf("req-%d", ids)
		}),
	)
	t.Cleanup(h.ctrl.Close)
	return h
}

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestInitializeSeedsAllFields(t *testing.T) {
	h := newHarness(t, models.Account{Name: "alice"})
	h.ctrl.Initialize(models.Profile{models.FieldName: "Alice"})

	snap := h.ctrl.Snapshot()
	require.Len(t, snap.Fields, len(models.ProfileFields))
	assert.Equal(t, "Alice", snap.Field(models.FieldName).Value)
	assert.Equal(t, "", snap.Field(models.FieldAbout).Value)
	assert.False(t, snap.Touched)
	assert.False(t, snap.Submitting)
	assert.False(t, snap.Dirty)
	assert.True(t, snap.Valid)
}

func TestSetFieldValue(t *testing.T) {
	h := newHarness(t, models.Account{Name: "alice"})

	h.ctrl.SetFieldValue(models.FieldName, "@alice")
	snap := h.ctrl.Snapshot()
	assert.True(t, snap.Field(models.FieldName).Touched)
	assert.Equal(t, validation.NameBeginsWithAt, snap.Field(models.FieldName).Error)
	assert.False(t, snap.Valid)
	assert.True(t, snap.Touched)
	assert.True(t, snap.Dirty)

	h.ctrl.SetFieldValue(models.FieldName, "alice")
	snap = h.ctrl.Snapshot()
	assert.Empty(t, snap.Field(models.FieldName).Error)
	assert.True(t, snap.Valid)

	h.ctrl.SetFieldValue(models.ProfileField("nickname"), "x")
	assert.NotContains(t, h.ctrl.Snapshot().Fields, models.ProfileField("nickname"))
}

func TestCanSubmitCombinations(t *testing.T) {
	for mask := 0; mask < 16; mask++ {
		touched := mask&1 != 0
		valid := mask&2 != 0
		submitting := mask&4 != 0
		owner := mask&8 != 0

		t.Run(fmt.Sprintf("touched=%v/valid=%v/submitting=%v/owner=%v", touched, valid, submitting, owner), func(t *testing.T) {
			h := newHarness(t, models.Account{Name: "alice"})

			if submitting {
				h.ctrl.SetFieldValue(models.FieldAbout, "pending")
				require.True(t, h.ctrl.Submit(context.Background()))
				h.ctrl.Initialize(models.Profile{})
				h.ctrl.submitting = true
			}
			if touched {
				h.ctrl.SetFieldValue(models.FieldLocation, "Paris")
			}
			if !valid {
				h.ctrl.SetFieldValue(models.FieldWebsite, "example.com")
				if !touched {
					h.ctrl.fields[models.FieldWebsite].Touched = false
				}
			}
			h.owner = owner

			want := touched && valid && !submitting && owner
			assert.Equal(t, want, h.ctrl.CanSubmit())
		})
	}
}

func TestSubmitIsNoOpWhenBlocked(t *testing.T) {
	h := newHarness(t, models.Account{Name: "alice"})

	assert.False(t, h.ctrl.Submit(context.Background()))
	assert.Empty(t, h.gw.Requests())

	h.ctrl.SetFieldValue(models.FieldName, "Alice")
	h.owner = false
	assert.False(t, h.ctrl.Submit(context.Background()))
	assert.Empty(t, h.gw.Requests())
	assert.False(t, h.ctrl.Snapshot().Submitting)
}

func TestSubmitSendsMergedMetadata(t *testing.T) {
	h := newHarness(t, models.Account{
		Name:         "alice",
		MemoKey:      "STM-memo",
		JSONMetadata: `{"user_image":"x","profile":{"name":"old","cover_image":"c"},"app":"golos"}`,
	})
	h.ctrl.Initialize(models.Profile{models.FieldName: "old"})

	h.ctrl.SetFieldValue(models.FieldName, "new")
	require.True(t, h.ctrl.Submit(context.Background()))
	assert.True(t, h.ctrl.Snapshot().Submitting)

	req, ok := h.gw.Last()
	require.True(t, ok)
	assert.Equal(t, "req-1", req.ID)
	assert.Equal(t, "alice", req.Account)
	assert.Equal(t, "STM-memo", req.MemoKey)

	doc := decode(t, req.JSONMetadata)
	assert.NotContains(t, doc, "user_image")
	assert.Equal(t, "golos", doc["app"])
	profile := doc["profile"].(map[string]any)
	assert.Equal(t, "new", profile["name"])
	assert.Equal(t, "c", profile["cover_image"])
	assert.NotContains(t, profile, "about")
}

func TestSubmitOmittingFieldsIsIdempotent(t *testing.T) {
	h := newHarness(t, models.Account{Name: "alice", JSONMetadata: `{"profile":{"profile_image":"https://a/b.png","name":"A"}}`})
	h.ctrl.Initialize(models.Profile{models.FieldProfileImage: "https://a/b.png", models.FieldName: "A"})

	h.ctrl.SetFieldValue(models.FieldProfileImage, "")
	require.True(t, h.ctrl.Submit(context.Background()))
	first, _ := h.gw.Last()
	assert.NotContains(t, decode(t, first.JSONMetadata)["profile"], "profile_image")

	again := newHarness(t, models.Account{Name: "alice", JSONMetadata: first.JSONMetadata})
	again.ctrl.Initialize(models.Profile{models.FieldName: "A"})
	again.ctrl.SetFieldValue(models.FieldProfileImage, "")
	require.True(t, again.ctrl.Submit(context.Background()))
	second, _ := again.gw.Last()
	assert.JSONEq(t, first.JSONMetadata, second.JSONMetadata)
}

func TestCompletionWaitsForLoop(t *testing.T) {
	h := newHarness(t, models.Account{Name: "alice"})
	h.ctrl.SetFieldValue(models.FieldAbout, "hello")
	require.True(t, h.ctrl.Submit(context.Background()))

	require.NoError(t, h.gw.Succeed())
	assert.True(t, h.ctrl.Snapshot().Submitting)
	assert.Empty(t, h.ctrl.Snapshot().SuccessMessage)

	assert.Equal(t, 1, h.queue.Flush())
	assert.False(t, h.ctrl.Snapshot().Submitting)
}

func TestSuccessResetsBaseline(t *testing.T) {
	h := newHarness(t, models.Account{Name: "alice"})
	h.ctrl.SetFieldValue(models.FieldAbout, "hello")
	h.ctrl.SetFieldBlurred(models.FieldAbout)
	require.True(t, h.ctrl.Submit(context.Background()))

	require.NoError(t, h.gw.Succeed())
	h.queue.Flush()

	snap := h.ctrl.Snapshot()
	assert.False(t, snap.Submitting)
	assert.False(t, snap.Touched)
	assert.False(t, snap.Dirty)
	assert.Empty(t, snap.ErrorMessage)
	assert.Equal(t, "saved!", snap.SuccessMessage)
	assert.Equal(t, "hello", snap.Field(models.FieldAbout).Value)

	req, _ := h.gw.Last()
	assert.Equal(t, req.JSONMetadata, h.ctrl.Account().JSONMetadata)

	assert.False(t, h.ctrl.CanSubmit())
	assert.False(t, h.ctrl.Submit(context.Background()))
	assert.Len(t, h.gw.Requests(), 1)
}

func TestEditsDuringSubmitStayTouched(t *testing.T) {
	h := newHarness(t, models.Account{Name: "alice"})
	h.ctrl.SetFieldValue(models.FieldAbout, "hello")
	require.True(t, h.ctrl.Submit(context.Background()))

	h.ctrl.SetFieldValue(models.FieldLocation, "Oslo")
	require.NoError(t, h.gw.Succeed())
	h.queue.Flush()

	snap := h.ctrl.Snapshot()
	assert.False(t, snap.Field(models.FieldAbout).Touched)
	assert.True(t, snap.Field(models.FieldLocation).Touched)
	assert.True(t, snap.Dirty)
	assert.True(t, h.ctrl.CanSubmit())
}

func TestFailureKeepsValuesAndLogs(t *testing.T) {
	h := newHarness(t, models.Account{Name: "alice"})
	h.ctrl.SetFieldValue(models.FieldAbout, "hello")
	require.True(t, h.ctrl.Submit(context.Background()))

	require.NoError(t, h.gw.Fail(errors.New("missing posting authority")))
	h.queue.Flush()

	snap := h.ctrl.Snapshot()
	assert.False(t, snap.Submitting)
	assert.Equal(t, "server returned an error", snap.ErrorMessage)
	assert.NotContains(t, snap.ErrorMessage, "authority")
	assert.Equal(t, "hello", snap.Field(models.FieldAbout).Value)
	assert.True(t, snap.Touched)
	assert.True(t, h.ctrl.CanSubmit())

	entries := h.logs.FilterMessage("profile update failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "missing posting authority", entries[0].ContextMap()["error"])
}

func TestSynchronousGatewayError(t *testing.T) {
	h := newHarness(t, models.Account{Name: "alice"})
	h.gw.Err = gateway.ErrMetadataTooLarge
	h.ctrl.SetFieldValue(models.FieldAbout, "hello")

	assert.False(t, h.ctrl.Submit(context.Background()))
	snap := h.ctrl.Snapshot()
	assert.False(t, snap.Submitting)
	assert.Equal(t, "server returned an error", snap.ErrorMessage)
}

func TestUnreadableMetadataIsReplaced(t *testing.T) {
	h := newHarness(t, models.Account{Name: "alice", JSONMetadata: "{not json"})
	h.ctrl.SetFieldValue(models.FieldName, "Alice")
	require.True(t, h.ctrl.Submit(context.Background()))

	req, _ := h.gw.Last()
	assert.JSONEq(t, `{"profile":{"name":"Alice"}}`, req.JSONMetadata)
	assert.Equal(t, 1, h.logs.FilterMessage("replacing unreadable account metadata").Len())
}

func TestSuccessMessageClears(t *testing.T) {
	h := newHarness(t, models.Account{Name: "alice"})
	h.ctrl.SetFieldValue(models.FieldAbout, "hello")
	require.True(t, h.ctrl.Submit(context.Background()))
	require.NoError(t, h.gw.Succeed())
	h.queue.Flush()

	h.clock.Advance(SuccessMessageTTL - 1)
	h.queue.Flush()
	assert.Equal(t, "saved!", h.ctrl.Snapshot().SuccessMessage)

	h.clock.Advance(1)
	h.queue.Flush()
	assert.Empty(t, h.ctrl.Snapshot().SuccessMessage)
}

func TestSuccessTimerCancelled(t *testing.T) {
	tests := []struct {
		name   string
		cancel func(h *harness)
		want   string
	}{
		{
			name: "new submit",
			cancel: func(h *harness) {
				h.ctrl.SetFieldValue(models.FieldAbout, "again")
				require.True(t, h.ctrl.Submit(context.Background()))
				require.NoError(t, h.gw.Succeed())
			},
			want: "saved!",
		},
		{
			name:   "reset",
			cancel: func(h *harness) { h.ctrl.Reset() },
			want:   "",
		},
		{
			name:   "close",
			cancel: func(h *harness) { h.ctrl.Close() },
			want:   "saved!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, models.Account{Name: "alice"})
			h.ctrl.SetFieldValue(models.FieldAbout, "hello")
			require.True(t, h.ctrl.Submit(context.Background()))
			require.NoError(t, h.gw.Succeed())
			h.queue.Flush()

			// the first timer's expiry is queued before the cancelling action runs
			h.clock.Advance(SuccessMessageTTL)
			tt.cancel(h)
			h.queue.Flush()

			assert.Equal(t, tt.want, h.ctrl.Snapshot().SuccessMessage)
		})
	}
}

func TestCompletionAfterCloseIsDropped(t *testing.T) {
	h := newHarness(t, models.Account{Name: "alice"})
	h.ctrl.SetFieldValue(models.FieldAbout, "hello")
	require.True(t, h.ctrl.Submit(context.Background()))

	h.ctrl.Close()
	require.NoError(t, h.gw.Succeed())
	h.queue.Flush()

	assert.True(t, h.ctrl.Snapshot().Submitting)
	assert.Zero(t, h.clock.Active())
}

func TestCallbacksAreSingleShot(t *testing.T) {
	gw := &doubleCallGateway{}
	q := NewQueue(4)
	ctrl := NewController(models.Account{Name: "alice"}, gw, q, WithOwnership(func() bool { return true }), WithClock(&fakeClock{}))
	ctrl.SetFieldValue(models.FieldAbout, "hello")

	require.True(t, ctrl.Submit(context.Background()))
	assert.Equal(t, 1, q.Flush())
	assert.Empty(t, ctrl.Snapshot().ErrorMessage)
	assert.Equal(t, "saved!", ctrl.Snapshot().SuccessMessage)
}

type doubleCallGateway struct{}

func (doubleCallGateway) UpdateAccount(_ context.Context, _ gateway.Request, cb gateway.Callbacks) error {
	cb.OnSuccess()
	cb.OnError(errors.New("late"))
	return nil
}

func TestVisibleError(t *testing.T) {
	h := newHarness(t, models.Account{Name: "alice"})

	h.ctrl.SetFieldValue(models.FieldWebsite, "h")
	snap := h.ctrl.Snapshot()
	assert.Equal(t, validation.InvalidURL, snap.Field(models.FieldWebsite).Error)
	assert.Empty(t, snap.VisibleError(models.FieldWebsite))

	h.ctrl.SetFieldBlurred(models.FieldWebsite)
	assert.Equal(t, validation.InvalidURL, h.ctrl.Snapshot().VisibleError(models.FieldWebsite))

	h.ctrl.SetFieldValue(models.FieldName, "@bob")
	assert.Equal(t, validation.NameBeginsWithAt, h.ctrl.Snapshot().VisibleError(models.FieldName))
}

func TestResetRestoresBaseline(t *testing.T) {
	h := newHarness(t, models.Account{Name: "alice"})
	h.ctrl.Initialize(models.Profile{models.FieldName: "Alice"})

	h.ctrl.SetFieldValue(models.FieldName, "@x")
	h.ctrl.SetFieldBlurred(models.FieldName)
	h.ctrl.Reset()

	snap := h.ctrl.Snapshot()
	assert.Equal(t, "Alice", snap.Field(models.FieldName).Value)
	assert.False(t, snap.Touched)
	assert.False(t, snap.Field(models.FieldName).Blurred)
	assert.True(t, snap.Valid)
}

func TestSubscribe(t *testing.T) {
	h := newHarness(t, models.Account{Name: "alice"})
	var got []string
	unsubscribe := h.ctrl.Subscribe(func(s Snapshot) {
		got = append(got, s.Field(models.FieldName).Value)
	})

	h.ctrl.SetFieldValue(models.FieldName, "a")
	h.ctrl.SetFieldValue(models.FieldName, "ab")
	unsubscribe()
	h.ctrl.SetFieldValue(models.FieldName, "abc")

	assert.Equal(t, []string{"a", "ab"}, got)
}

func TestPreviewMetadata(t *testing.T) {
	h := newHarness(t, models.Account{Name: "alice", JSONMetadata: `{"user_image":"x"}`})
	h.ctrl.SetFieldValue(models.FieldLocation, "Kyiv")

	preview, err := h.ctrl.PreviewMetadata()
	require.NoError(t, err)
	assert.JSONEq(t, `{"profile":{"location":"Kyiv"}}`, preview)
	assert.Empty(t, h.gw.Requests())
}
