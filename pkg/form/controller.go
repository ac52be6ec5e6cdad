// Package form implements the account settings form: field state, validation,
// submit gating and the asynchronous save against a gateway.
package form

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pluqqy/profilectl/pkg/gateway"
	"github.com/pluqqy/profilectl/pkg/i18n"
	"github.com/pluqqy/profilectl/pkg/metadata"
	"github.com/pluqqy/profilectl/pkg/models"
	"github.com/pluqqy/profilectl/pkg/validation"
)

// SuccessMessageTTL is how long "saved!" stays visible after a successful submit
const SuccessMessageTTL = 4 * time.Second

type subscriber struct {
	id int
	fn func(Snapshot)
}

// Controller owns the form state for one account. All methods must be called
// from the loop goroutine; gateway completions and timer expirations are posted
// back to the same loop.
type Controller struct {
	account   models.Account
	gateway   gateway.Gateway
	loop      Loop
	clock     Clock
	owner     func() bool
	translate i18n.Translator
	logger    *zap.Logger
	newID     func() string

	fields   map[models.ProfileField]*FieldState
	baseline models.Profile

	submitting     bool
	errorMessage   string
	successMessage string
	successTimer   *loopTimer
	closed         bool

	subscribers []subscriber
	nextSubID   int
}

// Option configures a Controller
type Option func(*Controller)

func WithClock(clock Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithOwnership sets the check that the viewer owns the account. Without it,
// submission is never allowed.
func WithOwnership(owner func() bool) Option {
	return func(c *Controller) { c.owner = owner }
}

func WithTranslator(t i18n.Translator) Option {
	return func(c *Controller) { c.translate = t }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithRequestIDs overrides the generator for gateway request IDs
func WithRequestIDs(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

// NewController creates a controller for account. Call Initialize before use.
func NewController(account models.Account, gw gateway.Gateway, loop Loop, opts ...Option) *Controller {
	c := &Controller{
		account:   account,
		gateway:   gw,
		loop:      loop,
		clock:     SystemClock,
		owner:     func() bool { return false },
		translate: i18n.English,
		logger:    zap.NewNop(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("account", account.Name))
	c.Initialize(models.Profile{})
	return c
}

// Initialize seeds the five fields from profile and makes it the clean baseline
func (c *Controller) Initialize(profile models.Profile) {
	c.cancelSuccessTimer()

	c.fields = make(map[models.ProfileField]*FieldState, len(models.ProfileFields))
	c.baseline = make(models.Profile, len(models.ProfileFields))
	for _, field := range models.ProfileFields {
		value := profile[field]
		c.fields[field] = &FieldState{
			Value: value,
			Error: validation.Field(field, value),
		}
		c.baseline[field] = value
	}

	c.submitting = false
	c.errorMessage = ""
	c.successMessage = ""
	c.notify()
}

// SetFieldValue records an edit. Unknown fields are ignored.
func (c *Controller) SetFieldValue(field models.ProfileField, value string) {
	state, ok := c.fields[field]
	if !ok {
		return
	}
	state.Value = value
	state.Touched = true
	state.Error = validation.Field(field, value)
	c.notify()
}

// SetFieldBlurred records that focus left the field
func (c *Controller) SetFieldBlurred(field models.ProfileField) {
	state, ok := c.fields[field]
	if !ok || state.Blurred {
		return
	}
	state.Blurred = true
	c.notify()
}

// CanSubmit reports whether Submit would do anything
func (c *Controller) CanSubmit() bool {
	return !c.closed && !c.submitting && c.valid() && c.touched() && c.owner()
}

// Owner reports whether the viewer owns the account
func (c *Controller) Owner() bool {
	return c.owner()
}

// Account returns the account as last saved through this controller
func (c *Controller) Account() models.Account {
	return c.account
}

// Submit sends the current values to the gateway. It returns false without doing
// anything when CanSubmit is false, or when the request could not be sent.
func (c *Controller) Submit(ctx context.Context) bool {
	if !c.CanSubmit() {
		return false
	}

	c.cancelSuccessTimer()
	c.submitting = true
	c.errorMessage = ""
	c.successMessage = ""

	values := c.values()
	encoded, err := c.buildMetadata(values)
	if err != nil {
		c.fail(err)
		return false
	}

	req := gateway.Request{
		ID:           c.newID(),
		JSONMetadata: encoded,
		Account:      c.account.Name,
		MemoKey:      c.account.MemoKey,
	}
	c.logger.Info("submitting profile update", zap.String("request_id", req.ID))
	c.notify()

	var once sync.Once
	complete := func(fn func()) {
		once.Do(func() {
			c.loop.Post(func() {
				if c.closed {
					return
				}
				fn()
			})
		})
	}

	err = c.gateway.UpdateAccount(ctx, req, gateway.Callbacks{
		OnSuccess: func() { complete(func() { c.succeed(req, values) }) },
		OnError:   func(err error) { complete(func() { c.fail(err) }) },
	})
	if err != nil {
		c.fail(err)
		return false
	}
	return true
}

// PreviewMetadata returns the json_metadata a submit would send right now
func (c *Controller) PreviewMetadata() (string, error) {
	return c.buildMetadata(c.values())
}

// Reset restores the clean baseline and cancels a pending success-message clear
func (c *Controller) Reset() {
	c.cancelSuccessTimer()
	for _, field := range models.ProfileFields {
		value := c.baseline[field]
		c.fields[field] = &FieldState{
			Value: value,
			Error: validation.Field(field, value),
		}
	}
	c.errorMessage = ""
	c.successMessage = ""
	c.notify()
}

// Close detaches the controller: timers are cancelled, late gateway completions
// are dropped and subscribers stop receiving snapshots.
func (c *Controller) Close() {
	c.cancelSuccessTimer()
	c.closed = true
	c.subscribers = nil
}

// Subscribe registers fn to receive a snapshot after every change and returns
// a function that removes it
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	c.nextSubID++
	id := c.nextSubID
	c.subscribers = append(c.subscribers, subscriber{id: id, fn: fn})

	return func() {
		for i, s := range c.subscribers {
			if s.id == id {
				c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() Snapshot {
	fields := make(map[models.ProfileField]FieldState, len(c.fields))
	dirty := false
	for field, state := range c.fields {
		fields[field] = *state
		if state.Value != c.baseline[field] {
			dirty = true
		}
	}

	return Snapshot{
		Fields:         fields,
		Submitting:     c.submitting,
		Valid:          c.valid(),
		Touched:        c.touched(),
		Dirty:          dirty,
		ErrorMessage:   c.errorMessage,
		SuccessMessage: c.successMessage,
	}
}

func (c *Controller) succeed(req gateway.Request, submitted models.Profile) {
	c.submitting = false
	c.errorMessage = ""
	c.successMessage = c.translate.Translate("saved") + "!"
	c.account.JSONMetadata = req.JSONMetadata
	c.updateInitialValues(submitted)

	c.successTimer = afterOnLoop(c.clock, c.loop, SuccessMessageTTL, func() {
		c.successTimer = nil
		c.successMessage = ""
		c.notify()
	})

	c.logger.Info("profile saved", zap.String("request_id", req.ID))
	c.notify()
}

func (c *Controller) fail(err error) {
	c.submitting = false
	c.errorMessage = c.translate.Translate("server_returned_error")
	c.logger.Error("profile update failed", zap.Error(err))
	c.notify()
}

// updateInitialValues makes submitted the clean baseline. Fields edited while
// the request was in flight stay touched.
func (c *Controller) updateInitialValues(submitted models.Profile) {
	for _, field := range models.ProfileFields {
		c.baseline[field] = submitted[field]
		state := c.fields[field]
		if state.Value == submitted[field] {
			state.Touched = false
			state.Blurred = false
		}
	}
}

func (c *Controller) buildMetadata(values models.Profile) (string, error) {
	doc, err := metadata.Parse(c.account.JSONMetadata)
	if err != nil {
		c.logger.Warn("replacing unreadable account metadata", zap.Error(err))
		doc = metadata.Document{}
	}

	migrateLegacyMetadata(doc)
	metadata.MergeProfile(doc, models.NewProfilePatch(values))

	return doc.Encode()
}

func (c *Controller) cancelSuccessTimer() {
	if c.successTimer != nil {
		c.successTimer.Stop()
		c.successTimer = nil
	}
}

func (c *Controller) values() models.Profile {
	out := make(models.Profile, len(c.fields))
	for field, state := range c.fields {
		out[field] = state.Value
	}
	return out
}

func (c *Controller) valid() bool {
	for _, state := range c.fields {
		if state.Error != "" {
			return false
		}
	}
	return true
}

func (c *Controller) touched() bool {
	for _, state := range c.fields {
		if state.Touched {
			return true
		}
	}
	return false
}

func (c *Controller) notify() {
	if len(c.subscribers) == 0 {
		return
	}
	snap := c.Snapshot()
	for _, s := range c.subscribers {
		s.fn(snap)
	}
}
