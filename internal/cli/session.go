package cli

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pluqqy/profilectl/pkg/files"
	"github.com/pluqqy/profilectl/pkg/form"
	"github.com/pluqqy/profilectl/pkg/gateway"
	"github.com/pluqqy/profilectl/pkg/i18n"
	"github.com/pluqqy/profilectl/pkg/metadata"
	"github.com/pluqqy/profilectl/pkg/models"
	"github.com/pluqqy/profilectl/pkg/prefs"
)

// ProfileSession wires a form controller for one account to the local ledger,
// the preference store and the translation catalog
type ProfileSession struct {
	Account    models.Account
	Viewer     string
	Controller *form.Controller
	Queue      *form.Queue
	Prefs      *prefs.Store
	Catalog    *i18n.Catalog
	Logger     *zap.Logger
}

// SessionOption customizes a ProfileSession
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	gateway gateway.Gateway
}

// WithGateway replaces the local ledger, e.g. with gateway.Mock in tests
func WithGateway(gw gateway.Gateway) SessionOption {
	return func(c *sessionConfig) { c.gateway = gw }
}

// OpenProfileSession loads the account and seeds the form from its metadata
func (c *CommandContext) OpenProfileSession(ctx context.Context, accountName, viewer string, opts ...SessionOption) (*ProfileSession, error) {
	settings := c.LoadSettingsWithDefault()
	logger := c.Logger()

	accounts := files.NewAccountStore()
	account, err := accounts.Get(accountName)
	if err != nil {
		if errors.Is(err, files.ErrAccountNotFound) {
			return nil, fmt.Errorf("account '%s' not found. Add it with 'profilectl accounts add %s'", accountName, accountName)
		}
		return nil, err
	}

	cfg := sessionConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.gateway == nil {
		cfg.gateway = gateway.NewLedger(accounts, settings.Ledger.Latency, logger)
	}

	store, err := c.OpenPreferences(ctx)
	if err != nil {
		return nil, err
	}

	catalog := i18n.NewCatalog(store.Language(ctx))
	queue := form.NewQueue(16)

	controller := form.NewController(*account, cfg.gateway, queue,
		form.WithOwnership(func() bool { return viewer != "" && viewer == account.Name }),
		form.WithTranslator(catalog),
		form.WithLogger(logger),
	)

	profile, err := metadata.ProfileFromJSON(account.JSONMetadata)
	if err != nil {
		logger.Warn("account metadata is not valid JSON", zap.String("account", account.Name), zap.Error(err))
		profile = models.Profile{}
	}
	controller.Initialize(profile)

	return &ProfileSession{
		Account:    *account,
		Viewer:     viewer,
		Controller: controller,
		Queue:      queue,
		Prefs:      store,
		Catalog:    catalog,
		Logger:     logger,
	}, nil
}

// Owner reports whether the viewer owns the account
func (s *ProfileSession) Owner() bool {
	return s.Controller.Owner()
}

// Close stops the controller and releases the preference backend
func (s *ProfileSession) Close() error {
	s.Controller.Close()
	s.Queue.Close()
	return s.Prefs.Close()
}
