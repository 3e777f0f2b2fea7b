package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/oilstone/plantimer-auth0/internal/auth0"
	"github.com/oilstone/plantimer-auth0/internal/config"
	"github.com/oilstone/plantimer-auth0/internal/store"
)

const (
	credentialsDirName = "credentials"
	settingsFileName   = "settings.json"
)

// newSession loads the configuration and assembles a ready-to-use session
// with file-backed stores and the loopback browser authenticator.
func newSession(ctx context.Context) (*auth0.Session, config.Config, error) {
	dir := configDir
	if dir == "" {
		var err error
		dir, err = config.DefaultConfigDir()
		if err != nil {
			return nil, config.Config{}, err
		}
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, config.Config{}, err
	}

	secure, err := store.NewFileSecureStore(filepath.Join(dir, credentialsDirName))
	if err != nil {
		return nil, config.Config{}, err
	}
	settings, err := store.NewFileSettingsStore(filepath.Join(dir, settingsFileName))
	if err != nil {
		return nil, config.Config{}, err
	}
	tokens, err := store.NewTokenStore(store.TokenStoreOptions{
		Secure:   secure,
		Settings: settings,
	})
	if err != nil {
		return nil, config.Config{}, err
	}

	session, err := auth0.NewSession(auth0.SessionOptions{
		Tokens:        tokens,
		Exchange:      auth0.NewExchangeClient(auth0.ExchangeClientOptions{}),
		Authenticator: &auth0.LoopbackAuthenticator{Port: cfg.Browser.CallbackPort},
	})
	if err != nil {
		return nil, config.Config{}, err
	}

	if err := session.SetUp(ctx, cfg); err != nil {
		return nil, config.Config{}, fmt.Errorf("failed to set up session: %w", err)
	}

	return session, cfg, nil
}
