package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/auox/auox/internal/config"
	"github.com/auox/auox/internal/logging"
	"github.com/auox/auox/internal/oauth"
	"github.com/auox/auox/internal/prefs"
	"github.com/auox/auox/internal/sparebank"
	"github.com/auox/auox/internal/tokenstore"
	"github.com/auox/auox/internal/ui"
)

// Options configure the auox application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/auox/prefs.toml
	Debug      bool
}

// Run authenticates against the bank and runs the TUI until the user quits
// or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	logger, closer, err := logging.Open(cfg.LogPath(), opts.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	logger.Info("starting", "institution", cfg.FinancialInstitution, "api", cfg.APIBaseURL)

	manager := oauth.NewManager(
		oauthConfig(cfg),
		tokenstore.New(cfg.TokenPath()),
		probe(cfg.APIBaseURL),
		logger,
	)
	rec, err := manager.EnsureValidToken(ctx)
	if err != nil {
		logger.Error("authentication failed", "err", err)
		return fmt.Errorf("authenticate: %w", err)
	}

	client, err := sparebank.NewClient(cfg.APIBaseURL, rec.AccessToken)
	if err != nil {
		return fmt.Errorf("init bank client: %w", err)
	}

	err = ui.Run(ui.Options{
		Context:   ctx,
		Bank:      client,
		Logger:    logger,
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
	})
	if err != nil {
		logger.Error("ui exited", "err", err)
		return err
	}
	logger.Info("bye")
	return nil
}

func oauthConfig(cfg config.Config) oauth.Config {
	base := strings.TrimRight(cfg.AuthBaseURL, "/")
	return oauth.Config{
		ClientID:        cfg.ClientID,
		ClientSecret:    cfg.ClientSecret,
		Institution:     cfg.FinancialInstitution,
		AuthURL:         base + "/oauth/authorize",
		TokenURL:        base + "/oauth/token",
		RedirectPort:    cfg.RedirectPort,
		CallbackTimeout: cfg.CallbackTimeout,
	}
}

// probe checks a stored access token with the API's hello-world endpoint.
func probe(apiBaseURL string) oauth.Prober {
	return func(ctx context.Context, accessToken string) error {
		client, err := sparebank.NewClient(apiBaseURL, accessToken)
		if err != nil {
			return err
		}
		return client.HelloWorld(ctx)
	}
}
