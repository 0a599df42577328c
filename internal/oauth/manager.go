package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/auox/auox/internal/logging"
	"github.com/auox/auox/internal/platform"
	"github.com/auox/auox/internal/tokenstore"
)

// Config describes the OAuth client and the provider endpoints.
type Config struct {
	ClientID        string
	ClientSecret    string
	Institution     string // sent as finInst on the authorize URL
	AuthURL         string
	TokenURL        string
	RedirectPort    int // 0 picks a free port
	CallbackTimeout time.Duration
}

// TokenStore is the persistence the manager needs.
type TokenStore interface {
	Load() (tokenstore.Record, bool, error)
	Save(tokenstore.Record) error
}

// Prober reports whether accessToken is still accepted by the API.
type Prober func(ctx context.Context, accessToken string) error

// Manager decides between reusing, refreshing and re-acquiring the token.
type Manager struct {
	cfg    Config
	store  TokenStore
	probe  Prober
	logger *log.Logger

	httpClient  *http.Client
	openBrowser func(string) error
	newState    func() string
	out         io.Writer
}

const defaultCallbackTimeout = 5 * time.Minute

// NewManager wires a Manager. logger may be nil.
func NewManager(cfg Config, store TokenStore, probe Prober, logger *log.Logger) *Manager {
	if logger == nil {
		logger = logging.Discard()
	}
	if cfg.CallbackTimeout <= 0 {
		cfg.CallbackTimeout = defaultCallbackTimeout
	}
	return &Manager{
		cfg:         cfg,
		store:       store,
		probe:       probe,
		logger:      logger.WithPrefix("oauth"),
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		openBrowser: platform.OpenURL,
		newState:    uuid.NewString,
		out:         os.Stderr,
	}
}

// EnsureValidToken returns an access token the API accepts. A stored token
// that passes the probe is returned unchanged. Otherwise the stored refresh
// token is tried, and as a last resort the browser login runs.
func (m *Manager) EnsureValidToken(ctx context.Context) (tokenstore.Record, error) {
	rec, ok, err := m.store.Load()
	if err != nil {
		if !errors.Is(err, tokenstore.ErrCorrupt) {
			return tokenstore.Record{}, fmt.Errorf("load token: %w", err)
		}
		m.logger.Warn("ignoring unreadable token file", "err", err)
		ok = false
	}

	if ok {
		probeErr := m.probe(ctx, rec.AccessToken)
		if probeErr == nil {
			m.logger.Debug("stored token accepted")
			return rec, nil
		}
		m.logger.Info("stored token rejected", "err", probeErr)

		if rec.RefreshToken != "" {
			refreshed, err := m.refresh(ctx, rec.RefreshToken)
			if err == nil {
				m.logger.Info("token refreshed")
				return refreshed, nil
			}
			m.logger.Warn("token refresh failed, starting browser login", "err", err)
		}
	}

	return m.authorize(ctx)
}

func (m *Manager) refresh(ctx context.Context, refreshToken string) (tokenstore.Record, error) {
	oc := m.oauthConfig("")
	source := oc.TokenSource(m.clientContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := source.Token()
	if err != nil {
		return tokenstore.Record{}, fmt.Errorf("refresh token: %w", err)
	}
	rec := recordFromToken(tok, refreshToken)
	if err := m.store.Save(rec); err != nil {
		return tokenstore.Record{}, fmt.Errorf("save token: %w", err)
	}
	return rec, nil
}

func (m *Manager) authorize(ctx context.Context) (tokenstore.Record, error) {
	state := m.newState()
	listener, err := Listen(fmt.Sprintf("127.0.0.1:%d", m.cfg.RedirectPort), state)
	if err != nil {
		return tokenstore.Record{}, err
	}
	defer listener.Close()

	port := m.cfg.RedirectPort
	if tcp, ok := listener.Addr().(*net.TCPAddr); ok {
		port = tcp.Port
	}
	oc := m.oauthConfig(fmt.Sprintf("http://localhost:%d", port))
	authURL := oc.AuthCodeURL(state, oauth2.SetAuthURLParam("finInst", m.cfg.Institution))

	m.logger.Info("starting browser login", "port", port)
	_, _ = fmt.Fprintf(m.out, "Log in to your bank in the browser. If it did not open, visit:\n\n  %s\n\n", authURL)
	if err := m.openBrowser(authURL); err != nil {
		m.logger.Warn("could not open browser", "err", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, m.cfg.CallbackTimeout)
	defer cancel()
	code, err := listener.Wait(waitCtx)
	if err != nil {
		return tokenstore.Record{}, fmt.Errorf("wait for authorization code: %w", err)
	}

	tok, err := oc.Exchange(m.clientContext(ctx), code)
	if err != nil {
		return tokenstore.Record{}, fmt.Errorf("exchange authorization code: %w", err)
	}
	rec := recordFromToken(tok, "")
	if err := m.store.Save(rec); err != nil {
		return tokenstore.Record{}, fmt.Errorf("save token: %w", err)
	}
	m.logger.Info("browser login complete")
	return rec, nil
}

func (m *Manager) oauthConfig(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     m.cfg.ClientID,
		ClientSecret: m.cfg.ClientSecret,
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   m.cfg.AuthURL,
			TokenURL:  m.cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func (m *Manager) clientContext(ctx context.Context) context.Context {
	if m.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
}

func recordFromToken(tok *oauth2.Token, previousRefresh string) tokenstore.Record {
	rec := tokenstore.Record{
		AccessToken:                   tok.AccessToken,
		RefreshToken:                  tok.RefreshToken,
		TokenType:                     tok.TokenType,
		ExpiresIn:                     extraInt(tok, "expires_in"),
		RefreshTokenExpiresIn:         extraInt(tok, "refresh_token_expires_in"),
		RefreshTokenAbsoluteExpiresIn: extraInt(tok, "refresh_token_absolute_expires_in"),
	}
	if rec.RefreshToken == "" {
		rec.RefreshToken = previousRefresh
	}
	if rec.ExpiresIn == 0 && !tok.Expiry.IsZero() {
		rec.ExpiresIn = int64(time.Until(tok.Expiry).Round(time.Second) / time.Second)
	}
	return rec
}

func extraInt(tok *oauth2.Token, key string) int64 {
	switch v := tok.Extra(key).(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case json.Number:
		n, _ := v.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n
	default:
		return 0
	}
}
