package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the credentials and endpoints auox needs to talk to the bank.
type Config struct {
	ClientID             string
	ClientSecret         string
	FinancialInstitution string
	APIBaseURL           string
	AuthBaseURL          string
	RedirectPort         int
	CallbackTimeout      time.Duration
	DataDir              string
}

// ErrTemplateCreated is returned when no config existed and a template was written.
var ErrTemplateCreated = errors.New("config template created")

const (
	defaultConfigPath      = "~/.config/auox/config.toml"
	defaultDataDir         = "~/.local/share/auox"
	defaultAPIBaseURL      = "https://api.sparebank1.no"
	defaultAuthBaseURL     = "https://api-auth.sparebank1.no"
	defaultRedirectPort    = 8321
	defaultCallbackTimeout = 5 * time.Minute

	placeholderClientID     = "your-client-id-here"
	placeholderClientSecret = "your-client-secret-here"
)

const template = `# auox configuration file
# Add your SpareBank 1 API credentials below.

client_id = "your-client-id-here"
client_secret = "your-client-secret-here"

# Your financial institution ID.
# Examples: fid-smn (SpareBank 1 Midt-Norge), fid-snn (SpareBank 1 Nord-Norge).
financial_institution = "fid-smn"

# Local port the browser is redirected to after login.
# redirect_port = 8321

# How long to wait for the browser login before giving up.
# callback_timeout_seconds = 300
`

// Load reads the config at path (or the default location). A missing file is
// replaced with a template and ErrTemplateCreated is returned.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if werr := writeTemplate(resolved); werr != nil {
				return Config{}, werr
			}
			return Config{}, fmt.Errorf("%w at %s: add your API credentials and run auox again", ErrTemplateCreated, resolved)
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		ClientID               string `toml:"client_id"`
		ClientSecret           string `toml:"client_secret"`
		FinancialInstitution   string `toml:"financial_institution"`
		APIBaseURL             string `toml:"api_base_url"`
		AuthBaseURL            string `toml:"auth_base_url"`
		RedirectPort           int    `toml:"redirect_port"`
		CallbackTimeoutSeconds int    `toml:"callback_timeout_seconds"`
		DataDir                string `toml:"data_dir"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Config{
		ClientID:             strings.TrimSpace(raw.ClientID),
		ClientSecret:         strings.TrimSpace(raw.ClientSecret),
		FinancialInstitution: strings.TrimSpace(raw.FinancialInstitution),
		APIBaseURL:           strings.TrimSpace(raw.APIBaseURL),
		AuthBaseURL:          strings.TrimSpace(raw.AuthBaseURL),
		RedirectPort:         raw.RedirectPort,
		CallbackTimeout:      time.Duration(raw.CallbackTimeoutSeconds) * time.Second,
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", resolved, err)
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.AuthBaseURL == "" {
		cfg.AuthBaseURL = defaultAuthBaseURL
	}
	if cfg.RedirectPort <= 0 {
		cfg.RedirectPort = defaultRedirectPort
	}
	if cfg.CallbackTimeout <= 0 {
		cfg.CallbackTimeout = defaultCallbackTimeout
	}

	dataDir := strings.TrimSpace(raw.DataDir)
	if dataDir == "" {
		dataDir = defaultDataDir
	}
	cfg.DataDir = mustExpand(dataDir)

	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.ClientID == "" || c.ClientID == placeholderClientID:
		return fmt.Errorf("client_id is not set")
	case c.ClientSecret == "" || c.ClientSecret == placeholderClientSecret:
		return fmt.Errorf("client_secret is not set")
	case c.FinancialInstitution == "":
		return fmt.Errorf("financial_institution is not set")
	case c.RedirectPort < 0 || c.RedirectPort > 65535:
		return fmt.Errorf("redirect_port %d out of range", c.RedirectPort)
	}
	return nil
}

// TokenPath returns where the cached OAuth token lives.
func (c Config) TokenPath() string {
	return filepath.Join(c.dataDir(), "auth.json")
}

// LogPath returns the path of the auox log file.
func (c Config) LogPath() string {
	return filepath.Join(c.dataDir(), "auox.log")
}

// RedirectURL is the loopback URL the authorize endpoint redirects back to.
func (c Config) RedirectURL() string {
	return fmt.Sprintf("http://localhost:%d", c.RedirectPort)
}

func (c Config) dataDir() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir)
	}
	return c.DataDir
}

func writeTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(template), 0o600); err != nil {
		return fmt.Errorf("write config template: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
