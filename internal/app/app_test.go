package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/auox/auox/internal/config"
)

func TestRunWritesTemplateWhenConfigMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	err := Run(context.Background(), Options{ConfigPath: path})
	if !errors.Is(err, config.ErrTemplateCreated) {
		t.Fatalf("Run error = %v, want ErrTemplateCreated", err)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("template not written: %v", statErr)
	}
}

func TestOAuthConfigFromConfig(t *testing.T) {
	cfg := config.Config{
		ClientID:             "id",
		ClientSecret:         "secret",
		FinancialInstitution: "fid-smn",
		AuthBaseURL:          "https://auth.example/",
		RedirectPort:         8321,
		CallbackTimeout:      time.Minute,
	}

	got := oauthConfig(cfg)
	if got.AuthURL != "https://auth.example/oauth/authorize" {
		t.Fatalf("AuthURL = %q", got.AuthURL)
	}
	if got.TokenURL != "https://auth.example/oauth/token" {
		t.Fatalf("TokenURL = %q", got.TokenURL)
	}
	if got.Institution != "fid-smn" || got.RedirectPort != 8321 || got.CallbackTimeout != time.Minute {
		t.Fatalf("config = %+v", got)
	}
}

func TestProbeUsesHelloWorld(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"hello"}`))
	}))
	defer srv.Close()

	check := probe(srv.URL)
	if err := check(context.Background(), "good"); err != nil {
		t.Fatalf("probe(good) = %v", err)
	}
	if gotAuth != "Bearer good" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if err := check(context.Background(), "stale"); err == nil {
		t.Fatal("probe(stale) succeeded, want error")
	}
}
