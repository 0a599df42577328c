package oauth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

func startListener(t *testing.T, state string) (*CallbackListener, string) {
	t.Helper()
	l, err := Listen("127.0.0.1:0", state)
	if err != nil {
		t.Fatalf("Listen returned error: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l, "http://" + l.Addr().String()
}

func get(t *testing.T, rawURL string) (int, string) {
	t.Helper()
	resp, err := http.Get(rawURL)
	if err != nil {
		t.Fatalf("GET %s: %v", rawURL, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestCallbackListener_DeliversCodeOnce(t *testing.T) {
	l, base := startListener(t, "s1")

	status, body := get(t, base+"/?code=abc&state=s1")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if !strings.Contains(body, "Login complete") {
		t.Fatalf("body = %q, want confirmation page", body)
	}

	if status, _ := get(t, base+"/?code=second&state=s1"); status != http.StatusGone {
		t.Fatalf("second status = %d, want 410", status)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	code, err := l.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if code != "abc" {
		t.Fatalf("code = %q, want abc", code)
	}
}

func TestCallbackListener_IgnoresUnrelatedAndForgedRequests(t *testing.T) {
	l, base := startListener(t, "s1")

	if status, _ := get(t, base+"/favicon.ico"); status != http.StatusNotFound {
		t.Fatalf("favicon status = %d, want 404", status)
	}
	if status, _ := get(t, base+"/?code=forged&state=other"); status != http.StatusBadRequest {
		t.Fatalf("forged status = %d, want 400", status)
	}
	if status, _ := get(t, base+"/?code=real&state=s1"); status != http.StatusOK {
		t.Fatalf("real status = %d, want 200", status)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	code, err := l.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if code != "real" {
		t.Fatalf("code = %q, want real", code)
	}
}

func TestCallbackListener_ProviderError(t *testing.T) {
	l, base := startListener(t, "s1")

	status, body := get(t, base+"/?error=access_denied&error_description=user+cancelled&state=s1")
	if status != http.StatusOK || !strings.Contains(body, "Login failed") {
		t.Fatalf("status = %d body = %q, want failure page", status, body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := l.Wait(ctx)
	if !errors.Is(err, ErrAuthorizationDenied) {
		t.Fatalf("Wait error = %v, want ErrAuthorizationDenied", err)
	}
	if !strings.Contains(err.Error(), "user cancelled") {
		t.Fatalf("Wait error = %v, want description", err)
	}
}

func TestCallbackListener_WaitTimesOut(t *testing.T) {
	l, base := startListener(t, "s1")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := l.Wait(ctx)
	if !errors.Is(err, ErrCallbackTimeout) {
		t.Fatalf("Wait error = %v, want ErrCallbackTimeout", err)
	}

	if _, err := http.Get(base + "/?code=late&state=s1"); err == nil {
		t.Fatalf("listener still serving after Wait returned")
	}
}

func TestCallbackListener_WaitCancelled(t *testing.T) {
	l, _ := startListener(t, "s1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.Wait(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait error = %v, want context.Canceled", err)
	}
}

func TestListen_PortInUse(t *testing.T) {
	l, _ := startListener(t, "s1")

	if _, err := Listen(l.Addr().String(), "s2"); err == nil {
		t.Fatalf("second Listen on %s returned nil error", l.Addr())
	}
}
