package oauth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
)

var (
	// ErrCallbackTimeout is returned by Wait when no code arrived in time.
	ErrCallbackTimeout = errors.New("timed out waiting for the browser login")
	// ErrAuthorizationDenied is returned when the provider redirects back with an error.
	ErrAuthorizationDenied = errors.New("authorization denied")
)

const shutdownTimeout = 2 * time.Second

// CallbackListener captures one authorization code from the browser redirect.
type CallbackListener struct {
	state    string
	listener net.Listener
	server   *http.Server

	codes  chan string
	errs   chan error
	once   sync.Once
	mu     sync.Mutex
	served bool
}

// Listen binds addr right away so the redirect cannot arrive before the
// listener exists, then serves requests on a background goroutine. Only
// requests carrying state are accepted.
func Listen(addr, state string) (*CallbackListener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("bind callback listener on %s: %w", addr, err)
	}

	l := &CallbackListener{
		state:    state,
		listener: ln,
		codes:    make(chan string, 1),
		errs:     make(chan error, 1),
	}

	router := mux.NewRouter()
	router.PathPrefix("/").HandlerFunc(l.handle).Methods(http.MethodGet)
	l.server = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := l.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.deliver("", fmt.Errorf("callback server: %w", err))
		}
	}()
	return l, nil
}

// Addr returns the bound address, useful when Listen was given port 0.
func (l *CallbackListener) Addr() net.Addr {
	return l.listener.Addr()
}

// Wait blocks until a code arrives, the provider reports an error, or ctx is
// done. The server is shut down before Wait returns.
func (l *CallbackListener) Wait(ctx context.Context) (string, error) {
	defer l.Close()

	select {
	case code := <-l.codes:
		return code, nil
	case err := <-l.errs:
		return "", err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", ErrCallbackTimeout
		}
		return "", ctx.Err()
	}
}

// Close stops the server. It is safe to call more than once.
func (l *CallbackListener) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return l.server.Shutdown(ctx)
}

func (l *CallbackListener) handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	code := query.Get("code")
	providerErr := query.Get("error")

	if code == "" && providerErr == "" {
		http.Error(w, "waiting for the authorization redirect", http.StatusNotFound)
		return
	}
	if query.Get("state") != l.state {
		http.Error(w, "state mismatch", http.StatusBadRequest)
		return
	}

	l.mu.Lock()
	already := l.served
	l.served = true
	l.mu.Unlock()
	if already {
		http.Error(w, "authorization already completed", http.StatusGone)
		return
	}

	if providerErr != "" {
		desc := query.Get("error_description")
		writePage(w, http.StatusOK, "Login failed", "auox was not authorized: "+providerErr+". You can close this tab.")
		if desc != "" {
			providerErr += ": " + desc
		}
		l.deliver("", fmt.Errorf("%w: %s", ErrAuthorizationDenied, providerErr))
		return
	}

	writePage(w, http.StatusOK, "Login complete", "auox is authorized. You can close this tab and return to the terminal.")
	l.deliver(code, nil)
}

func (l *CallbackListener) deliver(code string, err error) {
	l.once.Do(func() {
		if err != nil {
			l.errs <- err
			return
		}
		l.codes <- code
	})
}

func writePage(w http.ResponseWriter, status int, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, "<!doctype html><html><head><title>%s</title></head><body><h1>%s</h1><p>%s</p></body></html>",
		html.EscapeString(title), html.EscapeString(title), html.EscapeString(body))
}
