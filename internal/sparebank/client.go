package sparebank

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the SpareBank 1 personal banking API with a bearer token.
type Client struct {
	baseURL     *url.URL
	http        *http.Client
	accessToken string
	userAgent   string
}

const (
	// DefaultBaseURL is the production API host.
	DefaultBaseURL = "https://api.sparebank1.no"

	acceptHeader     = "application/vnd.sparebank1.v1+json; charset=utf-8"
	defaultUserAgent = "auox/0.1"
	requestTimeout   = 15 * time.Second

	accountsPath           = "/personal/banking/accounts"
	transactionsPath       = "/personal/banking/transactions"
	transferPath           = "/personal/banking/transfer/debit"
	creditCardTransferPath = "/personal/banking/transfer/creditcard/transferTo"
	helloWorldPath         = "/common/helloworld"
)

// StatusError is returned when the API answers with an HTTP error status.
type StatusError struct {
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.StatusCode)
}

// NewClient builds a Client for baseURL using accessToken on every request.
func NewClient(baseURL, accessToken string) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		accessToken: accessToken,
		userAgent:   defaultUserAgent,
	}, nil
}

// HelloWorld calls the cheapest authenticated endpoint. A nil error means the
// access token is accepted.
func (c *Client) HelloWorld(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodGet, &url.URL{Path: helloWorldPath}, nil, nil)
}

// FetchAccounts lists accounts, credit cards included.
func (c *Client) FetchAccounts(ctx context.Context) ([]Account, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("includeCreditCardAccounts", "true")
	rel := &url.URL{Path: accountsPath, RawQuery: values.Encode()}
	var payload AccountsResponse
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Accounts, nil
}

// FetchTransactions lists transactions for the account identified by key.
func (c *Client) FetchTransactions(ctx context.Context, accountKey string) ([]Transaction, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(accountKey) == "" {
		return nil, fmt.Errorf("account key required")
	}
	values := url.Values{}
	values.Set("accountKey", accountKey)
	rel := &url.URL{Path: transactionsPath, RawQuery: values.Encode()}
	var payload TransactionsResponse
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Transactions, nil
}

// CreateTransfer moves money between two regular accounts.
func (c *Client) CreateTransfer(ctx context.Context, req TransferRequest) (TransferResponse, error) {
	return c.transfer(ctx, transferPath, req)
}

// CreateCreditCardTransfer pays into a credit-card account.
func (c *Client) CreateCreditCardTransfer(ctx context.Context, req CreditCardTransferRequest) (TransferResponse, error) {
	return c.transfer(ctx, creditCardTransferPath, req)
}

// transfer posts body to path. Rejections carrying an error list are returned
// as a TransferResponse rather than an error so callers can show them.
func (c *Client) transfer(ctx context.Context, path string, body any) (TransferResponse, error) {
	if c == nil {
		return TransferResponse{}, fmt.Errorf("client is nil")
	}
	var payload TransferResponse
	err := c.do(ctx, http.MethodPost, &url.URL{Path: path}, body, &payload)
	if err != nil {
		var rejected *rejectionError
		if errors.As(err, &rejected) && len(rejected.response.Errors) > 0 {
			return rejected.response, nil
		}
		return TransferResponse{}, err
	}
	return payload, nil
}

type rejectionError struct {
	*StatusError
	response TransferResponse
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, body any, dest any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		statusErr := &StatusError{Path: rel.Path, StatusCode: resp.StatusCode}
		if _, ok := dest.(*TransferResponse); ok {
			var rejected TransferResponse
			if err := json.NewDecoder(resp.Body).Decode(&rejected); err == nil {
				return &rejectionError{StatusError: statusErr, response: rejected}
			}
		}
		return statusErr
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
