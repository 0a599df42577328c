// Package oauth obtains and keeps a valid access token for the bank API.
//
// Manager.EnsureValidToken probes the stored token, refreshes it when the
// probe fails, and falls back to a browser login whose redirect is captured
// by a CallbackListener on the loopback interface. The listener hands the
// authorization code over a one-slot channel and the wait is bounded by a
// timeout.
package oauth
