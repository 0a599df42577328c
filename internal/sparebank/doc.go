// Package sparebank provides an HTTP client for the SpareBank 1 personal
// banking API.
//
// # Overview
//
// The package is split into two files:
//
//   - client.go: HTTP client implementation and request/response handling
//   - types.go: Data structures mirroring the API schema
//
// Every request carries the bearer token the client was built with and the
// versioned Accept header the API requires:
//
//	Accept: application/vnd.sparebank1.v1+json; charset=utf-8
//
// # Client Usage
//
//	client, err := sparebank.NewClient(cfg.APIBaseURL, token.AccessToken)
//	if err != nil {
//		return err
//	}
//	accounts, err := client.FetchAccounts(ctx)
//
// # API Endpoints
//
//   - GET  /common/helloworld: token probe (HelloWorld)
//   - GET  /personal/banking/accounts?includeCreditCardAccounts=true
//   - GET  /personal/banking/transactions?accountKey=<key>
//   - POST /personal/banking/transfer/debit
//   - POST /personal/banking/transfer/creditcard/transferTo
//
// # Error Handling
//
// HTTP statuses >= 400 become *StatusError. The two transfer endpoints are the
// exception: when the body of a rejected transfer decodes into an error list
// the client returns it as a TransferResponse with a nil error, because a
// declined transfer is a domain result the UI shows, not a transport failure.
//
// Money amounts use shopspring/decimal so balances round-trip without
// float formatting artefacts.
package sparebank
