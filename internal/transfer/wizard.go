package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/auox/auox/internal/sparebank"
)

// Validation errors. Submit returns them without sending anything.
var (
	ErrEmptyAmount         = errors.New("amount is empty")
	ErrInvalidAmount       = errors.New("amount is not a positive number")
	ErrNoSource            = errors.New("no source account selected")
	ErrNoDestination       = errors.New("no destination account selected")
	ErrSameAccount         = errors.New("source and destination are the same account")
	ErrMissingCreditCardID = errors.New("credit card account has no id")
)

// Request is the body Submit will send. Exactly one field is set.
type Request struct {
	Standard   *sparebank.TransferRequest
	CreditCard *sparebank.CreditCardTransferRequest
}

// Submitter sends transfers to the bank.
type Submitter interface {
	CreateTransfer(ctx context.Context, req sparebank.TransferRequest) (sparebank.TransferResponse, error)
	CreateCreditCardTransfer(ctx context.Context, req sparebank.CreditCardTransferRequest) (sparebank.TransferResponse, error)
}

// Outcome is the bank's answer to a submitted transfer.
type Outcome struct {
	Errors    []sparebank.APIError
	PaymentID string
	Status    string
}

// Success reports whether the bank accepted the transfer.
func (o Outcome) Success() bool { return len(o.Errors) == 0 }

// FailedOutcome wraps a transport error so it renders like a bank rejection.
func FailedOutcome(err error) Outcome {
	return Outcome{Errors: []sparebank.APIError{{Code: "REQUEST_FAILED", Message: err.Error()}}}
}

// Prepare validates d against accounts and builds the request body. The amount
// accepts a comma as decimal separator and is sent with two decimals.
func Prepare(d Draft, accounts []sparebank.Account) (Request, error) {
	raw := strings.TrimSpace(d.AmountText())
	if raw == "" {
		return Request{}, ErrEmptyAmount
	}
	amount, err := parseAmount(raw)
	if err != nil {
		return Request{}, err
	}

	from, ok := d.Source()
	if !ok || from >= len(accounts) {
		return Request{}, ErrNoSource
	}
	to, ok := d.Destination()
	if !ok || to >= len(accounts) {
		return Request{}, ErrNoDestination
	}
	if from == to {
		return Request{}, ErrSameAccount
	}

	src, dst := accounts[from], accounts[to]
	if dst.IsCreditCard() {
		if dst.CreditCardAccountID == "" {
			return Request{}, fmt.Errorf("%w: %s", ErrMissingCreditCardID, dst.Name)
		}
		return Request{CreditCard: &sparebank.CreditCardTransferRequest{
			Amount:              amount,
			FromAccount:         src.AccountNumber,
			CreditCardAccountID: dst.CreditCardAccountID,
		}}, nil
	}
	return Request{Standard: &sparebank.TransferRequest{
		Amount:      amount,
		FromAccount: src.AccountNumber,
		ToAccount:   dst.AccountNumber,
		Message:     strings.TrimSpace(d.MessageText()),
	}}, nil
}

// Submit validates and sends the draft. submitted is false when validation
// failed and nothing was sent; err is then the validation error. A transport
// failure returns submitted true and the error.
func Submit(ctx context.Context, s Submitter, d Draft, accounts []sparebank.Account) (Outcome, bool, error) {
	req, err := Prepare(d, accounts)
	if err != nil {
		return Outcome{}, false, err
	}

	var resp sparebank.TransferResponse
	if req.CreditCard != nil {
		resp, err = s.CreateCreditCardTransfer(ctx, *req.CreditCard)
	} else {
		resp, err = s.CreateTransfer(ctx, *req.Standard)
	}
	if err != nil {
		return Outcome{}, true, fmt.Errorf("submit transfer: %w", err)
	}
	return Outcome{Errors: resp.Errors, PaymentID: resp.PaymentID, Status: resp.Status}, true, nil
}

func parseAmount(raw string) (string, error) {
	value, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil || !value.IsPositive() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return value.StringFixed(2), nil
}
