package transfer

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/auox/auox/internal/sparebank"
)

type fakeSubmitter struct {
	standard   []sparebank.TransferRequest
	creditCard []sparebank.CreditCardTransferRequest
	resp       sparebank.TransferResponse
	err        error
}

func (f *fakeSubmitter) CreateTransfer(_ context.Context, req sparebank.TransferRequest) (sparebank.TransferResponse, error) {
	f.standard = append(f.standard, req)
	return f.resp, f.err
}

func (f *fakeSubmitter) CreateCreditCardTransfer(_ context.Context, req sparebank.CreditCardTransferRequest) (sparebank.TransferResponse, error) {
	f.creditCard = append(f.creditCard, req)
	return f.resp, f.err
}

func (f *fakeSubmitter) calls() int { return len(f.standard) + len(f.creditCard) }

func testAccounts() []sparebank.Account {
	return []sparebank.Account{
		{Key: "k0", AccountNumber: "1111", Name: "Brukskonto", Balance: decimal.NewFromInt(1000)},
		{Key: "k1", AccountNumber: "2222", Name: "Sparekonto", Balance: decimal.NewFromInt(50)},
		{Key: "k2", Name: "Visa", Type: sparebank.AccountTypeCreditCard, CreditCardAccountID: "cc-9"},
		{Key: "k3", Name: "Mastercard", Type: sparebank.AccountTypeCreditCard},
	}
}

func draft(from, to int, amount, message string) Draft {
	d := NewDraft()
	d.SetSource(from)
	d.SetDestination(to)
	d.Amount.SetValue(amount)
	d.Message.SetValue(message)
	return d
}

func TestPrepare_Validation(t *testing.T) {
	tests := []struct {
		name string
		d    Draft
		want error
	}{
		{"empty amount", draft(0, 1, "", ""), ErrEmptyAmount},
		{"whitespace amount", draft(0, 1, "   ", ""), ErrEmptyAmount},
		{"zero amount", draft(0, 1, "0,00", ""), ErrInvalidAmount},
		{"two separators", draft(0, 1, "1.000,50", ""), ErrInvalidAmount},
		{"no source", draft(-1, 1, "10", ""), ErrNoSource},
		{"source out of range", draft(9, 1, "10", ""), ErrNoSource},
		{"no destination", draft(0, -1, "10", ""), ErrNoDestination},
		{"same account", draft(1, 1, "10", ""), ErrSameAccount},
		{"card without id", draft(0, 3, "10", ""), ErrMissingCreditCardID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Prepare(tt.d, testAccounts())
			if !errors.Is(err, tt.want) {
				t.Fatalf("Prepare error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPrepare_StandardTransfer(t *testing.T) {
	req, err := Prepare(draft(0, 1, " 250,5 ", "  rent  "), testAccounts())
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if req.CreditCard != nil || req.Standard == nil {
		t.Fatalf("request = %#v, want standard transfer", req)
	}
	want := sparebank.TransferRequest{Amount: "250.50", FromAccount: "1111", ToAccount: "2222", Message: "rent"}
	if *req.Standard != want {
		t.Fatalf("request = %#v, want %#v", *req.Standard, want)
	}

	req, err = Prepare(draft(0, 1, "10", "   "), testAccounts())
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if req.Standard.Message != "" {
		t.Fatalf("blank message = %q, want omitted", req.Standard.Message)
	}
}

func TestPrepare_CreditCardNeverCarriesMessage(t *testing.T) {
	for _, message := range []string{"", "pay off card", "  x  "} {
		req, err := Prepare(draft(0, 2, "100", message), testAccounts())
		if err != nil {
			t.Fatalf("Prepare returned error: %v", err)
		}
		if req.Standard != nil || req.CreditCard == nil {
			t.Fatalf("request = %#v, want credit card transfer", req)
		}
		want := sparebank.CreditCardTransferRequest{Amount: "100.00", FromAccount: "1111", CreditCardAccountID: "cc-9"}
		if *req.CreditCard != want {
			t.Fatalf("request = %#v, want %#v", *req.CreditCard, want)
		}
	}
}

func TestSubmit_InvalidDraftSendsNothing(t *testing.T) {
	s := &fakeSubmitter{}
	outcome, submitted, err := Submit(context.Background(), s, draft(0, 1, "  ", "hi"), testAccounts())
	if submitted {
		t.Fatalf("submitted = true for empty amount")
	}
	if !errors.Is(err, ErrEmptyAmount) {
		t.Fatalf("err = %v, want ErrEmptyAmount", err)
	}
	if s.calls() != 0 {
		t.Fatalf("submitter called %d times", s.calls())
	}
	if len(outcome.Errors) != 0 || outcome.PaymentID != "" {
		t.Fatalf("outcome = %#v, want zero", outcome)
	}
}

func TestSubmit_RoutesAndMapsOutcome(t *testing.T) {
	s := &fakeSubmitter{resp: sparebank.TransferResponse{PaymentID: "abc123"}}
	outcome, submitted, err := Submit(context.Background(), s, draft(0, 1, "250,50", ""), testAccounts())
	if err != nil || !submitted {
		t.Fatalf("Submit = (%v, %v), want submitted", submitted, err)
	}
	if !outcome.Success() || outcome.PaymentID != "abc123" {
		t.Fatalf("outcome = %#v, want success abc123", outcome)
	}
	if len(s.standard) != 1 || len(s.creditCard) != 0 {
		t.Fatalf("calls = %d standard, %d card", len(s.standard), len(s.creditCard))
	}

	s = &fakeSubmitter{resp: sparebank.TransferResponse{Errors: []sparebank.APIError{
		{Code: "INSUFFICIENT_FUNDS", HTTPCode: 422, Message: "Not enough"},
	}}}
	outcome, _, err = Submit(context.Background(), s, draft(0, 2, "5", "ignored"), testAccounts())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if outcome.Success() || outcome.Errors[0].Code != "INSUFFICIENT_FUNDS" {
		t.Fatalf("outcome = %#v, want rejection", outcome)
	}
	if len(s.creditCard) != 1 {
		t.Fatalf("credit card endpoint not used")
	}
}

func TestSubmit_TransportError(t *testing.T) {
	s := &fakeSubmitter{err: errors.New("connection reset")}
	_, submitted, err := Submit(context.Background(), s, draft(0, 1, "1", ""), testAccounts())
	if !submitted || err == nil {
		t.Fatalf("Submit = (%v, %v), want submitted with error", submitted, err)
	}
	if out := FailedOutcome(err); out.Success() || out.Errors[0].Message == "" {
		t.Fatalf("FailedOutcome = %#v", out)
	}
}
