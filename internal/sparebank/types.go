package sparebank

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// AccountTypeCreditCard is the Account.Type value of credit-card accounts.
const AccountTypeCreditCard = "CREDITCARD"

// AccountsResponse mirrors /personal/banking/accounts.
type AccountsResponse struct {
	Accounts []Account         `json:"accounts"`
	Errors   []json.RawMessage `json:"errors"`
}

// Account is a bank or credit-card account owned or accessible by the user.
type Account struct {
	Key                 string          `json:"key"`
	AccountNumber       string          `json:"accountNumber"`
	IBAN                string          `json:"iban"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Balance             decimal.Decimal `json:"balance"`
	AvailableBalance    decimal.Decimal `json:"availableBalance"`
	CurrencyCode        string          `json:"currencyCode"`
	Owner               Owner           `json:"owner"`
	ProductType         string          `json:"productType"`
	Type                string          `json:"type"`
	ProductID           string          `json:"productId"`
	CreditCardAccountID string          `json:"creditCardAccountId,omitempty"`
}

// IsCreditCard reports whether transfers to this account go through the
// credit-card endpoint.
func (a Account) IsCreditCard() bool {
	return a.Type == AccountTypeCreditCard
}

// Owner describes the account holder.
type Owner struct {
	Name        string `json:"name"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Age         int    `json:"age"`
	CustomerKey string `json:"customerKey"`
}

// TransactionsResponse mirrors /personal/banking/transactions.
type TransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

// Transaction is a booked or pending account movement.
type Transaction struct {
	Date         int64           `json:"date"` // epoch millis
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	TypeCode     string          `json:"typeCode"`
}

// Time returns the transaction date in local time.
func (t Transaction) Time() time.Time {
	if t.Date == 0 {
		return time.Time{}
	}
	return time.UnixMilli(t.Date)
}

// TransferRequest is the body of a debit transfer between own accounts.
type TransferRequest struct {
	Amount       string `json:"amount"`
	DueDate      string `json:"dueDate,omitempty"`
	Message      string `json:"message,omitempty"`
	ToAccount    string `json:"toAccount"`
	FromAccount  string `json:"fromAccount"`
	CurrencyCode string `json:"currencyCode,omitempty"`
}

// CreditCardTransferRequest pays into a credit-card account. The endpoint has
// no message field.
type CreditCardTransferRequest struct {
	Amount              string `json:"amount"`
	DueDate             string `json:"dueDate,omitempty"`
	FromAccount         string `json:"fromAccount"`
	CreditCardAccountID string `json:"creditCardAccountId"`
}

// TransferResponse is returned by both transfer endpoints. An empty Errors
// slice means the transfer was accepted.
type TransferResponse struct {
	Errors    []APIError `json:"errors"`
	PaymentID string     `json:"paymentId,omitempty"`
	Status    string     `json:"status,omitempty"`
}

// APIError is one entry of an error list returned by the bank.
type APIError struct {
	Code             string            `json:"code"`
	Message          string            `json:"message"`
	TraceID          string            `json:"traceId"`
	HTTPCode         int               `json:"httpCode"`
	Resource         string            `json:"resource,omitempty"`
	LocalizedMessage *LocalizedMessage `json:"localizedMessage,omitempty"`
}

// LocalizedMessage carries a user-facing translation of an APIError.
type LocalizedMessage struct {
	Locale  string `json:"locale"`
	Message string `json:"message"`
}

// Text returns the most readable message for the error.
func (e APIError) Text() string {
	if e.LocalizedMessage != nil && e.LocalizedMessage.Message != "" {
		return e.LocalizedMessage.Message
	}
	return e.Message
}
