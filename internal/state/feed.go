package state

import (
	"time"

	"github.com/auox/auox/internal/sparebank"
)

// offlineAfter is the number of consecutive failures after which the feed is
// considered offline.
const offlineAfter = 2

// AccountFeed holds the latest account list and the health of the fetches
// that produce it. The zero value is an empty, never-loaded feed.
type AccountFeed struct {
	Accounts            []sparebank.Account
	Loaded              bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline reports whether the bank has been unreachable for several fetches.
func (f AccountFeed) IsOffline() bool {
	return f.ConsecutiveFailures >= offlineAfter
}

// Update records the result of one fetch at now. On error the previous
// accounts are kept and only the error bookkeeping changes.
func (f *AccountFeed) Update(accounts []sparebank.Account, err error, now time.Time) {
	f.LastUpdated = now
	if err != nil {
		f.LastError = err
		f.ConsecutiveFailures++
		return
	}

	f.Accounts = cloneAccounts(accounts)
	f.Loaded = true
	f.LastError = nil
	f.ConsecutiveFailures = 0
}

// Visible returns the indices of the accounts to show. Credit cards are left
// out unless withCreditCards is set.
func (f AccountFeed) Visible(withCreditCards bool) []int {
	out := make([]int, 0, len(f.Accounts))
	for i, a := range f.Accounts {
		if !withCreditCards && a.IsCreditCard() {
			continue
		}
		out = append(out, i)
	}
	return out
}

func cloneAccounts(items []sparebank.Account) []sparebank.Account {
	if len(items) == 0 {
		return nil
	}
	dup := make([]sparebank.Account, len(items))
	copy(dup, items)
	return dup
}
