// Package state keeps the account list the UI renders together with the
// health of the fetches that refresh it.
//
// # Update Semantics
//
//	// Success: replace the accounts, clear the error
//	feed.Update(accounts, nil, now)
//	→ feed.Accounts = accounts (cloned)
//	→ feed.LastError = nil
//	→ feed.ConsecutiveFailures = 0
//
//	// Error: keep the old accounts, record the error
//	feed.Update(nil, err, now)
//	→ feed.Accounts = <unchanged>
//	→ feed.LastError = err
//	→ feed.ConsecutiveFailures++
//
// Two failures in a row mark the feed offline; the UI shows that in its
// header while it keeps retrying with backoff.
//
// # Ownership
//
// AccountFeed is a plain value. The Bubble Tea model owns it and only
// mutates it from Update, so no locking is involved.
package state
