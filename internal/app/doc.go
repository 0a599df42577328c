// Package app is the composition root of auox.
//
// Run wires the pieces together in order:
//
//  1. config.Load reads ~/.config/auox/config.toml (a template is written
//     and ErrTemplateCreated returned when it is missing)
//  2. logging.Open starts the file logger under the data directory
//  3. prefs.Load restores theme and view toggles
//  4. oauth.Manager.EnsureValidToken reuses, refreshes or re-acquires the
//     access token, probing it with the hello-world endpoint
//  5. sparebank.NewClient builds the API client with that token
//  6. ui.Run starts the TUI and blocks until the user quits
//
// Every error before step 6 is fatal and returned to the caller; nothing is
// drawn on the terminal until authentication has succeeded.
package app
