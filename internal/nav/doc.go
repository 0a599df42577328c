// Package nav holds the view stack and list cursors the terminal UI is
// driven by. Both are plain values owned by the UI model.
package nav
