// Package ui implements the auox terminal interface on Bubble Tea.
//
// The Model owns a navigation stack (account list, action menu, transaction
// list, transfer account picker, transfer form) and routes each key to the
// view on top of it. Bank calls run as tea.Cmds with FetchTimeout and come
// back as messages; a failed account fetch is retried with a doubling
// backoff and the header shows OFFLINE after two failures in a row.
//
// Quitting takes a held q: the frame tick feeds gesture.Hold and the footer
// shows a progress bar until the hold completes. ctrl+c quits at once. In the
// transfer form every printable key is text, so neither q nor the other
// global bindings apply there.
//
// Display preferences (theme, balances, credit cards) are saved through
// package prefs whenever they change.
package ui
