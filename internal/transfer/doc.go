// Package transfer implements the transfer form: the Draft being edited,
// its validation into a bank request, and submission.
package transfer
