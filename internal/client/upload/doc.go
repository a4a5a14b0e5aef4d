// Package upload implements the client side of a direct-to-storage upload:
// local validation of a candidate file, the authorization request to the
// intermediary, and the per-field Task state machine that drives the
// transfer.
//
// A Task moves Empty → Selected → Authorizing → Transferring → Uploaded, or
// to Failed from either network step. A failed task keeps its file so
// Upload can simply be called again. Remove returns it to Empty from any
// state and cancels an in-flight transfer.
package upload
