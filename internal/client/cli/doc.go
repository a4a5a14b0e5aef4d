// Package cli provides the shipseva-kyc command-line client.
//
// It wires configuration, the upload journal, the authorization and KYC
// backend clients and the submission coordinator, then either runs one
// command given on argv or an interactive REPL.
//
// Key features:
//   - Select documents per field, with local validation and previews
//   - Set the scalar KYC values (PAN, Aadhar, bank and GST details)
//   - Submit and resubmit with live per-document progress
//   - Show backend status, local attempt history and orphaned uploads
//
// The REPL is started via App.Run(ctx, nil), which blocks until the user
// exits. See App and runREPL for details.
package cli
