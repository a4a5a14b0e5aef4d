// Package journal keeps a local SQLite record of submission attempts and
// the objects each one uploaded.
//
// Objects written to storage are never deleted by the client, so an
// attempt that uploads documents and then fails leaves them behind. The
// journal lists those orphans so an operator can clean them up.
package journal
