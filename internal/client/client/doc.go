// Package client talks to the GophInvoice mailbox server and bootstraps the
// CLI's local database.
//
// GRPCClient implements Client over gRPC. It attaches the access token to
// every call, refreshes an expired token once and retries, and maps gRPC
// status codes to the sentinel errors in this package (ErrUnavailable,
// ErrUnauthorized, ErrNotFound, ErrConflict).
//
// Its Send, List and Acknowledge methods are the message transport used by
// the invoice service; LookupIdentity backs the identity resolver.
//
// InitDatabase opens the SQLite file and applies the embedded goose
// migrations.
package client
