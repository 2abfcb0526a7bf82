// Package cli provides the interactive GophInvoice command-line client.
//
// It wires configuration, the local key pin store, the mailbox client and
// the invoice services behind a small REPL. Typical flow: register or login,
// create invoices for other users, list the inbox and pay what arrived.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
