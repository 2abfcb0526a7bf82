// Package models defines client-side data models used by the GophInvoice CLI.
package models

import "time"

// Contact is a counterparty whose identity key was pinned on first use.
type Contact struct {
	Username  string
	PublicKey []byte
	PinnedAt  time.Time
}
