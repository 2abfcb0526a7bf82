// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account. The server only ever sees the public identity key; the
// private half arrives sealed under a key the server does not know.
type User struct {
	ID        string
	UserName  string
	Salt      []byte
	Verifier  []byte
	PublicKey []byte
	SealedKey []byte
	KeyNonce  []byte
	CreatedAt time.Time
}
