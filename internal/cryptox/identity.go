package cryptox

import (
	"fmt"

	"github.com/dmitrijs2005/gophinvoice/internal/common"
	"golang.org/x/crypto/curve25519"
)

// KeySize is the length of X25519 public and private keys.
const KeySize = curve25519.ScalarSize

// Identity is an account's long-term X25519 key pair.
type Identity struct {
	Public  []byte
	Private []byte
}

// GenerateIdentity creates a new random key pair.
func GenerateIdentity() (*Identity, error) {
	priv := common.GenerateRandByteArray(KeySize)
	return IdentityFromPrivate(priv)
}

// IdentityFromPrivate recomputes the public half of an existing private key.
func IdentityFromPrivate(priv []byte) (*Identity, error) {
	if len(priv) != KeySize {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", KeySize, len(priv))
	}

	pub, err := curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		return nil, err
	}

	return &Identity{Public: pub, Private: append([]byte(nil), priv...)}, nil
}

// Wipe zeroes the private key.
func (id *Identity) Wipe() {
	common.WipeByteArray(id.Private)
}
