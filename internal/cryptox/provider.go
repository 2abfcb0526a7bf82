package cryptox

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophinvoice/internal/common"
	"github.com/dmitrijs2005/gophinvoice/internal/envelope"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
)

// ErrDecrypt is the only error Decrypt reports for bad input; wrong key,
// tampering and a wrong sender all look the same.
var ErrDecrypt = errors.New("cryptox: decryption failed")

// Resolver returns the public identity key of a counterparty.
type Resolver interface {
	PublicKey(ctx context.Context, identity string) ([]byte, error)
}

// KeyProvider derives a symmetric key per (protocol, key id, counterparty)
// from the X25519 shared secret between the local identity and the
// counterparty, and encrypts with AES-256-GCM.
//
// Both sides of an exchange derive the same key, so the payer decrypts with
// the payee as counterparty.
type KeyProvider struct {
	private  []byte
	resolver Resolver
}

func NewKeyProvider(private []byte, resolver Resolver) *KeyProvider {
	return &KeyProvider{private: private, resolver: resolver}
}

// Encrypt returns nonce ++ ciphertext.
func (p *KeyProvider) Encrypt(ctx context.Context, plaintext []byte, protocol envelope.ProtocolID, keyID string, counterparty string) ([]byte, error) {
	key, err := p.deriveKey(ctx, protocol, keyID, counterparty)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aead.NonceSize())
	return aead.Seal(nonce, nonce, plaintext, additionalData(protocol, keyID)), nil
}

func (p *KeyProvider) Decrypt(ctx context.Context, ciphertext []byte, protocol envelope.ProtocolID, keyID string, counterparty string) ([]byte, error) {
	key, err := p.deriveKey(ctx, protocol, keyID, counterparty)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	ns := aead.NonceSize()
	if len(ciphertext) < ns+aead.Overhead() {
		return nil, ErrDecrypt
	}

	plaintext, err := aead.Open(nil, ciphertext[:ns], ciphertext[ns:], additionalData(protocol, keyID))
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

func (p *KeyProvider) deriveKey(ctx context.Context, protocol envelope.ProtocolID, keyID, counterparty string) ([]byte, error) {
	if keyID == "" {
		return nil, errors.New("cryptox: empty key id")
	}

	peer, err := p.resolver.PublicKey(ctx, counterparty)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", envelope.ErrKeyUnavailable, counterparty, err)
	}

	shared, err := curve25519.X25519(p.private, peer)
	if err != nil {
		return nil, fmt.Errorf("key agreement with %s: %w", counterparty, err)
	}
	defer common.WipeByteArray(shared)

	info := []byte("gophinvoice|" + protocol.String())
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, shared, []byte(keyID), info), key); err != nil {
		return nil, err
	}
	return key, nil
}

func additionalData(protocol envelope.ProtocolID, keyID string) []byte {
	return []byte(protocol.String() + "|" + keyID)
}

// StaticResolver serves keys from a fixed map.
type StaticResolver map[string][]byte

func (r StaticResolver) PublicKey(_ context.Context, identity string) ([]byte, error) {
	k, ok := r[identity]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return k, nil
}
