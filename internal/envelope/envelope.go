// Package envelope frames encrypted invoices for the message transport.
//
// An envelope is base64(keyID ++ ciphertext) where keyID is KeyIDSize random
// bytes generated for every invoice and ciphertext consumes the rest. The
// encryption itself is delegated to the caller's key provider.
package envelope

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophinvoice/internal/invoice"
)

// KeyIDSize is the fixed width of the key identifier prefix.
const KeyIDSize = 16

var (
	ErrEncoding          = errors.New("invoice encoding failed")
	ErrEncryption        = errors.New("invoice encryption failed")
	ErrMalformedEnvelope = errors.New("malformed envelope")
	ErrDecryption        = errors.New("invoice decryption failed")
	ErrPayloadParse      = errors.New("invoice payload parse failed")

	// ErrKeyUnavailable marks a key provider failure to obtain the
	// counterparty key. It says nothing about the envelope itself.
	ErrKeyUnavailable = errors.New("counterparty key unavailable")
)

// ProtocolID tags this application's use of the key provider.
type ProtocolID struct {
	SecurityLevel int
	Name          string
}

func (p ProtocolID) String() string {
	return fmt.Sprintf("%d|%s", p.SecurityLevel, p.Name)
}

// InvoiceProtocol is the protocol identifier used for every invoice.
var InvoiceProtocol = ProtocolID{SecurityLevel: 2, Name: "invoice exchange"}

// EncryptFunc encrypts plaintext for counterparty under the given protocol
// and key identifier (base64 text).
type EncryptFunc func(ctx context.Context, plaintext []byte, protocol ProtocolID, keyID string, counterparty string) ([]byte, error)

// DecryptFunc reverses EncryptFunc. It must fail without detail on a wrong
// key, tampered data or a sender mismatch. A failure to look up the
// counterparty key wraps ErrKeyUnavailable.
type DecryptFunc func(ctx context.Context, ciphertext []byte, protocol ProtocolID, keyID string, counterparty string) ([]byte, error)

// NewKeyID returns KeyIDSize fresh random bytes.
func NewKeyID() ([]byte, error) {
	id := make([]byte, KeyIDSize)
	if _, err := rand.Read(id); err != nil {
		return nil, err
	}
	return id, nil
}

// Encode serializes payload, encrypts it for counterparty under a new key
// identifier and returns the transport body.
func Encode(ctx context.Context, payload invoice.Payload, counterparty string, encrypt EncryptFunc) (string, error) {
	plaintext, err := marshalPayload(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncoding, err)
	}

	keyID, err := NewKeyID()
	if err != nil {
		return "", fmt.Errorf("%w: key id: %w", ErrEncryption, err)
	}

	ciphertext, err := encrypt(ctx, plaintext, InvoiceProtocol, encodeKeyID(keyID), counterparty)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncryption, err)
	}

	frame := make([]byte, 0, KeyIDSize+len(ciphertext))
	frame = append(frame, keyID...)
	frame = append(frame, ciphertext...)

	return base64.StdEncoding.EncodeToString(frame), nil
}

// Decode unframes body, decrypts it as coming from sender and parses the
// invoice. Empty ciphertext is handed to decrypt as is.
func Decode(ctx context.Context, body string, sender string, decrypt DecryptFunc) (invoice.Payload, error) {
	frame, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return invoice.Payload{}, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	if len(frame) < KeyIDSize {
		return invoice.Payload{}, fmt.Errorf("%w: %d bytes, need at least %d", ErrMalformedEnvelope, len(frame), KeyIDSize)
	}

	keyID, ciphertext := frame[:KeyIDSize], frame[KeyIDSize:]

	plaintext, err := decrypt(ctx, ciphertext, InvoiceProtocol, encodeKeyID(keyID), sender)
	if err != nil {
		return invoice.Payload{}, fmt.Errorf("%w: %w", ErrDecryption, err)
	}

	p, err := unmarshalPayload(plaintext)
	if err != nil {
		return invoice.Payload{}, fmt.Errorf("%w: %w", ErrPayloadParse, err)
	}
	return p, nil
}

func encodeKeyID(id []byte) string {
	return base64.StdEncoding.EncodeToString(id)
}
