// Package invoice holds the canonical invoice record and the builder that
// turns user-entered data into it.
package invoice

import "time"

// LineItem is a single billed position.
type LineItem struct {
	Description string
	Quantity    float64
	UnitPrice   float64
}

// Totals are computed once when the payload is built and travel with it.
// Subtotal and Total are equal while no tax or discount is applied.
type Totals struct {
	Subtotal float64
	Total    float64
}

// Payload is the plaintext invoice that gets encrypted and sent to the payer.
type Payload struct {
	Title     string
	Payer     string
	LineItems []LineItem
	CreatedAt time.Time
	Totals    Totals
}

// Received is an incoming invoice that was decrypted and parsed.
//
// Payee is the sender reported by the transport; the payload itself never
// names its sender.
type Received struct {
	Payload

	MessageID string
	Payee     string
}
