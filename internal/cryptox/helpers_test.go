package cryptox

import (
	"time"

	"github.com/dmitrijs2005/gophinvoice/internal/invoice"
)

func samplePayload() invoice.Payload {
	return invoice.Payload{
		Title:     "Consulting",
		Payer:     "alice",
		LineItems: []invoice.LineItem{{Description: "Hours", Quantity: 10, UnitPrice: 50}},
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Totals:    invoice.Totals{Subtotal: 500, Total: 500},
	}
}
