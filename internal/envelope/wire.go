package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophinvoice/internal/invoice"
)

type wireItem struct {
	Description *string  `json:"description"`
	Quantity    *float64 `json:"quantity"`
	Price       *float64 `json:"price"`
}

type wireTotals struct {
	Subtotal *float64 `json:"subtotal"`
	Total    *float64 `json:"total"`
}

// wirePayload is the JSON record inside the ciphertext. Pointers tell a
// missing field from a zero one.
type wirePayload struct {
	Payer     *string     `json:"payer"`
	Title     *string     `json:"title"`
	LineItems *[]wireItem `json:"lineItems"`
	Date      *time.Time  `json:"date,omitempty"`
	Totals    *wireTotals `json:"totals"`
}

func marshalPayload(p invoice.Payload) ([]byte, error) {
	items := make([]wireItem, len(p.LineItems))
	for i := range p.LineItems {
		li := &p.LineItems[i]
		items[i] = wireItem{Description: &li.Description, Quantity: &li.Quantity, Price: &li.UnitPrice}
	}

	created := p.CreatedAt
	w := wirePayload{
		Payer:     &p.Payer,
		Title:     &p.Title,
		LineItems: &items,
		Date:      &created,
		Totals:    &wireTotals{Subtotal: &p.Totals.Subtotal, Total: &p.Totals.Total},
	}

	// json.Marshal rejects NaN and Inf with an UnsupportedValueError.
	return json.Marshal(w)
}

func unmarshalPayload(b []byte) (invoice.Payload, error) {
	var w wirePayload
	if err := json.Unmarshal(b, &w); err != nil {
		return invoice.Payload{}, err
	}

	switch {
	case w.Payer == nil:
		return invoice.Payload{}, missing("payer")
	case w.Title == nil:
		return invoice.Payload{}, missing("title")
	case w.LineItems == nil:
		return invoice.Payload{}, missing("lineItems")
	case w.Totals == nil:
		return invoice.Payload{}, missing("totals")
	case w.Totals.Subtotal == nil:
		return invoice.Payload{}, missing("totals.subtotal")
	case w.Totals.Total == nil:
		return invoice.Payload{}, missing("totals.total")
	}

	p := invoice.Payload{
		Title:     *w.Title,
		Payer:     *w.Payer,
		LineItems: make([]invoice.LineItem, 0, len(*w.LineItems)),
		Totals:    invoice.Totals{Subtotal: *w.Totals.Subtotal, Total: *w.Totals.Total},
	}
	if w.Date != nil {
		p.CreatedAt = *w.Date
	}

	for i, it := range *w.LineItems {
		switch {
		case it.Description == nil:
			return invoice.Payload{}, missing(fmt.Sprintf("lineItems[%d].description", i))
		case it.Quantity == nil:
			return invoice.Payload{}, missing(fmt.Sprintf("lineItems[%d].quantity", i))
		case it.Price == nil:
			return invoice.Payload{}, missing(fmt.Sprintf("lineItems[%d].price", i))
		}
		p.LineItems = append(p.LineItems, invoice.LineItem{
			Description: *it.Description,
			Quantity:    *it.Quantity,
			UnitPrice:   *it.Price,
		})
	}

	return p, nil
}

var errMissingField = errors.New("missing field")

func missing(field string) error {
	return fmt.Errorf("%w %q", errMissingField, field)
}
