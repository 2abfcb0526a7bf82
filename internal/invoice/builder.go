package invoice

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DraftItem is a line item as the user typed it. Numbers are kept as text
// and coerced during validation.
type DraftItem struct {
	Description string
	Quantity    string
	UnitPrice   string
}

// Item makes a DraftItem from numeric values. NaN and infinities survive the
// conversion as text and are rejected by Validate.
func Item(description string, quantity, unitPrice float64) DraftItem {
	return DraftItem{
		Description: description,
		Quantity:    strconv.FormatFloat(quantity, 'f', -1, 64),
		UnitPrice:   strconv.FormatFloat(unitPrice, 'f', -1, 64),
	}
}

// Builder validates drafts into payloads. The zero value stamps payloads
// with the wall clock.
type Builder struct {
	Now func() time.Time
}

// Validate builds a payload with the default Builder.
func Validate(title, payer string, items []DraftItem) (Payload, error) {
	return Builder{}.Validate(title, payer, items)
}

// Validate checks every field, collecting all problems, and on success
// returns the payload with totals and CreatedAt filled in.
func (b Builder) Validate(title, payer string, items []DraftItem) (Payload, error) {
	var problems []FieldError
	add := func(field, msg string) {
		problems = append(problems, FieldError{Field: field, Message: msg})
	}

	title = strings.TrimSpace(title)
	if title == "" {
		add("title", "must not be empty")
	}

	payer = strings.TrimSpace(payer)
	if payer == "" {
		add("payer", "must not be empty")
	}

	if len(items) == 0 {
		add("lineItems", "at least one line item is required")
	}

	lines := make([]LineItem, 0, len(items))
	sum := decimal.Zero

	for i, it := range items {
		prefix := fmt.Sprintf("lineItems[%d].", i)

		desc := strings.TrimSpace(it.Description)
		if desc == "" {
			add(prefix+"description", "must not be empty")
		}

		qty, err := parseNumber(it.Quantity)
		switch {
		case errors.Is(err, errOutOfRange):
			add(prefix+"quantity", "is out of range")
		case err != nil:
			add(prefix+"quantity", "must be a number")
		case qty.Sign() <= 0:
			add(prefix+"quantity", "must be greater than zero")
		}

		price, perr := parseNumber(it.UnitPrice)
		switch {
		case errors.Is(perr, errOutOfRange):
			add(prefix+"price", "is out of range")
		case perr != nil:
			add(prefix+"price", "must be a number")
		case price.Sign() < 0:
			add(prefix+"price", "must not be negative")
		}

		if len(problems) > 0 {
			continue
		}

		sum = sum.Add(qty.Mul(price))
		lines = append(lines, LineItem{
			Description: desc,
			Quantity:    qty.InexactFloat64(),
			UnitPrice:   price.InexactFloat64(),
		})
	}

	if len(problems) == 0 {
		if f := sum.InexactFloat64(); math.IsInf(f, 0) {
			add("totals", "total is out of range")
		}
	}

	if len(problems) > 0 {
		return Payload{}, &ValidationError{Problems: problems}
	}

	total := sum.InexactFloat64()

	return Payload{
		Title:     title,
		Payer:     payer,
		LineItems: lines,
		CreatedAt: b.now().UTC(),
		Totals:    Totals{Subtotal: total, Total: total},
	}, nil
}

func (b Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

var (
	errNotNumber  = errors.New("not a number")
	errOutOfRange = errors.New("out of range")
)

// parseNumber accepts plain or exponent decimal notation. Values that
// overflow float64, or are non-zero but round to zero, are out of range.
// The float parse runs first so huge exponents never reach decimal.
func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)

	f, err := strconv.ParseFloat(s, 64)
	switch {
	case errors.Is(err, strconv.ErrRange):
		return decimal.Decimal{}, errOutOfRange
	case err != nil, math.IsNaN(f), math.IsInf(f, 0):
		return decimal.Decimal{}, errNotNumber
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errNotNumber
	}
	if f == 0 && !d.IsZero() {
		return decimal.Decimal{}, errOutOfRange
	}
	return d, nil
}

// Draft is an invoice under edit.
type Draft struct {
	Title string
	Payer string
	Items []DraftItem
}

// AddItem appends a line item to the draft.
func (d *Draft) AddItem(description, quantity, unitPrice string) {
	d.Items = append(d.Items, DraftItem{Description: description, Quantity: quantity, UnitPrice: unitPrice})
}

// Build validates the draft with the default Builder.
func (d *Draft) Build() (Payload, error) {
	return Validate(d.Title, d.Payer, d.Items)
}
