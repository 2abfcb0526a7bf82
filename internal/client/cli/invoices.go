package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophinvoice/internal/client/identity"
	"github.com/dmitrijs2005/gophinvoice/internal/client/services"
	"github.com/dmitrijs2005/gophinvoice/internal/common"
	"github.com/dmitrijs2005/gophinvoice/internal/invoice"
)

var errCancelled = errors.New("cancelled")

// Create walks the user through a new invoice: title, payer and line items
// until an empty description. Validation problems are listed all at once.
// The payer key is re-checked against its pin before anything is sent.
func (a *App) Create(ctx context.Context) error {
	if a.invoices == nil {
		return common.ErrorUnauthorized
	}

	draft, err := a.readDraft()
	if err != nil {
		return err
	}

	payload, err := draft.Build()
	if err != nil {
		var verr *invoice.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintln(a.out, "Invoice is not valid:")
			for _, p := range verr.Problems {
				fmt.Fprintf(a.out, "  - %s\n", p)
			}
		}
		return err
	}

	printPayload(a.out, payload)

	ok, err := confirm(a.reader, "Send invoice to "+payload.Payer+"?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Discarded")
		return errCancelled
	}

	if _, err := a.keys.Refresh(ctx, payload.Payer); err != nil {
		if errors.Is(err, identity.ErrKeyMismatch) {
			fmt.Fprintf(a.out, "WARNING: the identity key of %s changed since it was pinned. Invoice not sent.\n", payload.Payer)
		} else {
			fmt.Fprintf(a.out, "Cannot resolve %s: %s\n", payload.Payer, describe(err))
		}
		return err
	}

	receipt, err := a.invoices.Create(ctx, payload, payload.Payer)
	if err != nil {
		fmt.Fprintln(a.out, "Sending failed:", describe(err))
		return err
	}

	fmt.Fprintf(a.out, "Invoice sent to %s (message %s)\n", receipt.Recipient, receipt.MessageID)
	return nil
}

func (a *App) readDraft() (*invoice.Draft, error) {
	title, err := getSimpleText(a.reader, "Invoice title", a.out)
	if err != nil {
		return nil, err
	}
	payer, err := getSimpleText(a.reader, "Payer username", a.out)
	if err != nil {
		return nil, err
	}

	draft := &invoice.Draft{Title: title, Payer: payer}
	for i := 1; ; i++ {
		desc, err := getSimpleText(a.reader, fmt.Sprintf("Item %d description (empty line to finish)", i), a.out)
		if err != nil {
			return nil, err
		}
		if desc == "" {
			break
		}
		qty, err := getSimpleText(a.reader, "Quantity", a.out)
		if err != nil {
			return nil, err
		}
		price, err := getSimpleText(a.reader, "Unit price", a.out)
		if err != nil {
			return nil, err
		}
		draft.AddItem(desc, qty, price)
	}
	return draft, nil
}

// Inbox fetches pending invoices and prints a numbered list that show and
// pay refer to.
func (a *App) Inbox(ctx context.Context) error {
	if a.invoices == nil {
		return common.ErrorUnauthorized
	}

	list, err := a.invoices.FetchIncoming(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Cannot fetch invoices:", describe(err))
		return err
	}
	a.inbox = list

	if len(list) == 0 {
		fmt.Fprintln(a.out, "No pending invoices")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tFROM\tTITLE\tTOTAL\tDATE")
	for i, r := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%s\n", i+1, r.Payee, r.Title, r.Totals.Total, formatDate(r.Payload))
	}
	return tw.Flush()
}

// Show prints invoice n from the last inbox listing.
func (a *App) Show(ctx context.Context, n string) error {
	r, err := a.pick(n)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "From: %s\n", r.Payee)
	printPayload(a.out, r.Payload)
	return nil
}

// Pay pays invoice n from the last inbox listing after confirmation. A paid
// invoice leaves the listing unless its acknowledgement failed.
func (a *App) Pay(ctx context.Context, n string) error {
	r, err := a.pick(n)
	if err != nil {
		return err
	}

	ok, err := confirm(a.reader, fmt.Sprintf("Pay %.2f to %s for %q?", r.Totals.Total, r.Payee, r.Title), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Not paid")
		return errCancelled
	}

	receipt, err := a.invoices.Pay(ctx, r)
	if err != nil {
		if errors.Is(err, services.ErrAcknowledgeFailed) {
			fmt.Fprintf(a.out, "Paid (receipt %s) but the invoice is still pending on the server; run pay %s again to acknowledge it without paying twice\n", receipt.ID, n)
			return err
		}
		fmt.Fprintln(a.out, "Payment failed:", describe(err))
		return err
	}

	a.removeFromInbox(r.MessageID)
	fmt.Fprintf(a.out, "Paid: receipt %s (%s)\n", receipt.ID, receipt.Status)
	return nil
}

func (a *App) pick(n string) (invoice.Received, error) {
	if a.invoices == nil {
		return invoice.Received{}, common.ErrorUnauthorized
	}
	i, err := strconv.Atoi(n)
	if err != nil || i < 1 || i > len(a.inbox) {
		fmt.Fprintf(a.out, "No invoice #%s, run inbox to list pending invoices\n", n)
		return invoice.Received{}, common.ErrorNotFound
	}
	return a.inbox[i-1], nil
}

func (a *App) removeFromInbox(messageID string) {
	kept := a.inbox[:0]
	for _, r := range a.inbox {
		if r.MessageID != messageID {
			kept = append(kept, r)
		}
	}
	a.inbox = kept
}

func printPayload(w io.Writer, p invoice.Payload) {
	fmt.Fprintf(w, "Invoice: %s\nPayer:   %s\nDate:    %s\n", p.Title, p.Payer, formatDate(p))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "DESCRIPTION\tQTY\tPRICE\tAMOUNT\t")
	for _, it := range p.LineItems {
		fmt.Fprintf(tw, "%s\t%g\t%.2f\t%.2f\t\n", it.Description, it.Quantity, it.UnitPrice, it.Quantity*it.UnitPrice)
	}
	tw.Flush()

	fmt.Fprintf(w, "Subtotal: %.2f\nTotal:    %.2f\n", p.Totals.Subtotal, p.Totals.Total)
}

func formatDate(p invoice.Payload) string {
	if p.CreatedAt.IsZero() {
		return "-"
	}
	return p.CreatedAt.Local().Format("2006-01-02 15:04")
}
