package services

import (
	"context"
	"errors"
	"fmt"

	cache "github.com/Code-Hex/go-generics-cache"
	"github.com/Code-Hex/go-generics-cache/policy/lru"
	"github.com/dmitrijs2005/gophinvoice/internal/client/client"
	"github.com/dmitrijs2005/gophinvoice/internal/client/identity"
	"github.com/dmitrijs2005/gophinvoice/internal/client/payment"
	"github.com/dmitrijs2005/gophinvoice/internal/common"
	"github.com/dmitrijs2005/gophinvoice/internal/envelope"
	"github.com/dmitrijs2005/gophinvoice/internal/invoice"
	"github.com/dmitrijs2005/gophinvoice/internal/logging"
)

var (
	// ErrPaymentFailed wraps a payment sender failure. The invoice stays
	// pending and Pay can be retried.
	ErrPaymentFailed = errors.New("payment failed")

	// ErrAcknowledgeFailed is returned together with a valid receipt when
	// the payment went through but the message could not be retired.
	ErrAcknowledgeFailed = errors.New("payment sent but invoice not acknowledged")
)

// paidMemory bounds how many paid message ids are remembered.
const paidMemory = 1024

// Transport is the store-and-forward mailbox.
type Transport interface {
	Send(ctx context.Context, channel, recipient, body string) (string, error)
	List(ctx context.Context, channel string) ([]client.Message, error)
	Acknowledge(ctx context.Context, ids []string) error
}

type PaymentSender interface {
	SendPayment(ctx context.Context, req payment.Request) (payment.Receipt, error)
}

// SendReceipt identifies a delivered invoice.
type SendReceipt struct {
	MessageID string
	Recipient string
}

// InvoiceService sends, receives and pays invoices.
//
// Create encrypts and delivers an invoice. FetchIncoming returns the
// decryptable invoices waiting in the inbox and leaves them pending;
// messages that fail to decode are acknowledged and dropped, except when
// the sender key could not be looked up, in which case they stay pending. Pay sends the
// payment and only then acknowledges the message.
type InvoiceService interface {
	Create(ctx context.Context, payload invoice.Payload, counterparty string) (SendReceipt, error)
	FetchIncoming(ctx context.Context) ([]invoice.Received, error)
	Pay(ctx context.Context, received invoice.Received) (payment.Receipt, error)
}

type invoiceService struct {
	transport Transport
	encrypt   envelope.EncryptFunc
	decrypt   envelope.DecryptFunc
	payments  PaymentSender
	paid      *cache.Cache[string, payment.Receipt]
	logger    logging.Logger
}

func NewInvoiceService(t Transport, encrypt envelope.EncryptFunc, decrypt envelope.DecryptFunc, p PaymentSender, l logging.Logger) InvoiceService {
	return &invoiceService{
		transport: t,
		encrypt:   encrypt,
		decrypt:   decrypt,
		payments:  p,
		paid:      cache.New(cache.AsLRU[string, payment.Receipt](lru.WithCapacity(paidMemory))),
		logger:    l.With("module", "invoices"),
	}
}

func (s *invoiceService) Create(ctx context.Context, payload invoice.Payload, counterparty string) (SendReceipt, error) {
	body, err := envelope.Encode(ctx, payload, counterparty, s.encrypt)
	if err != nil {
		return SendReceipt{}, err
	}

	id, err := s.transport.Send(ctx, common.InvoiceChannel, counterparty, body)
	if err != nil {
		return SendReceipt{}, fmt.Errorf("send invoice: %w", err)
	}

	s.logger.Info(ctx, "invoice sent", "recipient", counterparty, "message_id", id)
	return SendReceipt{MessageID: id, Recipient: counterparty}, nil
}

func (s *invoiceService) FetchIncoming(ctx context.Context) ([]invoice.Received, error) {
	msgs, err := s.transport.List(ctx, common.InvoiceChannel)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	var out []invoice.Received
	for _, m := range msgs {
		p, err := envelope.Decode(ctx, m.Body, m.Sender, s.decrypt)
		if err != nil && senderKeyPending(err) {
			s.logger.Warn(ctx, "sender key unavailable, invoice left pending", "message_id", m.ID, "sender", m.Sender, "error", err)
			continue
		}
		if err != nil {
			s.logger.Warn(ctx, "discarding unreadable invoice", "message_id", m.ID, "sender", m.Sender, "error", err)
			if aerr := s.transport.Acknowledge(ctx, []string{m.ID}); aerr != nil {
				s.logger.Error(ctx, "failed to discard invoice", "message_id", m.ID, "error", aerr)
			}
			continue
		}

		out = append(out, invoice.Received{Payload: p, MessageID: m.ID, Payee: m.Sender})
	}

	return out, nil
}

// senderKeyPending reports a decode failure that may clear up on a later
// fetch. A pinned key that no longer matches never does.
func senderKeyPending(err error) bool {
	return errors.Is(err, envelope.ErrKeyUnavailable) && !errors.Is(err, identity.ErrKeyMismatch)
}

// IdempotencyKey is the payment reference for an invoice message.
func IdempotencyKey(messageID string) string {
	return "invoice-" + messageID
}

// Pay pays received.Totals.Total to the payee and retires the message. A
// message already paid by this service is not paid again; only the
// acknowledgement is retried.
func (s *invoiceService) Pay(ctx context.Context, received invoice.Received) (payment.Receipt, error) {
	if received.MessageID == "" || received.Payee == "" {
		return payment.Receipt{}, fmt.Errorf("%w: invoice has no message id or payee", common.ErrorValidation)
	}

	rc, ok := s.paid.Get(received.MessageID)
	if !ok {
		req := payment.Request{
			Recipient:      received.Payee,
			Amount:         received.Totals.Total,
			IdempotencyKey: IdempotencyKey(received.MessageID),
		}

		var err error
		rc, err = s.payments.SendPayment(ctx, req)
		if err != nil {
			return payment.Receipt{}, fmt.Errorf("%w: %w", ErrPaymentFailed, err)
		}
		s.paid.Set(received.MessageID, rc)

		s.logger.Info(ctx, "invoice paid", "message_id", received.MessageID, "recipient", received.Payee, "amount", received.Totals.Total, "receipt", rc.ID)
	} else {
		s.logger.Info(ctx, "invoice already paid, retrying acknowledgement", "message_id", received.MessageID, "receipt", rc.ID)
	}

	if err := s.transport.Acknowledge(ctx, []string{received.MessageID}); err != nil {
		s.logger.Error(ctx, "paid invoice not acknowledged", "message_id", received.MessageID, "error", err)
		return rc, fmt.Errorf("%w: %w", ErrAcknowledgeFailed, err)
	}

	return rc, nil
}
