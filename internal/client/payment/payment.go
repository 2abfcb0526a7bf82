// Package payment sends payments for received invoices to an external
// payment gateway.
package payment

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophinvoice/internal/logging"
	"github.com/dmitrijs2005/gophinvoice/internal/netx"
	"github.com/google/uuid"
)

// Request is one payment order. IdempotencyKey lets the gateway drop
// repeats of the same order.
type Request struct {
	Recipient      string
	Amount         float64
	IdempotencyKey string
}

// Receipt is the gateway's confirmation.
type Receipt struct {
	ID     string
	Status string
}

type gatewayRequest struct {
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
	Reference string  `json:"reference"`
}

type gatewayResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// HTTPSender posts payments as JSON to {baseURL}/payments.
type HTTPSender struct {
	baseURL string
	client  *http.Client
}

func NewHTTPSender(baseURL string, timeout time.Duration) *HTTPSender {
	return &HTTPSender{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSender) SendPayment(ctx context.Context, req Request) (Receipt, error) {
	var headers map[string]string
	if req.IdempotencyKey != "" {
		headers = map[string]string{"Idempotency-Key": req.IdempotencyKey}
	}

	body := gatewayRequest{Recipient: req.Recipient, Amount: req.Amount, Reference: req.IdempotencyKey}

	var resp gatewayResponse
	if err := netx.PostJSON(ctx, s.client, s.baseURL+"/payments", headers, body, &resp); err != nil {
		return Receipt{}, err
	}

	return Receipt{ID: resp.ID, Status: resp.Status}, nil
}

// LogSender only logs the order. It stands in when no gateway is configured.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(l logging.Logger) *LogSender {
	return &LogSender{logger: l.With("module", "payment")}
}

func (s *LogSender) SendPayment(ctx context.Context, req Request) (Receipt, error) {
	id := uuid.NewString()
	s.logger.Info(ctx, "payment recorded", "recipient", req.Recipient, "amount", req.Amount, "reference", req.IdempotencyKey, "receipt", id)
	return Receipt{ID: id, Status: "logged"}, nil
}
