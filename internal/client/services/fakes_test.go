package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophinvoice/internal/client/client"
	"github.com/dmitrijs2005/gophinvoice/internal/client/payment"
	"github.com/dmitrijs2005/gophinvoice/internal/cryptox"
	"github.com/dmitrijs2005/gophinvoice/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- fake mailbox ----

type stored struct {
	id        string
	channel   string
	sender    string
	recipient string
	body      string
}

type mailbox struct {
	mu      sync.Mutex
	seq     int
	msgs    map[string]*stored
	acked   []string
	ackErr  error
	listErr error
}

func newMailbox() *mailbox {
	return &mailbox{msgs: map[string]*stored{}}
}

// as returns a Transport view authenticated as user.
func (m *mailbox) as(user string) *mailboxUser {
	return &mailboxUser{m: m, user: user}
}

func (m *mailbox) pending(recipient string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, s := range m.msgs {
		if s.recipient == recipient {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// tamper flips the last byte of a stored envelope.
func (m *mailbox) tamper(t *testing.T, id string) {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := base64.StdEncoding.DecodeString(m.msgs[id].body)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01
	m.msgs[id].body = base64.StdEncoding.EncodeToString(raw)
}

func (m *mailbox) inject(sender, recipient, channel, body string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := fmt.Sprintf("m%d", m.seq)
	m.msgs[id] = &stored{id: id, channel: channel, sender: sender, recipient: recipient, body: body}
	return id
}

type mailboxUser struct {
	m    *mailbox
	user string
}

func (u *mailboxUser) Send(_ context.Context, channel, recipient, body string) (string, error) {
	return u.m.inject(u.user, recipient, channel, body), nil
}

func (u *mailboxUser) List(_ context.Context, channel string) ([]client.Message, error) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	if u.m.listErr != nil {
		return nil, u.m.listErr
	}
	var out []client.Message
	for _, s := range u.m.msgs {
		if s.recipient == u.user && s.channel == channel {
			out = append(out, client.Message{ID: s.id, Sender: s.sender, Body: s.body})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (u *mailboxUser) Acknowledge(_ context.Context, ids []string) error {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	if u.m.ackErr != nil {
		return u.m.ackErr
	}
	for _, id := range ids {
		if s, ok := u.m.msgs[id]; ok && s.recipient == u.user {
			delete(u.m.msgs, id)
			u.m.acked = append(u.m.acked, id)
		}
	}
	return nil
}

// ---- fake payment sender ----

type fakePayments struct {
	mu    sync.Mutex
	calls []payment.Request
	err   error
}

func (f *fakePayments) SendPayment(_ context.Context, req payment.Request) (payment.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return payment.Receipt{}, f.err
	}
	return payment.Receipt{ID: fmt.Sprintf("pay-%d", len(f.calls)), Status: "accepted"}, nil
}

// ---- parties ----

type party struct {
	name     string
	svc      InvoiceService
	payments *fakePayments
}

func discard() logging.Logger {
	return logging.NewConsole(io.Discard, "error")
}

// newParties wires one InvoiceService per name over a shared mailbox, each
// with its own identity key.
func newParties(t *testing.T, box *mailbox, names ...string) map[string]*party {
	t.Helper()

	dir := cryptox.StaticResolver{}
	ids := map[string]*cryptox.Identity{}
	for _, n := range names {
		id, err := cryptox.GenerateIdentity()
		require.NoError(t, err)
		ids[n] = id
		dir[n] = id.Public
	}

	out := map[string]*party{}
	for _, n := range names {
		kp := cryptox.NewKeyProvider(ids[n].Private, dir)
		pay := &fakePayments{}
		out[n] = &party{
			name:     n,
			svc:      NewInvoiceService(box.as(n), kp.Encrypt, kp.Decrypt, pay, discard()),
			payments: pay,
		}
	}
	return out
}

var errBoom = errors.New("boom")

// ---- switchable key directory ----

type flakyResolver struct {
	keys cryptox.StaticResolver
	mu   sync.Mutex
	err  error
}

func (r *flakyResolver) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *flakyResolver) PublicKey(ctx context.Context, identity string) ([]byte, error) {
	r.mu.Lock()
	err := r.err
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.keys.PublicKey(ctx, identity)
}
