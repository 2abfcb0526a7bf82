package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophinvoice/internal/client/payment"
	"github.com/dmitrijs2005/gophinvoice/internal/client/services"
	"github.com/dmitrijs2005/gophinvoice/internal/cryptox"
	"github.com/dmitrijs2005/gophinvoice/internal/invoice"
	"github.com/dmitrijs2005/gophinvoice/internal/logging"
)

type fakeAuth struct {
	regUser string
	regPass []byte
	regErr  error

	loginUser string
	loginPass []byte
	loginErr  error

	logoutCalled bool
	closeCalled  bool
	pingErr      error
}

func (f *fakeAuth) Register(_ context.Context, user string, pass []byte) error {
	f.regUser, f.regPass = user, append([]byte(nil), pass...)
	return f.regErr
}

func (f *fakeAuth) Login(_ context.Context, user string, pass []byte) (*services.Account, error) {
	f.loginUser, f.loginPass = user, append([]byte(nil), pass...)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	id, err := cryptox.GenerateIdentity()
	if err != nil {
		return nil, err
	}
	return &services.Account{Username: user, Identity: id}, nil
}

func (f *fakeAuth) Logout(context.Context)          { f.logoutCalled = true }
func (f *fakeAuth) Ping(context.Context) error      { return f.pingErr }
func (f *fakeAuth) Close(ctx context.Context) error { f.closeCalled = true; return nil }

type fakeInvoices struct {
	created []invoice.Payload
	sendErr error

	incoming []invoice.Received
	fetchErr error

	paid       []string
	payReceipt payment.Receipt
	payErr     error
}

func (f *fakeInvoices) Create(_ context.Context, p invoice.Payload, counterparty string) (services.SendReceipt, error) {
	if f.sendErr != nil {
		return services.SendReceipt{}, f.sendErr
	}
	f.created = append(f.created, p)
	return services.SendReceipt{MessageID: "msg-1", Recipient: counterparty}, nil
}

func (f *fakeInvoices) FetchIncoming(context.Context) ([]invoice.Received, error) {
	return f.incoming, f.fetchErr
}

func (f *fakeInvoices) Pay(_ context.Context, r invoice.Received) (payment.Receipt, error) {
	f.paid = append(f.paid, r.MessageID)
	return f.payReceipt, f.payErr
}

type fakeKeys struct {
	refreshed []string
	err       error
}

func (f *fakeKeys) Refresh(_ context.Context, username string) ([]byte, error) {
	f.refreshed = append(f.refreshed, username)
	if f.err != nil {
		return nil, f.err
	}
	return make([]byte, cryptox.KeySize), nil
}

type testApp struct {
	*App
	auth   *fakeAuth
	inv    *fakeInvoices
	dir    *fakeKeys
	stdout *bytes.Buffer
	logs   *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ta := &testApp{
		auth:   &fakeAuth{},
		inv:    &fakeInvoices{},
		dir:    &fakeKeys{},
		stdout: &bytes.Buffer{},
		logs:   &bytes.Buffer{},
	}
	ta.App = &App{
		authService: ta.auth,
		keys:        ta.dir,
		newInvoices: func(*services.Account) services.InvoiceService { return ta.inv },
		logger:      logging.NewConsole(ta.logs, "debug"),
		reader:      bufio.NewReader(strings.NewReader("")),
		out:         ta.stdout,
	}
	return ta
}

// loggedIn puts the app into a logged-in state without prompting.
func (ta *testApp) loggedIn(t *testing.T, user string) {
	t.Helper()
	acc, err := ta.auth.Login(context.Background(), user, nil)
	if err != nil {
		t.Fatal(err)
	}
	ta.account = acc
	ta.invoices = ta.inv
}

// stubAnswers feeds prompts from answers in order; an exhausted queue
// returns io.EOF.
func stubAnswers(t *testing.T, answers ...string) {
	t.Helper()
	orig := getSimpleText
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	t.Cleanup(func() { getSimpleText = orig })
}

func stubPassword(t *testing.T, pw []byte) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return pw, nil }
	t.Cleanup(func() { getPassword = orig })
}
