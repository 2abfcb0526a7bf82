package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophinvoice/internal/client/client"
	"github.com/dmitrijs2005/gophinvoice/internal/client/config"
	"github.com/dmitrijs2005/gophinvoice/internal/client/identity"
	"github.com/dmitrijs2005/gophinvoice/internal/client/payment"
	"github.com/dmitrijs2005/gophinvoice/internal/client/repositories/contacts"
	"github.com/dmitrijs2005/gophinvoice/internal/client/services"
	"github.com/dmitrijs2005/gophinvoice/internal/cryptox"
	"github.com/dmitrijs2005/gophinvoice/internal/invoice"
	"github.com/dmitrijs2005/gophinvoice/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const onlineCheckInterval = 30 * time.Second

// keyDirectory re-checks a counterparty key against its pin before sending.
type keyDirectory interface {
	Refresh(ctx context.Context, username string) ([]byte, error)
}

type App struct {
	config      *config.Config
	db          *sql.DB
	authService services.AuthService
	keys        keyDirectory
	newInvoices func(*services.Account) services.InvoiceService

	account  *services.Account
	invoices services.InvoiceService
	inbox    []invoice.Received

	logger logging.Logger
	mu     sync.Mutex
	Mode   Mode
	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local pin store, connects to the mailbox server and
// wires the services. Invoice operations become available after login,
// once the identity key is unsealed.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewConsole(os.Stderr, c.LogLevel)

	db, err := client.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	apiClient, err := client.NewGophInvoiceClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		db.Close()
		return nil, err
	}

	resolver := identity.NewResolver(apiClient, contacts.NewSQLiteRepository(db), c.IdentityCacheSize, logger)

	var payments services.PaymentSender = payment.NewLogSender(logger)
	if c.PaymentGatewayURL != "" {
		payments = payment.NewHTTPSender(c.PaymentGatewayURL, c.PaymentTimeout)
	}

	newInvoices := func(acc *services.Account) services.InvoiceService {
		kp := cryptox.NewKeyProvider(acc.Identity.Private, resolver)
		return services.NewInvoiceService(apiClient, kp.Encrypt, kp.Decrypt, payments, logger)
	}

	return &App{
		config:      c,
		db:          db,
		authService: services.NewAuthService(apiClient),
		keys:        resolver,
		newInvoices: newInvoices,
		logger:      logger,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

// Run starts the REPL and releases the connection and the database when it
// returns.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.account != nil {
			a.account.Identity.Wipe()
		}
		a.authService.Close(ctx)
		if a.db != nil {
			a.db.Close()
		}
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.account != nil
}

// StartOnlineStatusWatcher pings the server every interval and flips Mode
// between online and offline. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.authService.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}
