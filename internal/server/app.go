// Package server wires the mailbox server: Postgres storage with migrations,
// optional S3 offloading, the gRPC API and the Prometheus endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophinvoice/internal/logging"
	"github.com/dmitrijs2005/gophinvoice/internal/server/blobstore"
	"github.com/dmitrijs2005/gophinvoice/internal/server/config"
	"github.com/dmitrijs2005/gophinvoice/internal/server/metrics"
	"github.com/dmitrijs2005/gophinvoice/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophinvoice/internal/server/services"

	gs "github.com/dmitrijs2005/gophinvoice/internal/server/grpc"
)

type App struct {
	config         *config.Config
	logger         *logging.ZapLogger
	db             *sql.DB
	userService    *services.UserService
	mailboxService *services.MailboxService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.NewZap(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("repository init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	// nil keeps every body inline
	var blobs blobstore.Store
	if c.S3Bucket != "" {
		s3, err := blobstore.NewS3Store(ctx, c)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("blob store init error: %w", err)
		}
		blobs = s3
		logger.Info(ctx, "Offloading large bodies", "bucket", c.S3Bucket, "limit", c.InlineBodyLimit)
	}

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		userService:    services.NewUserService(db, rm, c, logger),
		mailboxService: services.NewMailboxService(db, rm, blobs, c, logger),
	}, nil
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.mailboxService, app.config.SecretKey)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := metrics.Serve(ctx, app.config.MetricsAddr, app.logger); err != nil {
		app.logger.Error(ctx, "metrics server failed", "error", err)
		cancelFunc()
	}
}

// Run blocks until ctx is done or one of the servers fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
	_ = app.logger.Sync()
}
