// Package grpc exposes the account and mailbox services over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophinvoice/internal/logging"
	pb "github.com/dmitrijs2005/gophinvoice/internal/proto"
	"github.com/dmitrijs2005/gophinvoice/internal/server/models"
	"github.com/dmitrijs2005/gophinvoice/internal/server/services"
	"google.golang.org/grpc"
)

type userSvc interface {
	Register(ctx context.Context, r services.Registration) (*models.User, error)
	GetSalt(ctx context.Context, username string) ([]byte, error)
	Login(ctx context.Context, username string, verifierCandidate []byte) (*services.LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	LookupIdentity(ctx context.Context, username string) ([]byte, error)
}

type mailboxSvc interface {
	Send(ctx context.Context, senderID, channel, recipient, body string) (string, error)
	List(ctx context.Context, userID, channel string) ([]*models.Message, error)
	Ack(ctx context.Context, userID string, ids []string) (int, error)
}

type GRPCServer struct {
	pb.UnimplementedGophInvoiceServiceServer
	address   string
	users     userSvc
	mailbox   mailboxSvc
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, us userSvc, ms mailboxSvc, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		mailbox:   ms,
		jwtSecret: []byte(secretKey),
	}
}

// Run serves until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {

	// creates gRPC-server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.metricsInterceptor,
		s.accessTokenInterceptor,
	))

	// registers service
	pb.RegisterGophInvoiceServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
