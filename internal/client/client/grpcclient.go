package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophinvoice/internal/common"
	pb "github.com/dmitrijs2005/gophinvoice/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      pb.GophInvoiceServiceClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken, s.refreshToken = access, refresh
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	access, refresh := s.tokens()

	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" || method == pb.GophInvoiceService_RefreshToken_FullMethodName {
		return err
	}

	resp, rerr := s.client.RefreshToken(ctx, &pb.RefreshTokenRequest{RefreshToken: refresh})
	if rerr != nil {
		return rerr
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)

	// tokens refreshed, retry once with the new access token
	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

// NewGophInvoiceClient connects to the mailbox server. timeout bounds every
// call; zero means no per-call limit.
func NewGophInvoiceClient(endpointURL string, timeout time.Duration) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewGophInvoiceServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	resp, err := s.client.Ping(ctx, &pb.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) Register(ctx context.Context, reg Registration) error {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	req := &pb.RegisterUserRequest{
		Username:  reg.Username,
		Salt:      reg.Salt,
		Verifier:  reg.Verifier,
		PublicKey: reg.PublicKey,
		SealedKey: reg.SealedKey,
		KeyNonce:  reg.KeyNonce,
	}

	if _, err := s.client.RegisterUser(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) GetSalt(ctx context.Context, username string) ([]byte, error) {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	resp, err := s.client.GetSalt(ctx, &pb.GetSaltRequest{Username: username})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Salt, nil
}

func (s *GRPCClient) Login(ctx context.Context, username string, verifier []byte) (*Session, error) {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	resp, err := s.client.Login(ctx, &pb.LoginRequest{Username: username, VerifierCandidate: verifier})
	if err != nil {
		return nil, s.mapError(err)
	}

	s.setTokens(resp.AccessToken, resp.RefreshToken)

	return &Session{PublicKey: resp.PublicKey, SealedKey: resp.SealedKey, KeyNonce: resp.KeyNonce}, nil
}

// Logout forgets the tokens held in memory.
func (s *GRPCClient) Logout() {
	s.setTokens("", "")
}

func (s *GRPCClient) LookupIdentity(ctx context.Context, username string) ([]byte, error) {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	resp, err := s.client.LookupIdentity(ctx, &pb.LookupIdentityRequest{Username: username})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.PublicKey, nil
}

// Send delivers body to recipient's channel and returns the message id.
func (s *GRPCClient) Send(ctx context.Context, channel, recipient, body string) (string, error) {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	resp, err := s.client.SendMessage(ctx, &pb.SendMessageRequest{Channel: channel, Recipient: recipient, Body: body})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.MessageId, nil
}

// List returns the caller's pending messages in channel.
func (s *GRPCClient) List(ctx context.Context, channel string) ([]Message, error) {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	resp, err := s.client.ListMessages(ctx, &pb.ListMessagesRequest{Channel: channel})
	if err != nil {
		return nil, s.mapError(err)
	}

	out := make([]Message, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		out = append(out, Message{ID: m.MessageId, Sender: m.Sender, Body: m.Body})
	}
	return out, nil
}

// Acknowledge removes the messages. Unknown ids are ignored by the server.
func (s *GRPCClient) Acknowledge(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	if _, err := s.client.AckMessages(ctx, &pb.AckMessagesRequest{MessageIds: ids}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrConflict
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
