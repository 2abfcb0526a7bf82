package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophinvoice/internal/common"
	pb "github.com/dmitrijs2005/gophinvoice/internal/proto"
	"github.com/dmitrijs2005/gophinvoice/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC codes. Internal details stay in
// the server log.
func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrRefreshTokenExpired.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		s.logger.Error(ctx, op+" failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingResponse, error) {
	return &pb.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) RegisterUser(ctx context.Context, req *pb.RegisterUserRequest) (*pb.RegisterUserResponse, error) {

	s.logger.Info(ctx, "Registration request", "username", req.Username)

	_, err := s.users.Register(ctx, services.Registration{
		Username:  req.Username,
		Salt:      req.Salt,
		Verifier:  req.Verifier,
		PublicKey: req.PublicKey,
		SealedKey: req.SealedKey,
		KeyNonce:  req.KeyNonce,
	})
	if err != nil {
		return nil, s.toStatus(ctx, "register", err)
	}

	s.logger.Info(ctx, "Registered", "username", req.Username)
	return &pb.RegisterUserResponse{}, nil
}

func (s *GRPCServer) GetSalt(ctx context.Context, req *pb.GetSaltRequest) (*pb.GetSaltResponse, error) {
	salt, err := s.users.GetSalt(ctx, req.Username)
	if err != nil {
		return nil, s.toStatus(ctx, "get salt", err)
	}
	return &pb.GetSaltResponse{Salt: salt}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {
	res, err := s.users.Login(ctx, req.Username, req.VerifierCandidate)
	if err != nil {
		return nil, s.toStatus(ctx, "login", err)
	}

	return &pb.LoginResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		PublicKey:    res.PublicKey,
		SealedKey:    res.SealedKey,
		KeyNonce:     res.KeyNonce,
	}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *pb.RefreshTokenRequest) (*pb.RefreshTokenResponse, error) {
	pair, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, "refresh token", err)
	}
	return &pb.RefreshTokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *GRPCServer) LookupIdentity(ctx context.Context, req *pb.LookupIdentityRequest) (*pb.LookupIdentityResponse, error) {
	pk, err := s.users.LookupIdentity(ctx, req.Username)
	if err != nil {
		return nil, s.toStatus(ctx, "lookup identity", err)
	}
	return &pb.LookupIdentityResponse{Username: req.Username, PublicKey: pk}, nil
}

func (s *GRPCServer) SendMessage(ctx context.Context, req *pb.SendMessageRequest) (*pb.SendMessageResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	id, err := s.mailbox.Send(ctx, userID, req.Channel, req.Recipient, req.Body)
	if err != nil {
		return nil, s.toStatus(ctx, "send message", err)
	}
	return &pb.SendMessageResponse{MessageId: id}, nil
}

func (s *GRPCServer) ListMessages(ctx context.Context, req *pb.ListMessagesRequest) (*pb.ListMessagesResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	msgs, err := s.mailbox.List(ctx, userID, req.Channel)
	if err != nil {
		return nil, s.toStatus(ctx, "list messages", err)
	}

	out := make([]*pb.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, &pb.Message{
			MessageId: m.ID,
			Sender:    m.Sender,
			Body:      m.Body,
			CreatedAt: m.CreatedAt,
		})
	}
	return &pb.ListMessagesResponse{Messages: out}, nil
}

func (s *GRPCServer) AckMessages(ctx context.Context, req *pb.AckMessagesRequest) (*pb.AckMessagesResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	n, err := s.mailbox.Ack(ctx, userID, req.MessageIds)
	if err != nil {
		return nil, s.toStatus(ctx, "ack messages", err)
	}
	return &pb.AckMessagesResponse{Acknowledged: int32(n)}, nil
}
