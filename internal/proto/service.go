package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "gophinvoice.service.GophInvoiceService"

const (
	GophInvoiceService_Ping_FullMethodName           = "/" + ServiceName + "/Ping"
	GophInvoiceService_RegisterUser_FullMethodName   = "/" + ServiceName + "/RegisterUser"
	GophInvoiceService_GetSalt_FullMethodName        = "/" + ServiceName + "/GetSalt"
	GophInvoiceService_Login_FullMethodName          = "/" + ServiceName + "/Login"
	GophInvoiceService_RefreshToken_FullMethodName   = "/" + ServiceName + "/RefreshToken"
	GophInvoiceService_LookupIdentity_FullMethodName = "/" + ServiceName + "/LookupIdentity"
	GophInvoiceService_SendMessage_FullMethodName    = "/" + ServiceName + "/SendMessage"
	GophInvoiceService_ListMessages_FullMethodName   = "/" + ServiceName + "/ListMessages"
	GophInvoiceService_AckMessages_FullMethodName    = "/" + ServiceName + "/AckMessages"
)

// GophInvoiceServiceClient is the client API for GophInvoiceService.
type GophInvoiceServiceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*RegisterUserResponse, error)
	GetSalt(ctx context.Context, in *GetSaltRequest, opts ...grpc.CallOption) (*GetSaltResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error)
	LookupIdentity(ctx context.Context, in *LookupIdentityRequest, opts ...grpc.CallOption) (*LookupIdentityResponse, error)
	SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*SendMessageResponse, error)
	ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (*ListMessagesResponse, error)
	AckMessages(ctx context.Context, in *AckMessagesRequest, opts ...grpc.CallOption) (*AckMessagesResponse, error)
}

type gophInvoiceServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewGophInvoiceServiceClient(cc grpc.ClientConnInterface) GophInvoiceServiceClient {
	return &gophInvoiceServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(Codec)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gophInvoiceServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, GophInvoiceService_Ping_FullMethodName, in, opts)
}

func (c *gophInvoiceServiceClient) RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*RegisterUserResponse, error) {
	return invoke[RegisterUserResponse](ctx, c.cc, GophInvoiceService_RegisterUser_FullMethodName, in, opts)
}

func (c *gophInvoiceServiceClient) GetSalt(ctx context.Context, in *GetSaltRequest, opts ...grpc.CallOption) (*GetSaltResponse, error) {
	return invoke[GetSaltResponse](ctx, c.cc, GophInvoiceService_GetSalt_FullMethodName, in, opts)
}

func (c *gophInvoiceServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, GophInvoiceService_Login_FullMethodName, in, opts)
}

func (c *gophInvoiceServiceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, GophInvoiceService_RefreshToken_FullMethodName, in, opts)
}

func (c *gophInvoiceServiceClient) LookupIdentity(ctx context.Context, in *LookupIdentityRequest, opts ...grpc.CallOption) (*LookupIdentityResponse, error) {
	return invoke[LookupIdentityResponse](ctx, c.cc, GophInvoiceService_LookupIdentity_FullMethodName, in, opts)
}

func (c *gophInvoiceServiceClient) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*SendMessageResponse, error) {
	return invoke[SendMessageResponse](ctx, c.cc, GophInvoiceService_SendMessage_FullMethodName, in, opts)
}

func (c *gophInvoiceServiceClient) ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (*ListMessagesResponse, error) {
	return invoke[ListMessagesResponse](ctx, c.cc, GophInvoiceService_ListMessages_FullMethodName, in, opts)
}

func (c *gophInvoiceServiceClient) AckMessages(ctx context.Context, in *AckMessagesRequest, opts ...grpc.CallOption) (*AckMessagesResponse, error) {
	return invoke[AckMessagesResponse](ctx, c.cc, GophInvoiceService_AckMessages_FullMethodName, in, opts)
}

// GophInvoiceServiceServer is the server API for GophInvoiceService.
// Implementations must embed UnimplementedGophInvoiceServiceServer.
type GophInvoiceServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	RegisterUser(context.Context, *RegisterUserRequest) (*RegisterUserResponse, error)
	GetSalt(context.Context, *GetSaltRequest) (*GetSaltResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	LookupIdentity(context.Context, *LookupIdentityRequest) (*LookupIdentityResponse, error)
	SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error)
	ListMessages(context.Context, *ListMessagesRequest) (*ListMessagesResponse, error)
	AckMessages(context.Context, *AckMessagesRequest) (*AckMessagesResponse, error)
	mustEmbedUnimplementedGophInvoiceServiceServer()
}

type UnimplementedGophInvoiceServiceServer struct{}

func (UnimplementedGophInvoiceServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedGophInvoiceServiceServer) RegisterUser(context.Context, *RegisterUserRequest) (*RegisterUserResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RegisterUser not implemented")
}
func (UnimplementedGophInvoiceServiceServer) GetSalt(context.Context, *GetSaltRequest) (*GetSaltResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetSalt not implemented")
}
func (UnimplementedGophInvoiceServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedGophInvoiceServiceServer) RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RefreshToken not implemented")
}
func (UnimplementedGophInvoiceServiceServer) LookupIdentity(context.Context, *LookupIdentityRequest) (*LookupIdentityResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method LookupIdentity not implemented")
}
func (UnimplementedGophInvoiceServiceServer) SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SendMessage not implemented")
}
func (UnimplementedGophInvoiceServiceServer) ListMessages(context.Context, *ListMessagesRequest) (*ListMessagesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListMessages not implemented")
}
func (UnimplementedGophInvoiceServiceServer) AckMessages(context.Context, *AckMessagesRequest) (*AckMessagesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AckMessages not implemented")
}
func (UnimplementedGophInvoiceServiceServer) mustEmbedUnimplementedGophInvoiceServiceServer() {}

func RegisterGophInvoiceServiceServer(s grpc.ServiceRegistrar, srv GophInvoiceServiceServer) {
	s.RegisterService(&GophInvoiceService_ServiceDesc, srv)
}

// unary adapts a typed server method to a grpc.MethodDesc handler.
func unary[Req any, Resp any](name string, call func(GophInvoiceServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(GophInvoiceServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(GophInvoiceServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var GophInvoiceService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GophInvoiceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", GophInvoiceServiceServer.Ping),
		unary("RegisterUser", GophInvoiceServiceServer.RegisterUser),
		unary("GetSalt", GophInvoiceServiceServer.GetSalt),
		unary("Login", GophInvoiceServiceServer.Login),
		unary("RefreshToken", GophInvoiceServiceServer.RefreshToken),
		unary("LookupIdentity", GophInvoiceServiceServer.LookupIdentity),
		unary("SendMessage", GophInvoiceServiceServer.SendMessage),
		unary("ListMessages", GophInvoiceServiceServer.ListMessages),
		unary("AckMessages", GophInvoiceServiceServer.AckMessages),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophinvoice.proto",
}
