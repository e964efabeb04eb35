package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The service is described by hand on top of well-known protobuf types, so
// no generated code is needed on either side.
const (
	ServiceName = "shortlink.Shortener"

	ShortenMethod       = "/" + ServiceName + "/Shorten"
	ResolveMethod       = "/" + ServiceName + "/Resolve"
	GetStatsMethod      = "/" + ServiceName + "/GetStats"
	InternalStatsMethod = "/" + ServiceName + "/InternalStats"
)

// ShortenerServiceServer is the server API for the shortlink.Shortener service.
type ShortenerServiceServer interface {
	Shorten(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Resolve(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	GetStats(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	InternalStats(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

func unary[Req, Resp any](method string, call func(ShortenerServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}

		if interceptor == nil {
			return call(srv.(ShortenerServiceServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ShortenerServiceServer), ctx, req.(*Req))
		}

		return interceptor(ctx, in, info, handler)
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ShortenerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Shorten", Handler: unary(ShortenMethod, ShortenerServiceServer.Shorten)},
		{MethodName: "Resolve", Handler: unary(ResolveMethod, ShortenerServiceServer.Resolve)},
		{MethodName: "GetStats", Handler: unary(GetStatsMethod, ShortenerServiceServer.GetStats)},
		{MethodName: "InternalStats", Handler: unary(InternalStatsMethod, ShortenerServiceServer.InternalStats)},
	},
	Streams: []grpc.StreamDesc{},
}

// Client calls a shortlink.Shortener server.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Shorten(ctx context.Context, url, alias string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(map[string]any{"url": url, "custom_alias": alias})
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ShortenMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Resolve(ctx context.Context, code string, opts ...grpc.CallOption) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, ResolveMethod, wrapperspb.String(code), out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

func (c *Client) GetStats(ctx context.Context, code string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetStatsMethod, wrapperspb.String(code), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) InternalStats(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, InternalStatsMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
