// Package grpc exposes the shortener over gRPC.
package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/atinyakov/shortlink/internal/app/service"
	"github.com/atinyakov/shortlink/internal/intercepters"
	"github.com/atinyakov/shortlink/internal/middleware"
)

// Server wraps the gRPC server and dependencies.
type Server struct {
	grpcServer *grpc.Server
	port       int
	logger     *zap.Logger
}

// New creates a new gRPC server instance.
func New(svc service.URLServiceIface, resolver service.URLResolverIface, subnet middleware.TrustedSubnet, logger *zap.Logger, port int) *Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.UnaryServerInterceptor(intercepters.InterceptorLogger(logger)),
			intercepters.TrustedSubnet(subnet, InternalStatsMethod),
		),
	)

	s.RegisterService(&ServiceDesc, &ShortenerServer{
		Service:  svc,
		Resolver: resolver,
	})

	return &Server{
		grpcServer: s,
		port:       port,
		logger:     logger,
	}
}

// Start listens on the configured port and serves until GracefulStop.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		s.logger.Error("gRPC server failed to listen", zap.Error(err))
		return err
	}

	s.logger.Info("gRPC server listening on port", zap.Int("port", s.port))
	return s.Serve(lis)
}

func (s *Server) Serve(lis net.Listener) error {
	return s.grpcServer.Serve(lis)
}

// GracefulStop shuts down the server gracefully.
func (s *Server) GracefulStop() {
	s.grpcServer.GracefulStop()
}

// ShortenerServer implements ShortenerServiceServer on top of the services.
type ShortenerServer struct {
	Service  service.URLServiceIface
	Resolver service.URLResolverIface
}

func (s *ShortenerServer) Shorten(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	url := req.GetFields()["url"].GetStringValue()
	alias := req.GetFields()["custom_alias"].GetStringValue()

	record, err := s.Service.Shorten(ctx, url, alias)
	if err != nil {
		return nil, toStatus(err)
	}

	return structpb.NewStruct(map[string]any{
		"short_url":    s.Service.ShortURL(record.ShortCode),
		"short_code":   record.ShortCode,
		"original_url": record.OriginalURL,
	})
}

// Resolve counts a click like an HTTP redirect does.
func (s *ShortenerServer) Resolve(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	original, err := s.Resolver.ResolveForRedirect(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}

	return wrapperspb.String(original), nil
}

func (s *ShortenerServer) GetStats(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	stats, err := s.Resolver.GetStats(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}

	return structpb.NewStruct(map[string]any{
		"short_code":   stats.ShortCode,
		"original_url": stats.OriginalURL,
		"total_clicks": stats.TotalClicks,
		"created_at":   stats.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (s *ShortenerServer) InternalStats(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	stats, err := s.Service.InternalStats(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	return structpb.NewStruct(map[string]any{
		"links":  stats.Links,
		"clicks": stats.Clicks,
	})
}

func toStatus(err error) error {
	code := service.ErrorCode(err)

	var c codes.Code
	switch code {
	case service.CodeInvalidURL, service.CodeInvalidAlias:
		c = codes.InvalidArgument
	case service.CodeAliasTaken:
		c = codes.AlreadyExists
	case service.CodeNotFound:
		c = codes.NotFound
	case service.CodeGenerationExhausted, service.CodeStoreUnavailable:
		c = codes.Unavailable
	default:
		c = codes.Internal
	}

	return status.Error(c, service.ErrorDetail(err))
}
