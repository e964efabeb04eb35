package intercepters

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/atinyakov/shortlink/internal/middleware"
)

type contextKey string

const RealIPKey contextKey = "real-ip"

func realIP(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if ips := md.Get("x-real-ip"); len(ips) > 0 {
		return ips[0]
	}
	return ""
}

// TrustedSubnet stores the caller's x-real-ip in the context and rejects
// calls to the listed methods unless that address is inside subnet.
func TrustedSubnet(subnet middleware.TrustedSubnet, methods ...string) grpc.UnaryServerInterceptor {
	protected := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		protected[m] = struct{}{}
	}

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		ip := realIP(ctx)
		if ip != "" {
			ctx = context.WithValue(ctx, RealIPKey, ip)
		}

		if _, ok := protected[info.FullMethod]; ok && !subnet.Contains(ip) {
			return nil, status.Error(codes.PermissionDenied, "caller is outside the trusted subnet")
		}

		return handler(ctx, req)
	}
}
