package grpc_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	shortgrpc "github.com/atinyakov/shortlink/internal/app/server/grpc"
	"github.com/atinyakov/shortlink/internal/app/service"
	"github.com/atinyakov/shortlink/internal/codegen"
	"github.com/atinyakov/shortlink/internal/middleware"
	"github.com/atinyakov/shortlink/internal/mocks"
	"github.com/atinyakov/shortlink/internal/storage"
	"github.com/atinyakov/shortlink/internal/worker"
)

func startServer(t *testing.T, svc service.URLServiceIface, resolver service.URLResolverIface) *shortgrpc.Client {
	subnet, err := middleware.ParseTrustedSubnet("10.0.0.0/8")
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	srv := shortgrpc.New(svc, resolver, subnet, zap.NewNop(), 0)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.GracefulStop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return shortgrpc.NewClient(conn)
}

func TestRoundTrip(t *testing.T) {
	store, _ := storage.CreateMemoryStorage()
	svc := service.NewURL(store, codegen.New("random", 7), zap.NewNop(), "http://localhost:8080", service.Limits{})
	resolver := service.NewURLResolver(store, worker.NewDirect(zap.NewNop(), store, time.Second), zap.NewNop())
	client := startServer(t, svc, resolver)
	ctx := context.Background()

	created, err := client.Shorten(ctx, "https://example.com/a", "docs")
	require.NoError(t, err)
	assert.Equal(t, "docs", created.GetFields()["short_code"].GetStringValue())
	assert.Equal(t, "http://localhost:8080/docs", created.GetFields()["short_url"].GetStringValue())

	_, err = client.Shorten(ctx, "https://example.com/b", "docs")
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	original, err := client.Resolve(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a", original)

	stats, err := client.GetStats(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, float64(1), stats.GetFields()["total_clicks"].GetNumberValue())

	_, err = client.Resolve(ctx, "missing")
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.Shorten(ctx, "ftp://example.com", "")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestInternalStats_Subnet(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockURLServiceIface(ctrl)
	mockResolver := mocks.NewMockURLResolverIface(ctrl)
	client := startServer(t, mockService, mockResolver)

	_, err := client.InternalStats(context.Background())
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	mockService.EXPECT().InternalStats(gomock.Any()).Return(storage.Stats{Links: 4, Clicks: 11}, nil)

	ctx := metadata.AppendToOutgoingContext(context.Background(), "x-real-ip", "10.2.3.4")
	stats, err := client.InternalStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(4), stats.GetFields()["links"].GetNumberValue())
	assert.Equal(t, float64(11), stats.GetFields()["clicks"].GetNumberValue())
}

func TestShorten_ErrorMapping(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockURLServiceIface(ctrl)

	handler := &shortgrpc.ShortenerServer{Service: mockService}

	tests := []struct {
		err  error
		want codes.Code
	}{
		{service.ErrInvalidURL, codes.InvalidArgument},
		{service.ErrInvalidAlias, codes.InvalidArgument},
		{service.ErrAliasTaken, codes.AlreadyExists},
		{service.ErrGenerationExhausted, codes.Unavailable},
		{errors.Join(service.ErrStoreUnavailable, errors.New("secret dsn")), codes.Unavailable},
		{errors.New("boom"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			mockService.EXPECT().Shorten(gomock.Any(), "https://example.com", "").Return(nil, tt.err)

			req, _ := structpb.NewStruct(map[string]any{"url": "https://example.com"})
			_, err := handler.Shorten(context.Background(), req)

			assert.Equal(t, tt.want, status.Code(err))
			assert.NotContains(t, err.Error(), "secret dsn")
		})
	}
}

func TestGetStats_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockResolver := mocks.NewMockURLResolverIface(ctrl)
	handler := &shortgrpc.ShortenerServer{Resolver: mockResolver}

	mockResolver.EXPECT().GetStats(gomock.Any(), "nope").Return(nil, service.ErrNotFound)

	_, err := handler.GetStats(context.Background(), wrapperspb.String("nope"))
	assert.Equal(t, codes.NotFound, status.Code(err))
}
