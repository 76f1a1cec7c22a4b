package grpc_server_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	grpc_server "content-service/internal/infrastructure/inbound/grpc"
	"content-service/internal/infrastructure/logger"
	"content-service/internal/infrastructure/outbound/metrics/prometheus"
)

func startHealthServer(t *testing.T) (*grpc_server.Server, healthpb.HealthClient) {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	srv := grpc_server.NewServer("", 0, logger.New("test"), prometheus.NewPrometheusMetricsProvider())
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
		_ = srv.Shutdown()
	})
	return srv, healthpb.NewHealthClient(conn)
}

func TestHealthServer_Status(t *testing.T) {
	srv, client := startHealthServer(t)
	ctx := context.Background()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: grpc_server.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())

	srv.SetServing(true)

	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{Service: grpc_server.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestHealthServer_UnknownService(t *testing.T) {
	_, client := startHealthServer(t)

	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "missing"})
	assert.Error(t, err)
}
