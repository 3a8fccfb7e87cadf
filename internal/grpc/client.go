package grpc

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
)

// HealthClient checks the device service of a running server
type HealthClient struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
	addr   string
}

// NewHealthClient creates a health client. Extra options are appended to the
// defaults, which tests use to dial an in-memory listener.
func NewHealthClient(addr string, extra ...grpc.DialOption) (*HealthClient, error) {
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                60 * time.Second, // Send pings every 60 seconds
			Timeout:             20 * time.Second, // Wait 20 seconds for ping ack
			PermitWithoutStream: false,
		}),
	}
	opts = append(opts, extra...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial health service: %w", err)
	}

	return &HealthClient{
		conn:   conn,
		client: healthpb.NewHealthClient(conn),
		addr:   addr,
	}, nil
}

// Check returns the serving status of the device service
func (c *HealthClient) Check(ctx context.Context) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := c.client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("health check %s: %w", c.addr, err)
	}
	return resp.GetStatus(), nil
}

// Close closes the connection
func (c *HealthClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
