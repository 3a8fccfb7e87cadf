package grpc

import (
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"

	"github.com/GriffinCanCode/novashell/internal/domain/device"
)

// ServiceName is the health-checked service that mirrors the device store
const ServiceName = "novashell.device"

// HealthServer serves grpc_health_v1 for the device store
type HealthServer struct {
	server *grpc.Server
	health *health.Server
	logger *zap.Logger
}

// NewHealthServer creates a health server. The device service starts out
// NOT_SERVING until Track is called.
func NewHealthServer(logger *zap.Logger) *HealthServer {
	if logger == nil {
		logger = zap.NewNop()
	}

	server := grpc.NewServer(
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             30 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.MaxRecvMsgSize(1024*1024),
	)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(server, hs)

	return &HealthServer{
		server: server,
		health: hs,
		logger: logger,
	}
}

// Track reports SERVING while the store is open and NOT_SERVING once it has
// been closed. It blocks until then.
func (h *HealthServer) Track(store *device.Store) {
	sub := store.Subscribe()
	defer sub.Close()

	if !store.Closed() {
		h.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
		h.logger.Debug("Device service serving")
	}

	for range sub.C() {
	}

	h.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	h.logger.Info("Device service not serving")
}

// Serve accepts connections on lis until Stop is called
func (h *HealthServer) Serve(lis net.Listener) error {
	h.logger.Info("Starting gRPC health server", zap.String("addr", lis.Addr().String()))
	return h.server.Serve(lis)
}

// Stop marks every service NOT_SERVING and drains open calls
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
