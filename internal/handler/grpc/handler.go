// Package grpc exposes the standard gRPC health service of the KeyMinder
// server. Its serving status follows the storage health reported by the
// health-probe worker.
package grpc

import (
	"context"

	"github.com/lightningsoon/KeyMinder/internal/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name clients may query besides the
// empty overall name.
const ServiceName = "keyminder.KeyMinder"

// Handler is the root gRPC transport handler.
//
// It owns a [health.Server] that starts as NOT_SERVING until the first probe
// reports healthy storage.
type Handler struct {
	health *health.Server

	logger *logger.Logger
}

// NewHandler constructs a [Handler] with both service names not serving.
func NewHandler(logger *logger.Logger) *Handler {
	h := &Handler{
		health: health.NewServer(),
		logger: logger,
	}
	h.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)

	logger.Debug().Msg("gRPC handler created")
	return h
}

// Register attaches the health service to s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

// SetServing switches the reported status. Repeated calls with the same
// value are not logged.
func (h *Handler) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}

	if current, err := h.health.Check(context.Background(), &healthpb.HealthCheckRequest{}); err == nil && current.GetStatus() == status {
		return
	}

	h.logger.Info().Str("status", status.String()).Msg("gRPC health status changed")
	h.setStatus(status)
}

// Shutdown reports NOT_SERVING for good. Later SetServing calls are ignored.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}

func (h *Handler) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}
