package main

import (
	"context"
	"log"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// healthCheckInterval is how often the store is pinged to refresh the gRPC
// serving status.
const healthCheckInterval = 15 * time.Second

// pinger is satisfied by *db.Client.
type pinger interface {
	Ping(ctx context.Context) error
}

// newHealthServer returns a gRPC server exposing grpc.health.v1.Health. The
// overall status starts as NOT_SERVING until the first successful ping.
func newHealthServer(opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	gs := grpc.NewServer(opts...)
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	return gs, hs
}

// checkStore sets the serving status from a single ping.
func checkStore(ctx context.Context, hs *health.Server, store pinger) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := store.Ping(pingCtx); err != nil {
		log.Printf("health: store ping failed: %v", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	hs.SetServingStatus("", status)
}

// watchStore refreshes the serving status every interval until ctx is done,
// then marks the server NOT_SERVING.
func watchStore(ctx context.Context, hs *health.Server, store pinger, interval time.Duration) {
	checkStore(ctx, hs, store)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-ticker.C:
			checkStore(ctx, hs, store)
		}
	}
}
