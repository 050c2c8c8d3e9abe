package main

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// healthService is the service name reported by the gRPC health server.
const healthService = "sleepanalysis.Dashboard"

// hasDataSource is the part of the monitor the health server follows.
type hasDataSource interface {
	HasData() bool
	OnHasDataChange(fn func(hasData bool))
}

// newGRPCServer returns a gRPC server exposing grpc.health.v1 and reflection.
// The dashboard service is SERVING while the monitor has data.
func newGRPCServer(src hasDataSource) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer()

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(healthService, servingStatus(src.HasData()))

	src.OnHasDataChange(func(hasData bool) {
		healthServer.SetServingStatus(healthService, servingStatus(hasData))
	})

	reflection.Register(grpcServer)

	return grpcServer, healthServer
}

func servingStatus(ok bool) grpc_health_v1.HealthCheckResponse_ServingStatus {
	if ok {
		return grpc_health_v1.HealthCheckResponse_SERVING
	}
	return grpc_health_v1.HealthCheckResponse_NOT_SERVING
}
