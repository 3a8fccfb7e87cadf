// Package grpc exposes the standard gRPC health service for the device store.
//
// The service named ServiceName reports SERVING while the store is open and
// NOT_SERVING after teardown, so orchestrators can probe the process without
// speaking HTTP.
//
// Example Usage:
//
//	hs := grpc.NewHealthServer(logger)
//	go hs.Track(store)
//	go hs.Serve(lis)
//	defer hs.Stop()
//
//	client, err := grpc.NewHealthClient("localhost:50051")
//	status, err := client.Check(ctx)
package grpc
