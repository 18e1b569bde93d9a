// Package timeouts defines shared timeout constants used across the server
// and client helpers. Centralizing these values prevents drift between
// boundaries and makes the durations discoverable.
package timeouts

import "time"

// GRPCDial caps the wait time when dialing a gRPC peer, including the
// health check that follows the connection.
const GRPCDial = 2 * time.Second

// Shutdown limits how long the server waits for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second
