// Package server wires the quizchain runtime and gRPC lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/quizchain/internal/platform/config"
	"github.com/louisbranch/quizchain/internal/storage"
	storagebbolt "github.com/louisbranch/quizchain/internal/storage/bbolt"
	storagesqlite "github.com/louisbranch/quizchain/internal/storage/sqlite"
	"github.com/louisbranch/quizchain/internal/trivia/engine"
	"github.com/louisbranch/quizchain/internal/trivia/tick"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthService is the service name the health endpoint reports for the
// trivia API surface.
const HealthService = "quizchain.v1.TriviaService"

type serverEnv struct {
	StorageDriver string        `env:"QUIZCHAIN_STORAGE_DRIVER"`
	StoragePath   string        `env:"QUIZCHAIN_STORAGE_PATH"`
	Owner         string        `env:"QUIZCHAIN_OWNER"`
	TickEpoch     string        `env:"QUIZCHAIN_TICK_EPOCH"`
	TickInterval  time.Duration `env:"QUIZCHAIN_TICK_INTERVAL"`
}

func loadServerEnv() serverEnv {
	var cfg serverEnv
	_ = config.ParseEnv(&cfg)
	if strings.TrimSpace(cfg.StorageDriver) == "" {
		cfg.StorageDriver = "sqlite"
	}
	if strings.TrimSpace(cfg.StoragePath) == "" {
		cfg.StoragePath = filepath.Join("data", "quizchain.db")
	}
	if strings.TrimSpace(cfg.Owner) == "" {
		cfg.Owner = "owner"
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	return cfg
}

// Server hosts the trivia engine, its storage lifecycle, and the gRPC
// health endpoint.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	store      storage.Store
	engine     *engine.Engine
}

// New creates a configured server listening on the provided port.
func New(port int) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port))
}

// NewWithAddr creates a configured server for the provided address.
func NewWithAddr(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	env := loadServerEnv()
	store, err := openStore(env.StorageDriver, env.StoragePath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	ticks, err := tickSource(env)
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, err
	}

	gameEngine, err := engine.New(engine.Config{
		Store: store,
		Ticks: ticks,
		Owner: env.Owner,
	})
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, fmt.Errorf("create engine: %w", err)
	}

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(HealthService, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
		engine:     gameEngine,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Engine returns the trivia engine backing the server.
func (s *Server) Engine() *engine.Engine {
	if s == nil {
		return nil
	}
	return s.engine
}

// Run creates and serves a server until context cancellation.
func Run(ctx context.Context, port int) error {
	server, err := New(port)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// RunWithAddr creates and serves a server on addr until context cancellation.
func RunWithAddr(ctx context.Context, addr string) error {
	server, err := NewWithAddr(addr)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the gRPC server until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("quizchain server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		if s.health != nil {
			s.health.Shutdown()
		}
		s.grpcServer.GracefulStop()
		err := <-serveErr
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}
}

// openStore builds the configured storage backend.
func openStore(driver, path string) (storage.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite":
		store, err := storagesqlite.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	case "bbolt":
		store, err := storagebbolt.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open bbolt store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// tickSource builds the wall clock tick source from the configured epoch and
// interval.
func tickSource(env serverEnv) (tick.Source, error) {
	epoch := time.Now().UTC()
	if strings.TrimSpace(env.TickEpoch) != "" {
		parsed, err := time.Parse(time.RFC3339, env.TickEpoch)
		if err != nil {
			return nil, fmt.Errorf("parse tick epoch: %w", err)
		}
		epoch = parsed
	}
	return tick.NewWall(epoch, env.TickInterval), nil
}
