// Package server parses server command flags and starts the trivia runtime.
package server

import (
	"context"
	"flag"
	"log"

	appserver "github.com/louisbranch/quizchain/internal/app/server"
	"github.com/louisbranch/quizchain/internal/platform/config"
	platformotel "github.com/louisbranch/quizchain/internal/platform/otel"
	"github.com/louisbranch/quizchain/internal/platform/timeouts"
)

const serviceName = "quizchain-server"

// Config holds server command configuration.
type Config struct {
	Port int    `env:"QUIZCHAIN_PORT" envDefault:"8080"`
	Addr string `env:"QUIZCHAIN_ADDR"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The server listen address (overrides -port)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the trivia API service with tracing wired when configured.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := platformotel.Setup(ctx, serviceName)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	if cfg.Addr != "" {
		return appserver.RunWithAddr(ctx, cfg.Addr)
	}
	return appserver.Run(ctx, cfg.Port)
}
