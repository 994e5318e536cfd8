package common

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

// ShutdownHook runs after a termination signal, before the HTTP server
// drains. Errors are logged and shutdown continues.
type ShutdownHook func(ctx context.Context) error

// CloseHook adapts a Close method into a ShutdownHook.
func CloseHook(close func() error) ShutdownHook {
	return func(context.Context) error {
		return close()
	}
}

// RunServerWithShutdown serves until SIGINT or SIGTERM, then runs the hooks in
// order, each bounded by cfg.Hook, and shuts the server down within
// cfg.Shutdown.
func RunServerWithShutdown(server *http.Server, name string, cfg TimeoutConfig, hooks ...ShutdownHook) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	go func() {
		log.Printf("starting %s on %s", name, server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("%s listen error: %v", name, err)
		}
	}()

	<-stop
	log.Printf("shutdown signal received for %s", name)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown)
	defer cancel()

	for i, h := range hooks {
		if h == nil {
			continue
		}
		hCtx, hCancel := context.WithTimeout(ctx, cfg.Hook)
		if err := h(hCtx); err != nil {
			log.Printf("shutdown hook %d failed: %v", i, err)
		}
		if errors.Is(hCtx.Err(), context.DeadlineExceeded) {
			log.Printf("shutdown hook %d timed out", i)
		}
		hCancel()
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	} else {
		log.Printf("%s shutdown complete", name)
	}
}

// TimeoutConfig holds server and shutdown timeouts.
type TimeoutConfig struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
	Hook       time.Duration
}

func DefaultTimeouts() TimeoutConfig {
	return TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       15 * time.Second,
		Write:      30 * time.Second,
		Idle:       60 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	}
}

// LoadTimeoutConfig overrides defaults from the environment. Values are whole
// seconds; anything unparsable or not positive keeps the default.
//
//	READ_HEADER_TIMEOUT READ_TIMEOUT WRITE_TIMEOUT
//	IDLE_TIMEOUT SHUTDOWN_TIMEOUT HOOK_TIMEOUT
func LoadTimeoutConfig(defaults TimeoutConfig) TimeoutConfig {
	return loadTimeouts(defaults, os.Getenv)
}

func loadTimeouts(cfg TimeoutConfig, getenv func(string) string) TimeoutConfig {
	apply := func(curr *time.Duration, env string) {
		if v := getenv(env); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				*curr = time.Duration(n) * time.Second
			}
		}
	}
	apply(&cfg.ReadHeader, "READ_HEADER_TIMEOUT")
	apply(&cfg.Read, "READ_TIMEOUT")
	apply(&cfg.Write, "WRITE_TIMEOUT")
	apply(&cfg.Idle, "IDLE_TIMEOUT")
	apply(&cfg.Shutdown, "SHUTDOWN_TIMEOUT")
	apply(&cfg.Hook, "HOOK_TIMEOUT")
	if cfg.Hook <= 0 {
		cfg.Hook = 5 * time.Second
	}
	return cfg
}

// NewServer builds an http.Server with the configured timeouts.
func NewServer(addr string, handler http.Handler, cfg TimeoutConfig) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeader,
		ReadTimeout:       cfg.Read,
		WriteTimeout:      cfg.Write,
		IdleTimeout:       cfg.Idle,
	}
}
