// Command ecotrackctl records entries and prints reports against the
// configured store without running the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/mamadbah2/ecotrack/internal/app"
	"github.com/mamadbah2/ecotrack/internal/config"
	"github.com/mamadbah2/ecotrack/internal/service/recorder"
	"github.com/mamadbah2/ecotrack/internal/service/reporting"
	"github.com/mamadbah2/ecotrack/pkg/logger"
)

func main() {
	if err := newRootCmd(openSession).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// session is the set of services a single invocation works with.
type session struct {
	recorder  *recorder.Service
	reporting *reporting.Service
	close     func() error
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	log, err := logger.New(level)
	if err != nil {
		return nil, err
	}

	backends, err := app.OpenBackends(ctx, cfg, log.Named("repo"))
	if err != nil {
		return nil, err
	}

	return &session{
		recorder:  recorder.NewService(backends.Store, nil, log.Named("svc.recorder")),
		reporting: reporting.NewService(backends.Store, nil, log.Named("svc.reporting")),
		close: func() error {
			defer func() { _ = log.Sync() }()
			if err := backends.Close(); err != nil {
				log.Error("failed to close storage", zap.Error(err))
				return err
			}
			return nil
		},
	}, nil
}
