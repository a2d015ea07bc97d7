package commands

import (
	"context"
	"fmt"
	"os"

	"PriceDigest/internal/api"
	"PriceDigest/internal/collector"
	"PriceDigest/internal/config"
	"PriceDigest/internal/logger"
	"PriceDigest/internal/metrics"
	"PriceDigest/internal/recorder"
	"PriceDigest/internal/trace"
)

const defaultConfigPath = "configs/config.yaml"

// app bundles the components every command needs.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	metrics   *metrics.Metrics
	recorder  recorder.Recorder
	collector *collector.Collector
	shutdown  func(context.Context) error
}

func newApp() (*app, error) {
	path := configFile
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	shutdown, err := trace.Init(cfg.Tracing.Enabled, nil)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	fetcher, err := collector.NewFetcher(cfg)
	if err != nil {
		return nil, err
	}
	log.WithField("source", fetcher.Name()).Info("data source selected")

	rec, err := recorder.New(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init recorder: %w", err)
	}

	m := metrics.New()
	return &app{
		cfg:       cfg,
		log:       log,
		metrics:   m,
		recorder:  rec,
		collector: collector.NewCollector(fetcher, rec, log, m),
		shutdown:  shutdown,
	}, nil
}

// stores exposes the read side of the configured recorders to the API.
func (a *app) stores() api.Stores {
	recs := []recorder.Recorder{a.recorder}
	if multi, ok := a.recorder.(recorder.Multi); ok {
		recs = multi
	}
	var st api.Stores
	for _, r := range recs {
		switch r := r.(type) {
		case *recorder.JSONRecorder:
			st.Documents = r
		case *recorder.SQLiteRecorder:
			st.History = r
		}
	}
	return st
}

func (a *app) close() {
	if err := a.recorder.Close(); err != nil {
		a.log.WithError(err).Warn("close recorder")
	}
	if err := a.shutdown(context.Background()); err != nil {
		a.log.WithError(err).Warn("flush traces")
	}
}
