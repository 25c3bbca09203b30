package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"venuestream/internal/config"
	"venuestream/internal/journal"
	"venuestream/internal/obs"
	"venuestream/internal/stream"
)

const metricsNamespace = "venuestream"

func main() {
	if err := run(); err != nil {
		log.Printf("streamer: %v", err)
		os.Exit(1)
	}
}

func run() error {
	configFlag := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if addr := cfg.Observability.PyroscopeAddr; addr != "" {
		profiler, err := startProfiler(addr)
		if err != nil {
			return err
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	metrics := obs.NewMetrics()
	if addr := cfg.Observability.MetricsAddr; addr != "" {
		srv := startMetricsServer(addr, metrics)
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	var sink *journal.Journal
	if cfg.Journal.Enabled {
		sink, err = journal.Open(ctx, cfg.Journal.JournalOption())
		if err != nil {
			return err
		}
		defer sink.Close()
	}

	session := stream.NewSession(
		stream.LightstreamerTransport{
			AdapterSet:     cfg.Streaming.AdapterSet,
			ConnectTimeout: cfg.Streaming.ConnectTimeout,
		},
		cfg.Streaming.Credentials(),
		stream.WithMetrics(metrics),
	)

	descriptors, err := buildDescriptors(stream.NewBuilder(stream.AccountIDs(cfg.Accounts...)), cfg.Subscriptions)
	if err != nil {
		return err
	}

	go func() {
		<-sys.Shutdown()
		logs.Info("shutting down")
		cancel()
		_ = session.Disconnect()
	}()

	r := &runner{
		session:     session,
		descriptors: descriptors,
		start:       stream.StartOptions{Snapshot: cfg.Streaming.Snapshot},
		backoff:     newBackoff(cfg.Streaming.ReconnectMin, cfg.Streaming.ReconnectMax),
	}
	if sink != nil {
		r.journal = sink
	}
	r.run(ctx)
	return nil
}

func startProfiler(addr string) (*pyroscope.Profiler, error) {
	return pyroscope.Start(pyroscope.Config{
		ApplicationName: "venuestream.streamer",
		ServerAddress:   addr,
		Logger:          profilerLogger{},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
		},
	})
}

func startMetricsServer(addr string, metrics *obs.Metrics) *http.Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		obs.NewCollector(metricsNamespace, metrics),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logs.Errorf("metrics server, err: %+v", err)
		}
	}()
	logs.Infof("metrics listening on %s", addr)
	return srv
}

// profilerLogger routes pyroscope logs to the process logger.
type profilerLogger struct{}

func (profilerLogger) Infof(format string, args ...interface{})  { logs.Debugf(format, args...) }
func (profilerLogger) Debugf(format string, args ...interface{}) { logs.Debugf(format, args...) }
func (profilerLogger) Errorf(format string, args ...interface{}) { logs.Errorf(format, args...) }
