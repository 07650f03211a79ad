package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/crgimenes/goconfig"
	"github.com/quay/zlog"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/trustify-project/analysis-engine/analysis"
)

// Config uses the goconfig library for simple flag and env var parsing, the
// same convention the teacher's cmd/libindexhttp uses. See:
// https://github.com/crgimenes/goconfig
type Config struct {
	HTTPListenAddr   string `cfgDefault:"0.0.0.0:8081" cfg:"HTTP_LISTEN_ADDR"`
	MaxConnPool      int32  `cfgDefault:"30" cfg:"MAX_CONN_POOL" cfgHelper:"the maximum size of the connection pool used for database connections"`
	ConnString       string `cfgDefault:"host=localhost port=5432 user=trustify dbname=trustify sslmode=disable" cfg:"CONNECTION_STRING" cfgHelper:"Connection string for the relational store"`
	LogLevel         string `cfgDefault:"info" cfg:"LOG_LEVEL" cfgHelper:"Log levels: debug, info, warning, error, fatal, panic"`
	CacheCapacity    int    `cfgDefault:"1024" cfg:"CACHE_CAPACITY" cfgHelper:"Maximum number of SBOM graphs held in the in-process cache"`
	TraversalWorkers int    `cfgDefault:"8" cfg:"TRAVERSAL_CONCURRENCY" cfgHelper:"Per-level fan-out bound for ancestor/descendant traversal"`
	DefaultDepth     int    `cfgDefault:"10" cfg:"DEFAULT_DEPTH" cfgHelper:"Default ancestors/descendants depth when an analyze call omits one"`
	OTLPEndpoint     string `cfgDefault:"" cfg:"OTLP_ENDPOINT" cfgHelper:"gRPC endpoint for OTLP trace export; tracing is disabled when empty"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, NoColor: true}).
		With().Timestamp().Caller().Logger()

	conf := Config{}
	if err := goconfig.Parse(&conf); err != nil {
		log.Fatal().Msgf("failed to parse config: %v", err)
	}
	log = log.Level(logLevel(conf))
	zlog.Set(&log)

	if conf.OTLPEndpoint != "" {
		shutdown, err := setupTracing(ctx, conf.OTLPEndpoint)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure tracing")
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				log.Warn().Err(err).Msg("tracer shutdown failed")
			}
		}()
	}

	svc, err := analysis.New(ctx, analysis.Options{
		ConnString:           conf.ConnString,
		ApplicationName:      "trustify-analysisd",
		MaxConnPool:          conf.MaxConnPool,
		CacheCapacity:        conf.CacheCapacity,
		TraversalConcurrency: conf.TraversalWorkers,
		DefaultDepth:         conf.DefaultDepth,
	})
	if err != nil {
		log.Fatal().Msgf("failed to create analysis service: %v", err)
	}
	defer svc.Close()

	srv := &http.Server{
		Addr:        conf.HTTPListenAddr,
		Handler:     newHandler(svc),
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("http server shutdown failed")
		}
	}()

	log.Info().Str("addr", conf.HTTPListenAddr).Msg("starting http server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Msgf("failed to start http server: %v", err)
	}
}

func logLevel(conf Config) zerolog.Level {
	if l, err := zerolog.ParseLevel(strings.ToLower(conf.LogLevel)); err == nil {
		return l
	}
	return zerolog.InfoLevel
}

// setupTracing wires the OTLP gRPC exporter into the global trace provider.
// The teacher's go.mod already pulls in go.opentelemetry.io/otel's
// sdk/exporters/otlptracegrpc trio; this is a fresh wiring of that
// already-vendored dependency for the new service rather than an adaptation
// of an existing teacher file (see DESIGN.md).
func setupTracing(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	exp, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(endpoint), otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName("trustify-analysisd")))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
