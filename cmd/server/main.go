package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/seanblong/irclogd/internal/config"
	"github.com/seanblong/irclogd/internal/gateway"
	"github.com/spf13/pflag"
)

func main() {
	// Create flagset for configuration
	fs := pflag.NewFlagSet("irclogd", pflag.ExitOnError)

	// Load configuration
	cfg, err := config.Load("", fs, os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	fs.Usage = cfg.Usage

	// Set up logging
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Invalid log level '%s': %v", cfg.LogLevel, err)
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	logger.Info().
		Str("log_dir", cfg.LogDir).
		Str("chan_dir", cfg.ChanDir).
		Bool("chan_scoped", cfg.ChanScoped()).
		Str("log_level", cfg.LogLevel).
		Msg("starting irclogd")

	gw := gateway.New(gateway.Options{
		LogDir:  cfg.LogDir,
		ChanDir: cfg.ChanDir,
		CSSFile: cfg.CSSFile,
	})

	metricsHandler := promhttp.Handler()

	// No ServeMux here: it canonicalizes dotted paths before handlers
	// run, which would turn traversal attempts into redirects instead
	// of the uniform 404 the gateway answers them with.
	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/healthz":
			w.WriteHeader(http.StatusOK)
		case "/metrics":
			metricsHandler.ServeHTTP(w, r)
		default:
			gw.ServeHTTP(w, r)
		}
	})

	handler := hlog.NewHandler(logger)(
		hlog.RequestIDHandler("req_id", "Request-Id")(
			hlog.AccessHandler(func(r *http.Request, status, size int, dur time.Duration) {
				logger.Info().Str("method", r.Method).Str("path", r.URL.Path).Int("status", status).Int("size", size).Dur("dur", dur).Msg("http")
			})(root),
		),
	)

	address := fmt.Sprintf(":%d", cfg.Port)
	s := &http.Server{Addr: address, Handler: handler}
	logger.Info().Str("addr", s.Addr).Msg("log server listening")
	log.Fatal(s.ListenAndServe())
}
