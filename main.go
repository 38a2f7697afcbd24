package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"posadmin-cloud/internal/auth"
	"posadmin-cloud/internal/catalog"
	cataloghttp "posadmin-cloud/internal/catalog/interfaces/http"
	"posadmin-cloud/internal/eventing"
	reportapp "posadmin-cloud/internal/ledger/application"
	"posadmin-cloud/internal/ledger/infrastructure/memory"
	reporthttp "posadmin-cloud/internal/ledger/interfaces/http"
	"posadmin-cloud/internal/observability/metrics"
	"posadmin-cloud/internal/salesapi"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	metrics.Init(logger)

	reportCfg, err := reportapp.LoadConfig()
	if err != nil {
		logger.Fatalf("report config error: %v", err)
	}

	var clientOpts []salesapi.ClientOption
	if reportCfg.UpstreamTimeoutSeconds > 0 {
		clientOpts = append(clientOpts, salesapi.WithTimeout(time.Duration(reportCfg.UpstreamTimeoutSeconds)*time.Second))
	}
	upstream, err := salesapi.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamToken, clientOpts...)
	if err != nil {
		logger.Fatalf("sales api client error: %v", err)
	}

	directory, err := catalog.NewDirectory(upstream, logger)
	if err != nil {
		logger.Fatalf("catalog directory error: %v", err)
	}
	if cfg.BootstrapShopID > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := directory.Refresh(ctx, cfg.BootstrapShopID); err != nil {
			logger.Printf("catalog bootstrap refresh failed shop=%d err=%v", cfg.BootstrapShopID, err)
		}
		cancel()
	}

	catalogService, err := catalog.NewService(upstream, directory, logger)
	if err != nil {
		logger.Fatalf("catalog service error: %v", err)
	}

	bus := eventing.NewInMemoryBus()
	bus.Subscribe(eventing.EventTypeOf[reportapp.ReportSaved](), func(_ context.Context, event any) error {
		saved, ok := event.(reportapp.ReportSaved)
		if !ok {
			return eventing.ErrInvalidEventType
		}
		logger.Printf("report published: shop=%d date=%s sales=%.2f", saved.ShopID, saved.Date, saved.TotalSalesValue)
		return nil
	})

	store := memory.NewSessionStore()
	reportService, err := reportapp.NewService(upstream, store, directory, bus, logger, reportCfg)
	if err != nil {
		logger.Fatalf("report service error: %v", err)
	}

	reportHandler, err := reporthttp.NewHandler(reportService)
	if err != nil {
		logger.Fatalf("report handler error: %v", err)
	}
	catalogHandler, err := cataloghttp.NewHandler(catalogService)
	if err != nil {
		logger.Fatalf("catalog handler error: %v", err)
	}

	broker := reporthttp.NewSSEBroker()
	broker.AttachBus(bus)

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/reports/stream", reporthttp.NewStreamHandler(broker))
	mux.Handle("/api/v1/reports/", reportHandler)
	mux.Handle("/api/v1/catalog/", catalogHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	UpstreamBaseURL string
	UpstreamToken   string
	HTTPAddr        string
	JWTSecret       string
	BootstrapShopID int
}

func loadConfig() config {
	cfg := config{
		UpstreamBaseURL: getenvDefault("UPSTREAM_API_BASE_URL", ""),
		UpstreamToken:   getenvDefault("UPSTREAM_API_TOKEN", ""),
		HTTPAddr:        getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:       getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		BootstrapShopID: getenvIntDefault("BOOTSTRAP_SHOP_ID", 0),
	}
	if cfg.UpstreamBaseURL == "" {
		log.Fatal("UPSTREAM_API_BASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
