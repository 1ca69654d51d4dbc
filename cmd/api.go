package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/akshadgujarkar/fair-ticketing/config"
	"github.com/akshadgujarkar/fair-ticketing/internal/app"
	"github.com/akshadgujarkar/fair-ticketing/internal/cache"
	"github.com/akshadgujarkar/fair-ticketing/internal/clock"
	"github.com/akshadgujarkar/fair-ticketing/internal/storage/postgres"
	transporthttp "github.com/akshadgujarkar/fair-ticketing/internal/transport/http"
	"github.com/akshadgujarkar/fair-ticketing/migrations"
)

const shutdownTimeout = 10 * time.Second

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long:  `Start the HTTP API server for ticket issuance, transfers, resale and gate verification`,
	RunE:  runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}

	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := newPool(startupCtx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrations.Apply(startupCtx, pool); err != nil {
		return err
	}

	eventCache, err := cache.NewEventCache(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis cache, continuing without caching")
		eventCache = nil
	}
	if eventCache != nil {
		defer func() { _ = eventCache.Close() }()
	}

	clk := clock.NewSystem()
	ledgerSvc := app.NewLedgerService(postgres.NewLedgerRepository(pool), clk)
	marketSvc := app.NewMarketService(postgres.NewMarketRepository(pool), clk)
	registrySvc := app.NewRegistryService(postgres.NewRegistryRepository(pool), clk)

	var verifyCache app.EventCache
	if eventCache != nil {
		verifyCache = eventCache
	}
	verifySvc := app.NewVerificationService(postgres.NewVerificationRepository(pool), verifyCache, clk)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/events", transporthttp.HandleListEvents(registrySvc, clk))
	mux.Handle("/events/", transporthttp.HandleEventRoutes(registrySvc, ledgerSvc, clk))
	mux.Handle("/admin/events", transporthttp.HandleAdminEvents(registrySvc, clk))
	mux.Handle("/admin/events/", transporthttp.HandleAdminEventRoutes(registrySvc, clk))
	mux.Handle("/tickets", transporthttp.HandleListTickets(ledgerSvc))
	mux.Handle("/tickets/", transporthttp.HandleTicketRoutes(ledgerSvc, ledgerSvc, ledgerSvc, verifySvc))
	mux.Handle("/listings", transporthttp.HandleListings(marketSvc))
	mux.Handle("/listings/", transporthttp.HandleListingRoutes(marketSvc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	var handler http.Handler = mux
	if cfg.CorsEnabled {
		handler = transporthttp.CORS(cfg.CorsOrigins, handler)
	}
	handler = transporthttp.RequestLogger(handler, log.Logger)

	server := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      handler,
		ReadTimeout:  cfg.ServerTimeout,
		WriteTimeout: cfg.ServerTimeout,
	}

	log.Info().Str("addr", cfg.ServerAddress).Msg("api listening")

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-stopCtx.Done():
		log.Info().Msg("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server shutdown error")
	}
	log.Info().Msg("server stopped")
	return nil
}

func newPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
