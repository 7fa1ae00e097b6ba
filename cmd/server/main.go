package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"speakerbooking/config"
	"speakerbooking/internal/adapters/auth"
	"speakerbooking/internal/adapters/email"
	"speakerbooking/internal/adapters/submission"
	delivery "speakerbooking/internal/delivery/http"
	"speakerbooking/internal/delivery/http/controllers"
	"speakerbooking/internal/delivery/http/middleware"
	"speakerbooking/internal/domain"
	"speakerbooking/internal/random"
	"speakerbooking/internal/repository/memory"
	"speakerbooking/internal/repository/postgres"
	"speakerbooking/internal/services"
)

const (
	serviceTimeout  = 5 * time.Second
	shutdownTimeout = 15 * time.Second
)

// @title Speaker Booking API
// @version 1.0
// @description Speaker directory, availability calendars and booking requests.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.CatalogSource == config.CatalogPostgres || cfg.SubmissionTransport == config.TransportPostgres {
		var err error
		db, err = sql.Open("postgres", cfg.DBUrl)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("connect db: %w", err)
		}
	}

	speakerRepo, err := newSpeakerRepository(cfg, db)
	if err != nil {
		return err
	}

	seed, err := random.ResolveSeed(cfg.AvailabilitySeed, random.NewSeed)
	if err != nil {
		return fmt.Errorf("availability seed: %w", err)
	}
	source, err := services.NewRandomCalendarSource(cfg.AvailabilityWeights, seed)
	if err != nil {
		return err
	}
	logger.Info("availability source ready", "seed", seed, "weights", cfg.AvailabilityWeights)
	store := services.NewAvailabilityStore(speakerRepo, source, time.Now, logger)

	transport, err := newTransport(cfg, db, speakerRepo, logger)
	if err != nil {
		return err
	}

	gate := services.GateRelaxed
	if cfg.StrictStepGate {
		gate = services.GateStrict
	}
	flows := services.NewBookingFlowManager(store, transport, services.BookingFlowConfig{
		SubmitTimeout: cfg.SubmissionTimeout,
		Gate:          gate,
	}, logger)

	submitLimiter := middleware.NewRateLimiter(cfg.SubmitRatePerMinute)
	scheduler, err := services.StartFlowPruner(flows, cfg.FlowPruneSchedule, cfg.FlowIdleTTL, logger)
	if err != nil {
		return err
	}
	if _, err := scheduler.AddFunc(cfg.FlowPruneSchedule, func() {
		submitLimiter.Sweep(cfg.FlowIdleTTL)
	}); err != nil {
		return fmt.Errorf("schedule limiter sweep: %w", err)
	}
	defer scheduler.Stop()

	var verifier domain.TokenVerifier
	if cfg.JWTSecret != "" {
		verifier = auth.NewJWTVerifier(cfg.JWTSecret)
	} else {
		logger.Warn("JWT_SECRET not set, all requests are anonymous")
	}

	speakerSvc := services.NewSpeakerService(speakerRepo, serviceTimeout)
	mux := delivery.NewRouter(
		controllers.NewSpeakerController(logger, speakerSvc),
		controllers.NewAvailabilityController(logger, store),
		controllers.NewBookingController(logger, flows, speakerSvc),
		submitLimiter,
	)
	var handler http.Handler = middleware.OptionalIdentity(verifier, logger)(mux)
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment,
			"catalog", cfg.CatalogSource, "transport", cfg.SubmissionTransport)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newSpeakerRepository(cfg *config.Config, db *sql.DB) (domain.SpeakerRepository, error) {
	if cfg.CatalogSource == config.CatalogPostgres {
		return postgres.NewSpeakerRepository(db), nil
	}
	repo, err := memory.LoadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load embedded catalog: %w", err)
	}
	return repo, nil
}

func newTransport(cfg *config.Config, db *sql.DB, speakers domain.SpeakerRepository, logger *slog.Logger) (domain.SubmissionTransport, error) {
	switch cfg.SubmissionTransport {
	case config.TransportPostgres:
		return submission.NewRepository(postgres.NewBookingRequestRepository(db)), nil
	case config.TransportEmail:
		mailer, err := email.NewMailer(email.MailerConfig{
			Provider:    cfg.Email.Provider,
			FromAddress: cfg.Email.FromAddress,
			FromName:    cfg.Email.FromName,
			SES: email.SESConfig{
				Region:             cfg.Email.AWSRegion,
				AccessKeyID:        cfg.Email.AWSAccessKeyID,
				SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
				InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
			},
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("mailer: %w", err)
		}
		return submission.NewEmail(speakers, email.NewTemplateRenderer(), mailer, cfg.Email.BookingsDeskAddress)
	default:
		return submission.NewSimulated(cfg.SimulatedDelay, logger), nil
	}
}
