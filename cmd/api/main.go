package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"partyplanner/config"
	"partyplanner/internal/adapters/auth"
	"partyplanner/internal/adapters/email"
	httpdelivery "partyplanner/internal/delivery/http"
	"partyplanner/internal/delivery/http/controllers"
	"partyplanner/internal/delivery/http/middleware"
	"partyplanner/internal/repository/postgres"
	"partyplanner/internal/services"
)

// @title Party Planner API
// @version 1.0
// @description Plan parties, invite friends and track who brings what.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return err
	}
	if err := postgres.Migrate(ctx, db, logger); err != nil {
		return err
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.SESRegion,
			AccessKeyID:        cfg.Email.SESAccessKeyID,
			SecretAccessKey:    cfg.Email.SESSecretAccessKey,
			InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
		},
		Attempts: cfg.Email.SendAttempts,
	}, logger)
	if err != nil {
		return err
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return err
	}

	userRepo := postgres.NewUserRepository(db)
	partyRepo := postgres.NewPartyRepository(db)
	invitationRepo := postgres.NewInvitationRepository(db)
	itemRepo := postgres.NewItemRepository(db)
	lookup := postgres.NewRelationshipLookup(db)

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	jwt := auth.NewJWT(cfg.JWTSecret)
	emailService := services.NewEmailService(mailer, renderer, logger, cfg.Email.Workers)

	userService := services.NewUserService(userRepo, hasher, cfg.RequestTimeout)
	authService := services.NewAuthService(userRepo, hasher, jwt, cfg.JWTExpiry, cfg.RequestTimeout)
	partyService := services.NewPartyService(partyRepo, userRepo, lookup, emailService, logger, cfg.RequestTimeout)
	invitationService := services.NewInvitationService(invitationRepo, partyRepo, userRepo, lookup, emailService, logger, cfg.RequestTimeout)
	itemService := services.NewItemService(itemRepo, partyRepo, lookup, cfg.RequestTimeout)

	router := httpdelivery.NewRouter(httpdelivery.Controllers{
		Auth:       controllers.NewAuthController(logger, authService),
		User:       controllers.NewUserController(logger, userService),
		Party:      controllers.NewPartyController(logger, partyService),
		Invitation: controllers.NewInvitationController(logger, invitationService),
		Item:       controllers.NewItemController(logger, itemService),
	}, jwt, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.LoggingMiddleware(logger, middleware.CORS(cfg.AllowedOrigins, router)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}
