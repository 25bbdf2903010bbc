package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moodjournal_api/cmd/config"
	"moodjournal_api/cmd/database"
	"moodjournal_api/cmd/route"
	"moodjournal_api/internal/handler"
	"moodjournal_api/internal/oauth"
	"moodjournal_api/internal/repository"
	"moodjournal_api/internal/usecase"
	"moodjournal_api/model"
	"moodjournal_api/utils"

	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	db, err := database.ConnectDB(cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close(db)

	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	tokens := utils.NewTokenService(cfg.JWTUserSecret, cfg.JWTResetSecret)

	var mailer utils.Mailer = utils.LogMailer{Logger: logger}
	if cfg.Mail.Enabled() {
		mailer = utils.NewSMTPMailer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password)
	} else {
		logger.Warn("EMAIL_USER/EMAIL_PASS not set, reset links will only be returned in responses")
	}

	//providers
	var providers []oauth.Provider
	if cfg.Google.Enabled() {
		cfg.Google.HTTPClient = httpClient
		providers = append(providers, oauth.NewGoogleProvider(cfg.Google))
	}
	if cfg.Github.Enabled() {
		cfg.Github.HTTPClient = httpClient
		providers = append(providers, oauth.NewGithubProvider(cfg.Github))
	}
	providerNames := make([]model.Provider, 0, len(providers))
	for _, p := range providers {
		providerNames = append(providerNames, p.Name())
	}

	var verifier oauth.IDTokenVerifier
	if cfg.GoogleMobileClientID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.UpstreamTimeout)
		v, err := oauth.NewGoogleIDTokenVerifier(ctx, cfg.GoogleMobileClientID, httpClient)
		cancel()
		if err != nil {
			logger.Warn("google mobile sign-in disabled", "error", err)
		} else {
			verifier = v
		}
	}

	//auth
	authRepo := repository.NewAuthRepository(db)
	resolver := usecase.NewAccountResolver(authRepo)
	authUsecase := usecase.NewAuthUsecase(authRepo, resolver, tokens, mailer, usecase.AuthConfig{
		FrontendURL: cfg.FrontendURL,
		MailTimeout: cfg.UpstreamTimeout,
	})
	oauthUsecase := usecase.NewOAuthUsecase(providers, verifier, resolver, tokens, cfg.UpstreamTimeout, logger)
	authHandler := handler.NewAuthHandler(authUsecase, oauthUsecase, logger, cfg.ClientURL, cfg.SecureCookies)

	//journal
	journalRepo := repository.NewJournalRepository(db)
	journalHandler := handler.NewJournalHandler(usecase.NewJournalUsecase(journalRepo), logger)

	r := route.SetupRoute(authHandler, journalHandler, tokens, logger, route.Options{
		Providers:    providerNames,
		GoogleMobile: verifier != nil,
		ClientURL:    cfg.ClientURL,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", "http://localhost:"+cfg.Port, "providers", providerNames)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
