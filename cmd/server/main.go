package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"rttrailserver/internal/auth"
	"rttrailserver/internal/config"
	"rttrailserver/internal/domain"
	"rttrailserver/internal/email"
	"rttrailserver/internal/httpapi"
	"rttrailserver/internal/service"
	"rttrailserver/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)

	codec, err := auth.NewTokenCodec([]byte(cfg.TokenSecret), cfg.TokenTTL, nil)
	if err != nil {
		logger.Error("token codec init failed", "err", err)
		os.Exit(1)
	}

	mailSvc := newMailService(cfg, logger)

	var (
		authSvc         *service.AuthService
		registrationSvc *service.RegistrationService
		recoverSvc      *service.RecoverService
		migrationSvc    *service.MigrationService
		accountSvc      *service.AccountService
		poiSvc          *service.POIService
		flappySvc       *service.FlappyBirdService
		dbPing          func(context.Context) error
	)

	if cfg.DBDSN != "" {
		pgPool, err := postgres.Open(context.Background(), cfg.DBDSN)
		if err != nil {
			logger.Error("db open failed", "err", err)
			os.Exit(1)
		}
		defer pgPool.Close()

		if err := postgres.EnsureSchema(context.Background(), pgPool); err != nil {
			logger.Error("db schema init failed", "err", err)
			os.Exit(1)
		}

		accounts := postgres.NewAccountsStore(pgPool)
		pending := postgres.NewPendingStore(pgPool)
		pois := postgres.NewPOIStore(pgPool)
		flappy := postgres.NewFlappyBirdStore(pgPool)

		if err := bootstrapSuperadmin(context.Background(), logger, accounts, cfg.SuperadminEmail, cfg.SuperadminPassword); err != nil {
			logger.Error("superadmin bootstrap failed", "err", err)
			os.Exit(1)
		}

		authSvc = &service.AuthService{
			Accounts: accounts,
			Codec:    codec,
			Logger:   logger,
		}
		registrationSvc = &service.RegistrationService{
			Accounts:      accounts,
			Pending:       pending,
			Mail:          mailSvc,
			ActivationTTL: cfg.ActivationTTL,
			Logger:        logger,
		}
		recoverSvc = &service.RecoverService{
			Accounts: accounts,
			Pending:  pending,
			Mail:     mailSvc,
			ResetTTL: cfg.ResetTTL,
			Logger:   logger,
		}
		migrationSvc = &service.MigrationService{
			Accounts: accounts,
			Pending:  pending,
			Mail:     mailSvc,
			DataDir:  cfg.DataDir,
			Logger:   logger,
		}
		accountSvc = &service.AccountService{
			Accounts: accounts,
			Logger:   logger,
		}
		poiSvc = &service.POIService{Store: pois}
		flappySvc = &service.FlappyBirdService{Store: flappy}
		dbPing = pgPool.Ping
	}

	router := httpapi.NewRouter(httpapi.RouterOpts{
		Logger:       logger,
		IsProd:       cfg.IsProd(),
		DBPing:       dbPing,
		Auth:         authSvc,
		Registration: registrationSvc,
		Recover:      recoverSvc,
		Migration:    migrationSvc,
		Accounts:     accountSvc,
		POI:          poiSvc,
		FlappyBird:   flappySvc,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "env", cfg.Env, "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}
}

func newMailService(cfg config.Config, logger *slog.Logger) *service.MailService {
	svc := &service.MailService{Logger: logger}
	if cfg.PublicURL != nil {
		svc.PublicURL = cfg.PublicURL.String()
	}
	if cfg.SMTPEnabled() {
		svc.Mailer = &email.Mailer{
			Host:      cfg.SMTP.Host,
			Port:      cfg.SMTP.Port,
			Username:  cfg.SMTP.Username,
			Password:  cfg.SMTP.Password,
			FromName:  cfg.SMTP.FromName,
			FromEmail: cfg.SMTP.FromEmail,
		}
	} else {
		logger.Info("smtp disabled, mail contents will be logged")
	}
	return svc
}

type superadminStore interface {
	GetAccountByEmail(ctx context.Context, email string) (domain.AccountWithPassword, error)
	CreateAccount(ctx context.Context, acct domain.AccountWithPassword) (domain.Account, error)
}

func bootstrapSuperadmin(ctx context.Context, logger *slog.Logger, accounts superadminStore, adminEmail, password string) error {
	if adminEmail == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	if password == "" {
		return errors.New("APP_SUPERADMIN_PASSWORD: required when APP_SUPERADMIN_EMAIL is set")
	}
	if len(password) < 12 {
		return errors.New("APP_SUPERADMIN_PASSWORD: must be at least 12 characters")
	}

	_, err := accounts.GetAccountByEmail(ctx, adminEmail)
	if err == nil {
		logger.Info("superadmin already exists", "email", adminEmail)
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("superadmin lookup: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("superadmin hash password: %w", err)
	}

	_, err = accounts.CreateAccount(ctx, domain.AccountWithPassword{
		Account: domain.Account{
			ID:          uuid.NewString(),
			Email:       adminEmail,
			Name:        "Super admin",
			AccountType: domain.AccountTypeAdmin,
			IsActive:    true,
			CreatedOn:   time.Now().UTC(),
		},
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, domain.ErrIntegrityConflict) {
			logger.Info("superadmin already exists", "email", adminEmail)
			return nil
		}
		return fmt.Errorf("superadmin create: %w", err)
	}

	logger.Info("superadmin created", "email", adminEmail)
	return nil
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
