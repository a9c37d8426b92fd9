// Command server runs the PetNet API: configuration is loaded from the
// environment (with optional .env), the SQLite store is opened and
// migrated, the notification sink is selected (SMTP when configured,
// log-only otherwise), and the Gin engine is served with graceful
// shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/MatiBarber/PetNet/internal/config"
	httpapi "github.com/MatiBarber/PetNet/internal/http"
	"github.com/MatiBarber/PetNet/internal/notify"
	"github.com/MatiBarber/PetNet/internal/observability"
	"github.com/MatiBarber/PetNet/internal/repo"
	"github.com/MatiBarber/PetNet/internal/services"
	"github.com/MatiBarber/PetNet/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown failed")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	notifier := buildNotifier(cfg)

	r := gin.New()
	httpapi.RegisterRoutes(r, db, notifier, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("petnet listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// buildNotifier selects the notification sink: SMTP when a host is
// configured, a log-only sink otherwise. Mailer construction failure
// falls back to logging rather than refusing to start — state
// transitions must not depend on mail availability.
func buildNotifier(cfg config.Config) services.Notifier {
	if cfg.SMTP.Host == "" {
		log.Info().Msg("smtp not configured; status notifications are log-only")
		return notify.LogNotifier{}
	}
	mailer, err := notify.NewMailer(notify.SMTPOptions{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     sysutil.FirstNonEmpty(cfg.SMTP.From, cfg.SMTP.Username),
	})
	if err != nil {
		log.Error().Err(err).Msg("smtp client setup failed; falling back to log notifier")
		return notify.LogNotifier{}
	}
	return mailer
}
