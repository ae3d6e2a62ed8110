package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eslteacher902010/new-england-catholic-group-finder/internal/handler"
	logger "github.com/eslteacher902010/new-england-catholic-group-finder/internal/log"
	"github.com/eslteacher902010/new-england-catholic-group-finder/internal/middleware"
	"github.com/eslteacher902010/new-england-catholic-group-finder/internal/server"
	"github.com/eslteacher902010/new-england-catholic-group-finder/internal/tracing"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/config"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/event"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/geocode"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/group"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/storage"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/token"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/user"
	"github.com/go-mail/mail"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slogger := slog.New(logger.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.New()

	if cfg.JaegerURL != "" {
		shutdown, err := tracing.New("group-finder", cfg.JaegerURL)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slogger.Error("Failed to shut down trace exporter", "error", err)
			}
		}()
	}

	db, err := storage.NewDatabase(slogger, cfg.Postgresql)
	if err != nil {
		return err
	}

	redisClient, err := storage.NewRedis(cfg.Redis.Host, cfg.Redis.Port)
	if err != nil {
		return err
	}

	if err := handler.RegisterValidation(); err != nil {
		return err
	}

	dialer := mail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)

	userRepository := user.NewRepository(db)
	userService := user.NewService(cfg.UIURL, cfg.SMTP.From, userRepository, dialer)

	if err := user.CreateAdminUser(ctx, cfg.AdminUser.Email, cfg.AdminUser.Password, userService); err != nil {
		return err
	}

	tokenRepository := token.NewRepository(redisClient)
	tokenService := token.NewService(
		slogger,
		tokenRepository,
		cfg.PrivateKey,
		cfg.AccessTokenExpirationSecs,
		cfg.RefreshTokenSecretKey,
		cfg.RefreshTokenExpirationSecs,
		cfg.RefreshTokenRememberMeSecs,
	)
	userHandler := user.NewHandler(userService, tokenService)

	geocodeClient := geocode.NewClient(slogger, cfg.Geocoder.URL, cfg.Geocoder.APIKey)
	gate := geocode.NewGate(slogger, geocodeClient, cfg.RegionAllowList)

	groupRepository := group.NewRepository(db)
	groupService := group.NewService(groupRepository, gate)
	groupHandler := group.NewHandler(groupService, userService)

	eventRepository := event.NewRepository(db)
	eventService := event.NewService(eventRepository, groupService, cfg.RecurrenceHorizonMonths)
	eventHandler := event.NewHandler(eventService, userService)

	authenticationMiddleware := middleware.NewAuthentication(&cfg.PrivateKey.PublicKey, userService)
	authorizationMiddleware := middleware.NewAuthorization(slogger, userService)

	engine := server.GetEngine(
		slogger,
		cfg.BasePath,
		groupHandler,
		eventHandler,
		userHandler,
		authenticationMiddleware,
		authorizationMiddleware,
	)

	srv := &http.Server{
		Addr:    ":8080",
		Handler: engine,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slogger.InfoContext(gCtx, "Starting server", "addr", srv.Addr, "basePath", cfg.BasePath)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
