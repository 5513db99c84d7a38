package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	charmlog "charm.land/log/v2"
	"github.com/alexedwards/scs/pgxstore"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/swapmeet/swapmeet/cockroach"
	"github.com/swapmeet/swapmeet/cockroach/migrator"
	"github.com/swapmeet/swapmeet/config"
	"github.com/swapmeet/swapmeet/pubsub"
	"github.com/swapmeet/swapmeet/service"
	"github.com/swapmeet/swapmeet/web"
	"github.com/swapmeet/swapmeet/webpush"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	errLogger := slog.New(charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
	}))
	infoLogger := slog.New(charmlog.NewWithOptions(os.Stdout, charmlog.Options{
		ReportTimestamp: true,
	}))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dbPool, err := pgxpool.New(context.Background(), cfg.CockroachURL)
	if err != nil {
		return fmt.Errorf("open cockroach connection pool: %w", err)
	}

	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		return fmt.Errorf("ping cockroach: %w", err)
	}

	migrationStart := time.Now()
	infoLogger.Info("starting cockroach migrations")

	if err := migrator.Migrate(context.Background(), dbPool, cockroach.MigrationsFS); err != nil {
		return fmt.Errorf("migrate cockroach schema: %w", err)
	}

	infoLogger.Info("finished cockroach migrations", "took", time.Since(migrationStart))

	natsConn, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return fmt.Errorf("connect to nats: %w", err)
	}

	defer natsConn.Close()

	if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
		infoLogger.Info("web push disabled: no VAPID key pair configured")
	}

	svcErrChan := make(chan error, 1)
	defer close(svcErrChan)

	go func() {
		for err := range svcErrChan {
			errLogger.Error("service error", "error", err)
		}
	}()

	svc := &service.Service{
		Cockroach: cockroach.New(dbPool),
		PubSub:    pubsub.New(natsConn),
		WebPush: &webpush.Sender{
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
			Subscriber:      cfg.VAPIDSubscriber,
		},
		BaseURL:           cfg.BaseURL,
		Errs:              svcErrChan,
		BaseContext:       context.Background(),
		BackgroundTimeout: cfg.BackgroundTimeout,
	}
	handler := &web.Handler{
		Service:        svc,
		Logger:         errLogger,
		SessionStore:   pgxstore.New(dbPool),
		VAPIDPublicKey: cfg.VAPIDPublicKey,
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	infoLogger.Info("starting swapmeet server", "url", fmt.Sprintf("http://localhost:%d", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start swapmeet server: %w", err)
	}

	svc.Wait()

	return nil
}
