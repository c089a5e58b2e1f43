package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"recipeapi/internal/config"
	"recipeapi/internal/database"
	"recipeapi/internal/logging"
	"recipeapi/internal/repositories"
	"recipeapi/internal/server"
	"recipeapi/internal/services"
	"recipeapi/pkg/rabbitmq"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

const usage = `usage: recipeapi [command]

commands:
  serve            run the HTTP server (default)
  migrate          create or update the database schema and exit
  createsuperuser  create a staff superuser: -email <email> -password <password>
`

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := config.Load(config.New())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Setup(os.Stdout, cfg.LogLevel, "recipeapi")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := "serve"
	var args []string
	if len(os.Args) > 1 {
		command, args = os.Args[1], os.Args[2:]
	}

	switch command {
	case "serve":
		err = serve(ctx, cfg)
	case "migrate":
		err = migrate(ctx, cfg)
	case "createsuperuser":
		err = createSuperuser(ctx, cfg, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		slog.Error("command failed", "command", command, "error", err)
		os.Exit(1)
	}
}

func openDB(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	db, err := database.Open(ctx, database.Options{
		Driver:      cfg.DBDriver,
		DSN:         cfg.DBDSN,
		WaitTimeout: cfg.DBWaitTimeout,
	})
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		database.Close(db)
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, cfg config.Config) error {
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)
	slog.Info("migrations applied")
	return nil
}

func createSuperuser(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("createsuperuser", flag.ContinueOnError)
	email := fs.String("email", "", "superuser email")
	password := fs.String("password", "", "superuser password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		return errors.New("-password is required")
	}
	if len(*password) < services.MinPasswordLength {
		return fmt.Errorf("-password must be at least %d characters", services.MinPasswordLength)
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	users := services.NewUserService(repositories.NewGORMUserRepository(db), nil, cfg.BcryptCost)
	user, err := users.CreateSuperuser(ctx, *email, *password)
	if err != nil {
		return err
	}
	slog.Info("superuser created", "user_id", user.ID, "email", user.Email)
	return nil
}

func serve(ctx context.Context, cfg config.Config) error {
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer mqClient.Close()
		events = mqClient
	} else {
		slog.Info("RABBITMQ_URL not set, domain events disabled")
	}

	opts := server.Options{
		DB:         db,
		Events:     events,
		BcryptCost: cfg.BcryptCost,
		AccessLog:  true,
	}
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts.Registry = reg
	}
	app := server.New(opts)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.AppPort)
		listenErr <- app.Listen(cfg.AppPort)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		return fmt.Errorf("error during Fiber shutdown: %w", err)
	}
	slog.Info("server gracefully stopped")
	return nil
}
