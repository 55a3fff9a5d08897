package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"agency/internal/app"
	"agency/internal/handlers"
	"agency/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	log := logger.New("main").Function("run")

	a, err := app.New()
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Er("failed to close app", err)
		}
	}()

	logger.Configure(os.Stdout, a.Config.LogLevel)

	applied, err := a.Database.Migrate()
	if err != nil {
		return log.Err("failed to migrate database", err)
	}
	log.Info("Database migrated", "applied", applied)

	server := fiber.New(handlers.ServerConfig(a.Config))
	server.Use(recover.New())
	server.Use(cors.New(cors.Config{
		AllowOrigins:     strings.ReplaceAll(a.Config.ServerCorsOrigins, " ", ""),
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + handlers.DeleteTokenHeader,
	}))

	if err := handlers.Router(server, a); err != nil {
		return log.Err("failed to register routes", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		address := fmt.Sprintf(":%d", a.Config.ServerPort)
		log.Info("Starting server", "address", address, "environment", a.Config.Environment)
		return server.Listen(address)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down server")
		return server.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return log.Err("server stopped", err)
	}
	return nil
}
