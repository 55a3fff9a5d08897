package main

import (
	"fmt"
	"os"

	"agency/cmd/migration/initialize"
	"agency/cmd/migration/seed"
	"agency/config"
	"agency/internal/database"
	"agency/internal/logger"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	log := logger.New("migration").Function("run")

	flags := pflag.NewFlagSet("migration", pflag.ContinueOnError)
	up := flags.Bool("up", true, "apply pending migrations")
	down := flags.Bool("down", false, "roll back applied migrations instead of applying them")
	steps := flags.Int("steps", 1, "number of migrations to roll back with --down")
	initTables := flags.Bool("initialize", true, "create the bootstrap admin account")
	seedData := flags.Bool("seed", false, "insert demo staff and clients")
	status := flags.Bool("status", false, "print the number of pending migrations and exit")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.InitConfig()
	if err != nil {
		return log.Err("failed to initialize config", err)
	}
	logger.Configure(os.Stdout, cfg.LogLevel)

	db, err := database.New(cfg)
	if err != nil {
		return log.Err("failed to create database", err)
	}
	defer db.Close()

	if *status {
		pending, err := db.PendingMigrations()
		if err != nil {
			return log.Err("failed to plan migrations", err)
		}
		fmt.Printf("%d pending migration(s)\n", pending)
		return nil
	}

	if *down {
		rolledBack, err := db.Rollback(*steps)
		if err != nil {
			return log.Err("failed to roll back migrations", err, "steps", *steps)
		}
		log.Info("Rolled back migrations", "count", rolledBack)
		return nil
	}

	if *up {
		applied, err := db.Migrate()
		if err != nil {
			return log.Err("failed to apply migrations", err)
		}
		log.Info("Applied migrations", "count", applied)
	}

	if *initTables {
		if err := initialize.InitializeTables(db.SQL, cfg, log); err != nil {
			return err
		}
	}

	if *seedData {
		if cfg.IsProduction() {
			return log.Error("refusing to seed a production database")
		}
		if err := seed.Seed(db.SQL, cfg, log); err != nil {
			return err
		}
	}

	return nil
}
