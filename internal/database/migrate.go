package database

import (
	"embed"

	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func migrationSource() migrate.MigrationSource {
	return migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}
}

// Migrate applies every pending migration and returns how many ran.
func (s *DB) Migrate() (int, error) {
	log := s.log.Function("Migrate")

	sqlDB, err := s.SQL.DB()
	if err != nil {
		return 0, log.Err("failed to get database from GORM", err)
	}

	applied, err := migrate.Exec(sqlDB, s.Dialect, migrationSource(), migrate.Up)
	if err != nil {
		return applied, log.Err("failed to apply migrations", err, "dialect", s.Dialect)
	}

	log.Info("Applied migrations", "count", applied)
	return applied, nil
}

// Rollback reverts up to steps migrations, newest first.
func (s *DB) Rollback(steps int) (int, error) {
	log := s.log.Function("Rollback")

	sqlDB, err := s.SQL.DB()
	if err != nil {
		return 0, log.Err("failed to get database from GORM", err)
	}

	reverted, err := migrate.ExecMax(sqlDB, s.Dialect, migrationSource(), migrate.Down, steps)
	if err != nil {
		return reverted, log.Err("failed to roll back migrations", err, "steps", steps)
	}

	log.Info("Rolled back migrations", "count", reverted)
	return reverted, nil
}

func (s *DB) PendingMigrations() (int, error) {
	sqlDB, err := s.SQL.DB()
	if err != nil {
		return 0, err
	}

	planned, _, err := migrate.PlanMigration(sqlDB, s.Dialect, migrationSource(), migrate.Up, 0)
	if err != nil {
		return 0, err
	}
	return len(planned), nil
}
