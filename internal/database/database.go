package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"agency/config"
	logg "agency/internal/logger"

	"github.com/valkey-io/valkey-go"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "postgres"

	memoryDSN = ":memory:"
)

type CacheClient valkey.Client

// Cache holds one valkey client per logical database. All fields are nil
// when no cache address is configured.
type Cache struct {
	General CacheClient
	Session CacheClient
	Events  CacheClient
}

// Stores are the key/value namespaces the service writes to. They are
// backed by valkey when it is configured and by process memory otherwise.
type Stores struct {
	General  KeyValueStore
	Session  KeyValueStore
	Security KeyValueStore
}

type DB struct {
	SQL     *gorm.DB
	Cache   Cache
	Stores  Stores
	Dialect string
	log     logg.Logger
}

func New(config config.Config) (DB, error) {
	log := logg.New("database").Function("New")

	log.Info("Initializing database")
	db := &DB{log: log}

	err := db.initializeDB(config)
	if err != nil {
		return DB{}, log.Err("failed to initialize database", err)
	}

	if config.CacheEnabled() {
		err = db.initializeCacheDB(config)
		if err != nil {
			_ = db.Close()
			return DB{}, log.Err("failed to initialize cache database", err)
		}
	} else {
		log.Info("No cache address configured, using in-process stores")
		db.initializeMemoryStores()
	}

	return *db, nil
}

func gormLogger(config config.Config) logger.Interface {
	level := logger.Warn
	if logg.ParseLevel(config.LogLevel) == slog.LevelDebug {
		level = logger.Info
	}

	return logger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo),
		logger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      config.IsProduction(),
			Colorful:                  false,
		},
	)
}

func (s *DB) initializeDB(config config.Config) error {
	gormConfig := &gorm.Config{
		Logger:                                   gormLogger(config),
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: false,
		CreateBatchSize:                          100,
	}

	if config.UsesPostgres() {
		return s.initializePostgresDB(gormConfig, config)
	}
	return s.initializeSQLiteDB(gormConfig, config)
}

func (s *DB) initializeSQLiteDB(gormConfig *gorm.Config, config config.Config) error {
	log := s.log.Function("initializeSQLiteDB")

	dbPath := config.DatabaseDbPath
	if dbPath == "" {
		return log.Error("database path is empty", "dbPath", dbPath)
	}

	if dbPath != memoryDSN {
		dir := filepath.Dir(dbPath)
		log.Info("Creating database directory", "dir", dir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return log.Err("failed to create database directory", err, "dir", dir)
		}
	}

	log.Info("Connecting with GORM", "dbPath", dbPath)
	db, err := gorm.Open(sqlite.Open(dbPath), gormConfig)
	if err != nil {
		return log.Err("failed to open database with GORM", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return log.Err("failed to get database from GORM", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return log.Err("failed to ping database through GORM", err)
	}

	log.Info("Successfully connected with GORM")
	if dbPath == memoryDSN {
		// every connection to :memory: opens a separate empty database
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	s.SQL = db
	s.Dialect = DialectSQLite

	return nil
}

func postgresDSN(config config.Config) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		config.DatabaseHost,
		config.DatabasePort,
		config.DatabaseUser,
		config.DatabasePassword,
		config.DatabaseName,
	)
}

func (s *DB) initializePostgresDB(gormConfig *gorm.Config, config config.Config) error {
	log := s.log.Function("initializePostgresDB")

	if config.DatabaseName == "" {
		return log.Error("database name is empty", "host", config.DatabaseHost)
	}

	log.Info("Connecting with GORM", "host", config.DatabaseHost, "port", config.DatabasePort, "name", config.DatabaseName)
	db, err := gorm.Open(postgres.Open(postgresDSN(config)), gormConfig)
	if err != nil {
		return log.Err("failed to open database with GORM", err, "host", config.DatabaseHost)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return log.Err("failed to get database from GORM", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return log.Err("failed to ping database through GORM", err)
	}

	log.Info("Successfully connected with GORM")
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	s.SQL = db
	s.Dialect = DialectPostgres

	return nil
}

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")

	if config.DatabaseCacheAddress == "" || config.DatabaseCachePort == 0 {
		return log.Error(
			"cache address or port is empty",
			"address", config.DatabaseCacheAddress,
			"port", config.DatabaseCachePort,
		)
	}

	address := fmt.Sprintf("%s:%d", config.DatabaseCacheAddress, config.DatabaseCachePort)
	clients := []struct {
		target *CacheClient
		index  int
		name   string
	}{
		{&s.Cache.General, 0, "General"},
		{&s.Cache.Session, 1, "Session"},
		{&s.Cache.Events, 2, "Events"},
	}

	for _, c := range clients {
		client, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{address},
			SelectDB:    c.index,
		})
		if err != nil {
			return log.Err("failed to create cache client", err, "cache", c.name, "address", address)
		}
		*c.target = client
	}

	s.Stores = Stores{
		General:  NewValkeyStore(s.Cache.General, "general:"),
		Session:  NewValkeyStore(s.Cache.Session, "session:"),
		Security: NewValkeyStore(s.Cache.Session, "security:"),
	}

	log.Info("Connected to cache", "address", address)
	return nil
}

func (s *DB) initializeMemoryStores() {
	s.Stores = Stores{
		General:  NewMemoryStore(),
		Session:  NewMemoryStore(),
		Security: NewMemoryStore(),
	}
}

func (s *DB) Close() (err error) {
	if s.SQL != nil {
		sqlDB, dbErr := s.SQL.DB()
		if dbErr == nil {
			if closeErr := sqlDB.Close(); closeErr != nil {
				err = s.log.Err("failed to close database", closeErr)
			}
		}
	}

	for _, client := range []CacheClient{s.Cache.General, s.Cache.Session, s.Cache.Events} {
		if client != nil {
			client.Close()
		}
	}

	return err
}

func (s *DB) SQLWithContext(ctx context.Context) *gorm.DB {
	return s.SQL.WithContext(ctx)
}

func (s *DB) FlushAllCaches() error {
	log := s.log.Function("FlushAllCaches")
	log.Info("Flushing all cache databases")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stores := []struct {
		store KeyValueStore
		name  string
	}{
		{s.Stores.General, "General"},
		{s.Stores.Session, "Session"},
		{s.Stores.Security, "Security"},
	}

	for _, cache := range stores {
		if cache.store == nil {
			continue
		}
		if err := cache.store.Flush(ctx); err != nil {
			return log.Err("failed to flush cache database", err, "cache", cache.name)
		}
		log.Info("Successfully flushed cache database", "cache", cache.name)
	}

	log.Info("All cache databases flushed successfully")
	return nil
}
