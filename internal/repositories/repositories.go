package repositories

import (
	"context"

	"agency/internal/services"

	"gorm.io/gorm"
)

// dbProvider is the part of database.DB repositories need to join a
// context transaction.
type dbProvider interface {
	SQLWithContext(ctx context.Context) *gorm.DB
}

func getDB(ctx context.Context, db dbProvider) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return db.SQLWithContext(ctx)
}
