package initialize

import (
	"testing"

	"agency/config"
	"agency/internal/database"
	"agency/internal/logger"
	. "agency/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTables_CreatesAdminOnce(t *testing.T) {
	cfg := config.Config{
		DatabaseDbPath: ":memory:",
		ServerPort:     8280,
		AdminLogin:     " Admin ",
		AdminPassword:  "change-me",
	}
	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Migrate()
	require.NoError(t, err)

	log := logger.New("initialize_test")
	require.NoError(t, InitializeTables(db.SQL, cfg, log))
	require.NoError(t, InitializeTables(db.SQL, cfg, log))

	var users []User
	require.NoError(t, db.SQL.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Login)
	assert.True(t, users[0].IsAdmin)
	assert.True(t, users[0].CheckPassword("change-me"))
}

func TestInitializeTables_SkipsWithoutPassword(t *testing.T) {
	cfg := config.Config{DatabaseDbPath: ":memory:", ServerPort: 8280, AdminLogin: "admin"}
	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Migrate()
	require.NoError(t, err)

	require.NoError(t, InitializeTables(db.SQL, cfg, logger.New("initialize_test")))

	var count int64
	require.NoError(t, db.SQL.Model(&User{}).Count(&count).Error)
	assert.Zero(t, count)
}
