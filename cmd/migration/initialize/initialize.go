package initialize

import (
	"errors"
	"strings"

	"agency/config"
	"agency/internal/logger"
	. "agency/internal/models"

	"gorm.io/gorm"
)

// InitializeTables makes sure the bootstrap admin account exists. It is a
// no-op when ADMIN_PASSWORD is unset or the login is already taken.
func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	login := strings.ToLower(strings.TrimSpace(config.AdminLogin))
	if login == "" || config.AdminPassword == "" {
		log.Warn("ADMIN_LOGIN or ADMIN_PASSWORD not set, skipping admin account")
		return nil
	}

	var existing User
	err := db.First(&existing, "login = ?", login).Error
	switch {
	case err == nil:
		log.Info("Admin account already exists", "login", login)
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return log.Err("failed to look up admin account", err, "login", login)
	}

	admin := User{
		Login:       login,
		DisplayName: "Administrator",
		Password:    config.AdminPassword,
		IsAdmin:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return log.Err("failed to create admin account", err, "login", login)
	}

	log.Info("Table initialization complete", "admin", login)
	return nil
}
