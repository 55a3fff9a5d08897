package app

import (
	"agency/config"
	"agency/internal/database"
	"agency/internal/events"
	"agency/internal/handlers/middleware"
	"agency/internal/logger"
	"agency/internal/repositories"
	"agency/internal/services"
	"agency/internal/websockets"

	adminController "agency/internal/controllers/admin"
	clientController "agency/internal/controllers/clients"
	formController "agency/internal/controllers/forms"
	userController "agency/internal/controllers/users"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	// Services
	TransactionService       *services.TransactionService
	CacheInvalidationService *services.CacheInvalidationService
	CredentialService        *services.CredentialService
	SessionService           *services.SessionService

	// Repositories
	UserRepo   repositories.UserRepository
	ClientRepo repositories.ClientRepository

	// Controllers
	UserController   *userController.UserController
	ClientController *clientController.ClientController
	FormController   *formController.FormController
	AdminController  *adminController.AdminController
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	app, err := FromDatabase(config, db)
	if err != nil {
		_ = db.Close()
		return &App{}, err
	}

	return app, nil
}

// FromDatabase wires every service, repository and controller on top of an
// already opened db.
func FromDatabase(config config.Config, db database.DB) (*App, error) {
	log := logger.New("app").Function("FromDatabase")

	eventBus := events.New(db.Cache.Events, config)

	// Initialize repositories
	userRepo := repositories.New(db)
	clientRepo := repositories.NewClient(db)

	// Initialize services
	transactionService := services.NewTransactionService(db)
	cacheInvalidationService := services.NewCacheInvalidationService(eventBus, db.Stores.General)
	credentialService := services.NewCredentialService(userRepo, db.Stores.Security, config)
	sessionService := services.NewSessionService(db.Stores.Session, config)

	// Initialize controllers with repositories and services
	middleware := middleware.New(sessionService, config)
	userController := userController.New(eventBus, userRepo, credentialService, sessionService, config)
	clientController := clientController.New(
		clientRepo,
		transactionService,
		cacheInvalidationService,
		credentialService,
	)
	formController := formController.New()
	adminController := adminController.New(eventBus, userRepo, &db, config)

	websocket, err := websockets.New(eventBus)
	if err != nil {
		_ = eventBus.Close()
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	app := &App{
		Database:                 db,
		Config:                   config,
		Middleware:               middleware,
		TransactionService:       transactionService,
		CacheInvalidationService: cacheInvalidationService,
		CredentialService:        credentialService,
		SessionService:           sessionService,
		UserRepo:                 userRepo,
		ClientRepo:               clientRepo,
		UserController:           userController,
		ClientController:         clientController,
		FormController:           formController,
		AdminController:          adminController,
		Websocket:                websocket,
		EventBus:                 eventBus,
	}

	if err := app.validate(); err != nil {
		_ = eventBus.Close()
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []struct {
		name  string
		isNil bool
	}{
		{"websocket", a.Websocket == nil},
		{"eventBus", a.EventBus == nil},
		{"transactionService", a.TransactionService == nil},
		{"cacheInvalidationService", a.CacheInvalidationService == nil},
		{"credentialService", a.CredentialService == nil},
		{"sessionService", a.SessionService == nil},
		{"userController", a.UserController == nil},
		{"clientController", a.ClientController == nil},
		{"formController", a.FormController == nil},
		{"adminController", a.AdminController == nil},
		{"userRepo", a.UserRepo == nil},
		{"clientRepo", a.ClientRepo == nil},
		{"generalStore", a.Database.Stores.General == nil},
		{"sessionStore", a.Database.Stores.Session == nil},
		{"securityStore", a.Database.Stores.Security == nil},
	}

	for _, check := range nilChecks {
		if check.isNil {
			return log.Error("nil check failed", "component", check.name)
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
