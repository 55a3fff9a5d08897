package userController

import (
	"context"
	"time"

	"agency/config"
	"agency/internal/events"
	"agency/internal/logger"
	. "agency/internal/models"
	"agency/internal/repositories"
	"agency/internal/services"

	"github.com/google/uuid"
)

type UserController struct {
	userRepo          repositories.UserRepository
	credentialService *services.CredentialService
	sessionService    *services.SessionService
	eventBus          *events.EventBus
	Config            config.Config
	log               logger.Logger
}

func New(
	eventBus *events.EventBus,
	userRepo repositories.UserRepository,
	credentialService *services.CredentialService,
	sessionService *services.SessionService,
	config config.Config,
) *UserController {
	return &UserController{
		userRepo:          userRepo,
		credentialService: credentialService,
		sessionService:    sessionService,
		eventBus:          eventBus,
		Config:            config,
		log:               logger.New("UserController"),
	}
}

func (c *UserController) Login(ctx context.Context, request LoginRequest) (User, services.Session, error) {
	log := c.log.Function("Login")

	user, err := c.credentialService.Verify(ctx, request.Login, request.Password)
	if err != nil {
		return User{}, services.Session{}, err
	}

	session, err := c.sessionService.Create(ctx, *user)
	if err != nil {
		return User{}, services.Session{}, err
	}

	event := events.Event{
		ID:        uuid.NewString(),
		Type:      "user",
		Action:    "login",
		UserID:    user.ID,
		Data:      map[string]any{"displayName": user.DisplayName},
		Timestamp: time.Now(),
	}
	if err := c.eventBus.Publish(events.ChannelBroadcast, event); err != nil {
		log.Warn("failed to publish login event", "userID", user.ID, "error", err)
	}

	log.Info("staff signed in", "userID", user.ID)
	return *user, session, nil
}

func (c *UserController) Logout(ctx context.Context, sessionID string) error {
	return c.sessionService.Delete(ctx, sessionID)
}

func (c *UserController) GetByID(ctx context.Context, id string) (*User, error) {
	return c.userRepo.GetByID(ctx, id)
}

func (c *UserController) GetAll(ctx context.Context) ([]User, error) {
	return c.userRepo.GetAll(ctx)
}
