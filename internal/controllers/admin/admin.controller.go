package adminController

import (
	"context"
	"strings"
	"time"

	"agency/config"
	"agency/internal/events"
	"agency/internal/logger"
	. "agency/internal/models"
	"agency/internal/repositories"
	"agency/internal/services"

	"github.com/google/uuid"
)

type CacheFlusher interface {
	FlushAllCaches() error
}

type AdminController struct {
	userRepo repositories.UserRepository
	cache    CacheFlusher
	Config   config.Config
	log      logger.Logger
	eventBus *events.EventBus
}

func New(
	eventBus *events.EventBus,
	userRepo repositories.UserRepository,
	cache CacheFlusher,
	config config.Config,
) *AdminController {
	return &AdminController{
		userRepo: userRepo,
		cache:    cache,
		Config:   config,
		log:      logger.New("AdminController"),
		eventBus: eventBus,
	}
}

// SendBroadcast pushes an office-wide notice to every connected browser.
func (c *AdminController) SendBroadcast(ctx context.Context, session services.Session, message string) error {
	log := c.log.Function("SendBroadcast")

	message = strings.TrimSpace(message)
	if message == "" {
		return log.Err("broadcast message is empty", services.ErrValidation, "userID", session.UserID)
	}

	event := events.Event{
		ID:        uuid.New().String(),
		Type:      "admin",
		Channel:   "admin",
		UserID:    session.UserID,
		Data:      map[string]any{"message": message, "from": session.DisplayName},
		Timestamp: time.Now(),
	}

	log.Info("Broadcasting admin notice", "userID", session.UserID)
	if err := c.eventBus.Publish(events.ChannelBroadcast, event); err != nil {
		return log.Err("failed to publish event", err, "eventID", event.ID)
	}
	return nil
}

// CreateUser adds a staff account. Only admins reach this through the API.
func (c *AdminController) CreateUser(ctx context.Context, request CreateUserRequest) (*User, error) {
	if strings.TrimSpace(request.Password) == "" {
		return nil, c.log.Function("CreateUser").Err("password is required", services.ErrValidation, "login", request.Login)
	}

	user := User{
		Login:       request.Login,
		DisplayName: request.DisplayName,
		IsAdmin:     request.IsAdmin,
		Password:    request.Password,
	}
	if request.Email != "" {
		user.Email = &request.Email
	}
	if err := c.userRepo.Create(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *AdminController) FlushCaches() error {
	return c.cache.FlushAllCaches()
}
