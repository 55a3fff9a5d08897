package services

import (
	"context"
	"strings"
	"time"

	"agency/config"
	"agency/internal/database"
	"agency/internal/logger"
	"agency/internal/models"

	"github.com/google/uuid"
)

type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Login       string    `json:"login"`
	DisplayName string    `json:"displayName"`
	IsAdmin     bool      `json:"isAdmin"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type SessionService struct {
	store database.KeyValueStore
	ttl   time.Duration
	now   func() time.Time
	log   logger.Logger
}

func NewSessionService(store database.KeyValueStore, config config.Config) *SessionService {
	return &SessionService{
		store: store,
		ttl:   config.SessionTTL(),
		now:   time.Now,
		log:   logger.New("SessionService"),
	}
}

func (s *SessionService) Create(ctx context.Context, user models.User) (Session, error) {
	log := s.log.Function("Create")

	session := Session{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Login:       user.Login,
		DisplayName: user.DisplayName,
		IsAdmin:     user.IsAdmin,
		ExpiresAt:   s.now().Add(s.ttl),
	}

	if err := database.NewCacheBuilder(s.store, session.ID).
		WithStruct(session).
		WithTTL(s.ttl).
		WithContext(ctx).
		Set(); err != nil {
		return Session{}, log.Err("failed to store session", err, "userID", user.ID)
	}

	return session, nil
}

func (s *SessionService) Get(ctx context.Context, id string) (Session, error) {
	log := s.log.Function("Get")

	id = strings.TrimSpace(id)
	if id == "" {
		return Session{}, ErrSessionRequired
	}

	var session Session
	found, err := database.NewCacheBuilder(s.store, id).WithContext(ctx).Get(&session)
	if err != nil {
		return Session{}, log.Err("failed to read session", err)
	}
	if !found || !s.now().Before(session.ExpiresAt) {
		return Session{}, ErrSessionExpired
	}

	return session, nil
}

func (s *SessionService) Delete(ctx context.Context, id string) error {
	if err := database.NewCacheBuilder(s.store, id).WithContext(ctx).Delete(); err != nil {
		return s.log.Function("Delete").Err("failed to delete session", err)
	}
	return nil
}
