package services

import (
	"context"
	"time"

	"agency/internal/database"
	"agency/internal/events"
	"agency/internal/logger"

	"github.com/google/uuid"
)

const (
	ClientCreated = "created"
	ClientUpdated = "updated"
	ClientDeleted = "deleted"
)

// CacheInvalidationService drops cached client reads once a write has
// committed and tells connected staff about the change.
type CacheInvalidationService struct {
	eventBus *events.EventBus
	cache    database.KeyValueStore
	log      logger.Logger
}

func NewCacheInvalidationService(
	eventBus *events.EventBus,
	cache database.KeyValueStore,
) *CacheInvalidationService {
	return &CacheInvalidationService{
		eventBus: eventBus,
		cache:    cache,
		log:      logger.New("CacheInvalidationService"),
	}
}

func (s *CacheInvalidationService) InvalidateClientCache(ctx context.Context, clientID string) error {
	log := s.log.Function("InvalidateClientCache")

	keys := []string{ClientListCacheKey}
	if clientID != "" {
		keys = append(keys, ClientCacheKey(clientID))
	}

	for _, key := range keys {
		if err := database.NewCacheBuilder(s.cache, key).WithContext(ctx).Delete(); err != nil {
			return log.Err("failed to invalidate client cache", err, "key", key)
		}
	}

	return nil
}

// ClientChanged invalidates the caches for clientID and publishes the change.
// A failed invalidation is logged; the event is still sent.
func (s *CacheInvalidationService) ClientChanged(ctx context.Context, action, clientID, userID string) {
	log := s.log.Function("ClientChanged")

	if err := s.InvalidateClientCache(ctx, clientID); err != nil {
		log.Warn("client cache left stale", "clientID", clientID, "error", err)
	}

	event := events.Event{
		ID:        uuid.NewString(),
		Type:      "client",
		Action:    action,
		UserID:    userID,
		Data:      map[string]any{"clientId": clientID},
		Timestamp: time.Now(),
	}

	if err := s.eventBus.Publish(events.ChannelClients, event); err != nil {
		log.Er("failed to publish client event", err, "clientID", clientID, "action", action)
	}
}
