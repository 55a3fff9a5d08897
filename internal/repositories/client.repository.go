package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agency/internal/database"
	"agency/internal/logger"
	. "agency/internal/models"
	"agency/internal/services"

	"gorm.io/gorm"
)

const (
	CLIENT_CACHE_EXPIRY      = 30 * time.Minute
	CLIENT_LIST_CACHE_EXPIRY = 5 * time.Minute
)

type ClientRepository interface {
	Create(ctx context.Context, client *Client) error
	Update(ctx context.Context, id string, client *Client) error
	GetAll(ctx context.Context) ([]Client, error)
	GetByID(ctx context.Context, id string) (*Client, error)
	Delete(ctx context.Context, id string) error
}

type clientRepository struct {
	db  database.DB
	log logger.Logger
}

func NewClient(db database.DB) ClientRepository {
	return &clientRepository{
		db:  db,
		log: logger.New("clientRepository"),
	}
}

func (r *clientRepository) getDB(ctx context.Context) *gorm.DB {
	return getDB(ctx, &r.db)
}

func (r *clientRepository) Create(ctx context.Context, client *Client) error {
	log := r.log.Function("Create")

	if !client.IsNew() {
		return log.Err("client already has an id", services.ErrValidation, "clientID", client.ID)
	}

	if err := r.getDB(ctx).Create(client).Error; err != nil {
		return log.Err("failed to create client", err, "name", client.Name)
	}

	r.forgetList(ctx)
	return nil
}

// Update overwrites every column of the client except its id and creation
// time, then reloads client from the store.
func (r *clientRepository) Update(ctx context.Context, id string, client *Client) error {
	log := r.log.Function("Update")

	client.ID = id
	result := r.getDB(ctx).
		Model(client).
		Select("*").
		Omit("id", "created_at").
		Updates(client)
	if result.Error != nil {
		return log.Err("failed to update client", result.Error, "clientID", id)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("client %s: %w", id, services.ErrNotFound)
	}

	if err := r.getDB(ctx).First(client, "id = ?", id).Error; err != nil {
		return log.Err("failed to reload client", err, "clientID", id)
	}

	r.forget(ctx, id)
	return nil
}

// GetAll returns every client, newest first.
func (r *clientRepository) GetAll(ctx context.Context) ([]Client, error) {
	log := r.log.Function("GetAll")

	var clients []Client
	found, err := database.NewCacheBuilder(r.db.Stores.General, services.ClientListCacheKey).
		WithContext(ctx).
		Get(&clients)
	if err != nil {
		log.Warn("failed to read client list from cache", "error", err)
	}
	if found {
		return clients, nil
	}

	clients = []Client{}
	if err := r.getDB(ctx).Order("created_at DESC").Order("id DESC").Find(&clients).Error; err != nil {
		return nil, log.Err("failed to get all clients", err)
	}

	if err := database.NewCacheBuilder(r.db.Stores.General, services.ClientListCacheKey).
		WithStruct(clients).
		WithTTL(CLIENT_LIST_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		log.Warn("failed to add client list to cache", "error", err)
	}

	return clients, nil
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*Client, error) {
	log := r.log.Function("GetByID")

	var client Client
	found, err := database.NewCacheBuilder(r.db.Stores.General, services.ClientCacheKey(id)).
		WithContext(ctx).
		Get(&client)
	if err != nil {
		log.Warn("failed to read client from cache", "clientID", id, "error", err)
	}
	if found {
		return &client, nil
	}

	err = r.getDB(ctx).First(&client, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("client %s: %w", id, services.ErrNotFound)
	}
	if err != nil {
		return nil, log.Err("failed to get client by id", err, "clientID", id)
	}

	if err := database.NewCacheBuilder(r.db.Stores.General, services.ClientCacheKey(id)).
		WithStruct(client).
		WithTTL(CLIENT_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		log.Warn("failed to add client to cache", "clientID", id, "error", err)
	}

	return &client, nil
}

// Delete removes the client row. Dependents go with it.
func (r *clientRepository) Delete(ctx context.Context, id string) error {
	log := r.log.Function("Delete")

	result := r.getDB(ctx).Delete(&Client{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete client", result.Error, "clientID", id)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("client %s: %w", id, services.ErrNotFound)
	}

	r.forget(ctx, id)
	return nil
}

func (r *clientRepository) forget(ctx context.Context, id string) {
	if err := database.NewCacheBuilder(r.db.Stores.General, services.ClientCacheKey(id)).
		WithContext(ctx).
		Delete(); err != nil {
		r.log.Function("forget").Warn("failed to remove client from cache", "clientID", id, "error", err)
	}
	r.forgetList(ctx)
}

func (r *clientRepository) forgetList(ctx context.Context) {
	if err := database.NewCacheBuilder(r.db.Stores.General, services.ClientListCacheKey).
		WithContext(ctx).
		Delete(); err != nil {
		r.log.Function("forgetList").Warn("failed to remove client list from cache", "error", err)
	}
}
