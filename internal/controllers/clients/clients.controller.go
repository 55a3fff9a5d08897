package clientController

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agency/internal/forms"
	"agency/internal/logger"
	. "agency/internal/models"
	"agency/internal/repositories"
	"agency/internal/services"
	"agency/internal/utils"
)

type ClientController struct {
	clientRepo               repositories.ClientRepository
	transactionService       *services.TransactionService
	cacheInvalidationService *services.CacheInvalidationService
	credentialService        *services.CredentialService
	now                      func() time.Time
	log                      logger.Logger
}

func New(
	clientRepo repositories.ClientRepository,
	transactionService *services.TransactionService,
	cacheInvalidationService *services.CacheInvalidationService,
	credentialService *services.CredentialService,
) *ClientController {
	return &ClientController{
		clientRepo:               clientRepo,
		transactionService:       transactionService,
		cacheInvalidationService: cacheInvalidationService,
		credentialService:        credentialService,
		now:                      time.Now,
		log:                      logger.New("ClientController"),
	}
}

// List returns every client matching term, newest first.
func (cc *ClientController) List(ctx context.Context, term string) ([]Client, error) {
	clients, err := cc.clientRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return utils.FilterClients(clients, term), nil
}

func (cc *ClientController) Stats(ctx context.Context) (ClientStats, error) {
	clients, err := cc.clientRepo.GetAll(ctx)
	if err != nil {
		return ClientStats{}, err
	}
	return SummarizeClients(clients), nil
}

func (cc *ClientController) Get(ctx context.Context, id string) (*Client, error) {
	return cc.clientRepo.GetByID(ctx, id)
}

// prepare normalizes a submitted record and checks it can be stored.
func (cc *ClientController) prepare(client Client) (Client, error) {
	normalized := forms.Normalize(client, cc.now())
	if err := forms.Validate(normalized); err != nil {
		return Client{}, fmt.Errorf("%w: %w", services.ErrValidation, err)
	}
	return normalized, nil
}

func (cc *ClientController) Create(ctx context.Context, client Client, userID string) (*Client, error) {
	log := cc.log.Function("Create")

	client.ID = ""
	client.CreatedAt = time.Time{}
	client.UpdatedAt = time.Time{}
	prepared, err := cc.prepare(client)
	if err != nil {
		return nil, err
	}

	err = cc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		return cc.clientRepo.Create(txCtx, &prepared)
	})
	if err != nil {
		return nil, log.Err("failed to create client", err, "name", prepared.Name)
	}

	cc.cacheInvalidationService.ClientChanged(ctx, services.ClientCreated, prepared.ID, userID)
	return &prepared, nil
}

func (cc *ClientController) Update(ctx context.Context, id string, client Client, userID string) (*Client, error) {
	log := cc.log.Function("Update")

	prepared, err := cc.prepare(client)
	if err != nil {
		return nil, err
	}

	err = cc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		return cc.clientRepo.Update(txCtx, id, &prepared)
	})
	if err != nil {
		return nil, log.Err("failed to update client", err, "clientID", id)
	}

	cc.cacheInvalidationService.ClientChanged(ctx, services.ClientUpdated, id, userID)
	return &prepared, nil
}

// Save creates client when it has no id yet and updates it otherwise.
func (cc *ClientController) Save(ctx context.Context, client Client, userID string) (*Client, error) {
	if client.IsNew() {
		return cc.Create(ctx, client, userID)
	}
	return cc.Update(ctx, client.ID, client, userID)
}

// IssueDeleteToken re-verifies the staff member's password before a
// deletion of clientID may go ahead.
func (cc *ClientController) IssueDeleteToken(
	ctx context.Context,
	clientID, login, password string,
) (DeleteTokenResponse, error) {
	if _, err := cc.clientRepo.GetByID(ctx, clientID); err != nil {
		return DeleteTokenResponse{}, err
	}
	return cc.credentialService.IssueDeleteToken(ctx, login, password, clientID)
}

func (cc *ClientController) ConfirmDeletion(ctx context.Context, clientID, token, userID string) error {
	log := cc.log.Function("ConfirmDeletion")

	grant, err := cc.credentialService.ConsumeDeleteToken(ctx, token, clientID)
	if err != nil {
		return err
	}

	err = cc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		return cc.clientRepo.Delete(txCtx, clientID)
	})
	if err != nil {
		// The confirmation stays usable for a retry unless the record is gone.
		if !errors.Is(err, services.ErrNotFound) {
			if restoreErr := cc.credentialService.RestoreDeleteToken(ctx, grant); restoreErr != nil {
				log.Er("deletion token lost", restoreErr, "clientID", clientID)
			}
		}
		return log.Err("failed to delete client", err, "clientID", clientID)
	}

	log.Info("client deleted", "clientID", clientID, "userID", userID)
	cc.cacheInvalidationService.ClientChanged(ctx, services.ClientDeleted, clientID, userID)
	return nil
}
