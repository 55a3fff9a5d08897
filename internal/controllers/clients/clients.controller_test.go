package clientController

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"agency/config"
	"agency/internal/database"
	"agency/internal/events"
	"agency/internal/forms"
	. "agency/internal/models"
	"agency/internal/repositories"
	"agency/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	controller *ClientController
	users      repositories.UserRepository
	events     *[]events.Event
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	cfg := config.Config{
		DatabaseDbPath:                      ":memory:",
		ServerPort:                          8280,
		SecurityDeleteTokenSeconds:          120,
		SecurityCredentialAttemptsPerMinute: 5,
	}
	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Migrate()
	require.NoError(t, err)

	bus := events.New(nil, cfg)
	var mu sync.Mutex
	published := []events.Event{}
	bus.Subscribe(events.ChannelClients, func(event events.Event) {
		mu.Lock()
		defer mu.Unlock()
		published = append(published, event)
	})

	users := repositories.New(db)
	controller := New(
		repositories.NewClient(db),
		services.NewTransactionService(db),
		services.NewCacheInvalidationService(bus, db.Stores.General),
		services.NewCredentialService(users, db.Stores.Security, cfg),
	)
	controller.now = func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) }

	return fixture{controller: controller, users: users, events: &published}
}

func validClient(name string) Client {
	return Client{
		Name:        name,
		Email:       name + "@example.com",
		TaxID:       "123456789",
		Phone:       "3055551234",
		City:        "Miami",
		State:       "Florida",
		Carrier:     CarrierOscar,
		DateOfBirth: "1996-10-14",
		Income1:     1500.50,
		Dependents: []Dependent{
			{ID: "dep-a", Name: "Nico", DateOfBirth: "2020-10-15", TaxID: "987654321"},
			{ID: "dep-b"},
		},
	}
}

func TestClientController_CreateNormalizes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.controller.Create(ctx, validClient("ana"), "u-1")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "123-45-6789", created.TaxID)
	assert.Equal(t, "(305) 555-1234", created.Phone)
	assert.Equal(t, 30, created.Age)
	assert.Equal(t, 1500.50, created.TotalIncome)
	require.Len(t, created.Dependents, 1)
	assert.Equal(t, 5, created.Dependents[0].Age)
	assert.Equal(t, "987-65-4321", created.Dependents[0].TaxID)

	require.Len(t, *f.events, 1)
	assert.Equal(t, services.ClientCreated, (*f.events)[0].Action)

	stored, err := f.controller.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.TaxID, stored.TaxID)
}

func TestClientController_ValidationWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	invalid := validClient("ana")
	invalid.Email = "   "
	_, err := f.controller.Create(ctx, invalid, "u-1")
	require.ErrorIs(t, err, services.ErrValidation)

	var verr *forms.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")

	clients, err := f.controller.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, clients)
	assert.Empty(t, *f.events)
}

func TestClientController_SaveDispatches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.controller.Save(ctx, validClient("ana"), "u-1")
	require.NoError(t, err)

	created.Name = "Ana Maria"
	updated, err := f.controller.Save(ctx, *created, "u-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Ana Maria", updated.Name)

	_, err = f.controller.Update(ctx, "missing", validClient("ghost"), "u-1")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestClientController_ListAndStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"ana", "luis", "maria"} {
		client := validClient(name)
		if name == "luis" {
			client.City = "Orlando"
			client.Carrier = CarrierAetna
			client.Income1 = 3500.50
		}
		_, err := f.controller.Create(ctx, client, "u-1")
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	all, err := f.controller.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "maria", all[0].Name)

	orlando, err := f.controller.List(ctx, "ORLANDO")
	require.NoError(t, err)
	require.Len(t, orlando, 1)
	assert.Equal(t, "luis", orlando[0].Name)

	stats, err := f.controller.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Clients)
	assert.Equal(t, 3, stats.Dependents)
	assert.Equal(t, 2, stats.DistinctCarriers)
	assert.InDelta(t, 2167.1666, stats.AverageIncome, 0.001)
}

func TestClientController_DeletionFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	staff := User{Login: "maria", Password: "correct horse"}
	require.NoError(t, f.users.Create(ctx, &staff))

	created, err := f.controller.Create(ctx, validClient("ana"), staff.ID)
	require.NoError(t, err)

	_, err = f.controller.IssueDeleteToken(ctx, "missing", "maria", "correct horse")
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = f.controller.IssueDeleteToken(ctx, created.ID, "maria", "wrong")
	assert.ErrorIs(t, err, services.ErrWrongCredential)

	assert.ErrorIs(t, f.controller.ConfirmDeletion(ctx, created.ID, "", staff.ID), services.ErrTokenRequired)
	assert.ErrorIs(t, f.controller.ConfirmDeletion(ctx, created.ID, "forged", staff.ID), services.ErrInvalidToken)

	issued, err := f.controller.IssueDeleteToken(ctx, created.ID, "maria", "correct horse")
	require.NoError(t, err)

	require.NoError(t, f.controller.ConfirmDeletion(ctx, created.ID, issued.Token, staff.ID))
	_, err = f.controller.Get(ctx, created.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	assert.ErrorIs(t, f.controller.ConfirmDeletion(ctx, created.ID, issued.Token, staff.ID), services.ErrInvalidToken)

	last := (*f.events)[len(*f.events)-1]
	assert.Equal(t, services.ClientDeleted, last.Action)
	assert.Equal(t, created.ID, last.Data["clientId"])
}

func TestClientController_CreateAssignsTimestamps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	submitted := validClient("ana")
	submitted.CreatedAt = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	submitted.UpdatedAt = submitted.CreatedAt

	created, err := f.controller.Create(ctx, submitted, "u-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), created.CreatedAt, time.Minute)
	assert.WithinDuration(t, time.Now(), created.UpdatedAt, time.Minute)

	stored, err := f.controller.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), stored.CreatedAt, time.Minute)
}

type failingDeletes struct {
	repositories.ClientRepository
	failures int
}

func (r *failingDeletes) Delete(ctx context.Context, id string) error {
	if r.failures > 0 {
		r.failures--
		return errors.New("database is locked")
	}
	return r.ClientRepository.Delete(ctx, id)
}

func TestClientController_FailedDeletionKeepsToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	staff := User{Login: "maria", Password: "correct horse"}
	require.NoError(t, f.users.Create(ctx, &staff))
	created, err := f.controller.Create(ctx, validClient("ana"), staff.ID)
	require.NoError(t, err)

	f.controller.clientRepo = &failingDeletes{ClientRepository: f.controller.clientRepo, failures: 1}

	issued, err := f.controller.IssueDeleteToken(ctx, created.ID, "maria", "correct horse")
	require.NoError(t, err)

	err = f.controller.ConfirmDeletion(ctx, created.ID, issued.Token, staff.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrInvalidToken)

	_, err = f.controller.Get(ctx, created.ID)
	require.NoError(t, err, "record survives the failed deletion")

	require.NoError(t, f.controller.ConfirmDeletion(ctx, created.ID, issued.Token, staff.ID))
	_, err = f.controller.Get(ctx, created.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	assert.ErrorIs(t, f.controller.ConfirmDeletion(ctx, created.ID, issued.Token, staff.ID), services.ErrInvalidToken)
}
