package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
	"unsafe"

	"agency/config"
	"agency/internal/database"
	"agency/internal/events"
	"agency/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeAccounts struct {
	users map[string]models.User
	err   error
}

func (f fakeAccounts) GetByLogin(_ context.Context, login string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[login]
	if !ok {
		return nil, fmt.Errorf("login %s: %w", login, ErrNotFound)
	}
	return &user, nil
}

func testConfig() config.Config {
	return config.Config{
		DatabaseDbPath:                      ":memory:",
		ServerPort:                          8280,
		SecurityDeleteTokenSeconds:          120,
		SecurityCredentialAttemptsPerMinute: 5,
		SecuritySessionHours:                12,
	}
}

func staffAccounts(t *testing.T) fakeAccounts {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	return fakeAccounts{users: map[string]models.User{
		"maria": {BaseUUIDModel: models.BaseUUIDModel{ID: "u-1"}, Login: "maria", PasswordHash: string(hash)},
	}}
}

func TestCredentialService_Verify(t *testing.T) {
	ctx := context.Background()
	svc := NewCredentialService(staffAccounts(t), database.NewMemoryStore(), testConfig())

	user, err := svc.Verify(ctx, "maria", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)

	tests := []struct {
		name     string
		login    string
		password string
		want     error
	}{
		{name: "blank password", login: "maria", password: "", want: ErrCredentialRequired},
		{name: "blank login", login: "  ", password: "x", want: ErrCredentialRequired},
		{name: "wrong password", login: "maria", password: "battery staple", want: ErrWrongCredential},
		{name: "unknown account", login: "nobody", password: "x", want: ErrUnknownAccount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(ctx, tt.login, tt.password)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCredentialService_RateLimitsPerLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewCredentialService(staffAccounts(t), database.NewMemoryStore(), testConfig())

	for i := range 5 {
		_, err := svc.Verify(ctx, "maria", "guess")
		assert.ErrorIs(t, err, ErrWrongCredential, "attempt %d", i+1)
	}

	_, err := svc.Verify(ctx, "maria", "correct horse")
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	_, err = svc.Verify(ctx, "MARIA", "correct horse")
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	_, err = svc.Verify(ctx, "nobody", "x")
	assert.ErrorIs(t, err, ErrUnknownAccount)
}

func TestCredentialService_LookupFailure(t *testing.T) {
	svc := NewCredentialService(fakeAccounts{err: errors.New("db down")}, database.NewMemoryStore(), testConfig())

	_, err := svc.Verify(context.Background(), "maria", "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownAccount)
	assert.Contains(t, err.Error(), "db down")
}

func TestCredentialService_DeleteTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	store := database.NewMemoryStore().WithClock(func() time.Time { return clock })
	svc := NewCredentialService(staffAccounts(t), store, testConfig())

	_, err := svc.IssueDeleteToken(ctx, "maria", "wrong", "c-1")
	assert.ErrorIs(t, err, ErrWrongCredential)

	issued, err := svc.IssueDeleteToken(ctx, "maria", "correct horse", "c-1")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.Equal(t, "c-1", issued.ClientID)
	assert.Equal(t, 120, issued.ExpiresIn)

	consume := func(token, clientID string) error {
		_, err := svc.ConsumeDeleteToken(ctx, token, clientID)
		return err
	}

	assert.ErrorIs(t, consume("", "c-1"), ErrTokenRequired)
	assert.ErrorIs(t, consume("not-a-token", "c-1"), ErrInvalidToken)

	grant, err := svc.ConsumeDeleteToken(ctx, issued.Token, "c-1")
	require.NoError(t, err)
	assert.Equal(t, issued.Token, grant.Token)
	assert.Equal(t, "c-1", grant.ClientID)
	assert.ErrorIs(t, consume(issued.Token, "c-1"), ErrInvalidToken, "token is single use")

	other, err := svc.IssueDeleteToken(ctx, "maria", "correct horse", "c-2")
	require.NoError(t, err)
	assert.ErrorIs(t, consume(other.Token, "c-1"), ErrInvalidToken)

	expiring, err := svc.IssueDeleteToken(ctx, "maria", "correct horse", "c-3")
	require.NoError(t, err)
	clock = clock.Add(121 * time.Second)
	assert.ErrorIs(t, consume(expiring.Token, "c-3"), ErrInvalidToken)
}

func TestCredentialService_RestoreDeleteToken(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	store := database.NewMemoryStore().WithClock(now)
	svc := NewCredentialService(staffAccounts(t), store, testConfig())
	svc.now = now

	issued, err := svc.IssueDeleteToken(ctx, "maria", "correct horse", "c-1")
	require.NoError(t, err)
	grant, err := svc.ConsumeDeleteToken(ctx, issued.Token, "c-1")
	require.NoError(t, err)

	clock = clock.Add(100 * time.Second)
	require.NoError(t, svc.RestoreDeleteToken(ctx, grant))

	_, err = svc.ConsumeDeleteToken(ctx, issued.Token, "c-2")
	assert.ErrorIs(t, err, ErrInvalidToken, "restored token keeps its binding")

	require.NoError(t, svc.RestoreDeleteToken(ctx, grant))
	clock = clock.Add(21 * time.Second)
	_, err = svc.ConsumeDeleteToken(ctx, issued.Token, "c-1")
	assert.ErrorIs(t, err, ErrInvalidToken, "restored token keeps its original expiry")

	require.NoError(t, svc.RestoreDeleteToken(ctx, grant), "restoring an expired grant is a no-op")
	_, err = svc.ConsumeDeleteToken(ctx, issued.Token, "c-1")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCredentialService_BindingOutlivesRequestBuffer(t *testing.T) {
	ctx := context.Background()
	svc := NewCredentialService(staffAccounts(t), database.NewMemoryStore(), testConfig())

	// The id is a view of a buffer that gets reused, as request params are.
	buf := []byte("client-a")
	clientID := unsafe.String(&buf[0], len(buf))

	issued, err := svc.IssueDeleteToken(ctx, "maria", "correct horse", clientID)
	require.NoError(t, err)
	copy(buf, "client-b")

	_, err = svc.ConsumeDeleteToken(ctx, issued.Token, "client-b")
	assert.ErrorIs(t, err, ErrInvalidToken)

	issued, err = svc.IssueDeleteToken(ctx, "maria", "correct horse", "client-a")
	require.NoError(t, err)
	_, err = svc.ConsumeDeleteToken(ctx, issued.Token, "client-a")
	assert.NoError(t, err)
}

func TestCredentialService_ForgetsIdleLimiters(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	svc := NewCredentialService(fakeAccounts{}, database.NewMemoryStore(), testConfig())
	svc.now = func() time.Time { return clock }

	for i := range 4 * minLimiterSweep {
		_, err := svc.Verify(ctx, fmt.Sprintf("ghost-%d", i), "x")
		require.ErrorIs(t, err, ErrUnknownAccount)
	}
	assert.Len(t, svc.limiters, 4*minLimiterSweep, "buckets in use are kept")

	clock = clock.Add(time.Minute)
	_, err := svc.Verify(ctx, "ghost-final", "x")
	require.ErrorIs(t, err, ErrUnknownAccount)
	assert.Len(t, svc.limiters, 1, "refilled buckets are dropped")

	for range 5 {
		_, _ = svc.Verify(ctx, "maria", "x")
	}
	_, err = svc.Verify(ctx, "maria", "x")
	assert.ErrorIs(t, err, ErrTooManyAttempts, "limits still apply after a sweep")
}

func TestSessionService(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(database.NewMemoryStore(), testConfig())

	now := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	session, err := svc.Create(ctx, models.User{BaseUUIDModel: models.BaseUUIDModel{ID: "u-1"}, Login: "maria", IsAdmin: true})
	require.NoError(t, err)
	assert.Equal(t, now.Add(12*time.Hour), session.ExpiresAt)

	got, err := svc.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "maria", got.Login)
	assert.True(t, got.IsAdmin)

	_, err = svc.Get(ctx, "")
	assert.ErrorIs(t, err, ErrSessionRequired)
	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionExpired)

	now = now.Add(13 * time.Hour)
	_, err = svc.Get(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionExpired)

	require.NoError(t, svc.Delete(ctx, session.ID))
}

func TestTransactionService(t *testing.T) {
	db, err := database.New(testConfig())
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.SQL.Exec("CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)").Error)

	svc := NewTransactionService(db)
	ctx := context.Background()

	_, ok := GetTransaction(ctx)
	assert.False(t, ok)

	err = svc.Execute(ctx, func(txCtx context.Context) error {
		tx, ok := GetTransaction(txCtx)
		require.True(t, ok)
		require.NoError(t, tx.Exec("INSERT INTO notes (body) VALUES (?)", "kept").Error)

		return svc.Execute(txCtx, func(inner context.Context) error {
			innerTx, ok := GetTransaction(inner)
			require.True(t, ok)
			assert.Same(t, tx, innerTx)
			return nil
		})
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = svc.Execute(ctx, func(txCtx context.Context) error {
		tx, _ := GetTransaction(txCtx)
		require.NoError(t, tx.Exec("INSERT INTO notes (body) VALUES (?)", "rolled back").Error)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.SQL.Table("notes").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCacheInvalidationService_ClientChanged(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	bus := events.New(nil, testConfig())

	var mu sync.Mutex
	var received []events.Event
	bus.Subscribe(events.ChannelClients, func(event events.Event) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event)
	})

	require.NoError(t, store.Set(ctx, ClientListCacheKey, "[]", 0))
	require.NoError(t, store.Set(ctx, ClientCacheKey("c-1"), "{}", 0))
	require.NoError(t, store.Set(ctx, ClientCacheKey("c-2"), "{}", 0))

	svc := NewCacheInvalidationService(bus, store)
	svc.ClientChanged(ctx, ClientUpdated, "c-1", "u-1")

	_, found, _ := store.Get(ctx, ClientListCacheKey)
	assert.False(t, found)
	_, found, _ = store.Get(ctx, ClientCacheKey("c-1"))
	assert.False(t, found)
	_, found, _ = store.Get(ctx, ClientCacheKey("c-2"))
	assert.True(t, found)

	require.Len(t, received, 1)
	assert.Equal(t, ClientUpdated, received[0].Action)
	assert.Equal(t, "c-1", received[0].Data["clientId"])
	assert.Equal(t, "u-1", received[0].UserID)
}
