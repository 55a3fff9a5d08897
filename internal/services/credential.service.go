package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"agency/config"
	"agency/internal/database"
	"agency/internal/logger"
	"agency/internal/models"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// minLimiterSweep is the number of tracked logins below which idle
// limiters are not swept.
const minLimiterSweep = 1024

type AccountFinder interface {
	GetByLogin(ctx context.Context, login string) (*models.User, error)
}

// DeleteGrant is what a deletion token stands for: permission to delete one
// client until ExpiresAt.
type DeleteGrant struct {
	Token     string    `json:"-"`
	ClientID  string    `json:"clientId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CredentialService re-verifies a staff password and hands out the
// single-use token a client deletion must present.
type CredentialService struct {
	accounts          AccountFinder
	tokens            database.KeyValueStore
	tokenTTL          time.Duration
	attemptsPerMinute int
	now               func() time.Time
	log               logger.Logger

	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	nextSweep int
}

func NewCredentialService(
	accounts AccountFinder,
	tokens database.KeyValueStore,
	config config.Config,
) *CredentialService {
	return &CredentialService{
		accounts:          accounts,
		tokens:            tokens,
		tokenTTL:          config.DeleteTokenTTL(),
		attemptsPerMinute: config.CredentialAttemptsPerMinute(),
		now:               time.Now,
		log:               logger.New("CredentialService"),
		limiters:          make(map[string]*rate.Limiter),
		nextSweep:         minLimiterSweep,
	}
}

// allow spends one attempt for login.
func (s *CredentialService) allow(login string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if len(s.limiters) >= s.nextSweep {
		s.sweepLimiters(now)
	}

	key := strings.ToLower(login)
	limiter, ok := s.limiters[key]
	if !ok {
		every := time.Minute / time.Duration(s.attemptsPerMinute)
		limiter = rate.NewLimiter(rate.Every(every), s.attemptsPerMinute)
		s.limiters[strings.Clone(key)] = limiter
	}
	return limiter.AllowN(now, 1)
}

// sweepLimiters forgets logins whose bucket has refilled; a fresh limiter
// behaves identically. Sweeps are spaced so their cost stays amortized.
func (s *CredentialService) sweepLimiters(now time.Time) {
	for key, limiter := range s.limiters {
		if limiter.TokensAt(now) >= float64(limiter.Burst()) {
			delete(s.limiters, key)
		}
	}
	s.nextSweep = max(minLimiterSweep, 2*len(s.limiters))
}

// Verify checks password against the account for login. Attempts are
// counted per login whether or not they succeed.
func (s *CredentialService) Verify(ctx context.Context, login, password string) (*models.User, error) {
	log := s.log.Function("Verify")

	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrCredentialRequired
	}

	if !s.allow(login) {
		log.Warn("credential attempts exhausted", "login", login)
		return nil, ErrTooManyAttempts
	}

	user, err := s.accounts.GetByLogin(ctx, login)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUnknownAccount
	}
	if err != nil {
		return nil, log.Err("failed to look up account", err, "login", login)
	}

	if !user.CheckPassword(password) {
		log.Info("wrong credential", "login", login)
		return nil, ErrWrongCredential
	}

	return user, nil
}

func (s *CredentialService) IssueDeleteToken(
	ctx context.Context,
	login, password, clientID string,
) (models.DeleteTokenResponse, error) {
	log := s.log.Function("IssueDeleteToken")

	if _, err := s.Verify(ctx, login, password); err != nil {
		return models.DeleteTokenResponse{}, err
	}

	grant := DeleteGrant{
		Token:     uuid.NewString(),
		ClientID:  strings.Clone(clientID),
		ExpiresAt: s.now().Add(s.tokenTTL),
	}
	if err := s.storeGrant(ctx, grant, s.tokenTTL); err != nil {
		return models.DeleteTokenResponse{}, log.Err("failed to store deletion token", err, "clientID", clientID)
	}

	log.Info("issued deletion token", "clientID", clientID, "login", login)
	return models.DeleteTokenResponse{
		Token:     grant.Token,
		ClientID:  grant.ClientID,
		ExpiresIn: int(s.tokenTTL / time.Second),
	}, nil
}

// ConsumeDeleteToken spends token. It fails when the token is unknown,
// expired or was issued for another client; in every case the token is
// gone afterwards.
func (s *CredentialService) ConsumeDeleteToken(ctx context.Context, token, clientID string) (DeleteGrant, error) {
	log := s.log.Function("ConsumeDeleteToken")

	token = strings.TrimSpace(token)
	if token == "" {
		return DeleteGrant{}, ErrTokenRequired
	}

	raw, found, err := s.tokens.Take(ctx, deleteTokenKey(token))
	if err != nil {
		return DeleteGrant{}, log.Err("failed to read deletion token", err, "clientID", clientID)
	}

	var grant DeleteGrant
	if found {
		if err := json.Unmarshal([]byte(raw), &grant); err != nil {
			log.Er("discarding unreadable deletion token", err, "clientID", clientID)
			found = false
		}
	}
	if !found || grant.ClientID != clientID {
		log.Warn("rejected deletion token", "clientID", clientID, "found", found)
		return DeleteGrant{}, ErrInvalidToken
	}

	grant.Token = token
	return grant, nil
}

// RestoreDeleteToken puts back a consumed grant whose deletion did not go
// through, for whatever remains of its lifetime.
func (s *CredentialService) RestoreDeleteToken(ctx context.Context, grant DeleteGrant) error {
	remaining := grant.ExpiresAt.Sub(s.now())
	if grant.Token == "" || remaining <= 0 {
		return nil
	}

	if err := s.storeGrant(ctx, grant, remaining); err != nil {
		return s.log.Function("RestoreDeleteToken").Err("failed to restore deletion token", err, "clientID", grant.ClientID)
	}
	return nil
}

func (s *CredentialService) storeGrant(ctx context.Context, grant DeleteGrant, ttl time.Duration) error {
	payload, err := json.Marshal(grant)
	if err != nil {
		return err
	}
	return s.tokens.Set(ctx, deleteTokenKey(grant.Token), string(payload), ttl)
}
