package middleware

import (
	"context"
	"errors"
	"strings"

	"agency/config"
	"agency/internal/logger"
	"agency/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	SessionCookie = "agency_session"
	SessionQuery  = "session"

	LocalSession = "session"
	LocalUserID  = "userID"
)

type SessionReader interface {
	Get(ctx context.Context, id string) (services.Session, error)
}

type Middleware struct {
	sessions SessionReader
	Config   config.Config
	log      logger.Logger
}

func New(sessions SessionReader, config config.Config) Middleware {
	return Middleware{
		sessions: sessions,
		Config:   config,
		log:      logger.New("middleware"),
	}
}

// SessionID reads the session id from the Authorization bearer header, the
// session cookie or, for websocket upgrades, the session query parameter.
func SessionID(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie := c.Cookies(SessionCookie); cookie != "" {
		return cookie
	}
	return c.Query(SessionQuery)
}

func (m Middleware) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := m.log.Function("AuthRequired")

		session, err := m.sessions.Get(c.Context(), SessionID(c))
		switch {
		case errors.Is(err, services.ErrSessionRequired), errors.Is(err, services.ErrSessionExpired):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
		case err != nil:
			log.Er("failed to load session", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load session"})
		}

		c.Locals(LocalSession, session)
		c.Locals(LocalUserID, session.UserID)
		return c.Next()
	}
}

func (m Middleware) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := c.Locals(LocalSession).(services.Session)
		if !ok || !session.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin access required"})
		}
		return c.Next()
	}
}

func CurrentSession(c *fiber.Ctx) (services.Session, bool) {
	session, ok := c.Locals(LocalSession).(services.Session)
	return session, ok
}
