package handlers

import (
	"time"

	"agency/internal/app"
	userController "agency/internal/controllers/users"
	"agency/internal/handlers/middleware"
	"agency/internal/logger"
	. "agency/internal/models"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	controller *userController.UserController
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	log := logger.New("handlers").File("user_handler")
	return &UserHandler{
		controller: app.UserController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users")
	users.Post("/login", h.login)

	users.Get("/", h.middleware.AuthRequired(), h.getUser)
	users.Post("/logout", h.middleware.AuthRequired(), h.logout)
}

func (h *UserHandler) getUser(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		h.log.Function("getUser").ErMsg("No session found in locals")
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "error", "error": "failed to get user"})
	}

	user, err := h.controller.GetByID(c.Context(), session.UserID)
	if err != nil {
		return respondError(c, "failed to get user", err)
	}

	return c.JSON(fiber.Map{"message": "success", "user": user, "session": session})
}

func (h *UserHandler) logout(c *fiber.Ctx) error {
	session, _ := middleware.CurrentSession(c)
	if err := h.controller.Logout(c.Context(), session.ID); err != nil {
		return respondError(c, "failed to log out", err)
	}

	c.ClearCookie(middleware.SessionCookie)
	return c.JSON(fiber.Map{"message": "success"})
}

func (h *UserHandler) login(c *fiber.Ctx) error {
	log := h.log.Function("login")

	var loginRequest LoginRequest
	if err := c.BodyParser(&loginRequest); err != nil {
		log.Er("failed to parse login request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse login request"})
	}

	user, session, err := h.controller.Login(c.Context(), loginRequest)
	if err != nil {
		return respondError(c, "login failed", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.ID,
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.middleware.Config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   int(time.Until(session.ExpiresAt) / time.Second),
	})

	return c.JSON(fiber.Map{"message": "success", "user": user, "token": session.ID, "expiresAt": session.ExpiresAt})
}
