package handlers

import (
	"agency/internal/app"
	adminController "agency/internal/controllers/admin"
	"agency/internal/handlers/middleware"
	"agency/internal/logger"
	. "agency/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Handler
	controller *adminController.AdminController
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	log := logger.New("handlers").File("admin_handler")
	return &AdminHandler{
		controller: app.AdminController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group("/admin", h.middleware.AuthRequired(), h.middleware.AdminRequired())
	admin.Post("/broadcast", h.broadcast)
	admin.Post("/users", h.createUser)
	admin.Post("/cache/flush", h.flushCache)
}

func (h *AdminHandler) broadcast(c *fiber.Ctx) error {
	var request BroadcastRequest
	if err := c.BodyParser(&request); err != nil {
		h.log.Function("broadcast").Er("failed to parse broadcast request", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "failed to parse broadcast request"})
	}

	session, _ := middleware.CurrentSession(c)
	if err := h.controller.SendBroadcast(c.Context(), session, request.Message); err != nil {
		return respondError(c, "failed to send broadcast", err)
	}
	return c.JSON(fiber.Map{"message": "success"})
}

func (h *AdminHandler) createUser(c *fiber.Ctx) error {
	var request CreateUserRequest
	if err := c.BodyParser(&request); err != nil {
		h.log.Function("createUser").Er("failed to parse user request", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "failed to parse user request"})
	}

	user, err := h.controller.CreateUser(c.Context(), request)
	if err != nil {
		return respondError(c, "failed to create user", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "success", "user": user})
}

func (h *AdminHandler) flushCache(c *fiber.Ctx) error {
	if err := h.controller.FlushCaches(); err != nil {
		return respondError(c, "failed to flush caches", err)
	}
	return c.JSON(fiber.Map{"message": "success"})
}
