package handlers

import (
	"agency/internal/app"
	clientController "agency/internal/controllers/clients"
	"agency/internal/handlers/middleware"
	"agency/internal/logger"
	. "agency/internal/models"

	"github.com/gofiber/fiber/v2"
)

const DeleteTokenHeader = "X-Delete-Token"

type ClientHandler struct {
	Handler
	controller *clientController.ClientController
}

func NewClientHandler(app app.App, router fiber.Router) *ClientHandler {
	log := logger.New("handlers").File("client_handler")
	return &ClientHandler{
		controller: app.ClientController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ClientHandler) Register() {
	clients := h.router.Group("/clients", h.middleware.AuthRequired())
	clients.Get("/", h.list)
	clients.Get("/stats", h.stats)
	clients.Get("/:id", h.get)
	clients.Post("/", h.create)
	clients.Put("/:id", h.update)
	clients.Post("/:id/delete-token", h.issueDeleteToken)
	clients.Delete("/:id", h.delete)
}

func (h *ClientHandler) list(c *fiber.Ctx) error {
	clients, err := h.controller.List(c.Context(), c.Query("q"))
	if err != nil {
		return respondError(c, "failed to list clients", err)
	}
	return c.JSON(fiber.Map{"message": "success", "clients": clients})
}

func (h *ClientHandler) stats(c *fiber.Ctx) error {
	stats, err := h.controller.Stats(c.Context())
	if err != nil {
		return respondError(c, "failed to load client stats", err)
	}
	return c.JSON(fiber.Map{"message": "success", "stats": stats})
}

func (h *ClientHandler) get(c *fiber.Ctx) error {
	client, err := h.controller.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, "failed to get client", err)
	}
	return c.JSON(fiber.Map{"message": "success", "client": client})
}

func (h *ClientHandler) create(c *fiber.Ctx) error {
	var client Client
	if err := c.BodyParser(&client); err != nil {
		h.log.Function("create").Er("failed to parse client", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "failed to parse client"})
	}
	client.ID = ""

	session, _ := middleware.CurrentSession(c)
	created, err := h.controller.Create(c.Context(), client, session.UserID)
	if err != nil {
		return respondError(c, "failed to create client", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "success", "client": created})
}

func (h *ClientHandler) update(c *fiber.Ctx) error {
	var client Client
	if err := c.BodyParser(&client); err != nil {
		h.log.Function("update").Er("failed to parse client", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "failed to parse client"})
	}

	session, _ := middleware.CurrentSession(c)
	updated, err := h.controller.Update(c.Context(), c.Params("id"), client, session.UserID)
	if err != nil {
		return respondError(c, "failed to update client", err)
	}
	return c.JSON(fiber.Map{"message": "success", "client": updated})
}

// issueDeleteToken re-checks the signed-in staff member's own password.
func (h *ClientHandler) issueDeleteToken(c *fiber.Ctx) error {
	var request DeleteTokenRequest
	if err := c.BodyParser(&request); err != nil {
		h.log.Function("issueDeleteToken").Er("failed to parse delete token request", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "failed to parse request"})
	}

	session, _ := middleware.CurrentSession(c)
	response, err := h.controller.IssueDeleteToken(c.Context(), c.Params("id"), session.Login, request.Password)
	if err != nil {
		return respondError(c, "failed to confirm credential", err)
	}
	return c.JSON(fiber.Map{"message": "success", "deleteToken": response})
}

func (h *ClientHandler) delete(c *fiber.Ctx) error {
	session, _ := middleware.CurrentSession(c)
	err := h.controller.ConfirmDeletion(c.Context(), c.Params("id"), c.Get(DeleteTokenHeader), session.UserID)
	if err != nil {
		return respondError(c, "failed to delete client", err)
	}
	return c.JSON(fiber.Map{"message": "success"})
}
