package handlers

import (
	"agency/internal/app"
	formController "agency/internal/controllers/forms"
	"agency/internal/logger"
	. "agency/internal/models"

	"github.com/gofiber/fiber/v2"
)

type FormHandler struct {
	Handler
	controller *formController.FormController
}

func NewFormHandler(app app.App, router fiber.Router) *FormHandler {
	log := logger.New("handlers").File("form_handler")
	return &FormHandler{
		controller: app.FormController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *FormHandler) Register() {
	forms := h.router.Group("/forms", h.middleware.AuthRequired())
	forms.Get("/client", h.newClient)
	forms.Post("/client/edit", h.edit)
	forms.Post("/dependents", h.dependents)
}

func (h *FormHandler) newClient(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "success", "client": h.controller.NewClient()})
}

func (h *FormHandler) edit(c *fiber.Ctx) error {
	var request ClientEditRequest
	if err := c.BodyParser(&request); err != nil {
		h.log.Function("edit").Er("failed to parse edit request", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "failed to parse edit request"})
	}

	client, err := h.controller.Edit(request)
	if err != nil {
		return respondError(c, "failed to apply edit", err)
	}
	return c.JSON(fiber.Map{"message": "success", "client": client})
}

func (h *FormHandler) dependents(c *fiber.Ctx) error {
	var request DependentListRequest
	if err := c.BodyParser(&request); err != nil {
		h.log.Function("dependents").Er("failed to parse dependent request", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "failed to parse dependent request"})
	}

	response, err := h.controller.Dependents(request)
	if err != nil {
		return respondError(c, "failed to update dependents", err)
	}
	return c.JSON(fiber.Map{"message": "success", "dependents": response})
}
