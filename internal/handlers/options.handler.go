package handlers

import (
	"agency/internal/app"
	"agency/internal/logger"
	. "agency/internal/models"

	"github.com/gofiber/fiber/v2"
)

type OptionsHandler struct {
	Handler
}

func NewOptionsHandler(app app.App, router fiber.Router) *OptionsHandler {
	return &OptionsHandler{
		Handler: Handler{
			log:        logger.New("handlers").File("options_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *OptionsHandler) Register() {
	options := h.router.Group("/options")
	options.Get("/", h.all)
	options.Get("/:list", h.list)
}

func (h *OptionsHandler) all(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "success", "options": AllOptions()})
}

func (h *OptionsHandler) list(c *fiber.Ctx) error {
	name := OptionList(c.Params("list"))
	values := OptionValues(name)
	if values == nil {
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"message": "unknown option list", "error": string(name)})
	}

	return c.JSON(fiber.Map{"message": "success", "list": name, "values": FilterOptions(values, c.Query("q"))})
}
