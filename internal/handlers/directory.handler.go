package handlers

import (
	"spotless/internal/app"
	directoryController "spotless/internal/controllers/directory"
	"spotless/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type DirectoryHandler struct {
	Handler
	controller directoryController.DirectoryControllerInterface
}

func NewDirectoryHandler(app app.App, router fiber.Router) *DirectoryHandler {
	log := logger.New("handlers").File("directory_handler")
	return &DirectoryHandler{
		controller: app.Controllers.Directory,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *DirectoryHandler) Register() {
	manage := h.middleware.RequireRoles(models.RoleOwner, models.RoleAdmin)

	cleaners := h.router.Group("/cleaners", h.middleware.RequireAuth(), h.middleware.RequireCompany())
	cleaners.Get("/", h.listCleaners)
	cleaners.Get("/:id", h.getCleaner)
	cleaners.Post("/", manage, h.createCleaner)
	cleaners.Put("/:id", manage, h.updateCleaner)
	cleaners.Delete("/:id", manage, h.deleteCleaner)

	clients := h.router.Group("/clients", h.middleware.RequireAuth(), h.middleware.RequireCompany())
	clients.Get("/", h.listClients)
	clients.Get("/:id", h.getClient)
	clients.Post("/", manage, h.createClient)
	clients.Put("/:id", manage, h.updateClient)
	clients.Delete("/:id", manage, h.deleteClient)
}

func (h *DirectoryHandler) listCleaners(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("listCleaners")

	cleaners, err := h.controller.ListCleaners(c.UserContext(), companyID(c))
	if err != nil {
		return respondError(c, log, err)
	}
	return c.JSON(fiber.Map{"cleaners": cleaners})
}

func (h *DirectoryHandler) getCleaner(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("getCleaner")

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	cleaner, err := h.controller.GetCleaner(c.UserContext(), companyID(c), id)
	if err != nil {
		return respondError(c, log, err)
	}
	return c.JSON(fiber.Map{"cleaner": cleaner})
}

func (h *DirectoryHandler) createCleaner(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("createCleaner")

	var req directoryController.CleanerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	cleaner, err := h.controller.CreateCleaner(c.UserContext(), companyID(c), req)
	if err != nil {
		return respondError(c, log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"cleaner": cleaner})
}

func (h *DirectoryHandler) updateCleaner(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("updateCleaner")

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	var req directoryController.CleanerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	cleaner, err := h.controller.UpdateCleaner(c.UserContext(), companyID(c), id, req)
	if err != nil {
		return respondError(c, log, err)
	}
	return c.JSON(fiber.Map{"cleaner": cleaner})
}

func (h *DirectoryHandler) deleteCleaner(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("deleteCleaner")

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	if err := h.controller.DeleteCleaner(c.UserContext(), companyID(c), id); err != nil {
		return respondError(c, log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DirectoryHandler) listClients(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("listClients")

	clients, err := h.controller.ListClients(c.UserContext(), companyID(c))
	if err != nil {
		return respondError(c, log, err)
	}
	return c.JSON(fiber.Map{"clients": clients})
}

func (h *DirectoryHandler) getClient(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("getClient")

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	client, err := h.controller.GetClient(c.UserContext(), companyID(c), id)
	if err != nil {
		return respondError(c, log, err)
	}
	return c.JSON(fiber.Map{"client": client})
}

func (h *DirectoryHandler) createClient(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("createClient")

	var req directoryController.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	client, err := h.controller.CreateClient(c.UserContext(), companyID(c), req)
	if err != nil {
		return respondError(c, log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"client": client})
}

func (h *DirectoryHandler) updateClient(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("updateClient")

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	var req directoryController.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	client, err := h.controller.UpdateClient(c.UserContext(), companyID(c), id, req)
	if err != nil {
		return respondError(c, log, err)
	}
	return c.JSON(fiber.Map{"client": client})
}

func (h *DirectoryHandler) deleteClient(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("deleteClient")

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	if err := h.controller.DeleteClient(c.UserContext(), companyID(c), id); err != nil {
		return respondError(c, log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
