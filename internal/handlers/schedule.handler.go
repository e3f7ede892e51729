package handlers

import (
	"time"

	"spotless/internal/app"
	scheduleController "spotless/internal/controllers/schedule"
	"spotless/internal/models"
	"spotless/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type ScheduleHandler struct {
	Handler
	controller scheduleController.ScheduleControllerInterface
}

func NewScheduleHandler(app app.App, router fiber.Router) *ScheduleHandler {
	log := logger.New("handlers").File("schedule_handler")
	return &ScheduleHandler{
		controller: app.Controllers.Schedule,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ScheduleHandler) Register() {
	manage := h.middleware.RequireRoles(models.RoleOwner, models.RoleAdmin)

	schedules := h.router.Group("/schedules", h.middleware.RequireAuth(), h.middleware.RequireCompany())
	schedules.Get("/", h.listSchedules)
	schedules.Get("/:id", h.getSchedule)
	schedules.Post("/", manage, h.createSchedule)
	schedules.Post("/conflict-check", manage, h.checkConflict)
	schedules.Patch("/:id/status", manage, h.transitionStatus)
	// Cleaners start their own jobs from the field.
	schedules.Post("/:id/start", h.startJob)

	cleaners := h.router.Group("/cleaners", h.middleware.RequireAuth(), h.middleware.RequireCompany())
	cleaners.Get("/:id/schedules", h.listCleanerSchedules)
}

func (h *ScheduleHandler) listSchedules(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("listSchedules")

	filter, err := parseDateRange(c)
	if err != nil {
		return respondError(c, log, err)
	}

	schedules, err := h.controller.ListSchedules(c.UserContext(), companyID(c), filter)
	if err != nil {
		return respondError(c, log, err)
	}
	return c.JSON(fiber.Map{"schedules": schedules})
}

// parseDateRange reads optional from/to query params as YYYY-MM-DD dates.
func parseDateRange(c *fiber.Ctx) (repositories.ScheduleListFilter, error) {
	var filter repositories.ScheduleListFilter

	for name, target := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		value := c.Query(name)
		if value == "" {
			continue
		}
		parsed, err := time.Parse("2006-01-02", value)
		if err != nil {
			return filter, &models.MissingFieldError{Field: name}
		}
		*target = &parsed
	}

	return filter, nil
}

func (h *ScheduleHandler) getSchedule(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("getSchedule")

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	schedule, err := h.controller.GetSchedule(c.UserContext(), companyID(c), id)
	if err != nil {
		return respondError(c, log, err)
	}
	return c.JSON(fiber.Map{"schedule": schedule})
}

func (h *ScheduleHandler) createSchedule(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("createSchedule")

	var req scheduleController.CreateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	schedule, err := h.controller.CreateSchedule(c.UserContext(), companyID(c), req)
	if err != nil {
		return respondError(c, log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"schedule": schedule})
}

func (h *ScheduleHandler) checkConflict(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("checkConflict")

	var req scheduleController.ConflictCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.controller.CheckConflict(c.UserContext(), companyID(c), req)
	if err != nil {
		return respondError(c, log, err)
	}
	return c.JSON(result)
}

type transitionRequest struct {
	Status models.ScheduleStatus `json:"status"`
}

func (h *ScheduleHandler) transitionStatus(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("transitionStatus")

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	var req transitionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	schedule, err := h.controller.TransitionStatus(c.UserContext(), companyID(c), id, req.Status)
	if err != nil {
		return respondError(c, log, err)
	}
	return c.JSON(fiber.Map{"schedule": schedule})
}

func (h *ScheduleHandler) startJob(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("startJob")

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	schedule, err := h.controller.StartJob(c.UserContext(), companyID(c), id)
	if err != nil {
		return respondError(c, log, err)
	}
	return c.JSON(fiber.Map{"schedule": schedule})
}

func (h *ScheduleHandler) listCleanerSchedules(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("listCleanerSchedules")

	cleanerID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	schedules, err := h.controller.ListCleanerSchedules(c.UserContext(), companyID(c), cleanerID)
	if err != nil {
		return respondError(c, log, err)
	}
	return c.JSON(fiber.Map{"schedules": schedules})
}
