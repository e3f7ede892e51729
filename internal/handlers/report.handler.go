package handlers

import (
	"spotless/internal/app"
	reportController "spotless/internal/controllers/report"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	Handler
	controller reportController.ReportControllerInterface
}

func NewReportHandler(app app.App, router fiber.Router) *ReportHandler {
	log := logger.New("handlers").File("report_handler")
	return &ReportHandler{
		controller: app.Controllers.Report,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ReportHandler) Register() {
	schedules := h.router.Group("/schedules", h.middleware.RequireAuth(), h.middleware.RequireCompany())
	schedules.Post("/:id/complete", h.completeJob)
	schedules.Get("/:id/report", h.getReport)

	reports := h.router.Group("/reports", h.middleware.RequireAuth(), h.middleware.RequireCompany())
	reports.Get("/", h.listReports)
}

func (h *ReportHandler) completeJob(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("completeJob")

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	var req reportController.CompleteJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	report, err := h.controller.CompleteJob(c.UserContext(), companyID(c), id, req)
	if err != nil {
		return respondError(c, log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"report": report})
}

func (h *ReportHandler) getReport(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("getReport")

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	report, err := h.controller.GetReportForSchedule(c.UserContext(), companyID(c), id)
	if err != nil {
		return respondError(c, log, err)
	}
	return c.JSON(fiber.Map{"report": report})
}

func (h *ReportHandler) listReports(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("listReports")

	reports, err := h.controller.ListReports(c.UserContext(), companyID(c))
	if err != nil {
		return respondError(c, log, err)
	}
	return c.JSON(fiber.Map{"reports": reports})
}
