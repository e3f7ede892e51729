package handlers

import (
	"spotless/internal/app"
	companyController "spotless/internal/controllers/company"
	"spotless/internal/handlers/middleware"
	"spotless/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type CompanyHandler struct {
	Handler
	controller companyController.CompanyControllerInterface
}

func NewCompanyHandler(app app.App, router fiber.Router) *CompanyHandler {
	log := logger.New("handlers").File("company_handler")
	return &CompanyHandler{
		controller: app.Controllers.Company,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *CompanyHandler) Register() {
	companies := h.router.Group("/companies")

	// Bootstrap needs a valid identity but no profile yet.
	companies.Post("/bootstrap", h.middleware.RequireIdentity(), h.bootstrap)

	authed := companies.Group("/", h.middleware.RequireAuth())
	authed.Get("/me", h.middleware.RequireCompany(), h.getOwnCompany)

	admin := authed.Group("/", h.middleware.RequireSuperadmin())
	admin.Get("/", h.listCompanies)
	admin.Post("/:id/block", h.setBlocked(true))
	admin.Post("/:id/unblock", h.setBlocked(false))

	profiles := h.router.Group("/profiles", h.middleware.RequireAuth(), h.middleware.RequireCompany())
	profiles.Get("/", h.listProfiles)
	profiles.Patch("/me", h.updateOwnProfile)
	profiles.Post("/",
		h.middleware.RequireRoles(models.RoleOwner, models.RoleAdmin),
		h.createProfile,
	)
}

func (h *CompanyHandler) bootstrap(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("bootstrap")

	identity := middleware.GetIdentity(c)
	if identity == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	}

	var req companyController.BootstrapRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	company, profile, err := h.controller.Bootstrap(c.UserContext(), *identity, req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"company": company,
		"profile": profile,
	})
}

func (h *CompanyHandler) getOwnCompany(c *fiber.Ctx) error {
	company := middleware.GetCompany(c)
	if company == nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No company for this profile"})
	}
	return c.JSON(fiber.Map{"company": company})
}

func (h *CompanyHandler) listCompanies(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("listCompanies")

	companies, err := h.controller.ListCompanies(c.UserContext())
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"companies": companies})
}

func (h *CompanyHandler) setBlocked(blocked bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := h.log.TraceFromContext(c.Context()).Function("setBlocked")

		companyID, err := parseUUIDParam(c, "id")
		if err != nil {
			return respondError(c, log, err)
		}

		if err := h.controller.SetBlocked(c.UserContext(), companyID, blocked); err != nil {
			return respondError(c, log, err)
		}

		return c.JSON(fiber.Map{"blocked": blocked})
	}
}

func (h *CompanyHandler) listProfiles(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("listProfiles")

	profile := middleware.GetProfile(c)
	profiles, err := h.controller.ListProfiles(c.UserContext(), *profile.CompanyID)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"profiles": profiles})
}

func (h *CompanyHandler) createProfile(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("createProfile")

	profile := middleware.GetProfile(c)

	var req companyController.CreateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := h.controller.CreateProfile(c.UserContext(), *profile.CompanyID, req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"profile": created})
}

func (h *CompanyHandler) updateOwnProfile(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.Context()).Function("updateOwnProfile")

	profile := middleware.GetProfile(c)

	var req companyController.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updated, err := h.controller.UpdateProfile(c.UserContext(), profile, req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"profile": updated})
}
