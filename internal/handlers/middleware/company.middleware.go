package middleware

import (
	"time"

	"spotless/internal/models"

	"github.com/gofiber/fiber/v2"
)

// RequireCompany ensures the caller belongs to a company that is allowed
// on the platform. Blocked companies and lapsed trials get 403 regardless
// of what the daily sweep has gotten to.
func (m *Middleware) RequireCompany() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := m.log.TraceFromContext(c.Context()).Function("RequireCompany")

		profile := GetProfile(c)
		if profile == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		if profile.CompanyID == nil {
			log.Info("profile has no company", "profileID", profile.ID)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "No company for this profile",
			})
		}

		company, err := m.companyRepo.GetByID(c.Context(), *profile.CompanyID)
		if err != nil {
			log.Er("failed to load company", err, "companyID", *profile.CompanyID)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}

		if company.IsBlocked {
			log.Info("blocked company rejected", "companyID", company.ID)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Company is blocked",
			})
		}

		if company.SubscriptionStatus == models.SubscriptionExpired || company.TrialExpired(time.Now()) {
			log.Info("expired subscription rejected", "companyID", company.ID)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Subscription expired",
			})
		}

		c.Locals(CompanyKeyFiber, company)
		return c.Next()
	}
}

const CompanyKeyFiber string = "Company"

// GetCompany extracts the caller's company from Fiber context
func GetCompany(c *fiber.Ctx) *models.Company {
	company, ok := c.Locals(CompanyKeyFiber).(*models.Company)
	if !ok {
		return nil
	}
	return company
}

// RequireRoles restricts a route to the given profile roles.
func (m *Middleware) RequireRoles(roles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile := GetProfile(c)
		if profile == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		for _, role := range roles {
			if profile.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient role",
		})
	}
}

// RequireSuperadmin restricts a route to the platform superadmin.
func (m *Middleware) RequireSuperadmin() fiber.Handler {
	return m.RequireRoles(models.RoleSuperadmin)
}
