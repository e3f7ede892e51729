package middleware

import (
	"context"
	"errors"
	"strings"

	"spotless/internal/models"
	"spotless/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthContextKey is used to store auth info in context
type AuthContextKey string

const (
	ProfileKey       AuthContextKey = "profile"
	ProfileKeyFiber  string         = "Profile" // Fiber context key (string)
	IdentityKeyFiber string         = "Identity"
)

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" || tokenParts[1] == "" {
		return "", false
	}

	return tokenParts[1], true
}

// RequireIdentity validates the bearer token without requiring a profile.
// Used by the bootstrap endpoint, where the identity exists but the
// profile does not yet.
func (m *Middleware) RequireIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := m.log.TraceFromContext(c.Context()).Function("RequireIdentity")

		token, ok := bearerToken(c)
		if !ok {
			log.Info("missing or malformed authorization header")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		identity, err := m.tokenService.Validate(token)
		if err != nil {
			log.Info("token validation failed", "error", err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(IdentityKeyFiber, identity)
		return c.Next()
	}
}

// RequireAuth validates the bearer token and resolves the caller's profile.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := m.log.TraceFromContext(c.Context()).Function("RequireAuth")

		token, ok := bearerToken(c)
		if !ok {
			log.Info("missing or malformed authorization header")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		identity, err := m.tokenService.Validate(token)
		if err != nil {
			log.Info("token validation failed", "error", err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		profile, err := m.profileRepo.GetByExternalID(c.Context(), identity.Subject)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				log.Info("no profile for identity", "subject", identity.Subject)
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Profile not found",
				})
			}
			log.Er("failed to resolve profile", err, "subject", identity.Subject)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}

		c.Locals(ProfileKeyFiber, profile)
		c.Locals(IdentityKeyFiber, identity)

		// Add to Go context for services (preserve trace ID from TraceID middleware)
		ctx := context.WithValue(c.UserContext(), ProfileKey, profile)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// GetProfile extracts the authenticated profile from Fiber context
func GetProfile(c *fiber.Ctx) *models.Profile {
	profile, ok := c.Locals(ProfileKeyFiber).(*models.Profile)
	if !ok {
		return nil
	}
	return profile
}

// GetIdentity extracts the validated token identity from Fiber context
func GetIdentity(c *fiber.Ctx) *services.Identity {
	identity, ok := c.Locals(IdentityKeyFiber).(*services.Identity)
	if !ok {
		return nil
	}
	return identity
}
