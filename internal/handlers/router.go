package handlers

import (
	"spotless/internal/app"
	"spotless/internal/handlers/middleware"
	"spotless/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	router.Use(app.Middleware.TraceID())

	setupWebSocketRoute(router, app)

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewCompanyHandler(*app, api).Register()
	NewDirectoryHandler(*app, api).Register()
	NewScheduleHandler(*app, api).Register()
	NewReportHandler(*app, api).Register()

	return nil
}

// setupWebSocketRoute authenticates the upgrade via a token query
// parameter (browsers cannot set headers on websocket requests) and hands
// the connection to the hub with its tenant scope resolved.
func setupWebSocketRoute(router fiber.Router, app *app.App) {
	log := logger.New("handlers").File("websocket_route")

	router.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		identity, err := app.Services.Token.Validate(c.Query("token"))
		if err != nil {
			log.Info("websocket token rejected", "error", err.Error())
			return fiber.ErrUnauthorized
		}

		profile, err := app.Repos.Profile.GetByExternalID(c.Context(), identity.Subject)
		if err != nil {
			log.Info("no profile for websocket identity", "subject", identity.Subject)
			return fiber.ErrUnauthorized
		}

		c.Locals("profile", profile)
		return c.Next()
	})

	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		profile, ok := c.Locals("profile").(*models.Profile)
		if !ok {
			_ = c.Close()
			return
		}
		app.Websocket.HandleWebSocket(c, profile)
	}))
}
