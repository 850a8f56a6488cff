package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/octavian202/public-transport-management/pkg/api/routes"
)

func SetupServer(listen string) error {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.StopsRouter(group.Group("/stops"))
	routes.RoutesRouter(group.Group("/routes"))
	routes.TripsRouter(group.Group("/trips"))

	return webApp.Listen(listen)
}
