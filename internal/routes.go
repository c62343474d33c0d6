package internal

import (
	"net/http"
	"smd/internal/controllers"
	"smd/internal/providers"
	"smd/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/dashboard", http.HandlerFunc(apiController.GetDashboard))
	routers.Get("/integrations", http.HandlerFunc(apiController.GetIntegrations))
	routers.Delete("/integrations/{platform}/{id}", http.HandlerFunc(apiController.DeleteIntegration))
	routers.Get("/auth/{platform}/login", http.HandlerFunc(apiController.GetConnectURL))
	routers.Post("/sync", http.HandlerFunc(apiController.TriggerSync))
	routers.Get("/sync/status", http.HandlerFunc(apiController.GetSyncStatus))
	return routers
}
