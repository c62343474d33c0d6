//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"smd/internal"
	"smd/internal/controllers"
	"smd/internal/gateway"
	"smd/internal/providers"
	"smd/internal/services"
	"smd/internal/snapshot"
	"smd/internal/structures"
	"smd/internal/syncer"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		gateway.NewGatewayProvider,
		services.NewDashboardService,
		syncer.NewTrigger,

		snapshot.NewZstdCompressor,
		snapshot.NewFileManager,
		snapshot.NewScheduler,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
