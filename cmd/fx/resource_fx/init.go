package resource_fx

import (
	"go.uber.org/fx"

	"holou/internal/services"
)

var Module = fx.Provide(provideResourceService)

func provideResourceService() services.ResourceServiceInterface {
	return services.NewResourceService()
}
