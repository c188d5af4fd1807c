package controllers_fx

import (
	"go.uber.org/fx"

	"holou/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewChatController),
	fx.Provide(controllers.NewResultsController),
	fx.Provide(controllers.NewAvatarController),
	fx.Provide(controllers.NewContactController),
	fx.Provide(controllers.NewResourceController),
	fx.Provide(controllers.NewStaffController),
)
