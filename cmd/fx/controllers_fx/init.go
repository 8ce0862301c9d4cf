package controllers_fx

import (
	"go.uber.org/fx"
	"trustly/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewBusinessController),
	fx.Provide(controllers.NewCampaignController),
	fx.Provide(controllers.NewDispatchController),
	fx.Provide(controllers.NewPublicController),
	fx.Provide(controllers.NewModerationController),
	fx.Provide(controllers.NewAnalyticsController),
	fx.Provide(controllers.NewNotificationController))
