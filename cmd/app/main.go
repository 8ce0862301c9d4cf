package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"trustly/cmd/fx/account_fx"
	"trustly/cmd/fx/analytics_fx"
	"trustly/cmd/fx/campaign_fx"
	"trustly/cmd/fx/config_fx"
	"trustly/cmd/fx/controllers_fx"
	"trustly/cmd/fx/db_fx"
	"trustly/cmd/fx/dispatch_fx"
	"trustly/cmd/fx/mail_fx"
	"trustly/cmd/fx/memcache_fx"
	"trustly/cmd/fx/moderation_fx"
	"trustly/cmd/fx/public_fx"
	"trustly/cmd/fx/realtime_fx"
	"trustly/cmd/fx/storage_fx"
	"trustly/internal/api/controllers"
	"trustly/pkg/config"
	"trustly/pkg/metrics"
	"trustly/pkg/middleware"
	"trustly/pkg/storage"
	"trustly/pkg/utils"
)

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		storage_fx.Module,
		mail_fx.Module,
		account_fx.Module,
		campaign_fx.Module,
		dispatch_fx.Module,
		moderation_fx.Module,
		public_fx.Module,
		analytics_fx.Module,
		realtime_fx.Module,
		controllers_fx.Module,

		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				log.Info("starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("HTTP server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

type Controllers struct {
	fx.In

	Account      *controllers.AccountController
	Business     *controllers.BusinessController
	Campaign     *controllers.CampaignController
	Dispatch     *controllers.DispatchController
	Public       *controllers.PublicController
	Moderation   *controllers.ModerationController
	Analytics    *controllers.AnalyticsController
	Notification *controllers.NotificationController
}

func ProvideRouter(cfg *config.Config, log *zap.Logger, tokens *utils.TokenManager, store storage.ObjectStore, ctrl Controllers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = 32 << 20
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middleware.Metrics())
	r.Use(middleware.BodyLimit(cfg.MaxUploadBytes))

	r.GET("/healthz", func(c *gin.Context) { utils.RespondSuccess(c, nil, "ok") })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if local, ok := store.(*storage.LocalStore); ok {
		r.Static("/storage", local.Root())
	}

	RegisterRoutes(r, middleware.JWTAuthMiddleware(tokens), ctrl)
	return r
}

func RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc, ctrl Controllers) {
	authGroup := r.Group("/auth")
	authGroup.POST("/sign-up", ctrl.Account.SignUp)
	authGroup.POST("/sign-in", ctrl.Account.SignIn)
	authGroup.GET("/me", auth, ctrl.Account.Me)

	businessGroup := r.Group("/business", auth)
	businessGroup.GET("", ctrl.Business.GetBusiness)
	businessGroup.PUT("", ctrl.Business.UpdateBusiness)
	businessGroup.POST("/logo", ctrl.Business.UploadLogo)
	businessGroup.PUT("/branding", ctrl.Business.UpdateBranding)
	businessGroup.GET("/email-settings", ctrl.Business.GetEmailSettings)
	businessGroup.PUT("/email-settings", ctrl.Business.UpdateEmailSettings)
	businessGroup.POST("/email-settings/test", ctrl.Business.SendTestEmail)

	campaignGroup := r.Group("/campaigns", auth)
	campaignGroup.GET("", ctrl.Campaign.ListCampaigns)
	campaignGroup.POST("", ctrl.Campaign.CreateCampaign)
	campaignGroup.GET("/by-slug/:slug", ctrl.Campaign.GetCampaignDashboard)
	campaignGroup.GET("/:id", ctrl.Campaign.GetCampaign)
	campaignGroup.PUT("/:id", ctrl.Campaign.UpdateCampaign)
	campaignGroup.DELETE("/:id", ctrl.Campaign.DeleteCampaign)
	campaignGroup.POST("/:id/welcome-video", ctrl.Campaign.UploadWelcomeVideo)
	campaignGroup.GET("/:id/form-config", ctrl.Campaign.GetFormConfig)
	campaignGroup.PUT("/:id/form-config", ctrl.Campaign.SaveFormConfig)

	dispatchGroup := r.Group("/dispatches", auth)
	dispatchGroup.POST("", ctrl.Dispatch.Dispatch)
	dispatchGroup.POST("/csv", ctrl.Dispatch.DispatchCSV)
	dispatchGroup.POST("/preview", ctrl.Dispatch.PreviewCSV)

	testimonialGroup := r.Group("/testimonials", auth)
	testimonialGroup.GET("", ctrl.Moderation.ListTestimonials)
	testimonialGroup.PATCH("/:id/status", ctrl.Moderation.UpdateTestimonialStatus)
	testimonialGroup.GET("/:id/media", ctrl.Moderation.ListTestimonialMedia)
	testimonialGroup.POST("/:id/media", ctrl.Moderation.AddTestimonialMedia)

	mediaGroup := r.Group("/media", auth)
	mediaGroup.GET("", ctrl.Moderation.ListMedia)
	mediaGroup.PATCH("/photos/:id/status", ctrl.Moderation.UpdatePhotoStatus)
	mediaGroup.PATCH("/videos/:id/status", ctrl.Moderation.UpdateVideoStatus)
	mediaGroup.DELETE("/photos/:id", ctrl.Moderation.DeletePhoto)
	mediaGroup.DELETE("/videos/:id", ctrl.Moderation.DeleteVideo)
	mediaGroup.GET("/photos/:id/download", ctrl.Moderation.DownloadPhoto)
	mediaGroup.GET("/videos/:id/download", ctrl.Moderation.DownloadVideo)

	analyticsGroup := r.Group("/analytics", auth)
	analyticsGroup.GET("", ctrl.Analytics.GetAnalytics)
	analyticsGroup.GET("/export", ctrl.Analytics.ExportAnalytics)

	r.GET("/notifications/stream", auth, ctrl.Notification.Stream)

	publicGroup := r.Group("/public")
	publicGroup.GET("/forms/:slug", ctrl.Public.GetFormBySlug)
	publicGroup.POST("/forms/:slug/submissions", ctrl.Public.SubmitBySlug)
	publicGroup.GET("/businesses/:businessId/form", ctrl.Public.GetBusinessForm)
	publicGroup.POST("/businesses/:businessId/submissions", ctrl.Public.SubmitToBusiness)
	publicGroup.GET("/businesses/:businessId/testimonials", ctrl.Public.WidgetFeed)
}
