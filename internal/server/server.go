package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/nyarko-dennis/donor-app-backend/internal/analytics"
	analyticsdomain "github.com/nyarko-dennis/donor-app-backend/internal/analytics/domain"
	"github.com/nyarko-dennis/donor-app-backend/internal/campaign"
	campaigndomain "github.com/nyarko-dennis/donor-app-backend/internal/campaign/domain"
	"github.com/nyarko-dennis/donor-app-backend/internal/cause"
	causedomain "github.com/nyarko-dennis/donor-app-backend/internal/cause/domain"
	"github.com/nyarko-dennis/donor-app-backend/internal/config"
	"github.com/nyarko-dennis/donor-app-backend/internal/constituency"
	constituencydomain "github.com/nyarko-dennis/donor-app-backend/internal/constituency/domain"
	"github.com/nyarko-dennis/donor-app-backend/internal/donation"
	donationdomain "github.com/nyarko-dennis/donor-app-backend/internal/donation/domain"
	"github.com/nyarko-dennis/donor-app-backend/internal/donationjob"
	"github.com/nyarko-dennis/donor-app-backend/internal/donor"
	donordomain "github.com/nyarko-dennis/donor-app-backend/internal/donor/domain"
	"github.com/nyarko-dennis/donor-app-backend/internal/gateway"
	"github.com/nyarko-dennis/donor-app-backend/internal/observability"
	obsmiddleware "github.com/nyarko-dennis/donor-app-backend/internal/observability/logger"
	obsmetrics "github.com/nyarko-dennis/donor-app-backend/internal/observability/metrics"
	obstracing "github.com/nyarko-dennis/donor-app-backend/internal/observability/tracing"
	"github.com/nyarko-dennis/donor-app-backend/internal/providers/email"
	"github.com/nyarko-dennis/donor-app-backend/internal/queue"
	"github.com/nyarko-dennis/donor-app-backend/internal/ratelimit"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	gateway.Module,
	queue.Module,
	email.Module,
	donor.Module,
	campaign.Module,
	cause.Module,
	constituency.Module,
	donation.Module,
	donationjob.Module,
	analytics.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	log             *zap.Logger
	genID           *snowflake.Node
	donationSvc     donationdomain.Service
	donorSvc        donordomain.Service
	campaignSvc     campaigndomain.Service
	causeSvc        causedomain.Service
	constituencySvc constituencydomain.Service
	analyticsSvc    analyticsdomain.Service
	gateways        *gateway.Registry
	initiateLimiter *ratelimit.InitiateLimiter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	Log             *zap.Logger
	GenID           *snowflake.Node
	DonationSvc     donationdomain.Service
	DonorSvc        donordomain.Service
	CampaignSvc     campaigndomain.Service
	CauseSvc        causedomain.Service
	ConstituencySvc constituencydomain.Service
	AnalyticsSvc    analyticsdomain.Service
	Gateways        *gateway.Registry
	InitiateLimiter *ratelimit.InitiateLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		log:             p.Log.Named("http.server"),
		genID:           p.GenID,
		donationSvc:     p.DonationSvc,
		donorSvc:        p.DonorSvc,
		campaignSvc:     p.CampaignSvc,
		causeSvc:        p.CauseSvc,
		constituencySvc: p.ConstituencySvc,
		analyticsSvc:    p.AnalyticsSvc,
		gateways:        p.Gateways,
		initiateLimiter: p.InitiateLimiter,
	}
	svc.routes()
	return svc
}

func (s *Server) routes() {
	v1 := s.engine.Group("/v1")

	donations := v1.Group("/donations")
	donations.POST("/initiate", s.RateLimitInitiate(), s.InitiateDonation)
	donations.POST("", s.CreateDonation)
	donations.GET("", s.ListDonations)
	donations.GET("/:id", s.GetDonation)
	donations.PATCH("/:id", s.UpdateDonation)
	donations.DELETE("/:id", s.DeleteDonation)

	payment := v1.Group("/payment")
	payment.POST("/webhook/:provider", s.HandlePaymentWebhook)
	payment.GET("/verify/:reference", s.VerifyPayment)

	donors := v1.Group("/donors")
	donors.POST("", s.CreateDonor)
	donors.GET("", s.ListDonors)
	donors.GET("/:id", s.GetDonor)
	donors.PATCH("/:id", s.UpdateDonor)
	donors.DELETE("/:id", s.DeleteDonor)

	campaigns := v1.Group("/campaigns")
	campaigns.POST("", s.CreateCampaign)
	campaigns.GET("", s.ListCampaigns)
	campaigns.GET("/:id", s.GetCampaign)
	campaigns.PATCH("/:id", s.UpdateCampaign)
	campaigns.DELETE("/:id", s.DeleteCampaign)

	causes := v1.Group("/causes")
	causes.POST("", s.CreateCause)
	causes.GET("", s.ListCauses)
	causes.GET("/:id", s.GetCause)
	causes.PATCH("/:id", s.UpdateCause)
	causes.DELETE("/:id", s.DeleteCause)

	constituencies := v1.Group("/constituencies")
	constituencies.POST("", s.CreateConstituency)
	constituencies.GET("", s.ListConstituencies)
	constituencies.GET("/:id", s.GetConstituency)
	constituencies.DELETE("/:id", s.DeleteConstituency)
	constituencies.POST("/:id/sub-constituencies", s.CreateSubConstituency)
	constituencies.GET("/:id/sub-constituencies", s.ListSubConstituencies)
	constituencies.DELETE("/:id/sub-constituencies/:subId", s.DeleteSubConstituency)

	analyticsGroup := v1.Group("/analytics")
	analyticsGroup.GET("/summary", s.AnalyticsSummary)
	analyticsGroup.GET("/campaigns", s.AnalyticsByCampaign)
	analyticsGroup.GET("/causes", s.AnalyticsByCause)
	analyticsGroup.GET("/constituencies", s.AnalyticsByConstituency)
	analyticsGroup.GET("/daily", s.AnalyticsDaily)
	analyticsGroup.GET("/top-donors", s.AnalyticsTopDonors)
	analyticsGroup.GET("/retention", s.AnalyticsRetention)
}
