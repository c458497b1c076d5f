package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/breezehr/breeze/internal/config"
	planchangedomain "github.com/breezehr/breeze/internal/planchange/domain"
	seatdomain "github.com/breezehr/breeze/internal/seat/domain"
	subscriptiondomain "github.com/breezehr/breeze/internal/subscription/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log    *zap.Logger
	Config config.Config

	SeatSvc         seatdomain.Service
	SubscriptionSvc subscriptiondomain.Service
	PlanChangeSvc   planchangedomain.Service
}

type Server struct {
	log *zap.Logger
	cfg config.Config

	seatSvc         seatdomain.Service
	subscriptionSvc subscriptiondomain.Service
	planChangeSvc   planchangedomain.Service
}

func NewServer(p Params) *Server {
	return &Server{
		log: p.Log.Named("server"),
		cfg: p.Config,

		seatSvc:         p.SeatSvc,
		subscriptionSvc: p.SubscriptionSvc,
		planChangeSvc:   p.PlanChangeSvc,
	}
}

func (s *Server) Router() *gin.Engine {
	if s.cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	s.RegisterRoutes(r)
	return r
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1", s.OrganizationIdentity())

	billing := api.Group("/billing")
	billing.GET("/seats", s.GetSeatInfo)
	billing.GET("/subscription", s.GetSubscription)

	mutating := billing.Group("", s.AdminRequired())
	mutating.POST("/seats", s.UpdateSeatQuantity)
	mutating.POST("/period", s.ChangeBillingPeriod)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// RunHTTP starts the HTTP listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:    s.cfg.Server.Addr,
		Handler: s.Router(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", s.cfg.Server.Addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)
