// Package server exposes the export and report jobs over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nadeos/bmd-exporter/internal/bmdexport"
	"github.com/nadeos/bmd-exporter/internal/commission"
	"github.com/nadeos/bmd-exporter/internal/config"
	"github.com/nadeos/bmd-exporter/internal/metrics"
	"github.com/nadeos/bmd-exporter/internal/shrink"
	"github.com/nadeos/bmd-exporter/internal/toprevenue"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func run(lc fx.Lifecycle, log *zap.Logger, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
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

// Server carries the report services behind the HTTP routes.
type Server struct {
	engine *gin.Engine
	log    *zap.Logger
	cfg    config.Config
	prom   *metrics.Metrics

	exportSvc     *bmdexport.Service
	commissionSvc *commission.Service
	renderer      *commission.StatementRenderer
	dispatcher    *commission.MailDispatcher
	topRevenueSvc *toprevenue.Service
	shrinkSvc     *shrink.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Log           *zap.Logger
	Cfg           config.Config
	Prom          *metrics.Metrics
	ExportSvc     *bmdexport.Service
	CommissionSvc *commission.Service
	Renderer      *commission.StatementRenderer
	Dispatcher    *commission.MailDispatcher
	TopRevenueSvc *toprevenue.Service
	ShrinkSvc     *shrink.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:        p.Gin,
		log:           p.Log.Named("server"),
		cfg:           p.Cfg,
		prom:          p.Prom,
		exportSvc:     p.ExportSvc,
		commissionSvc: p.CommissionSvc,
		renderer:      p.Renderer,
		dispatcher:    p.Dispatcher,
		topRevenueSvc: p.TopRevenueSvc,
		shrinkSvc:     p.ShrinkSvc,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	authed := s.engine.Group("/", s.AuthRequired())

	authed.GET("/bmd-export/orders", s.exportOrders)
	authed.GET("/bmd-export/customers", s.exportCustomers)
	authed.GET("/bmd-export/datas-csv", s.exportOverview)

	authed.GET("/commissions", s.listCommissions)
	authed.GET("/commission/pdf", s.commissionPDF)
	authed.GET("/commissions/pdf", s.commissionPDF)
	authed.GET("/commissions/mail", s.sendCommissionMails)

	authed.GET("/bmd-export/top-revenue", s.topRevenue)

	authed.GET("/shrink-list", s.shrinkList)
	authed.GET("/shrink-list/overview", s.shrinkOverview)
}
