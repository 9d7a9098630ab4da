package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"guesthouse/internal/infra/config"
	"guesthouse/internal/infra/obs"
)

type BookingHTTP interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	AddComment(c *gin.Context)
	RemoveComment(c *gin.Context)
	Cancellations(c *gin.Context)
}

type ContactHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
}

type SettingsHTTP interface {
	Houses(c *gin.Context)
	Rates(c *gin.Context)
	SaveRates(c *gin.Context)
	Occupied(c *gin.Context)
	Quote(c *gin.Context)
}

type StatsHTTP interface {
	Month(c *gin.Context)
	Year(c *gin.Context)
}

type ReportHTTP interface {
	Download(c *gin.Context)
	Publish(c *gin.Context)
}

type Handlers struct {
	Bookings BookingHTTP
	Contacts ContactHTTP
	Settings SettingsHTTP
	Stats    StatsHTTP
	Reports  ReportHTTP
	Auth     PINMiddleware
	Metrics  http.Handler
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func NewRouter(obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", PINHeader, "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"Content-Disposition",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)
	if h.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.Metrics))
	}

	api := router.Group("/api/v1")
	api.Use(h.Auth.Handle)
	api.GET("/auth/check", h.Auth.Check)
	if h.Bookings != nil {
		api.GET("/bookings", h.Bookings.List)
		api.POST("/bookings", h.Bookings.Create)
		api.GET("/bookings/:id", h.Bookings.Get)
		api.PUT("/bookings/:id", h.Bookings.Update)
		api.DELETE("/bookings/:id", h.Bookings.Delete)
		api.POST("/bookings/:id/comments", h.Bookings.AddComment)
		api.DELETE("/bookings/:id/comments/:commentID", h.Bookings.RemoveComment)
		api.GET("/cancellations", h.Bookings.Cancellations)
	}
	if h.Contacts != nil {
		api.GET("/contacts", h.Contacts.List)
		api.POST("/contacts", h.Contacts.Create)
		api.PUT("/contacts/:id", h.Contacts.Update)
	}
	if h.Settings != nil {
		api.GET("/houses", h.Settings.Houses)
		api.GET("/houses/:id/occupied", h.Settings.Occupied)
		api.GET("/houses/:id/quote", h.Settings.Quote)
		api.GET("/settings/rates", h.Settings.Rates)
		api.PUT("/settings/rates", h.Settings.SaveRates)
	}
	if h.Stats != nil {
		api.GET("/stats/months/:month", h.Stats.Month)
		api.GET("/stats/years/:year", h.Stats.Year)
	}
	if h.Reports != nil {
		api.GET("/reports/:year", h.Reports.Download)
		api.POST("/reports/:year/publish", h.Reports.Publish)
	}
	return router
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
