package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/signaltracker/tracker-api/docs"
	"github.com/signaltracker/tracker-api/internal/api/handler"
	"github.com/signaltracker/tracker-api/internal/api/middleware"
	"github.com/signaltracker/tracker-api/internal/core/ports"
)

// Deps carries the wired services the router exposes over HTTP.
type Deps struct {
	Users      ports.UserService
	Devices    ports.DeviceService
	Readings   ports.ReadingService
	CellTowers ports.CellTowerService
	Auth       ports.AuthService
	Batch      handler.BatchEnqueuer

	Mongo *mongo.Database
	Redis *redis.Client

	JWTSecret string
	AppKey    string
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("signaltracker"))

	// --- Handlers ---
	userHandler := handler.NewUserHandler(d.Users)
	deviceHandler := handler.NewDeviceHandler(d.Devices)
	readingHandler := handler.NewReadingHandler(d.Readings, d.Batch)
	towerHandler := handler.NewCellTowerHandler(d.CellTowers)
	authHandler := handler.NewAuthHandler(d.Users, d.Auth, d.AppKey)

	// --- Auth boundary (no bearer token required) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes and operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Resource routes ---
	v1 := e.Group("/api/v1", middleware.Auth(d.JWTSecret))

	v1.POST("/users", userHandler.Create)
	v1.GET("/users", userHandler.List)
	v1.GET("/users/:id", userHandler.Get)
	v1.PATCH("/users/:id", userHandler.Patch)
	v1.DELETE("/users/:id", userHandler.Delete)
	v1.GET("/users/:id/devices", userHandler.ListDevices)

	v1.POST("/devices", deviceHandler.Create)
	v1.GET("/devices", deviceHandler.List)
	v1.GET("/devices/:id", deviceHandler.Get)
	v1.PATCH("/devices/:id", deviceHandler.Patch)
	v1.DELETE("/devices/:id", deviceHandler.Delete)
	v1.GET("/devices/:id/readings", deviceHandler.ListReadings)

	v1.POST("/readings", readingHandler.Create)
	v1.POST("/readings/batch", readingHandler.CreateBatch)
	v1.GET("/readings", readingHandler.List)
	v1.GET("/readings/:id", readingHandler.Get)
	v1.PATCH("/readings/:id", readingHandler.Patch)
	v1.DELETE("/readings/:id", readingHandler.Delete)

	v1.POST("/celltowers", towerHandler.Create)
	v1.GET("/celltowers", towerHandler.List)
	v1.GET("/celltowers/:id", towerHandler.Get)
	v1.PATCH("/celltowers/:id", towerHandler.Patch)
	v1.DELETE("/celltowers/:id", towerHandler.Delete)

	return e
}
