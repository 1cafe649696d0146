package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/minicanvas-api/internal/middleware"
	"github.com/noah-isme/minicanvas-api/pkg/config"
	"github.com/noah-isme/minicanvas-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/minicanvas-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/minicanvas-api/pkg/middleware/requestid"
)

// RouterDeps groups the handlers mounted by NewRouter.
type RouterDeps struct {
	System      *SystemHandler
	Courses     *CourseHandler
	Assignments *AssignmentHandler
	Users       *UserHandler
	Sync        *SyncHandler
	Metrics     *MetricsHandler
	Observer    middleware.RequestObserver
	Logger      *zap.Logger
}

// NewRouter wires middleware and routes under cfg.APIPrefix.
func NewRouter(cfg *config.Config, deps RouterDeps) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Observer))

	api := r.Group(cfg.APIPrefix)

	api.GET("/", deps.System.Welcome)
	api.GET("/health", deps.System.Health)
	api.GET("/ready", deps.System.Ready)
	api.GET("/metrics", deps.Metrics.Prometheus)

	courses := api.Group("/courses")
	courses.GET("", deps.Courses.List)
	courses.POST("/:course", deps.Courses.Create)
	courses.GET("/:course", deps.Courses.Get)
	courses.PUT("/:course/students", deps.Courses.ImportStudents)
	courses.GET("/:course/roster", deps.Courses.Roster)
	courses.POST("/:course/assignments", deps.Assignments.Create)
	courses.GET("/:course/assignments", deps.Assignments.List)
	courses.POST("/:course/assignments/:assignment/submissions", deps.Assignments.Submit)
	courses.GET("/:course/assignments/:assignment/submissions", deps.Assignments.Submissions)

	users := api.Group("/users")
	users.POST("", deps.Users.Create)
	users.GET("", deps.Users.List)
	users.GET("/:user", deps.Users.Get)

	api.POST("/sync", deps.Sync.Trigger)

	if cfg.Env != config.EnvProduction {
		api.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	return r
}
