package server

import (
	"log/slog"
	"net/http"

	"github.com/eslteacher902010/new-england-catholic-group-finder/internal/middleware"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/event"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/group"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/user"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "group-finder"

func GetEngine(
	logger *slog.Logger,
	basePath string,
	groupHandler group.Handler,
	eventHandler event.Handler,
	userHandler user.Handler,
	authenticationMiddleware middleware.AuthenticationMiddleware,
	authorizationMiddleware middleware.AuthorizationMiddleware,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders("authorization")
	r.Use(cors.New(corsConfig))

	r.Use(otelgin.Middleware(serviceName))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.ErrorHandler())

	router := r.Group(basePath)

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	user.Routes(router, authenticationMiddleware, authorizationMiddleware, userHandler)
	group.Routes(router, authenticationMiddleware, authorizationMiddleware, groupHandler)
	event.Routes(router, authenticationMiddleware, authorizationMiddleware, eventHandler)

	return r
}
