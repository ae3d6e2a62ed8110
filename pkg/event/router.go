package event

import (
	"github.com/gin-gonic/gin"
)

type AuthenticationMiddleware interface {
	TokenAuthentication(context *gin.Context)
	OptionalTokenAuthentication(context *gin.Context)
}

type AuthorizationMiddleware interface {
	RequireAdministrator(context *gin.Context)
}

func Routes(r *gin.RouterGroup, authenticationMiddleware AuthenticationMiddleware, authorizationMiddleware AuthorizationMiddleware, handler Handler) {
	publicRouter := r.Group("")
	publicRouter.Use(authenticationMiddleware.OptionalTokenAuthentication)
	publicRouter.GET("/events", handler.FindAll)
	publicRouter.GET("/events/:id", handler.FindById)
	publicRouter.GET("/events/:id/calendar.ics", handler.Calendar)

	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(authenticationMiddleware.TokenAuthentication)
	tokenAuthenticationRouter.POST("/events", handler.Create)
	tokenAuthenticationRouter.DELETE("/events/:id", handler.Delete)

	administratorRestrictedRouter := tokenAuthenticationRouter.Group("")
	administratorRestrictedRouter.Use(authorizationMiddleware.RequireAdministrator)
	administratorRestrictedRouter.POST("/events/:id/approve", handler.Approve)
	administratorRestrictedRouter.POST("/events/:id/reject", handler.Reject)
}
