package group

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
	publicRouter.GET("/groups", handler.FindAll)
	publicRouter.GET("/groups.csv", handler.ExportCSV)
	publicRouter.GET("/groups/:id", handler.FindById)

	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(authenticationMiddleware.TokenAuthentication)
	tokenAuthenticationRouter.POST("/groups", handler.Create)

	administratorRestrictedRouter := tokenAuthenticationRouter.Group("")
	administratorRestrictedRouter.Use(authorizationMiddleware.RequireAdministrator)
	administratorRestrictedRouter.POST("/groups/:id/approve", handler.Approve)
	administratorRestrictedRouter.POST("/groups/:id/reject", handler.Reject)
	administratorRestrictedRouter.DELETE("/groups/:id", handler.Delete)
}
