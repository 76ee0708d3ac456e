package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/yi-nology/page_harbor/biz/handler"
	"github.com/yi-nology/page_harbor/biz/middleware"
)

// Register configures all HTTP routes.
func Register(r *server.Hertz, deploy *handler.DeployHandler, history *handler.HistoryHandler, preview *handler.PreviewHandler) {
	v1 := r.Group("/api/v1")

	deployments := v1.Group("/deployments")
	deployments.POST("", append(middleware.WriteLockMw(), deploy.Deploy)...)
	deployments.GET("", history.List)
	deployments.GET("/:recordID", history.Get)
	deployments.PUT("/:recordID", append(middleware.WriteLockMw(), history.Update)...)
	deployments.DELETE("/:recordID", append(middleware.WriteLockMw(), history.Delete)...)

	v1.GET("/preview/*objectPath", preview.Serve)
	v1.GET("/config/check", deploy.CheckConfig)

	r.GET("/ping", handler.Ping)
}
