package rest

import (
	"github.com/dfryer1193/bitacora/blog/application"
	"github.com/gin-gonic/gin"
)

// Api serves the application state as JSON
type Api struct {
	bitacora *application.Bitacora
	renderer application.ContentRenderer
}

// NewApi registers the /api/v1 routes on router
func NewApi(router *gin.Engine, bitacora *application.Bitacora, renderer application.ContentRenderer) *Api {
	a := &Api{
		bitacora: bitacora,
		renderer: renderer,
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/view", a.GetView)
		v1.PUT("/query", a.PutQuery)
		v1.POST("/selection/:postId", a.PostSelection)

		v1.GET("/posts/:postId", a.GetPost)
		v1.DELETE("/posts/:postId", a.DeletePost)

		v1.GET("/form", a.GetForm)
		v1.PUT("/form", a.PutForm)
		v1.POST("/form/edit/:postId", a.PostEdit)
		v1.POST("/form/cancel", a.PostCancel)
		v1.POST("/form/submit", a.PostSubmit)
	}

	return a
}
