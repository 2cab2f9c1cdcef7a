package rest

import (
	"errors"
	"net/http"

	"github.com/dfryer1193/bitacora/api"
	"github.com/dfryer1193/bitacora/blog/application"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func (a *Api) GetView(c *gin.Context) {
	c.JSON(http.StatusOK, toApiView(a.bitacora.View()))
}

func (a *Api) PutQuery(c *gin.Context) {
	req := &api.QueryRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if req.Tag != nil {
		if err := a.bitacora.SetFilter(*req.Tag); err != nil {
			writeError(c, err)
			return
		}
	}
	if req.Search != nil {
		if err := a.bitacora.SetSearch(*req.Search); err != nil {
			writeError(c, err)
			return
		}
	}
	if req.Sort != nil {
		if err := a.bitacora.SetSort(*req.Sort); err != nil {
			writeError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, toApiView(a.bitacora.View()))
}

func (a *Api) PostSelection(c *gin.Context) {
	if err := a.bitacora.Select(c.Param("postId")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toApiView(a.bitacora.View()))
}

// GetPost returns one post with its content rendered to HTML
func (a *Api) GetPost(c *gin.Context) {
	post, err := a.bitacora.Post(c.Param("postId"))
	if err != nil {
		writeError(c, err)
		return
	}

	rendered, err := a.renderer.Render(post.Content)
	if err != nil {
		log.Error().Err(err).Str("postId", post.ID).Msg("Failed to render post")
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to render post"})
		return
	}

	p := toApiPost(post)
	p.HTML = string(rendered.HTML)
	p.Snippet = rendered.Snippet
	c.JSON(http.StatusOK, p)
}

func (a *Api) DeletePost(c *gin.Context) {
	if err := a.bitacora.Delete(c.Request.Context(), c.Param("postId")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// writeError maps application errors to status codes
func writeError(c *gin.Context, err error) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error(), Fields: verr.Fields})
	case errors.Is(err, application.ErrPostNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, application.ErrUnknownTag):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, application.ErrClosed):
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
	}
}
