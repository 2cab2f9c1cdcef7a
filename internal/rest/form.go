package rest

import (
	"net/http"

	"github.com/dfryer1193/bitacora/api"
	"github.com/dfryer1193/bitacora/blog/application"
	"github.com/gin-gonic/gin"
)

func (a *Api) GetForm(c *gin.Context) {
	c.JSON(http.StatusOK, toApiForm(a.bitacora.Form()))
}

// PutForm updates the draft; absent fields keep their value
func (a *Api) PutForm(c *gin.Context) {
	req := &api.FormRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	form, err := a.bitacora.UpdateForm(application.FormFields{
		Title:   req.Title,
		Content: req.Content,
		Tag:     req.Tag,
		Status:  req.Status,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toApiForm(form))
}

func (a *Api) PostEdit(c *gin.Context) {
	form, err := a.bitacora.StartEdit(c.Param("postId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toApiForm(form))
}

func (a *Api) PostCancel(c *gin.Context) {
	form, err := a.bitacora.CancelEdit()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toApiForm(form))
}

// PostSubmit answers 201 for a new post and 200 for an edit
func (a *Api) PostSubmit(c *gin.Context) {
	res, err := a.bitacora.Submit(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	c.JSON(status, toApiPost(res.Post))
}
