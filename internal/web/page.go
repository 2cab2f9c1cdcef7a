// Package web serves the magazine page. Every control is a plain form that
// posts back and redirects to the page.
package web

import (
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/dfryer1193/bitacora/blog/application"
	"github.com/dfryer1193/bitacora/blog/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templateFS embed.FS

const pageTemplate = "index.html"

type Page struct {
	bitacora *application.Bitacora
	renderer application.ContentRenderer
	location *time.Location
}

// pageData is what index.html renders
type pageData struct {
	View        application.View
	Form        application.Form
	FilterTags  []domain.Tag
	PostTags    []domain.Tag
	Statuses    []domain.Status
	ArticleHTML template.HTML
}

// NewPage parses the embedded template onto router and registers the page routes.
// Dates are shown in loc; nil means UTC.
func NewPage(router *gin.Engine, bitacora *application.Bitacora, renderer application.ContentRenderer, loc *time.Location) (*Page, error) {
	if loc == nil {
		loc = time.UTC
	}
	p := &Page{
		bitacora: bitacora,
		renderer: renderer,
		location: loc,
	}

	tmpl, err := template.New("").Funcs(p.funcMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	router.GET("/", p.GetIndex)
	router.POST("/filter", p.PostFilter)
	router.POST("/search", p.PostSearch)
	router.POST("/sort", p.PostSort)
	router.POST("/select/:postId", p.PostSelect)
	router.POST("/edit/:postId", p.PostEdit)
	router.POST("/cancel", p.PostCancel)
	router.POST("/submit", p.PostSubmit)
	router.POST("/delete/:postId", p.PostDelete)

	return p, nil
}

func (p *Page) funcMap() template.FuncMap {
	return template.FuncMap{
		"date": func(t time.Time) string {
			return formatDate(t, p.location)
		},
		"upper": strings.ToUpper,
		"heroExcerpt": func(s string) string {
			return application.Excerpt(s, application.HeroExcerptLength)
		},
		"cardExcerpt": func(s string) string {
			return application.Excerpt(s, application.CardExcerptLength)
		},
	}
}

func (p *Page) GetIndex(c *gin.Context) {
	data := pageData{
		View:       p.bitacora.View(),
		Form:       p.bitacora.Form(),
		FilterTags: domain.FilterTags(),
		PostTags:   domain.Tags(),
		Statuses:   domain.Statuses(),
	}

	if sel := data.View.Selected; sel != nil {
		rendered, err := p.renderer.Render(sel.Content)
		if err != nil {
			log.Error().Err(err).Str("postId", sel.ID).Msg("Failed to render post")
			data.ArticleHTML = template.HTML("<p>" + template.HTMLEscapeString(sel.Content) + "</p>")
		} else {
			data.ArticleHTML = template.HTML(rendered.HTML)
		}
	}

	c.HTML(http.StatusOK, pageTemplate, data)
}

func (p *Page) PostFilter(c *gin.Context) {
	p.redirect(c, p.bitacora.SetFilter(c.PostForm("tag")))
}

func (p *Page) PostSearch(c *gin.Context) {
	p.redirect(c, p.bitacora.SetSearch(c.PostForm("search")))
}

func (p *Page) PostSort(c *gin.Context) {
	p.redirect(c, p.bitacora.SetSort(c.PostForm("sort")))
}

func (p *Page) PostSelect(c *gin.Context) {
	p.redirect(c, p.bitacora.Select(c.Param("postId")))
}

func (p *Page) PostEdit(c *gin.Context) {
	_, err := p.bitacora.StartEdit(c.Param("postId"))
	p.redirect(c, err)
}

func (p *Page) PostCancel(c *gin.Context) {
	_, err := p.bitacora.CancelEdit()
	p.redirect(c, err)
}

// PostSubmit stores the typed fields in the draft, then submits it.
// An invalid draft is kept as typed and nothing else happens.
func (p *Page) PostSubmit(c *gin.Context) {
	fields := application.FormFields{
		Title:   postFormValue(c, "title"),
		Content: postFormValue(c, "content"),
		Tag:     postFormValue(c, "tag"),
		Status:  postFormValue(c, "status"),
	}

	if _, err := p.bitacora.UpdateForm(fields); err != nil {
		p.redirect(c, err)
		return
	}

	_, err := p.bitacora.Submit(c.Request.Context())
	p.redirect(c, err)
}

func (p *Page) PostDelete(c *gin.Context) {
	p.redirect(c, p.bitacora.Delete(c.Request.Context(), c.Param("postId")))
}

// redirect sends the browser back to the page. Rejected commands leave the page as it was.
func (p *Page) redirect(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
		log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Page command rejected")
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// postFormValue is nil when the field was not posted at all
func postFormValue(c *gin.Context, name string) *string {
	v, ok := c.GetPostForm(name)
	if !ok {
		return nil
	}
	return &v
}
