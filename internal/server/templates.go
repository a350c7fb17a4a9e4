package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ikulkarni/portfolio/internal/render"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

func loadTemplates(r *gin.Engine) error {
	tmpl, err := parseTemplates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)
	return nil
}

func parseTemplates() (*template.Template, error) {
	funcs := render.FuncMap()
	funcs["highlight"] = func(code, path string) template.HTML {
		out, err := render.Code(code, render.LangFor(path))
		if err != nil {
			log.Printf("Error highlighting %s: %v", path, err)
			return template.HTML("<pre>" + template.HTMLEscapeString(code) + "</pre>")
		}
		return out
	}
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return tmpl, nil
}

func mountStatic(r *gin.Engine) error {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return err
	}
	css, err := render.Stylesheet()
	if err != nil {
		return fmt.Errorf("building code stylesheet: %w", err)
	}
	r.GET("/assets/chroma.css", func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=86400")
		c.Data(http.StatusOK, "text/css; charset=utf-8", []byte(css))
	})
	r.StaticFS("/static", http.FS(sub))
	return nil
}
