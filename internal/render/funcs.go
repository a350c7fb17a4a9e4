package render

import (
	"fmt"
	"html/template"
	"log"
	"strings"

	"github.com/ikulkarni/portfolio/internal/content"
)

// FuncMap returns the helpers the page templates use.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"markdown": func(src string) template.HTML {
			out, err := Markdown(src)
			if err != nil {
				log.Printf("Error rendering markdown: %v", err)
				return template.HTML(template.HTMLEscapeString(src))
			}
			return out
		},
		"imagePath": func(name string) string {
			return "/" + content.ImagePath(name)
		},
		"caseAnchor": CaseAnchor,
		"add":        func(a, b int) int { return a + b },
		"isBullet": func(s string) bool {
			return strings.HasPrefix(strings.TrimSpace(s), "•")
		},
		"stripBullet": func(s string) string {
			return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "•"))
		},
	}
}

// CaseAnchor is the element id of the grid card at index.
func CaseAnchor(index int) string {
	return fmt.Sprintf("case-card-%d", index)
}
