package server

import (
	"bytes"
	"html/template"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"pgregory.net/rapid"

	"github.com/ikulkarni/portfolio/internal/content"
)

// fatalT is satisfied by both *testing.T and *rapid.T.
type fatalT interface {
	Helper()
	Fatalf(format string, args ...any)
}

func renderDetail(t fatalT, tmpl *template.Template, bc content.BusinessCase) string {
	t.Helper()
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "cases.html", gin.H{"expanded": bc}); err != nil {
		t.Fatalf("rendering case %d: %v", bc.ID, err)
	}
	return buf.String()
}

func mustParseTemplates(t *testing.T) *template.Template {
	t.Helper()
	tmpl, err := parseTemplates()
	if err != nil {
		t.Fatalf("parseTemplates: %v", err)
	}
	return tmpl
}

func enhancementWith(c *content.Complexity) content.BusinessCase {
	return content.BusinessCase{
		ID:    1,
		Title: "Graphs",
		Sections: []content.Section{{
			Heading: "Enhancements",
			SubSections: []content.Enhancement{{
				Name:    "DAG",
				Details: content.EnhancementDetails{DefinitionCoreIdea: "order", Complexity: c},
			}},
		}},
	}
}

func TestComplexityPanel(t *testing.T) {
	tests := []struct {
		name       string
		complexity *content.Complexity
		time       int
		space      int
	}{
		{"time only", &content.Complexity{TimeComplexity: "O(V+E)"}, 1, 0},
		{"space only", &content.Complexity{SpaceComplexity: "O(V)"}, 0, 1},
		{"both", &content.Complexity{TimeComplexity: "O(V+E)", SpaceComplexity: "O(V)"}, 1, 1},
		{"empty", &content.Complexity{}, 0, 0},
		{"absent", nil, 0, 0},
	}
	tmpl := mustParseTemplates(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := renderDetail(t, tmpl, enhancementWith(tt.complexity))
			if got := strings.Count(html, `class="time-complexity"`); got != tt.time {
				t.Errorf("time panels = %d, want %d", got, tt.time)
			}
			if got := strings.Count(html, `class="space-complexity"`); got != tt.space {
				t.Errorf("space panels = %d, want %d", got, tt.space)
			}
			if panel := strings.Contains(html, `class="complexity`); panel != (tt.time+tt.space > 0) {
				t.Errorf("complexity panel rendered = %v", panel)
			}
		})
	}
}

func TestDetailContentItems(t *testing.T) {
	bc := content.BusinessCase{
		ID:    2,
		Title: "Streams",
		Sections: []content.Section{{
			Heading: "References",
			Content: []content.Item{
				content.Text("Plain paragraph"),
				content.Link("Topological sorting", "https://example.com/topo"),
			},
		}},
	}
	html := renderDetail(t, mustParseTemplates(t), bc)

	if !strings.Contains(html, "<p>Plain paragraph</p>") {
		t.Error("text item not rendered as a paragraph")
	}
	link := `<a href="https://example.com/topo" target="_blank" rel="noopener noreferrer">Topological sorting</a>`
	if !strings.Contains(html, link) {
		t.Errorf("link item not rendered as %s:\n%s", link, html)
	}
}

func TestSectionDetailsPanels(t *testing.T) {
	tests := []struct {
		name    string
		details *content.SectionDetails
		want    []string
		absent  bool
	}{
		{"impact only", &content.SectionDetails{Impact: []string{"Faster checkout"}}, []string{`class="card impact"`, "Faster checkout"}, false},
		{"trade-offs only", &content.SectionDetails{TradeOffs: []string{"More memory"}}, []string{`class="card trade-offs"`, "More memory"}, false},
		{"empty lists", &content.SectionDetails{}, nil, true},
		{"none", nil, nil, true},
	}
	tmpl := mustParseTemplates(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bc := content.BusinessCase{ID: 3, Title: "Impact", Sections: []content.Section{{Heading: "Outcome", Details: tt.details}}}
			html := renderDetail(t, tmpl, bc)
			if got := strings.Contains(html, `class="grid two section-details"`); got == tt.absent {
				t.Errorf("section-details rendered = %v", got)
			}
			for _, s := range tt.want {
				if !strings.Contains(html, s) {
					t.Errorf("missing %q", s)
				}
			}
		})
	}
}

func TestEveryCaseRendersAllHeadings(t *testing.T) {
	cat, err := content.Load(content.Embedded())
	if err != nil {
		t.Fatalf("loading content: %v", err)
	}
	tmpl := mustParseTemplates(t)
	for _, bc := range cat.Cases {
		html := renderDetail(t, tmpl, bc)
		if got := strings.Count(html, `class="section-heading"`); got != len(bc.Sections) {
			t.Errorf("case %d: %d headings, want %d", bc.ID, got, len(bc.Sections))
		}
	}
}

func TestHeadingCountProperty(t *testing.T) {
	tmpl := mustParseTemplates(t)
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 12).Draw(t, "sections")
		bc := content.BusinessCase{ID: 1, Title: "Generated"}
		for i := 0; i < n; i++ {
			sec := content.Section{Heading: rapid.StringMatching(`[A-Za-z&<> ]{1,20}`).Draw(t, "heading")}
			if rapid.Bool().Draw(t, "withEnhancement") {
				sec.SubSections = []content.Enhancement{{Name: "E", Code: "all_codes/1/e.cpp"}}
			}
			bc.Sections = append(bc.Sections, sec)
		}
		html := renderDetail(t, tmpl, bc)
		if got := strings.Count(html, `class="section-heading"`); got != n {
			t.Fatalf("headings = %d, want %d", got, n)
		}
	})
}
