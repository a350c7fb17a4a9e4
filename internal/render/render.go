// Package render turns content strings into safe HTML: markdown prose for the
// biography blocks and syntax-highlighted source for the code viewer.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// CodeStyle is the chroma style used for listings and the exported stylesheet.
const CodeStyle = "monokai"

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)
	policy = bluemonday.UGCPolicy()

	formatter = chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.WithLineNumbers(true),
		chromahtml.TabWidth(4),
	)
)

// Markdown renders src as sanitized HTML.
func Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes())), nil
}

// Code highlights src for the given language, falling back to plain text
// when no lexer matches.
func Code(src, lang string) (template.HTML, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, src)
	if err != nil {
		return "", fmt.Errorf("tokenising %s: %w", lang, err)
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style(), it); err != nil {
		return "", fmt.Errorf("formatting %s: %w", lang, err)
	}
	return template.HTML(buf.String()), nil
}

// Terminal highlights src with 256-colour ANSI escapes for the CLI.
func Terminal(src, lang string) (string, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, src)
	if err != nil {
		return "", fmt.Errorf("tokenising %s: %w", lang, err)
	}
	var buf bytes.Buffer
	if err := formatters.TTY256.Format(&buf, style(), it); err != nil {
		return "", fmt.Errorf("formatting %s: %w", lang, err)
	}
	return buf.String(), nil
}

// LangFor guesses the chroma lexer name from a file path.
func LangFor(path string) string {
	if l := lexers.Match(path); l != nil {
		return strings.ToLower(l.Config().Name)
	}
	return "plaintext"
}

// Stylesheet returns the CSS that goes with Code output.
func Stylesheet() (string, error) {
	var buf bytes.Buffer
	if err := formatter.WriteCSS(&buf, style()); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func style() *chroma.Style {
	s := styles.Get(CodeStyle)
	if s == nil {
		return styles.Fallback
	}
	return s
}
