package calculator

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

type pageView struct {
	Page           Page
	Side           string
	RefreshSeconds int
}

// RenderHTML writes the page as an HTML document that re-polls every
// refresh interval.
func RenderHTML(w io.Writer, p Page, side string, refresh time.Duration) error {
	secs := int(refresh / time.Second)
	if secs < 1 {
		secs = 1
	}
	return pageTemplate.Execute(w, pageView{Page: p, Side: side, RefreshSeconds: secs})
}

// RenderText writes the page as plain text, one element per block.
func RenderText(w io.Writer, p Page) error {
	if p.Result != "" {
		if _, err := fmt.Fprintln(w, p.Result); err != nil {
			return err
		}
	}

	if p.Stats != nil {
		if _, err := fmt.Fprintf(w, "\n%s\n%s\n", p.Stats.Heading, p.Stats.Text); err != nil {
			return err
		}
	}

	if p.History != nil {
		if _, err := fmt.Fprintf(w, "\n%s\n", p.History.Heading); err != nil {
			return err
		}
		if p.History.EmptyMessage != "" {
			if _, err := fmt.Fprintln(w, p.History.EmptyMessage); err != nil {
				return err
			}
		}
		for _, item := range p.History.Items {
			if _, err := fmt.Fprintln(w, item.Line()); err != nil {
				return err
			}
		}
	}
	return nil
}
