package extract

import (
	"regexp"
	"strings"

	"stylescraper/internal/core/session"

	"github.com/PuerkitoBio/goquery"
)

var colorRe = regexp.MustCompile(`#[0-9a-fA-F]{6}|#[0-9a-fA-F]{3}|rgb\([^)]+\)|rgba\([^)]+\)`)

// Colors scans <style> blocks and inline style attributes for color tokens.
func Colors(p *Page) []session.Color {
	return colorsFromCSS(styleText(p.Doc))
}

func styleText(doc *goquery.Document) string {
	var parts []string
	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		parts = append(parts, s.Text())
	})
	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		v, _ := s.Attr("style")
		parts = append(parts, v)
	})
	return strings.Join(parts, " ")
}

func colorsFromCSS(css string) []session.Color {
	out := []session.Color{}
	seen := make(map[string]struct{})
	for _, tok := range colorRe.FindAllString(css, -1) {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		c := session.Color{Usage: "unknown"}
		if strings.HasPrefix(tok, "#") {
			c.Hex = tok
		}
		if strings.HasPrefix(tok, "rgb") {
			c.RGB = tok
		}
		out = append(out, c)
	}
	return out
}
