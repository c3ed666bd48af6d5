package extract

import (
	"regexp"
	"strings"

	"stylescraper/internal/core/session"

	"github.com/PuerkitoBio/goquery"
)

const (
	typographySelector = "h1, h2, h3, h4, h5, h6, p, span"
	contentSelector    = "h1, h2, h3, h4, h5, h6, p"

	paragraphHierarchy = 7
)

var (
	fontFamilyRe = regexp.MustCompile(`(?i)font-family:\s*([^;]+)`)
	fontSizeRe   = regexp.MustCompile(`(?i)font-size:\s*([^;]+)`)
	fontWeightRe = regexp.MustCompile(`(?i)font-weight:\s*([^;]+)`)
)

// Typography reads font declarations from inline styles of text elements.
func Typography(p *Page) []session.Typography {
	out := []session.Typography{}
	p.Doc.Find(typographySelector).Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		out = append(out, session.Typography{
			FontFamily: declaration(fontFamilyRe, style, "inherit"),
			FontSize:   declaration(fontSizeRe, style, "inherit"),
			FontWeight: declaration(fontWeightRe, style, "normal"),
			Element:    tagName(s),
		})
	})
	return out
}

// Content lists non-empty headings and paragraphs with their level.
func Content(p *Page) []session.ContentBlock {
	out := []session.ContentBlock{}
	p.Doc.Find(contentSelector).Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		tag := tagName(s)
		out = append(out, session.ContentBlock{Text: text, Element: tag, Hierarchy: hierarchy(tag)})
	})
	return out
}

func declaration(re *regexp.Regexp, style, def string) string {
	m := re.FindStringSubmatch(style)
	if len(m) < 2 {
		return def
	}
	if v := strings.TrimSpace(m[1]); v != "" {
		return v
	}
	return def
}

func tagName(s *goquery.Selection) string {
	return strings.ToLower(goquery.NodeName(s))
}

func hierarchy(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return paragraphHierarchy
}
