package extract

import (
	"fmt"
	"net/url"
	"strings"

	"stylescraper/internal/core/session"
	"stylescraper/internal/utils/parser"

	"github.com/PuerkitoBio/goquery"
)

// Images lists every <img> with a src, resolved against the page URL.
func Images(p *Page) ([]session.Image, error) {
	out := []session.Image{}
	var err error
	p.Doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		if src == "" {
			return true
		}
		abs, rerr := absolutize(p.URL, src)
		if rerr != nil {
			err = rerr
			return false
		}
		alt, _ := s.Attr("alt")
		out = append(out, session.Image{
			Src:    abs,
			Alt:    alt,
			Width:  intAttr(s, "width"),
			Height: intAttr(s, "height"),
		})
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func absolutize(base *url.URL, src string) (string, error) {
	if strings.HasPrefix(src, "http") {
		return src, nil
	}
	ref, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return "", fmt.Errorf("invalid image URL %q: %w", src, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// intAttr parses the leading integer of an attribute ("100px" is 100).
func intAttr(s *goquery.Selection, name string) *int {
	v, ok := s.Attr(name)
	if !ok || v == "" {
		return nil
	}
	n, err := parser.LeadingInt(v)
	if err != nil {
		return nil
	}
	i := int(n)
	return &i
}
