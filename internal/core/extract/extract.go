// Package extract turns a parsed page into images, colors, typography and
// content blocks. Every pass reads the same document and never mutates it.
package extract

import (
	"fmt"
	"io"
	"net/url"

	"stylescraper/internal/core/session"

	"github.com/PuerkitoBio/goquery"
)

// Page is a parsed document plus the URL it was fetched from.
type Page struct {
	Doc *goquery.Document
	URL *url.URL
}

// Parse reads HTML into a Page.
func Parse(r io.Reader, pageURL string) (*Page, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Page{Doc: doc, URL: base}, nil
}

type pass struct {
	name    string
	enabled func(session.Options) bool
	run     func(*Page, *session.Results) error
}

// passes run in this order; the first error stops the rest.
var passes = []pass{
	{"images", func(o session.Options) bool { return o.Images }, func(p *Page, r *session.Results) error {
		imgs, err := Images(p)
		r.Images = imgs
		return err
	}},
	{"colors", func(o session.Options) bool { return o.Colors }, func(p *Page, r *session.Results) error {
		r.Colors = Colors(p)
		return nil
	}},
	{"typography", func(o session.Options) bool { return o.Typography }, func(p *Page, r *session.Results) error {
		r.Typography = Typography(p)
		return nil
	}},
	{"content", func(o session.Options) bool { return o.Content }, func(p *Page, r *session.Results) error {
		r.Content = Content(p)
		return nil
	}},
}

// Run executes every enabled extractor over page and merges the output.
// Disabled options leave their slice nil.
func Run(page *Page, opts session.Options) (*session.Results, error) {
	res := &session.Results{}
	for _, p := range passes {
		if !p.enabled(opts) {
			continue
		}
		if err := p.run(page, res); err != nil {
			return nil, fmt.Errorf("%s: %w", p.name, err)
		}
	}
	return res, nil
}
