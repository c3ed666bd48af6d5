package session

import (
	"net/url"
	"time"
)

// Status of a scraping session. A session leaves StatusPending exactly once.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Options selects which extractors run.
type Options struct {
	Images     bool `json:"images"`
	Colors     bool `json:"colors"`
	Typography bool `json:"typography"`
	Content    bool `json:"content"`
}

// DefaultOptions mirrors what the dashboard sends when nothing is chosen.
func DefaultOptions() Options {
	return Options{Images: true, Colors: true}
}

type Image struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	Width  *int   `json:"width,omitempty"`
	Height *int   `json:"height,omitempty"`
}

type Color struct {
	Hex   string `json:"hex"`
	RGB   string `json:"rgb"`
	Usage string `json:"usage"`
}

type Typography struct {
	FontFamily string `json:"fontFamily"`
	FontSize   string `json:"fontSize"`
	FontWeight string `json:"fontWeight"`
	Element    string `json:"element"`
}

type ContentBlock struct {
	Text      string `json:"text"`
	Element   string `json:"element"`
	Hierarchy int    `json:"hierarchy"`
}

// Results holds extractor output. A nil slice means the option was disabled.
type Results struct {
	Images     []Image        `json:"images,omitempty"`
	Colors     []Color        `json:"colors,omitempty"`
	Typography []Typography   `json:"typography,omitempty"`
	Content    []ContentBlock `json:"content,omitempty"`
}

// Session is one scrape request and its outcome.
type Session struct {
	ID           int       `json:"id"`
	URL          string    `json:"url"`
	Domain       string    `json:"domain"`
	Status       Status    `json:"status"`
	ScrapedAt    time.Time `json:"scrapedAt"`
	Options      Options   `json:"options"`
	Results      *Results  `json:"results,omitempty"`
	ErrorMessage *string   `json:"errorMessage,omitempty"`
}

// NewSession is the input to Store.Create.
type NewSession struct {
	URL     string
	Domain  string
	Status  Status
	Options Options
}

// Update is a partial merge; nil fields are left untouched.
type Update struct {
	Status       *Status
	Results      *Results
	ErrorMessage *string
}

// Statistics aggregates over the whole store.
type Statistics struct {
	TotalScrapes    int     `json:"totalScrapes"`
	TotalImages     int     `json:"totalImages"`
	TotalColors     int     `json:"totalColors"`
	TotalTypography int     `json:"totalTypography"`
	SuccessRate     float64 `json:"successRate"`
}

// DomainOf returns the host component of rawURL, or "" when it has none.
func DomainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func (r *Results) clone() *Results {
	if r == nil {
		return nil
	}
	out := &Results{}
	if r.Images != nil {
		out.Images = make([]Image, len(r.Images))
		for i, img := range r.Images {
			out.Images[i] = Image{Src: img.Src, Alt: img.Alt, Width: cloneInt(img.Width), Height: cloneInt(img.Height)}
		}
	}
	if r.Colors != nil {
		out.Colors = append([]Color{}, r.Colors...)
	}
	if r.Typography != nil {
		out.Typography = append([]Typography{}, r.Typography...)
	}
	if r.Content != nil {
		out.Content = append([]ContentBlock{}, r.Content...)
	}
	return out
}

func (s *Session) clone() *Session {
	c := *s
	c.Results = s.Results.clone()
	if s.ErrorMessage != nil {
		msg := *s.ErrorMessage
		c.ErrorMessage = &msg
	}
	return &c
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
