package export

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"stylescraper/internal/core/session"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

var csvHeader = []string{"ID", "URL", "Domain", "Status", "Scraped At", "Images Count", "Colors Count"}

// File is a rendered export ready to be sent as an attachment.
type File struct {
	ContentType string
	Filename    string
	Body        []byte
}

// Render formats sessions as the requested format.
func Render(sessions []*session.Session, format Format) (*File, error) {
	switch format {
	case FormatJSON:
		if sessions == nil {
			sessions = []*session.Session{}
		}
		b, err := json.Marshal(sessions)
		if err != nil {
			return nil, err
		}
		return &File{ContentType: "application/json", Filename: "scraped-data.json", Body: b}, nil
	case FormatCSV:
		return &File{ContentType: "text/csv", Filename: "scraped-data.csv", Body: []byte(CSV(sessions))}, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// CSV renders one summary row per session. Every field is wrapped in double
// quotes as-is; embedded quotes and commas are not escaped.
func CSV(sessions []*session.Session) string {
	rows := make([]string, 0, len(sessions)+1)
	rows = append(rows, quoteRow(csvHeader))
	for _, s := range sessions {
		images, colors := 0, 0
		if s.Results != nil {
			images = len(s.Results.Images)
			colors = len(s.Results.Colors)
		}
		rows = append(rows, quoteRow([]string{
			strconv.Itoa(s.ID),
			s.URL,
			s.Domain,
			string(s.Status),
			s.ScrapedAt.UTC().Format(time.RFC3339),
			strconv.Itoa(images),
			strconv.Itoa(colors),
		}))
	}
	return strings.Join(rows, "\n")
}

func quoteRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + f + `"`
	}
	return strings.Join(quoted, ",")
}
