package fetch

import "github.com/gocolly/colly"

// HeaderProfile is the set of request headers sent with a page fetch.
type HeaderProfile struct {
	UserAgent       string
	Accept          string
	AcceptLanguage  string
	SecFetchDest    string
	SecFetchMode    string
	SecFetchSite    string
	SecChUa         string
	SecChUaPlatform string
}

const (
	ProfileBot     = "bot"
	ProfileBrowser = "browser"
)

var profiles = map[string]HeaderProfile{
	ProfileBot: {
		Accept:         "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		AcceptLanguage: "en-US,en;q=0.9",
	},
	ProfileBrowser: {
		UserAgent:       "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
		Accept:          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
		AcceptLanguage:  "en-US,en;q=0.9",
		SecFetchDest:    "document",
		SecFetchMode:    "navigate",
		SecFetchSite:    "none",
		SecChUa:         `"Google Chrome";v="131", "Chromium";v="131", "Not_A Brand";v="24"`,
		SecChUaPlatform: `"macOS"`,
	},
}

// Profile returns the named profile, falling back to the bot profile. A
// non-empty userAgent overrides the profile's own.
func Profile(name, userAgent string) HeaderProfile {
	p, ok := profiles[name]
	if !ok {
		p = profiles[ProfileBot]
	}
	if userAgent != "" {
		p.UserAgent = userAgent
	}
	return p
}

func (p HeaderProfile) apply(r *colly.Request) {
	set := func(k, v string) {
		if v != "" {
			r.Headers.Set(k, v)
		}
	}
	set("User-Agent", p.UserAgent)
	set("Accept", p.Accept)
	set("Accept-Language", p.AcceptLanguage)
	set("Sec-Fetch-Dest", p.SecFetchDest)
	set("Sec-Fetch-Mode", p.SecFetchMode)
	set("Sec-Fetch-Site", p.SecFetchSite)
	set("Sec-Ch-Ua", p.SecChUa)
	set("Sec-Ch-Ua-Platform", p.SecChUaPlatform)
}
