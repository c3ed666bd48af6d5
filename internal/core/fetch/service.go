package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"stylescraper/internal/logger"

	"github.com/gocolly/colly"
)

// StatusError is returned when the target answers with a non-2xx status.
type StatusError struct {
	Code int
	Text string
}

func (e *StatusError) Error() string { return fmt.Sprintf("HTTP %d: %s", e.Code, e.Text) }

// Cache is the subset of the Redis platform service used for page caching.
type Cache interface {
	CacheGet(ctx context.Context, key string, dest interface{}) error
	CacheSet(ctx context.Context, key string, val interface{}, ttlSeconds int) error
}

type Options struct {
	UserAgent string

	// HeaderProfile names the request header set, ProfileBot by default.
	HeaderProfile string

	// Cache and CacheTTL enable the page cache when both are set.
	Cache    Cache
	CacheTTL int
}

type Service struct {
	log  *logger.Logger
	opts Options
}

func NewService(opts Options) *Service {
	return &Service{log: logger.New("FetchService"), opts: opts}
}

// Fetch performs a plain GET and returns the body. There is no retry and no
// timeout.
func (s *Service) Fetch(ctx context.Context, url string) ([]byte, error) {
	if body, ok := s.getCached(ctx, url); ok {
		s.log.Debug().Str("url", url).Msg("cache hit")
		return body, nil
	}

	c := colly.NewCollector(colly.AllowURLRevisit(), colly.MaxBodySize(0))
	c.SetRequestTimeout(0)
	c.OnRequest(Profile(s.opts.HeaderProfile, s.opts.UserAgent).apply)
	// Status handling happens in OnResponse so 2xx means success exactly.
	c.ParseHTTPErrorResponse = true

	var (
		body      []byte
		statusErr error
	)
	c.OnResponse(func(r *colly.Response) {
		if r.StatusCode < 200 || r.StatusCode >= 300 {
			statusErr = &StatusError{Code: r.StatusCode, Text: http.StatusText(r.StatusCode)}
			return
		}
		body = r.Body
	})

	if err := c.Visit(url); err != nil {
		s.log.Info().Str("url", url).Str("error", err.Error()).Msg("fetch failed")
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if statusErr != nil {
		s.log.Info().Str("url", url).Str("error", statusErr.Error()).Msg("fetch rejected")
		return nil, statusErr
	}

	s.cache(ctx, url, body)
	s.log.Debug().Str("url", url).Int("bytes", len(body)).Msg("fetch complete")
	return body, nil
}

func (s *Service) cachingEnabled() bool {
	return s.opts.Cache != nil && s.opts.CacheTTL > 0
}

func (s *Service) getCached(ctx context.Context, url string) ([]byte, bool) {
	if !s.cachingEnabled() {
		return nil, false
	}
	var page string
	if err := s.opts.Cache.CacheGet(ctx, cacheKey(url), &page); err != nil {
		return nil, false
	}
	return []byte(page), true
}

func (s *Service) cache(ctx context.Context, url string, body []byte) {
	if !s.cachingEnabled() {
		return
	}
	if err := s.opts.Cache.CacheSet(ctx, cacheKey(url), string(body), s.opts.CacheTTL); err != nil {
		s.log.LogWarnf("page cache write failed for %s: %v", url, err)
	}
}

func cacheKey(url string) string {
	safe := strings.NewReplacer(":", "_", "/", "_", "?", "_", "&", "_").Replace(url)
	return "page:" + safe
}
