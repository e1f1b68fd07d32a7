//go:generate go run go.uber.org/mock/mockgen -source=headlines_svc.go -destination=../../mocks/mock_headlines_svc.go -package=mocks
package headlines

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	cacheKey       = "news:top:us"
	cacheTTL       = 5 * time.Minute
	country        = "us"
	requestTimeout = 10 * time.Second
	maxAttempts    = 3
)

var (
	ErrNotConfigured = errors.New("news feed is not configured")
	ErrUpstream      = errors.New("news provider error")
)

type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Article mirrors the provider's article shape.
type Article struct {
	Source      Source    `json:"source"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"urlToImage"`
	PublishedAt time.Time `json:"publishedAt"`
	Content     string    `json:"content"`
}

type IHeadlineService interface {
	FetchTopHeadlines(ctx context.Context) ([]Article, error)
}

type headlineService struct {
	apiKey     string
	rc         *resty.Client
	rdc        *redis.Client
	group      singleflight.Group
	newBackOff func() backoff.BackOff
}

var _ IHeadlineService = (*headlineService)(nil)

func NewHeadlineService(baseURL, apiKey string, rdc *redis.Client) IHeadlineService {
	rc := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(requestTimeout).
		SetHeader("X-Api-Key", apiKey)
	return &headlineService{
		apiKey: apiKey,
		rc:     rc,
		rdc:    rdc,
		newBackOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxAttempts-1)
		},
	}
}

// FetchTopHeadlines serves from the Redis cache when it can. Concurrent misses
// share one upstream request.
func (svc *headlineService) FetchTopHeadlines(ctx context.Context) ([]Article, error) {
	if svc.apiKey == "" {
		return nil, ErrNotConfigured
	}

	raw, err := svc.rdc.Get(ctx, cacheKey).Bytes()
	switch {
	case err == nil:
		var cached []Article
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		zap.L().Warn("headlines.cache_decode", zap.Error(err))
	case !errors.Is(err, redis.Nil):
		zap.L().Warn("headlines.cache_get", zap.Error(err))
	}

	v, err, shared := svc.group.Do(cacheKey, func() (any, error) {
		// detached so one caller giving up does not fail the others
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), maxAttempts*requestTimeout)
		defer cancel()
		articles, err := svc.fetchWithRetry(fctx)
		if err != nil {
			return nil, err
		}
		if b, err := json.Marshal(articles); err == nil {
			if err := svc.rdc.Set(fctx, cacheKey, string(b), cacheTTL).Err(); err != nil {
				zap.L().Warn("headlines.cache_set", zap.Error(err))
			}
		}
		return articles, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		zap.L().Debug("headlines.shared_fetch")
	}
	return v.([]Article), nil
}

func (svc *headlineService) fetchWithRetry(ctx context.Context) ([]Article, error) {
	var articles []Article
	op := func() error {
		var err error
		articles, err = svc.fetch(ctx)
		return err
	}
	notify := func(err error, wait time.Duration) {
		zap.L().Warn("headlines.retry", zap.Error(err), zap.Duration("wait", wait))
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(svc.newBackOff(), ctx), notify); err != nil {
		return nil, err
	}
	return articles, nil
}

type topHeadlinesResponse struct {
	Status   string    `json:"status"`
	Code     string    `json:"code"`
	Message  string    `json:"message"`
	Articles []Article `json:"articles"`
}

func (svc *headlineService) fetch(ctx context.Context) ([]Article, error) {
	resp, err := svc.rc.R().
		SetContext(ctx).
		SetQueryParam("country", country).
		Get("/top-headlines")
	if err != nil {
		return nil, err
	}

	var out topHeadlinesResponse
	_ = json.Unmarshal(resp.Body(), &out)

	if code := resp.StatusCode(); code != http.StatusOK || out.Status == "error" {
		err := fmt.Errorf("%w: %d %s", ErrUpstream, code, out.Message)
		// client errors (bad key, bad params) do not get better on retry
		if code >= 400 && code < 500 && code != http.StatusTooManyRequests {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	if out.Articles == nil {
		out.Articles = []Article{}
	}
	return out.Articles, nil
}
