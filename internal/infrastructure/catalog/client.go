// Package catalog 提供外部影视目录 API（TMDB v3）客户端
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"streamguide-api/internal/config"
	"streamguide-api/internal/domain/entity"
	redisinfra "streamguide-api/internal/infrastructure/persistence/redis"
	apperrors "streamguide-api/pkg/errors"
	"streamguide-api/pkg/metrics"
)

var tracer = otel.Tracer("catalog")

// Client 目录 API 客户端
// 稳定端点（genres/trending/detail）经 Redis 读穿缓存，检索端点直连
type Client struct {
	httpClient   *http.Client
	baseURL      string
	token        string
	language     string
	region       string
	includeAdult bool
	cache        *redisinfra.Cache
	discoverTTL  time.Duration
}

// NewClient 创建目录客户端
// cache 可为 nil，此时关闭读穿缓存
func NewClient(cfg *config.CatalogConfig, cache *redisinfra.Cache) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	discoverTTL := cfg.DiscoverCacheTTL
	if discoverTTL <= 0 {
		discoverTTL = 6 * time.Hour
	}
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		token:        cfg.APIToken,
		language:     cfg.Language,
		region:       cfg.Region,
		includeAdult: cfg.IncludeAdult,
		cache:        cache,
		discoverTTL:  discoverTTL,
	}
}

// SearchMulti 全文多类型检索
func (c *Client) SearchMulti(ctx context.Context, query string, page int) ([]entity.CatalogItem, error) {
	params := c.baseParams()
	params.Set("query", query)
	params.Set("page", pageOrDefault(page))

	var resp pagedResponse
	if err := c.get(ctx, "/search/multi", params, &resp); err != nil {
		return nil, err
	}
	return toEntities(resp.Results, entity.MediaTypeMovie), nil
}

// SearchPerson 人物检索
func (c *Client) SearchPerson(ctx context.Context, query string, page int) ([]entity.CatalogItem, error) {
	params := c.baseParams()
	params.Set("query", query)
	params.Set("page", pageOrDefault(page))

	var resp pagedResponse
	if err := c.get(ctx, "/search/person", params, &resp); err != nil {
		return nil, err
	}
	return toEntities(resp.Results, entity.MediaTypePerson), nil
}

// DiscoverMovie 按条件发现电影
func (c *Client) DiscoverMovie(ctx context.Context, opts DiscoverOptions) ([]entity.CatalogItem, error) {
	return c.discover(ctx, "/discover/movie", entity.MediaTypeMovie, opts)
}

// DiscoverTV 按条件发现剧集
func (c *Client) DiscoverTV(ctx context.Context, opts DiscoverOptions) ([]entity.CatalogItem, error) {
	return c.discover(ctx, "/discover/tv", entity.MediaTypeTV, opts)
}

func (c *Client) discover(ctx context.Context, endpoint string, mediaType entity.MediaType, opts DiscoverOptions) ([]entity.CatalogItem, error) {
	params := c.baseParams()
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = "popularity.desc"
	}
	params.Set("sort_by", sortBy)
	params.Set("page", pageOrDefault(opts.Page))
	if len(opts.GenreIDs) > 0 {
		ids := make([]string, 0, len(opts.GenreIDs))
		for _, id := range opts.GenreIDs {
			ids = append(ids, strconv.FormatInt(id, 10))
		}
		params.Set("with_genres", strings.Join(ids, ","))
	}
	if opts.Year > 0 {
		if mediaType == entity.MediaTypeTV {
			params.Set("first_air_date_year", strconv.Itoa(opts.Year))
		} else {
			params.Set("primary_release_year", strconv.Itoa(opts.Year))
		}
	}

	var resp pagedResponse
	if err := c.get(ctx, endpoint, params, &resp); err != nil {
		return nil, err
	}
	return toEntities(resp.Results, mediaType), nil
}

// PersonCombinedCredits 人物参与的影视作品（出演部分）
func (c *Client) PersonCombinedCredits(ctx context.Context, personID int64) ([]entity.CatalogItem, error) {
	endpoint := fmt.Sprintf("/person/%d/combined_credits", personID)

	var resp creditsResponse
	if err := c.get(ctx, endpoint, c.baseParams(), &resp); err != nil {
		return nil, err
	}
	return toEntities(resp.Cast, entity.MediaTypeMovie), nil
}

// MovieGenres 电影类型列表，读穿缓存
func (c *Client) MovieGenres(ctx context.Context) ([]entity.Genre, error) {
	load := func() ([]entity.Genre, error) {
		var resp genreListResponse
		if err := c.get(ctx, "/genre/movie/list", c.baseParams(), &resp); err != nil {
			return nil, err
		}
		return resp.Genres, nil
	}

	if c.cache == nil {
		return load()
	}

	key := fmt.Sprintf("catalog:genres:movie:%s", c.language)
	data, err := c.cache.GetOrLoadSafe(ctx, key, c.discoverTTL, func() (interface{}, error) {
		return load()
	})
	if err != nil {
		return nil, err
	}

	var genres []entity.Genre
	if err := json.Unmarshal(data, &genres); err != nil {
		return nil, fmt.Errorf("failed to decode cached genres: %w", err)
	}
	return genres, nil
}

// MovieDetail 电影详情，读穿缓存
func (c *Client) MovieDetail(ctx context.Context, id int64) (*entity.CatalogItem, error) {
	return c.detail(ctx, entity.MediaTypeMovie, id)
}

// TVDetail 剧集详情，读穿缓存
func (c *Client) TVDetail(ctx context.Context, id int64) (*entity.CatalogItem, error) {
	return c.detail(ctx, entity.MediaTypeTV, id)
}

func (c *Client) detail(ctx context.Context, mediaType entity.MediaType, id int64) (*entity.CatalogItem, error) {
	endpoint := fmt.Sprintf("/%s/%d", mediaType, id)

	load := func() (*entity.CatalogItem, error) {
		var resp detailResponse
		if err := c.get(ctx, endpoint, c.baseParams(), &resp); err != nil {
			return nil, err
		}
		item := resp.toEntity(mediaType)
		return &item, nil
	}

	if c.cache == nil {
		return load()
	}

	key := fmt.Sprintf("catalog:detail:%s:%d:%s", mediaType, id, c.language)
	data, err := c.cache.GetOrLoadSafe(ctx, key, c.discoverTTL, func() (interface{}, error) {
		return load()
	})
	if err != nil {
		return nil, err
	}

	var item entity.CatalogItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("failed to decode cached detail: %w", err)
	}
	return &item, nil
}

// Trending 趋势榜单，window 取 day/week，读穿缓存
func (c *Client) Trending(ctx context.Context, window string) ([]entity.CatalogItem, error) {
	if window != "day" && window != "week" {
		window = "day"
	}
	endpoint := fmt.Sprintf("/trending/all/%s", window)

	load := func() ([]entity.CatalogItem, error) {
		var resp pagedResponse
		if err := c.get(ctx, endpoint, c.baseParams(), &resp); err != nil {
			return nil, err
		}
		return toEntities(resp.Results, entity.MediaTypeMovie), nil
	}

	if c.cache == nil {
		return load()
	}

	key := fmt.Sprintf("catalog:trending:%s:%s", window, c.language)
	data, err := c.cache.GetOrLoadSafe(ctx, key, c.discoverTTL, func() (interface{}, error) {
		return load()
	})
	if err != nil {
		return nil, err
	}

	var items []entity.CatalogItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cached trending: %w", err)
	}
	return items, nil
}

// get 执行 GET 请求并解码响应
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	ctx, span := tracer.Start(ctx, "catalog.get",
		trace.WithAttributes(attribute.String("catalog.endpoint", endpoint)))
	defer span.End()

	metricEndpoint := normalizeEndpoint(endpoint)
	start := time.Now()

	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeCatalogAPIError, "failed to build catalog request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		metrics.CatalogRequestsTotal.WithLabelValues(metricEndpoint, "error").Inc()
		return apperrors.Wrap(err, apperrors.CodeCatalogAPIError, "catalog request failed")
	}
	defer resp.Body.Close()

	metrics.CatalogRequestDuration.WithLabelValues(metricEndpoint).Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		metrics.CatalogRequestsTotal.WithLabelValues(metricEndpoint, "error").Inc()
		return apperrors.Wrap(err, apperrors.CodeCatalogAPIError, "failed to read catalog response")
	}

	if resp.StatusCode != http.StatusOK {
		metrics.CatalogRequestsTotal.WithLabelValues(metricEndpoint, strconv.Itoa(resp.StatusCode)).Inc()

		var apiErr apiError
		if jsonErr := json.Unmarshal(body, &apiErr); jsonErr == nil && apiErr.StatusMessage != "" {
			return apperrors.New(apperrors.CodeCatalogAPIError,
				fmt.Sprintf("catalog api error: %s", apiErr.StatusMessage))
		}
		return apperrors.New(apperrors.CodeCatalogAPIError,
			fmt.Sprintf("catalog api returned status %d", resp.StatusCode))
	}

	metrics.CatalogRequestsTotal.WithLabelValues(metricEndpoint, "200").Inc()

	if err := json.Unmarshal(body, out); err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeCatalogAPIError, "failed to decode catalog response")
	}
	return nil
}

// baseParams 附加语言/地区/成人内容过滤参数
func (c *Client) baseParams() url.Values {
	params := url.Values{}
	if c.language != "" {
		params.Set("language", c.language)
	}
	if c.region != "" {
		params.Set("region", c.region)
	}
	params.Set("include_adult", strconv.FormatBool(c.includeAdult))
	return params
}

// normalizeEndpoint 将路径中的数字 ID 归一化，控制指标基数
func normalizeEndpoint(endpoint string) string {
	parts := strings.Split(endpoint, "/")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if _, err := strconv.ParseInt(p, 10, 64); err == nil {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

func pageOrDefault(page int) string {
	if page < 1 {
		page = 1
	}
	return strconv.Itoa(page)
}
