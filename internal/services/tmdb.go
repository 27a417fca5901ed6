package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"movie-booking-platform/internal/cache"
	"movie-booking-platform/internal/config"
	"movie-booking-platform/internal/models"
)

// TMDBClient builds provider URLs and decodes the payloads returned by the
// fetch cache.
type TMDBClient struct {
	fetcher PayloadFetcher
	config  config.TMDBConfig
}

func NewTMDBClient(fetcher PayloadFetcher, cfg config.TMDBConfig) *TMDBClient {
	return &TMDBClient{fetcher: fetcher, config: cfg}
}

// Listing fetches page 1 of a category. Cache key: the category name.
func (c *TMDBClient) Listing(ctx context.Context, category models.ListingCategory) (*models.ProviderMoviePage, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("unknown listing %q: %w", category, models.ErrInvalidInput)
	}

	params := c.baseParams()
	params.Set("page", "1")
	params.Set("region", c.config.Region)

	var page models.ProviderMoviePage
	if err := c.get(ctx, string(category), "/movie/"+string(category), params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Search fetches page 1 of a title search. Cache key: search_<query>.
func (c *TMDBClient) Search(ctx context.Context, query string) (*models.ProviderMoviePage, error) {
	if query == "" {
		return nil, fmt.Errorf("empty search query: %w", models.ErrInvalidInput)
	}

	params := c.baseParams()
	params.Set("query", query)
	params.Set("page", "1")
	params.Set("include_adult", "false")

	var page models.ProviderMoviePage
	if err := c.get(ctx, "search_"+query, "/search/movie", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Detail fetches a movie with credits, videos and similar titles.
// Cache key: detail_<id>.
func (c *TMDBClient) Detail(ctx context.Context, id int64) (*models.ProviderMovieDetail, error) {
	idStr := strconv.FormatInt(id, 10)
	params := c.baseParams()
	params.Set("append_to_response", "credits,videos,similar")

	var detail models.ProviderMovieDetail
	if err := c.get(ctx, "detail_"+idStr, "/movie/"+idStr, params, &detail); err != nil {
		var statusErr *cache.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("movie %d: %w", id, models.ErrMovieNotFound)
		}
		return nil, err
	}
	return &detail, nil
}

func (c *TMDBClient) baseParams() url.Values {
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)
	params.Set("language", c.config.Language)
	return params
}

func (c *TMDBClient) get(ctx context.Context, key, path string, params url.Values, dest any) error {
	payload, err := c.fetcher.Fetch(ctx, key, c.config.BaseURL+path+"?"+params.Encode())
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", key, err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("failed to decode %s: %w: %w", key, cache.ErrUpstream, err)
	}
	return nil
}
