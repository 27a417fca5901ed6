package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"movie-booking-platform/internal/cache"
	"movie-booking-platform/internal/config"
	"movie-booking-platform/internal/models"
	"movie-booking-platform/internal/services"
)

// check-movies fetches one listing from the provider, bypassing any shared
// cache, and prints what the API would serve.
func main() {
	category := flag.String("type", string(models.NowPlaying), "Listing to fetch: now_playing, upcoming or popular")
	query := flag.String("query", "", "Search instead of listing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if cfg.TMDB.APIKey == "" {
		log.Fatal("TMDB_API_KEY is not set")
	}

	fetcher := cache.NewFetcher(cache.NewMemoryStore(), &http.Client{Timeout: cfg.Cache.RequestTimeout}, cache.Config{
		TTL:        cfg.Cache.TTL,
		MaxRetries: cfg.Cache.MaxRetries,
		BaseDelay:  cfg.Cache.BaseDelay,
	})
	movies := services.NewMovieService(
		services.NewTMDBClient(fetcher, cfg.TMDB),
		services.NewMovieMapper(cfg.TMDB.ImageBaseURL, time.Now),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var page *models.MoviePage
	if *query != "" {
		page, err = movies.Search(ctx, *query)
	} else {
		page, err = movies.Listing(ctx, models.ListingCategory(*category))
	}
	if err != nil {
		log.Fatal("Failed to fetch movies:", err)
	}

	log.Printf("Page %d of %d (%d results)", page.Page, page.TotalPages, page.TotalResults)
	for _, m := range page.Results {
		status := "in theatres"
		if m.ComingSoon {
			status = "coming soon"
		}
		log.Printf("%s | %s | %s | %.1f | %s", m.ID, m.Title, m.ReleaseDate, m.VoteAverage, status)
	}
}
