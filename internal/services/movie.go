package services

import (
	"context"
	"log"

	"movie-booking-platform/internal/models"
)

// MovieService is the catalog served to clients.
type MovieService struct {
	provider MovieProvider
	mapper   *MovieMapper
}

func NewMovieService(provider MovieProvider, mapper *MovieMapper) *MovieService {
	return &MovieService{provider: provider, mapper: mapper}
}

func (s *MovieService) Listing(ctx context.Context, category models.ListingCategory) (*models.MoviePage, error) {
	page, err := s.provider.Listing(ctx, category)
	if err != nil {
		return nil, err
	}
	return s.mapper.Page(page), nil
}

func (s *MovieService) Search(ctx context.Context, query string) (*models.MoviePage, error) {
	page, err := s.provider.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.mapper.Page(page), nil
}

func (s *MovieService) Detail(ctx context.Context, id int64) (*models.MovieDetail, error) {
	detail, err := s.provider.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.mapper.Detail(detail), nil
}

const featuredCount = 5

// HomeSections are the listings shown on the landing page.
type HomeSections struct {
	Featured   []models.Movie `json:"featured"`
	NowPlaying []models.Movie `json:"nowPlaying"`
	Upcoming   []models.Movie `json:"upcoming"`
	Popular    []models.Movie `json:"popular"`
}

// Home loads every listing. A listing that fails is logged and left empty
// so one provider error does not blank the whole page.
func (s *MovieService) Home(ctx context.Context) *HomeSections {
	home := &HomeSections{
		NowPlaying: s.listingOrEmpty(ctx, models.NowPlaying),
		Upcoming:   s.listingOrEmpty(ctx, models.Upcoming),
		Popular:    s.listingOrEmpty(ctx, models.Popular),
	}
	home.Featured = home.Popular[:min(len(home.Popular), featuredCount)]
	return home
}

func (s *MovieService) listingOrEmpty(ctx context.Context, category models.ListingCategory) []models.Movie {
	page, err := s.Listing(ctx, category)
	if err != nil {
		log.Printf("Error loading %s movies: %v", category, err)
		return []models.Movie{}
	}
	return page.Results
}
