package services

import (
	"fmt"
	"strconv"
	"time"

	"movie-booking-platform/internal/models"
)

const (
	PosterPlaceholder   = "/placeholder.svg?height=600&width=400"
	BackdropPlaceholder = "/placeholder.svg?height=1080&width=1920"
	UnknownDirector     = "Desconocido"

	youtubeEmbedURL = "https://www.youtube.com/embed/"
	maxCast         = 10
	maxSimilar      = 4
)

// MovieMapper turns provider payloads into the display model.
type MovieMapper struct {
	imageBaseURL string
	now          func() time.Time
}

func NewMovieMapper(imageBaseURL string, now func() time.Time) *MovieMapper {
	if now == nil {
		now = time.Now
	}
	return &MovieMapper{imageBaseURL: imageBaseURL, now: now}
}

func (m *MovieMapper) Movie(p models.ProviderMovie) models.Movie {
	showTimes, comingSoon := models.GenerateShowTimes(p.ReleaseDate, m.now())

	genreIDs := p.GenreIDs
	if genreIDs == nil {
		genreIDs = []int{}
	}

	rating := "PG-13"
	if p.Adult {
		rating = "R"
	}

	return models.Movie{
		ID:          strconv.FormatInt(p.ID, 10),
		Title:       p.Title,
		Poster:      m.image("w500", p.PosterPath, PosterPlaceholder),
		Backdrop:    m.image("original", p.BackdropPath, BackdropPlaceholder),
		ReleaseDate: p.ReleaseDate,
		VoteAverage: p.VoteAverage,
		VoteCount:   p.VoteCount,
		Popularity:  p.Popularity,
		GenreIDs:    genreIDs,
		Rating:      rating,
		Synopsis:    p.Overview,
		ShowTimes:   showTimes,
		ComingSoon:  comingSoon,
	}
}

func (m *MovieMapper) Movies(movies []models.ProviderMovie) []models.Movie {
	out := make([]models.Movie, 0, len(movies))
	for _, p := range movies {
		out = append(out, m.Movie(p))
	}
	return out
}

func (m *MovieMapper) Page(p *models.ProviderMoviePage) *models.MoviePage {
	return &models.MoviePage{
		Results:      m.Movies(p.Results),
		Page:         p.Page,
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
	}
}

func (m *MovieMapper) Detail(p *models.ProviderMovieDetail) *models.MovieDetail {
	detail := &models.MovieDetail{
		Movie:         m.Movie(p.ProviderMovie),
		OriginalTitle: p.OriginalTitle,
		Duration:      FormatRuntime(p.Runtime),
		Genres:        make([]string, 0, len(p.Genres)),
		Cast:          make([]models.CastMember, 0, maxCast),
		Director:      UnknownDirector,
	}

	for _, g := range p.Genres {
		detail.Genres = append(detail.Genres, g.Name)
	}

	for _, v := range p.Videos.Results {
		if v.Type == "Trailer" && v.Site == "YouTube" {
			trailer := youtubeEmbedURL + v.Key
			detail.Trailer = &trailer
			break
		}
	}

	for i, actor := range p.Credits.Cast {
		if i == maxCast {
			break
		}
		member := models.CastMember{ID: actor.ID, Name: actor.Name, Role: actor.Character}
		if actor.ProfilePath != "" {
			profile := m.imageBaseURL + "/w185" + actor.ProfilePath
			member.Profile = &profile
		}
		detail.Cast = append(detail.Cast, member)
	}

	for _, person := range p.Credits.Crew {
		if person.Job == "Director" && person.Name != "" {
			detail.Director = person.Name
			break
		}
	}

	similar := p.Similar.Results
	if len(similar) > maxSimilar {
		similar = similar[:maxSimilar]
	}
	detail.Similar = m.Movies(similar)

	return detail
}

// FormatRuntime renders minutes as "Xh Ym".
func FormatRuntime(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func (m *MovieMapper) image(size, path, placeholder string) string {
	if path == "" {
		return placeholder
	}
	return m.imageBaseURL + "/" + size + path
}
