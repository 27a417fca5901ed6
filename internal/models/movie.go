package models

// Listing categories served by the catalog.
type ListingCategory string

const (
	NowPlaying ListingCategory = "now_playing"
	Upcoming   ListingCategory = "upcoming"
	Popular    ListingCategory = "popular"
)

func (c ListingCategory) Valid() bool {
	switch c {
	case NowPlaying, Upcoming, Popular:
		return true
	}
	return false
}

// Provider payloads as returned by the metadata API.

type ProviderMovie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids"`
	Adult            bool    `json:"adult"`
	OriginalLanguage string  `json:"original_language"`
}

type ProviderMoviePage struct {
	Page         int             `json:"page"`
	Results      []ProviderMovie `json:"results"`
	TotalPages   int             `json:"total_pages"`
	TotalResults int             `json:"total_results"`
}

type ProviderGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ProviderCastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

type ProviderCrewMember struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

type ProviderCredits struct {
	Cast []ProviderCastMember `json:"cast"`
	Crew []ProviderCrewMember `json:"crew"`
}

type ProviderVideo struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

type ProviderVideos struct {
	Results []ProviderVideo `json:"results"`
}

// ProviderMovieDetail is a movie with credits, videos and similar titles appended.
type ProviderMovieDetail struct {
	ProviderMovie
	Runtime int               `json:"runtime"`
	Genres  []ProviderGenre   `json:"genres"`
	Credits ProviderCredits   `json:"credits"`
	Videos  ProviderVideos    `json:"videos"`
	Similar ProviderMoviePage `json:"similar"`
}

// Display model served to clients.

type ShowTime struct {
	Date  string   `json:"date"`
	Times []string `json:"times"`
}

type Movie struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Poster      string     `json:"poster"`
	Backdrop    string     `json:"backdrop"`
	ReleaseDate string     `json:"releaseDate"`
	VoteAverage float64    `json:"voteAverage"`
	VoteCount   int        `json:"voteCount"`
	Popularity  float64    `json:"popularity"`
	GenreIDs    []int      `json:"genre_ids"`
	Rating      string     `json:"rating"`
	Synopsis    string     `json:"synopsis"`
	ShowTimes   []ShowTime `json:"showTimes"`
	ComingSoon  bool       `json:"comingSoon"`
}

type CastMember struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Role    string  `json:"role"`
	Profile *string `json:"profile"`
}

type MovieDetail struct {
	Movie
	OriginalTitle string       `json:"originalTitle"`
	Duration      string       `json:"duration"`
	Genres        []string     `json:"genre"`
	Trailer       *string      `json:"trailer"`
	Cast          []CastMember `json:"cast"`
	Director      string       `json:"director"`
	Similar       []Movie      `json:"similar"`
}

type MoviePage struct {
	Results      []Movie `json:"results"`
	Page         int     `json:"page"`
	TotalPages   int     `json:"totalPages"`
	TotalResults int     `json:"totalResults"`
}
