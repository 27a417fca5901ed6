package models

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout    = "2006-01-02"
	showtimeDays  = 3
	SeatRows      = "ABCDEFGH"
	SeatsPerRow   = 10
	occupiedDraws = 20
)

// DailyShowTimes are the sessions scheduled every day for a released movie.
var DailyShowTimes = []string{"14:30", "17:00", "19:30", "22:00"}

// GenerateShowTimes returns the schedule for a movie released on releaseDate.
// Released movies play for three days starting today. Movies not yet released
// report comingSoon. An empty or unparseable date yields neither.
func GenerateShowTimes(releaseDate string, now time.Time) (showTimes []ShowTime, comingSoon bool) {
	showTimes = []ShowTime{}
	if releaseDate == "" {
		return showTimes, false
	}
	released, err := time.Parse(DateLayout, releaseDate)
	if err != nil {
		return showTimes, false
	}
	if released.After(now) {
		return showTimes, true
	}

	for i := 0; i < showtimeDays; i++ {
		showTimes = append(showTimes, ShowTime{
			Date:  now.AddDate(0, 0, i).Format(DateLayout),
			Times: append([]string(nil), DailyShowTimes...),
		})
	}
	return showTimes, false
}

// Seat is a position in the hall, e.g. "C7".
type Seat struct {
	ID       string `json:"id"`
	Row      string `json:"row"`
	Number   int    `json:"number"`
	Occupied bool   `json:"occupied"`
}

// SeatMap is a simulated hall layout. Occupancy is random and not persisted.
type SeatMap struct {
	MovieID      string   `json:"movieId"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	Rows         []string `json:"rows"`
	SeatsPerRow  int      `json:"seatsPerRow"`
	Seats        []Seat   `json:"seats"`
	PricePerSeat float64  `json:"pricePerSeat"`
}

// NewSeatMap lays out rows A-H and marks 20 random draws as occupied.
// Repeated draws collapse, so fewer than 20 seats may end up occupied.
func NewSeatMap(movieID, date, showTime string, pricePerSeat float64, rng *rand.Rand) SeatMap {
	occupied := make(map[string]bool, occupiedDraws)
	for i := 0; i < occupiedDraws; i++ {
		row := SeatRows[rng.IntN(len(SeatRows))]
		number := rng.IntN(SeatsPerRow) + 1
		occupied[seatID(row, number)] = true
	}

	seatMap := SeatMap{
		MovieID:      movieID,
		Date:         date,
		Time:         showTime,
		SeatsPerRow:  SeatsPerRow,
		PricePerSeat: pricePerSeat,
	}
	for r := 0; r < len(SeatRows); r++ {
		row := SeatRows[r]
		seatMap.Rows = append(seatMap.Rows, string(row))
		for n := 1; n <= SeatsPerRow; n++ {
			id := seatID(row, n)
			seatMap.Seats = append(seatMap.Seats, Seat{ID: id, Row: string(row), Number: n, Occupied: occupied[id]})
		}
	}
	return seatMap
}

// ValidSeat reports whether id names a seat of the hall.
func ValidSeat(id string) bool {
	if len(id) < 2 || strings.IndexByte(SeatRows, id[0]) < 0 {
		return false
	}
	n, err := strconv.Atoi(id[1:])
	if err != nil || n < 1 || n > SeatsPerRow {
		return false
	}
	return seatID(id[0], n) == id
}

func seatID(row byte, number int) string {
	return string(row) + strconv.Itoa(number)
}
