package models

import "time"

type TicketStatus string

const (
	TicketConfirmed TicketStatus = "confirmed"
	TicketPending   TicketStatus = "pending"
	TicketCancelled TicketStatus = "cancelled"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketConfirmed, TicketPending, TicketCancelled:
		return true
	}
	return false
}

// Ticket is issued per cart item at checkout.
type Ticket struct {
	ID         string       `json:"id"`
	MovieID    string       `json:"movieId"`
	MovieTitle string       `json:"movieTitle"`
	Date       string       `json:"date"`
	Time       string       `json:"time"`
	Seats      []string     `json:"seats"`
	Cinema     string       `json:"cinema"`
	Hall       string       `json:"hall"`
	Status     TicketStatus `json:"status"`
	CreatedAt  time.Time    `json:"createdAt"`
}
