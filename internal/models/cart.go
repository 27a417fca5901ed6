package models

import (
	"fmt"
	"strings"
)

// CartItem is a seat selection for one showing.
type CartItem struct {
	ID         string   `json:"id"`
	MovieID    string   `json:"movieId"`
	MovieTitle string   `json:"movieTitle"`
	Date       string   `json:"date"`
	Time       string   `json:"time"`
	Seats      []string `json:"seats"`
	Price      float64  `json:"price"`
	PosterURL  string   `json:"posterUrl"`
}

// CartItemID builds the composite id movieId-date-time-seat1,seat2.
func CartItemID(movieID, date, showTime string, seats []string) string {
	return fmt.Sprintf("%s-%s-%s-%s", movieID, date, showTime, strings.Join(seats, ","))
}

// Cart is an ordered list of items with unique composite ids.
type Cart struct {
	Items []CartItem `json:"items"`
}

// AddItem replaces an item with the same id in place, otherwise appends.
func (c *Cart) AddItem(item CartItem) {
	for i := range c.Items {
		if c.Items[i].ID == item.ID {
			c.Items[i] = item
			return
		}
	}
	c.Items = append(c.Items, item)
}

// RemoveItem drops the item with the given id. Unknown ids are ignored.
func (c *Cart) RemoveItem(id string) {
	kept := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
}

func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price
	}
	return total
}

// ItemCount counts cart items, not seats.
func (c *Cart) ItemCount() int {
	return len(c.Items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
