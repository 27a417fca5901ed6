package services

import (
	"fmt"
	"log"

	"movie-booking-platform/internal/models"
)

// CartService persists the visitor's cart under CartStorageKey on every
// mutation.
type CartService struct{}

func NewCartService() *CartService {
	return &CartService{}
}

// GetCart loads the cart. Missing state yields an empty cart; state that
// cannot be decoded is discarded.
func (s *CartService) GetCart(state StateStore) *models.Cart {
	var items []models.CartItem
	found, err := state.Load(CartStorageKey, &items)
	if err != nil {
		log.Printf("Error loading cart, discarding stored state: %v", err)
		if err := state.Remove(CartStorageKey); err != nil {
			log.Printf("Error removing cart state: %v", err)
		}
		return &models.Cart{Items: []models.CartItem{}}
	}
	if !found || items == nil {
		items = []models.CartItem{}
	}
	return &models.Cart{Items: items}
}

// AddItem replaces the item with the same composite id or appends it.
func (s *CartService) AddItem(state StateStore, item models.CartItem) (*models.Cart, error) {
	cart := s.GetCart(state)
	cart.AddItem(item)
	return cart, s.save(state, cart)
}

func (s *CartService) RemoveItem(state StateStore, id string) (*models.Cart, error) {
	cart := s.GetCart(state)
	cart.RemoveItem(id)
	return cart, s.save(state, cart)
}

func (s *CartService) ClearCart(state StateStore) error {
	cart := &models.Cart{}
	cart.Clear()
	return s.save(state, cart)
}

func (s *CartService) save(state StateStore, cart *models.Cart) error {
	if err := state.Save(CartStorageKey, cart.Items); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}
