// Package models defines the core data types for the cart.
package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidProduct is returned when a product fails validation.
var ErrInvalidProduct = errors.New("invalid product")

// Product is a catalogue entry as handed to AddToCart: a cart line item
// without its quantity.
type Product struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	ImageURL string  `json:"image_url"`
	Price    float64 `json:"price"`
}

// Validate reports whether p can be placed in a cart.
func (p Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidProduct)
	}
	if p.Price < 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		return fmt.Errorf("%w: price must be a non-negative number, got %v", ErrInvalidProduct, p.Price)
	}
	return nil
}

// CartItem is one product entry in the cart with its quantity.
// Quantity is always >= 1 while the item is in a Cart.
type CartItem struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	ImageURL string  `json:"image_url"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// NewCartItem returns a CartItem for p with quantity 1.
func NewCartItem(p Product) CartItem {
	return CartItem{
		ID:       p.ID,
		Title:    p.Title,
		ImageURL: p.ImageURL,
		Price:    p.Price,
		Quantity: 1,
	}
}

// Subtotal is the line total: price times quantity.
func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Cart is the ordered collection of line items, in insertion order.
type Cart []CartItem

// Find returns the index of the item with the given id, or -1.
func (c Cart) Find(id string) int {
	for i, item := range c {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Count returns the total number of units in the cart.
func (c Cart) Count() int {
	n := 0
	for _, item := range c {
		n += item.Quantity
	}
	return n
}

// Total returns the sum of all line subtotals.
func (c Cart) Total() float64 {
	var total float64
	for _, item := range c {
		total += item.Subtotal()
	}
	return total
}

// Clone returns a copy of c that shares no backing array with it.
// A nil or empty cart clones to an empty, non-nil cart.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}
