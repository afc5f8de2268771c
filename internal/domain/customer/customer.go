package customer

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a customer or shipping address does not exist.
var ErrNotFound = errors.New("customer not found")

// Customer is a registered account that can place orders.
type Customer struct {
	ID      string
	Name    string
	Phone   string
	Email   string
	Address string
}

// ShippingAddress is a saved delivery address belonging to a customer.
type ShippingAddress struct {
	ID         string
	CustomerID string
	FirstName  string
	LastName   string
	Address    string
	City       string
	Zip        string
	Phone      string
}

// Repository defines persistence operations for customers and their saved
// shipping addresses.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Customer, error)
	ListShippingAddresses(ctx context.Context, customerID string) ([]ShippingAddress, error)
	GetShippingAddress(ctx context.Context, id string) (*ShippingAddress, error)
}
