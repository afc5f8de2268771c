package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okhld/orderdesk/internal/domain/customer"
)

const (
	getCustomerSQL = `SELECT id, name, phone, email, address
		FROM customers WHERE id = $1`

	listShippingAddressesSQL = `SELECT id, customer_id, first_name, last_name, address, city, zip, phone
		FROM shipping_addresses WHERE customer_id = $1 ORDER BY id`

	getShippingAddressSQL = `SELECT id, customer_id, first_name, last_name, address, city, zip, phone
		FROM shipping_addresses WHERE id = $1`
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a CustomerRepository that uses the given pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// GetByID returns a single customer by its identifier.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*customer.Customer, error) {
	rows, err := r.pool.Query(ctx, getCustomerSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting customer %q: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCustomer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, fmt.Errorf("getting customer %q: %w", id, err)
	}
	return &c, nil
}

// ListShippingAddresses returns every saved address for a customer.
func (r *CustomerRepository) ListShippingAddresses(ctx context.Context, customerID string) ([]customer.ShippingAddress, error) {
	rows, err := r.pool.Query(ctx, listShippingAddressesSQL, customerID)
	if err != nil {
		return nil, fmt.Errorf("listing shipping addresses for %q: %w", customerID, err)
	}
	return pgx.CollectRows(rows, scanShippingAddress)
}

// GetShippingAddress returns a single saved address by its identifier.
func (r *CustomerRepository) GetShippingAddress(ctx context.Context, id string) (*customer.ShippingAddress, error) {
	rows, err := r.pool.Query(ctx, getShippingAddressSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting shipping address %q: %w", id, err)
	}

	a, err := pgx.CollectExactlyOneRow(rows, scanShippingAddress)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, fmt.Errorf("getting shipping address %q: %w", id, err)
	}
	return &a, nil
}

func scanCustomer(row pgx.CollectableRow) (customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address)
	return c, err
}

func scanShippingAddress(row pgx.CollectableRow) (customer.ShippingAddress, error) {
	var a customer.ShippingAddress
	err := row.Scan(&a.ID, &a.CustomerID, &a.FirstName, &a.LastName, &a.Address, &a.City, &a.Zip, &a.Phone)
	return a, err
}
