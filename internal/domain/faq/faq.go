package faq

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested FAQ entry does not exist.
var ErrNotFound = errors.New("faq not found")

// FAQ is a question/answer entry shown on the storefront help page.
type FAQ struct {
	ID       string
	Question string
	Answer   string
	Position int
}

// Repository defines persistence operations for FAQ entries.
type Repository interface {
	List(ctx context.Context) ([]FAQ, error)
	GetByID(ctx context.Context, id string) (*FAQ, error)
	Create(ctx context.Context, f *FAQ) error
	Update(ctx context.Context, f *FAQ) error
	Delete(ctx context.Context, id string) error
}
