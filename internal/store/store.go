package store

import (
	"context"
	"errors"

	"github.com/edgepay/edgepay-gobackend/internal/models"
)

// ErrNoDocument is returned by Get when no link with the given id exists.
var ErrNoDocument = errors.New("no document found")

// Page wraps a listing result. Next carries the pagination cursor of the
// backing store, nil when there are no further pages.
type Page struct {
	Items []models.PaymentLink `json:"items"`
	Next  *string              `json:"next,omitempty"`
}

// LinkStore is the keyed persistence contract for payment links. The
// backing store is expected to serialize operations per key; the service
// layer relies on that for concurrent pay/delete on the same id.
type LinkStore interface {
	Create(ctx context.Context, link models.PaymentLink) error
	Get(ctx context.Context, id string) (models.PaymentLink, error)
	Exists(ctx context.Context, id string) (bool, error)
	Patch(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) (bool, error)
	ListAll(ctx context.Context) (Page, error)
}
