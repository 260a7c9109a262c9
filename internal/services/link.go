package services

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edgepay/edgepay-gobackend/internal/models"
	"github.com/edgepay/edgepay-gobackend/internal/store"
)

const (
	descriptionMinLen = 3
	descriptionMaxLen = 100
)

// LinkService owns the payment link lifecycle: creation, the lazy
// expiration view, the pay transition and deletion.
type LinkService struct {
	store store.LinkStore
	log   zerolog.Logger

	// now is swappable in tests; defaults to wall clock epoch millis.
	now func() int64
}

func NewLinkService(linkStore store.LinkStore, log zerolog.Logger) *LinkService {
	return &LinkService{
		store: linkStore,
		log:   log,
		now:   func() int64 { return time.Now().UnixMilli() },
	}
}

// Create validates the input, persists a new pending link and returns the
// stored record. Nothing is written when validation fails.
func (s *LinkService) Create(ctx context.Context, amount float64, description string, expiresAt *int64) (models.PaymentLink, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	description = strings.TrimSpace(description)
	if amount <= 0 {
		return models.PaymentLink{}, &ValidationError{Message: "amount must be positive"}
	}
	if n := utf8.RuneCountInString(description); n < descriptionMinLen || n > descriptionMaxLen {
		return models.PaymentLink{}, &ValidationError{Message: "description must be between 3 and 100 characters"}
	}

	link := models.PaymentLink{
		ID:          uuid.NewString(),
		Amount:      amount,
		Currency:    models.Currency,
		Description: description,
		Status:      models.StatusPending,
		CreatedAt:   s.now(),
		ExpiresAt:   expiresAt,
	}
	if err := s.store.Create(ctx, link); err != nil {
		s.log.Error().Err(err).Str("link_id", link.ID).Msg("failed to save payment link")
		return models.PaymentLink{}, err
	}

	s.log.Info().Str("link_id", link.ID).Float64("amount", amount).Msg("payment link created")
	return link, nil
}

// Get returns a single link with the expiration view applied.
func (s *LinkService) Get(ctx context.Context, id string) (models.PaymentLink, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	link, err := s.store.Get(ctx, id)
	if err != nil {
		if err == store.ErrNoDocument {
			return models.PaymentLink{}, &NotFoundError{ID: id}
		}
		s.log.Error().Err(err).Str("link_id", id).Msg("failed to fetch payment link")
		return models.PaymentLink{}, err
	}
	return link.Resolved(s.now()), nil
}

// List returns all links, expiration-resolved, newest first. Ties on
// created_at break by id so the ordering is stable.
func (s *LinkService) List(ctx context.Context) ([]models.PaymentLink, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	page, err := s.store.ListAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to fetch payment links")
		return nil, err
	}

	now := s.now()
	links := make([]models.PaymentLink, 0, len(page.Items))
	for _, link := range page.Items {
		links = append(links, link.Resolved(now))
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].CreatedAt != links[j].CreatedAt {
			return links[i].CreatedAt > links[j].CreatedAt
		}
		return links[i].ID > links[j].ID
	})
	return links, nil
}

// Pay transitions a link from pending to paid. The check runs against the
// effective status, so an expired-but-still-pending record cannot be paid
// even though storage still says pending.
func (s *LinkService) Pay(ctx context.Context, id string) (models.PaymentLink, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	link, err := s.store.Get(ctx, id)
	if err != nil {
		if err == store.ErrNoDocument {
			return models.PaymentLink{}, &NotFoundError{ID: id}
		}
		s.log.Error().Err(err).Str("link_id", id).Msg("failed to fetch payment link")
		return models.PaymentLink{}, err
	}

	resolved := link.Resolved(s.now())
	if resolved.Status != models.StatusPending {
		s.log.Info().Str("link_id", id).Str("status", resolved.Status).Msg("rejected pay on non-pending link")
		return models.PaymentLink{}, &InvalidStateError{Status: resolved.Status}
	}

	if err := s.store.Patch(ctx, id, map[string]interface{}{"status": models.StatusPaid}); err != nil {
		s.log.Error().Err(err).Str("link_id", id).Msg("failed to update payment link")
		return models.PaymentLink{}, err
	}

	updated, err := s.store.Get(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Str("link_id", id).Msg("failed to fetch updated payment link")
		return models.PaymentLink{}, err
	}

	s.log.Info().Str("link_id", id).Msg("payment link paid")
	return updated, nil
}

// Delete removes a link and reports whether one existed.
func (s *LinkService) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Str("link_id", id).Msg("failed to delete payment link")
		return false, err
	}
	if deleted {
		s.log.Info().Str("link_id", id).Msg("payment link deleted")
	}
	return deleted, nil
}
