package client

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/edgepay/edgepay-gobackend/internal/models"
)

// Store keeps the client-side view of the link collection: the list as
// last confirmed (or optimistically assumed) plus a loading flag.
// Observers subscribe for change notifications instead of reading
// ambient globals.
type Store struct {
	api *Client
	log zerolog.Logger

	mu          sync.Mutex
	links       []models.PaymentLink
	loading     bool
	subscribers map[int]func()
	nextSubID   int
}

func NewStore(api *Client, log zerolog.Logger) *Store {
	return &Store{
		api:         api,
		log:         log,
		subscribers: make(map[int]func()),
	}
}

// Subscribe registers fn to run after every state change and returns an
// unsubscribe func.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Links returns a snapshot of the current collection.
func (s *Store) Links() []models.PaymentLink {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]models.PaymentLink, len(s.links))
	copy(snapshot, s.links)
	return snapshot
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// FetchAll replaces the collection with the server's list. On failure the
// previous collection stays in place and the error is only logged.
func (s *Store) FetchAll(ctx context.Context) {
	s.setLoading(true)

	links, err := s.api.ListLinks(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to fetch payment links")
		s.setLoading(false)
		return
	}

	s.mu.Lock()
	s.links = links
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// Add creates a link on the server and prepends the returned record. The
// server is the source of truth for id, timestamps and status.
func (s *Store) Add(ctx context.Context, payload CreateLinkPayload) (models.PaymentLink, error) {
	link, err := s.api.CreateLink(ctx, payload)
	if err != nil {
		return models.PaymentLink{}, err
	}

	s.mu.Lock()
	s.links = append([]models.PaymentLink{link}, s.links...)
	s.mu.Unlock()
	s.notify()
	return link, nil
}

// Remove drops the link locally before the server confirms, then issues
// the delete. On failure the pre-removal snapshot is restored.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	snapshot := make([]models.PaymentLink, len(s.links))
	copy(snapshot, s.links)

	filtered := s.links[:0:0]
	for _, link := range s.links {
		if link.ID != id {
			filtered = append(filtered, link)
		}
	}
	s.links = filtered
	s.mu.Unlock()
	s.notify()

	if err := s.api.DeleteLink(ctx, id); err != nil {
		s.log.Error().Err(err).Str("link_id", id).Msg("failed to delete payment link, rolling back")
		s.mu.Lock()
		s.links = snapshot
		s.mu.Unlock()
		s.notify()
		return err
	}
	return nil
}

// Pay settles a link through the public endpoint. On failure the latest
// public state is fetched so the caller can show why the payment was
// refused.
func (s *Store) Pay(ctx context.Context, id string) (models.PaymentLink, error) {
	link, err := s.api.PayLink(ctx, id)
	if err != nil {
		if latest, refreshErr := s.api.GetPublicLink(ctx, id); refreshErr == nil {
			return latest, err
		}
		return models.PaymentLink{}, err
	}
	return link, nil
}

// FindByID looks the link up in the local collection only.
func (s *Store) FindByID(id string) (models.PaymentLink, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, link := range s.links {
		if link.ID == id {
			return link, true
		}
	}
	return models.PaymentLink{}, false
}

func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
	s.notify()
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
