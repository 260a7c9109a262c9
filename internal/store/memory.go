package store

import (
	"context"
	"sync"

	"github.com/edgepay/edgepay-gobackend/internal/models"
)

// MemoryStore is an in-memory LinkStore used in tests. Operations are
// serialized per store, which matches the per-key atomicity the mongo
// backend provides.
type MemoryStore struct {
	mu    sync.RWMutex
	links map[string]models.PaymentLink
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{links: make(map[string]models.PaymentLink)}
}

func (s *MemoryStore) Create(ctx context.Context, link models.PaymentLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[link.ID] = link
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (models.PaymentLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	link, ok := s.links[id]
	if !ok {
		return models.PaymentLink{}, ErrNoDocument
	}
	return link, nil
}

func (s *MemoryStore) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.links[id]
	return ok, nil
}

func (s *MemoryStore) Patch(ctx context.Context, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[id]
	if !ok {
		return ErrNoDocument
	}
	for key, value := range fields {
		switch key {
		case "status":
			if status, ok := value.(string); ok {
				link.Status = status
			}
		case "amount":
			if amount, ok := value.(float64); ok {
				link.Amount = amount
			}
		case "description":
			if description, ok := value.(string); ok {
				link.Description = description
			}
		}
	}
	s.links[id] = link
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.links[id]; !ok {
		return false, nil
	}
	delete(s.links, id)
	return true, nil
}

func (s *MemoryStore) ListAll(ctx context.Context) (Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]models.PaymentLink, 0, len(s.links))
	for _, link := range s.links {
		items = append(items, link)
	}
	return Page{Items: items}, nil
}
