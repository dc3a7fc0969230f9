package client

import (
	"context"
	"sync"
)

// Categories caches the caller's category list.
type Categories struct {
	c *Client

	mu    sync.Mutex
	items []Category
}

func NewCategories(c *Client) *Categories {
	return &Categories{c: c}
}

func (s *Categories) Refetch(ctx context.Context) error {
	cats, err := s.c.Categories(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items = cats
	s.mu.Unlock()
	return nil
}

// Create appends the new category to the cache without reloading.
func (s *Categories) Create(ctx context.Context, name string) (Category, error) {
	cat, err := s.c.CreateCategory(ctx, name)
	if err != nil {
		return Category{}, err
	}
	s.mu.Lock()
	s.items = append(s.items, cat)
	s.mu.Unlock()
	return cat, nil
}

func (s *Categories) List() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Category(nil), s.items...)
}
