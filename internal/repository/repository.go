// Package repository provides the process-lifetime link store.
package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/snaplink/snaplink/internal/model"
)

// Repository errors.
var (
	ErrNotFound   = errors.New("link not found")
	ErrCodeExists = errors.New("short code already exists")
)

// Memory is a concurrency-safe in-memory link store.
//
// All mutations happen under the write lock, and every returned link is a
// copy, so readers never observe a partially applied update. Records are
// never evicted.
type Memory struct {
	mu    sync.RWMutex
	links map[string]*model.Link
	order []string
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		links: make(map[string]*model.Link),
	}
}

// InsertIfAbsent stores a copy of link unless its code is already taken.
// Returns ErrCodeExists on collision.
func (m *Memory) InsertIfAbsent(ctx context.Context, link *model.Link) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.links[link.Code]; exists {
		return ErrCodeExists
	}

	m.links[link.Code] = link.Clone()
	m.order = append(m.order, link.Code)
	return nil
}

// Get returns a copy of the link stored under code.
func (m *Memory) Get(ctx context.Context, code string) (*model.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[code]
	if !ok {
		return nil, ErrNotFound
	}
	return link.Clone(), nil
}

// Update runs fn on the stored link while holding the write lock.
// If fn returns an error it must not have mutated the link; the error is
// returned unchanged. fn must not retain the pointer.
func (m *Memory) Update(ctx context.Context, code string, fn func(link *model.Link) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[code]
	if !ok {
		return ErrNotFound
	}

	return fn(link)
}

// List returns copies of all links in insertion order, without click logs.
func (m *Memory) List(ctx context.Context) ([]*model.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	links := make([]*model.Link, 0, len(m.order))
	for _, code := range m.order {
		summary := *m.links[code]
		summary.Clicks = nil
		links = append(links, &summary)
	}
	return links, nil
}

// Len returns the number of stored links.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.links)
}
