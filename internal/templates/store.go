// Package templates persists user category templates.
package templates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/google/uuid"
)

// ErrTemplateNotFound is returned when no template has the requested ID.
var ErrTemplateNotFound = errors.New("template not found")

// Store holds the ordered template list.
type Store interface {
	// Templates returns a copy of the stored templates. It never fails: a
	// missing or unreadable store yields an empty list.
	Templates() []domain.CategoryTemplate
	// SaveAll replaces the stored list.
	SaveAll(ctx context.Context, templates []domain.CategoryTemplate) error
}

// Upsert validates tpl and stores it. A template without an ID (or with an
// unknown ID) is appended; a known ID replaces the existing entry in place and
// keeps its creation time.
func Upsert(ctx context.Context, s Store, tpl domain.CategoryTemplate) (domain.CategoryTemplate, error) {
	tpl = tpl.Normalize()
	tpl.ID = strings.TrimSpace(tpl.ID)
	if err := tpl.Validate(); err != nil {
		return domain.CategoryTemplate{}, err
	}

	all := s.Templates()
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}

	replaced := false
	for i := range all {
		if all[i].ID == tpl.ID {
			tpl.CreatedAt = all[i].CreatedAt
			all[i] = tpl
			replaced = true
			break
		}
	}
	if !replaced {
		if tpl.CreatedAt.IsZero() {
			tpl.CreatedAt = time.Now().UTC()
		}
		all = append(all, tpl)
	}

	if err := s.SaveAll(ctx, all); err != nil {
		return domain.CategoryTemplate{}, fmt.Errorf("Upsert: %w", err)
	}
	return tpl, nil
}

// Delete removes the template with the given ID.
func Delete(ctx context.Context, s Store, id string) error {
	all := s.Templates()
	kept := all[:0]
	found := false
	for _, t := range all {
		if t.ID == id {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return fmt.Errorf("Delete %q: %w", id, ErrTemplateNotFound)
	}
	if err := s.SaveAll(ctx, kept); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

// Get returns the template with the given ID.
func Get(s Store, id string) (domain.CategoryTemplate, error) {
	for _, t := range s.Templates() {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.CategoryTemplate{}, fmt.Errorf("Get %q: %w", id, ErrTemplateNotFound)
}

// MemoryStore keeps templates in memory only.
type MemoryStore struct {
	mu        sync.RWMutex
	templates []domain.CategoryTemplate
}

// NewMemoryStore creates a store seeded with the given templates.
func NewMemoryStore(seed ...domain.CategoryTemplate) *MemoryStore {
	return &MemoryStore{templates: clone(seed)}
}

func (m *MemoryStore) Templates() []domain.CategoryTemplate {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clone(m.templates)
}

func (m *MemoryStore) SaveAll(_ context.Context, templates []domain.CategoryTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates = clone(templates)
	return nil
}

func clone(in []domain.CategoryTemplate) []domain.CategoryTemplate {
	out := make([]domain.CategoryTemplate, len(in))
	for i, t := range in {
		rules := make([]domain.TemplateRule, len(t.Rules))
		for j, r := range t.Rules {
			r.Keywords = append([]string(nil), r.Keywords...)
			rules[j] = r
		}
		t.Rules = rules
		out[i] = t
	}
	return out
}
