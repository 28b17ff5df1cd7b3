package collection

import (
	"context"
	"fmt"
	"sync"
)

// Object is implemented by every entity served through a Collection.
// The id is the exact string used in URLs; no normalization happens
// anywhere between the path and the lookup.
type Object interface {
	ObjectID() string
}

// Provider is the persistence strategy behind a Collection. Create
// returns the id of the new object so the caller can hand back the
// stored form after the reload.
type Provider[T Object] interface {
	Load(ctx context.Context) ([]T, error)
	Create(ctx context.Context, fields Fields) (id string, err error)
	Update(ctx context.Context, id string, fields Fields) error
	Delete(ctx context.Context, id string) error
}

// Collection owns an in-memory snapshot of one entity set backed by a
// Provider.
//
// Reads serve the snapshot; List refreshes it from the provider first,
// so a listing always reflects persisted state. Mutations persist
// before the snapshot changes: a failed create or update leaves the
// snapshot untouched, and a delete removes the object from the snapshot
// only after the provider confirms it.
type Collection[T Object] struct {
	provider Provider[T]

	mu    sync.RWMutex
	items []T
	index map[string]T
}

// New creates an empty Collection. Call Reload to populate it.
func New[T Object](provider Provider[T]) *Collection[T] {
	return &Collection[T]{
		provider: provider,
		index:    make(map[string]T),
	}
}

// Reload replaces the snapshot with the provider's current state.
func (c *Collection[T]) Reload(ctx context.Context) error {
	items, err := c.provider.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading collection: %w", err)
	}

	index := make(map[string]T, len(items))
	for _, item := range items {
		index[item.ObjectID()] = item
	}

	c.mu.Lock()
	c.items = items
	c.index = index
	c.mu.Unlock()
	return nil
}

// List reloads from the provider and returns the fresh snapshot.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c.Snapshot(), nil
}

// Snapshot returns a copy of the current items without touching the
// provider.
func (c *Collection[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the object whose id exactly matches id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.index[id]
	return item, ok
}

// Create persists a new object from fields, reloads, and returns the
// stored form.
func (c *Collection[T]) Create(ctx context.Context, fields Fields) (T, error) {
	var zero T

	id, err := c.provider.Create(ctx, fields)
	if err != nil {
		return zero, err
	}
	if err := c.Reload(ctx); err != nil {
		return zero, err
	}

	item, ok := c.Get(id)
	if !ok {
		return zero, fmt.Errorf("created object %s missing after reload", id)
	}
	return item, nil
}

// Update persists changed fields for an existing object, reloads, and
// returns the stored form. Unknown ids fail with ErrNotFound before the
// provider is asked to write.
func (c *Collection[T]) Update(ctx context.Context, id string, fields Fields) (T, error) {
	var zero T

	if _, ok := c.Get(id); !ok {
		if err := c.Reload(ctx); err != nil {
			return zero, err
		}
		if _, ok := c.Get(id); !ok {
			return zero, ErrNotFound
		}
	}

	if err := c.provider.Update(ctx, id, fields); err != nil {
		return zero, err
	}
	if err := c.Reload(ctx); err != nil {
		return zero, err
	}

	item, ok := c.Get(id)
	if !ok {
		return zero, fmt.Errorf("updated object %s missing after reload", id)
	}
	return item, nil
}

// Delete removes an object. The snapshot changes only after the
// provider confirms the delete.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if _, ok := c.Get(id); !ok {
		if err := c.Reload(ctx); err != nil {
			return err
		}
		if _, ok := c.Get(id); !ok {
			return ErrNotFound
		}
	}

	if err := c.provider.Delete(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.index, id)
	for i, item := range c.items {
		if item.ObjectID() == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the snapshot size.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
