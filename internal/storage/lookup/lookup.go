package lookup

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/errs"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
)

type Category string

const (
	Templates Category = "template"
	Recorders Category = "recorder"
)

// Loader bulk-fetches the name to id index of one category.
type Loader func(ctx context.Context) (map[string]string, error)

// Cache is an in-memory name to id index. A category is loaded on first use
// and kept until Refresh.
type Cache struct {
	mu      sync.RWMutex
	loaders map[Category]Loader
	index   map[Category]map[string]string
}

func New(loaders map[Category]Loader) *Cache {
	return &Cache{
		loaders: loaders,
		index:   make(map[Category]map[string]string),
	}
}

type Directory interface {
	Templates(ctx context.Context) ([]models.Template, error)
	Recorders(ctx context.Context) ([]models.Recorder, error)
}

// NewDirectory builds a cache for templates and recorders of a platform directory.
func NewDirectory(dir Directory) *Cache {
	return New(map[Category]Loader{
		Templates: func(ctx context.Context) (map[string]string, error) {
			templates, err := dir.Templates(ctx)
			if err != nil {
				return nil, err
			}

			idx := make(map[string]string, len(templates))
			for _, t := range templates {
				idx[t.Name] = t.ID
			}

			return idx, nil
		},
		Recorders: func(ctx context.Context) (map[string]string, error) {
			recorders, err := dir.Recorders(ctx)
			if err != nil {
				return nil, err
			}

			idx := make(map[string]string, len(recorders))
			for _, r := range recorders {
				idx[r.Name] = r.ID
			}

			return idx, nil
		},
	})
}

func (c *Cache) Resolve(ctx context.Context, category Category, name string) (string, error) {
	const op = "storage.lookup.Resolve"

	idx, err := c.load(ctx, category)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	id, ok := idx[name]
	if !ok {
		return "", fmt.Errorf("%s: %s %q: %w", op, category, name, errs.ErrNotFound)
	}

	return id, nil
}

// Names lists every known name of a category in sorted order.
func (c *Cache) Names(ctx context.Context, category Category) ([]string, error) {
	const op = "storage.lookup.Names"

	idx, err := c.load(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	names := make([]string, 0, len(idx))
	for name := range idx {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// Refresh drops a category so the next lookup fetches it again.
func (c *Cache) Refresh(category Category) {
	c.mu.Lock()
	delete(c.index, category)
	c.mu.Unlock()
}

func (c *Cache) load(ctx context.Context, category Category) (map[string]string, error) {
	c.mu.RLock()
	idx, ok := c.index[category]
	c.mu.RUnlock()
	if ok {
		return idx, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if idx, ok := c.index[category]; ok {
		return idx, nil
	}

	loader, ok := c.loaders[category]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", category)
	}

	idx, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	c.index[category] = idx

	return idx, nil
}
