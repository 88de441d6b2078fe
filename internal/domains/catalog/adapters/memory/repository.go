package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-inventory-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory book persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	books  map[int64]*entry
	nextID int64
	now    func() time.Time
}

type entry struct {
	book      *domain.Book
	createdAt time.Time
	updatedAt time.Time
}

func NewRepository() *Repository {
	return &Repository{books: map[int64]*entry{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Save(_ context.Context, book *domain.Book) (*projection.Projection[*domain.Book], error) {
	if book == nil {
		return nil, errors.New("book is nil")
	}
	clone := book.Clone()
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	e, ok := r.books[clone.ID]
	if !ok {
		e = &entry{createdAt: now}
		r.books[clone.ID] = e
	}
	e.book = clone
	e.updatedAt = now
	return e.project(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*projection.Projection[*domain.Book], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.books[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return e.project(), nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *Repository) List(_ context.Context) ([]*projection.Projection[*domain.Book], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*projection.Projection[*domain.Book], 0, len(r.books))
	for _, e := range r.books {
		list = append(list, e.project())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Entity.ID < list[j].Entity.ID })
	return list, nil
}

// IncrementQuantity adds amount to the stored quantity under the write lock.
func (r *Repository) IncrementQuantity(_ context.Context, id int64, amount int64) (*projection.Projection[*domain.Book], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.books[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := e.book.Clone()
	if err := clone.Restock(amount); err != nil {
		return nil, err
	}
	e.book = clone
	e.updatedAt = r.now()
	return e.project(), nil
}

func (e *entry) project() *projection.Projection[*domain.Book] {
	return projection.New(e.book.Clone(), e.createdAt, e.updatedAt)
}
