// Package memory implementa los puertos de persistencia en memoria (STORAGE_DRIVER=memory y tests).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sandaruwank/AgroPulze/internal/domain"
	"github.com/sandaruwank/AgroPulze/internal/domain/entity"
	"github.com/sandaruwank/AgroPulze/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo guarda copias de los productos; nunca entrega punteros a su estado interno.
type ProductRepo struct {
	mu  sync.RWMutex
	m   map[string]entity.Product
	seq map[string]uint64
	n   uint64
}

// NewProductRepository construye el repositorio vacío.
func NewProductRepository() *ProductRepo {
	return &ProductRepo{m: make(map[string]entity.Product), seq: make(map[string]uint64)}
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[product.ID]; ok {
		return domain.ErrDuplicate
	}
	r.n++
	r.m[product.ID] = *product
	r.seq[product.ID] = r.n
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[product.ID]; !ok {
		return domain.ErrNotFound
	}
	r.m[product.ID] = *product
	return nil
}

// List devuelve los productos en orden de inserción.
func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*entity.Product, 0, len(r.m))
	for _, p := range r.m {
		p := p
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool { return r.seq[list[i].ID] < r.seq[list[j].ID] })
	return list, nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.m, id)
	delete(r.seq, id)
	return nil
}
