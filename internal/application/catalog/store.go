// Package catalog mantiene la copia local del catálogo que usa el CLI.
// Cada mutación va a la API y, si tiene éxito, se vuelve a descargar el catálogo completo.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/sandaruwank/AgroPulze/internal/application/dto"
	"github.com/sandaruwank/AgroPulze/internal/domain/entity"
)

// Source puerto hacia la API remota de catálogo (implementado en infrastructure/catalogapi).
type Source interface {
	List(ctx context.Context) ([]entity.Product, error)
	Create(ctx context.Context, in dto.CreateProductRequest, img *dto.ImageUpload) error
	Update(ctx context.Context, id string, in dto.UpdateProductRequest) error
	Delete(ctx context.Context, id string) error
}

// Store colección en memoria del catálogo. Se reemplaza entera tras cada carga.
type Store struct {
	source Source

	mu       sync.RWMutex
	products []entity.Product
}

// NewStore construye el store vacío; llamar Load antes de leer.
func NewStore(source Source) *Store {
	return &Store{source: source}
}

// Load descarga el catálogo y reemplaza la colección. Si falla, la colección no cambia.
func (s *Store) Load(ctx context.Context) error {
	list, err := s.source.List(ctx)
	if err != nil {
		return fmt.Errorf("cargar catálogo: %w", err)
	}
	s.mu.Lock()
	s.products = list
	s.mu.Unlock()
	return nil
}

// Products devuelve una copia de la colección actual.
func (s *Store) Products() []entity.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Create da de alta un producto y recarga el catálogo.
func (s *Store) Create(ctx context.Context, in dto.CreateProductRequest, img *dto.ImageUpload) error {
	if err := s.source.Create(ctx, in, img); err != nil {
		return fmt.Errorf("crear producto: %w", err)
	}
	return s.Load(ctx)
}

// Update modifica un producto y recarga el catálogo.
func (s *Store) Update(ctx context.Context, id string, in dto.UpdateProductRequest) error {
	if err := s.source.Update(ctx, id, in); err != nil {
		return fmt.Errorf("actualizar producto %s: %w", id, err)
	}
	return s.Load(ctx)
}

// Delete elimina un producto y recarga el catálogo.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.source.Delete(ctx, id); err != nil {
		return fmt.Errorf("eliminar producto %s: %w", id, err)
	}
	return s.Load(ctx)
}
