package dto

import (
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sandaruwank/AgroPulze/internal/domain/entity"
)

// WeightDTO peso neto del producto.
type WeightDTO struct {
	Value decimal.Decimal `json:"value"`
	Unit  string          `json:"unit"`
}

// CreateProductRequest entrada para crear un producto.
// Por multipart llega como campos name, description, price, stock, category, weight.value y weight.unit.
type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Weight      WeightDTO       `json:"weight"`
}

// UpdateProductRequest entrada para actualizar un producto (solo los campos presentes).
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Weight      *WeightDTO       `json:"weight,omitempty"`
}

// ImageUpload archivo de imagen adjunto a la creación.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// ProductResponse salida de un producto. Los nombres JSON (_id, createdAt) son los que consume el admin.
type ProductResponse struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Weight      WeightDTO       `json:"weight"`
	Image       string          `json:"image,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Entity convierte la respuesta de la API al producto de dominio.
func (r ProductResponse) Entity() entity.Product {
	return entity.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		Category:    entity.Category(r.Category),
		Weight:      entity.Weight{Value: r.Weight.Value, Unit: r.Weight.Unit},
		Image:       r.Image,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// NewProductResponse construye la salida desde el producto de dominio.
func NewProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    string(p.Category),
		Weight:      WeightDTO{Value: p.Weight.Value, Unit: p.Weight.Unit},
		Image:       p.Image,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
