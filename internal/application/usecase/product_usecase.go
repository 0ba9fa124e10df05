package usecase

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sandaruwank/AgroPulze/internal/application/dto"
	"github.com/sandaruwank/AgroPulze/internal/domain"
	"github.com/sandaruwank/AgroPulze/internal/domain/entity"
	"github.com/sandaruwank/AgroPulze/internal/domain/repository"
)

// ImageStore puerto de almacenamiento de imágenes de producto.
type ImageStore interface {
	Save(originalName string, content io.Reader) (string, error)
	Remove(name string) error
}

// ProductUseCase casos de uso CRUD del catálogo expuestos por la API.
type ProductUseCase struct {
	repo   repository.ProductRepository
	images ImageStore
	now    func() time.Time
}

// NewProductUseCase construye el caso de uso. images puede ser nil si la API no acepta imágenes.
func NewProductUseCase(repo repository.ProductRepository, images ImageStore) *ProductUseCase {
	return &ProductUseCase{repo: repo, images: images, now: time.Now}
}

// Create valida y crea un producto. La imagen, si llega, se guarda en la misma operación:
// si la persistencia falla se elimina el archivo para no dejar huérfanos.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest, img *dto.ImageUpload) (*dto.ProductResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Weight.Unit = strings.TrimSpace(in.Weight.Unit)
	if err := validateFields(in.Name, in.Description, in.Category, in.Price, in.Stock, in.Weight); err != nil {
		return nil, err
	}

	var imageName string
	if img != nil && uc.images != nil {
		name, err := uc.images.Save(img.Filename, img.Content)
		if err != nil {
			return nil, fmt.Errorf("guardar imagen: %w", err)
		}
		imageName = name
	}

	now := uc.now().UTC()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    entity.Category(in.Category),
		Weight:      entity.Weight{Value: in.Weight.Value, Unit: in.Weight.Unit},
		Image:       imageName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		if imageName != "" {
			_ = uc.images.Remove(imageName)
		}
		return nil, err
	}
	return dto.NewProductResponse(product), nil
}

// GetByID obtiene un producto por ID. Devuelve (nil, nil) si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewProductResponse(product), nil
}

// List devuelve el catálogo completo (sin paginación).
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *dto.NewProductResponse(p))
	}
	return items, nil
}

// Catalog devuelve el catálogo como entidades, en el orden de List (para el reporte).
func (uc *ProductUseCase) Catalog(ctx context.Context) ([]entity.Product, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(list))
	for _, p := range list {
		out = append(out, *p)
	}
	return out, nil
}

// Update aplica los campos presentes. Devuelve (nil, nil) si el producto no existe.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if in.Category != nil {
		product.Category = entity.Category(*in.Category)
	}
	if in.Weight != nil {
		product.Weight.Value = in.Weight.Value
		// Sin unidad se conserva la guardada.
		if unit := strings.TrimSpace(in.Weight.Unit); unit != "" {
			product.Weight.Unit = unit
		}
	}
	weight := dto.WeightDTO{Value: product.Weight.Value, Unit: product.Weight.Unit}
	if err := validateFields(product.Name, product.Description, string(product.Category), product.Price, product.Stock, weight); err != nil {
		return nil, err
	}
	product.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return dto.NewProductResponse(product), nil
}

// Delete elimina un producto y su imagen. domain.ErrNotFound si no existe.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	if product.Image != "" && uc.images != nil {
		_ = uc.images.Remove(product.Image)
	}
	return nil
}

// Límites de las columnas NUMERIC(12,2), NUMERIC(10,3) e INTEGER de products.
var (
	maxPrice  = decimal.New(1, 10) // exclusivo
	maxWeight = decimal.New(1, 7)  // exclusivo
)

// validateFields replica las reglas del formulario: nombre, descripción, precio, peso y categoría requeridos.
// Precio y peso se rechazan si no caben exactos en su columna, para que ningún driver los redondee.
func validateFields(name, description, category string, price decimal.Decimal, stock int, weight dto.WeightDTO) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	case description == "":
		return fmt.Errorf("%w: description es requerido", domain.ErrInvalidInput)
	case !entity.Category(category).Valid():
		return fmt.Errorf("%w: category %q no es válida", domain.ErrInvalidInput, category)
	case price.IsNegative():
		return fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidInput)
	case !price.Equal(price.Round(2)):
		return fmt.Errorf("%w: price admite como máximo 2 decimales", domain.ErrInvalidInput)
	case price.GreaterThanOrEqual(maxPrice):
		return fmt.Errorf("%w: price debe ser menor que %s", domain.ErrInvalidInput, maxPrice)
	case stock < 0:
		return fmt.Errorf("%w: stock no puede ser negativo", domain.ErrInvalidInput)
	case stock > math.MaxInt32:
		return fmt.Errorf("%w: stock fuera de rango", domain.ErrInvalidInput)
	case !weight.Value.IsPositive() || weight.Unit == "":
		return fmt.Errorf("%w: weight requiere valor positivo y unidad", domain.ErrInvalidInput)
	case !weight.Value.Equal(weight.Value.Round(3)):
		return fmt.Errorf("%w: weight admite como máximo 3 decimales", domain.ErrInvalidInput)
	case weight.Value.GreaterThanOrEqual(maxWeight):
		return fmt.Errorf("%w: weight debe ser menor que %s", domain.ErrInvalidInput, maxWeight)
	}
	return nil
}
