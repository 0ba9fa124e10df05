// Package catalogapi adaptador HTTP hacia la API REST del catálogo de productos.
package catalogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sandaruwank/AgroPulze/internal/application/catalog"
	"github.com/sandaruwank/AgroPulze/internal/application/dto"
	"github.com/sandaruwank/AgroPulze/internal/domain"
	"github.com/sandaruwank/AgroPulze/internal/domain/entity"
)

// Verificar en tiempo de compilación que Client implementa catalog.Source.
var _ catalog.Source = (*Client)(nil)

const (
	pathList   = "/api/products/getall"
	pathCreate = "/api/products/create"
	pathUpdate = "/api/products/update/"
	pathDelete = "/api/products/delete/"

	maxResponseBody = 8 << 20
)

// Client cliente de la API de catálogo. Cada fallo se devuelve como *domain.NetworkError.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient construye el cliente. timeout <= 0 usa 15 s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// List GET /api/products/getall.
func (c *Client) List(ctx context.Context) ([]entity.Product, error) {
	op := "GET " + pathList
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathList, nil)
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(op, req)
	if err != nil {
		return nil, err
	}
	var items []dto.ProductResponse
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, &domain.NetworkError{Op: op, Err: fmt.Errorf("decodificar respuesta: %w", err)}
	}
	products := make([]entity.Product, 0, len(items))
	for _, it := range items {
		products = append(products, it.Entity())
	}
	return products, nil
}

// Create POST /api/products/create como multipart/form-data, con la imagen opcional en la parte "image".
func (c *Client) Create(ctx context.Context, in dto.CreateProductRequest, img *dto.ImageUpload) error {
	op := "POST " + pathCreate

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := []struct{ key, value string }{
		{"name", in.Name},
		{"description", in.Description},
		{"price", in.Price.String()},
		{"stock", strconv.Itoa(in.Stock)},
		{"category", in.Category},
		{"weight.value", in.Weight.Value.String()},
		{"weight.unit", in.Weight.Unit},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.key, f.value); err != nil {
			return &domain.NetworkError{Op: op, Err: err}
		}
	}
	if img != nil {
		part, err := mw.CreateFormFile("image", filepath.Base(img.Filename))
		if err != nil {
			return &domain.NetworkError{Op: op, Err: err}
		}
		if _, err := io.Copy(part, img.Content); err != nil {
			return &domain.NetworkError{Op: op, Err: fmt.Errorf("leer imagen: %w", err)}
		}
	}
	if err := mw.Close(); err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathCreate, &buf)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	_, err = c.do(op, req)
	return err
}

// Update PUT /api/products/update/:id con cuerpo JSON.
func (c *Client) Update(ctx context.Context, id string, in dto.UpdateProductRequest) error {
	op := "PUT " + pathUpdate + id
	body, err := json.Marshal(in)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: fmt.Errorf("serializar request: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+pathUpdate+url.PathEscape(id), bytes.NewReader(body))
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	_, err = c.do(op, req)
	return err
}

// Delete DELETE /api/products/delete/:id.
func (c *Client) Delete(ctx context.Context, id string) error {
	op := "DELETE " + pathDelete + id
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+pathDelete+url.PathEscape(id), nil)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	_, err = c.do(op, req)
	return err
}

// do ejecuta la petición y devuelve el cuerpo si el status es 2xx.
func (c *Client) do(op string, req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, &domain.NetworkError{Op: op, Err: fmt.Errorf("timeout o cancelación: %w", ctxErr)}
		}
		return nil, &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("leer respuesta: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.NetworkError{Op: op, Status: resp.StatusCode, Err: apiError(raw)}
	}
	return raw, nil
}

// apiError extrae el mensaje de dto.ErrorResponse o, si no lo hay, usa el cuerpo crudo.
func apiError(raw []byte) error {
	var e dto.ErrorResponse
	if err := json.Unmarshal(raw, &e); err == nil && e.Message != "" {
		return fmt.Errorf("%s: %s", e.Code, e.Message)
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = "respuesta vacía"
	}
	return errors.New(msg)
}
