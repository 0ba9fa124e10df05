package catalogapi_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandaruwank/AgroPulze/internal/application/dto"
	"github.com/sandaruwank/AgroPulze/internal/domain"
	"github.com/sandaruwank/AgroPulze/internal/infrastructure/catalogapi"
)

// ──────────────────────────────────────────────────────────────────────────────
// fakeAPI: API de catálogo mínima sobre httptest.
// ──────────────────────────────────────────────────────────────────────────────

type fakeAPI struct {
	mu        sync.Mutex
	items     []dto.ProductResponse
	seq       int
	lastImage string
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products/getall", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		items := f.items
		if items == nil {
			items = []dto.ProductResponse{}
		}
		_ = json.NewEncoder(w).Encode(items)
	})
	mux.HandleFunc("POST /api/products/create", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		price, _ := decimal.NewFromString(r.FormValue("price"))
		stock, _ := strconv.Atoi(r.FormValue("stock"))
		weight, _ := decimal.NewFromString(r.FormValue("weight.value"))

		f.mu.Lock()
		defer f.mu.Unlock()
		if file, hdr, err := r.FormFile("image"); err == nil {
			data, _ := io.ReadAll(file)
			file.Close()
			f.lastImage = hdr.Filename + ":" + string(data)
		}
		f.seq++
		item := dto.ProductResponse{
			ID:          fmt.Sprintf("id-%d", f.seq),
			Name:        r.FormValue("name"),
			Description: r.FormValue("description"),
			Price:       price,
			Stock:       stock,
			Category:    r.FormValue("category"),
			Weight:      dto.WeightDTO{Value: weight, Unit: r.FormValue("weight.unit")},
		}
		f.items = append(f.items, item)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(item)
	})
	mux.HandleFunc("PUT /api/products/update/{id}", func(w http.ResponseWriter, r *http.Request) {
		var in dto.UpdateProductRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.items {
			if f.items[i].ID == r.PathValue("id") {
				if in.Stock != nil {
					f.items[i].Stock = *in.Stock
				}
				_ = json.NewEncoder(w).Encode(f.items[i])
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	})
	mux.HandleFunc("DELETE /api/products/delete/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.items {
			if f.items[i].ID == r.PathValue("id") {
				f.items = append(f.items[:i], f.items[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})
	return mux
}

func newTestClient(t *testing.T) (*catalogapi.Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	return catalogapi.NewClient(srv.URL+"/", 5*time.Second), api
}

func sampleCreate() dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Name:        "Keeri Samba",
		Description: "Short grain white rice",
		Price:       decimal.RequireFromString("420.50"),
		Stock:       12,
		Category:    "white rice",
		Weight:      dto.WeightDTO{Value: decimal.NewFromInt(5), Unit: "kg"},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ida y vuelta
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_CreateLuegoList(t *testing.T) {
	client, api := newTestClient(t)
	ctx := t.Context()

	img := &dto.ImageUpload{Filename: "/tmp/samba.png", Content: strings.NewReader("PNGDATA")}
	require.NoError(t, client.Create(ctx, sampleCreate(), img))

	list, err := client.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1, "el producto creado aparece una sola vez")

	p := list[0]
	assert.Equal(t, "Keeri Samba", p.Name)
	assert.Equal(t, "Short grain white rice", p.Description)
	assert.True(t, decimal.RequireFromString("420.5").Equal(p.Price))
	assert.Equal(t, 12, p.Stock)
	assert.Equal(t, "white rice", string(p.Category))
	assert.True(t, decimal.NewFromInt(5).Equal(p.Weight.Value))
	assert.Equal(t, "kg", p.Weight.Unit)
	assert.Equal(t, "samba.png:PNGDATA", api.lastImage)
}

func TestClient_UpdateYDelete(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := t.Context()
	require.NoError(t, client.Create(ctx, sampleCreate(), nil))

	list, err := client.List(ctx)
	require.NoError(t, err)
	id := list[0].ID

	stock := 99
	require.NoError(t, client.Update(ctx, id, dto.UpdateProductRequest{Stock: &stock}))
	list, err = client.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 99, list[0].Stock)

	require.NoError(t, client.Delete(ctx, id))
	list, err = client.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "tras eliminar el producto ya no aparece")
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_StatusNoExitoso(t *testing.T) {
	client, _ := newTestClient(t)
	stock := 1

	err := client.Update(t.Context(), "no-existe", dto.UpdateProductRequest{Stock: &stock})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusNotFound, netErr.Status)
	assert.Contains(t, err.Error(), "producto no encontrado")
}

func TestClient_ErrorInterno(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := catalogapi.NewClient(srv.URL, time.Second).List(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestClient_ServidorCaido(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := catalogapi.NewClient(url, time.Second).Delete(t.Context(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Zero(t, netErr.Status, "sin respuesta HTTP no hay status")
}

func TestClient_RespuestaNoJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	_, err := catalogapi.NewClient(srv.URL, time.Second).List(t.Context())
	assert.ErrorIs(t, err, domain.ErrNetwork)
}
