package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandaruwank/AgroPulze/internal/application/dto"
	"github.com/sandaruwank/AgroPulze/internal/application/report"
	"github.com/sandaruwank/AgroPulze/internal/application/usecase"
	"github.com/sandaruwank/AgroPulze/internal/infrastructure/catalogapi"
	"github.com/sandaruwank/AgroPulze/internal/infrastructure/imagestore"
	"github.com/sandaruwank/AgroPulze/internal/infrastructure/memory"
	"github.com/sandaruwank/AgroPulze/internal/infrastructure/pdf"
	apphttp "github.com/sandaruwank/AgroPulze/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type observed struct {
	method, route string
	status        int
}

type fakeObserver struct {
	mu   sync.Mutex
	seen []observed
}

func (o *fakeObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, observed{method, route, status})
}

type testEnv struct {
	app       *fiber.App
	imagesDir string
	observer  *fakeObserver
}

// buildTestApp API completa sobre el repositorio en memoria y un directorio temporal de imágenes.
func buildTestApp(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	images, err := imagestore.NewDisk(dir)
	require.NoError(t, err)

	productUC := usecase.NewProductUseCase(memory.NewProductRepository(), images)
	reportUC := report.NewUseCase(pdf.NewProductReportGenerator(pdf.DefaultBranding()), nil)
	obs := &fakeObserver{}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC: productUC,
		ReportUC:  reportUC,
		Metrics:   obs,
		ImagesDir: dir,
	})
	return &testEnv{app: app, imagesDir: dir, observer: obs}
}

func multipartBody(t *testing.T, fields map[string]string, imageName, imageData string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if imageName != "" {
		part, err := mw.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = part.Write([]byte(imageData))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func validFields() map[string]string {
	return map[string]string{
		"name":         "Keeri Samba",
		"description":  "Short grain white rice",
		"price":        "420.50",
		"stock":        "12",
		"category":     "white rice",
		"weight.value": "5",
		"weight.unit":  "kg",
	}
}

func do(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func createProduct(t *testing.T, env *testEnv) map[string]any {
	t.Helper()
	body, ct := multipartBody(t, validFields(), "", "")
	req := httptest.NewRequest(http.MethodPost, "/api/products/create", body)
	req.Header.Set("Content-Type", ct)
	resp := do(t, env.app, req)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func listProducts(t *testing.T, env *testEnv) []map[string]any {
	t.Helper()
	resp := do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/products/getall", nil))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// CRUD
// ──────────────────────────────────────────────────────────────────────────────

func TestProductAPI_CreateMultipartConImagen(t *testing.T) {
	env := buildTestApp(t)

	body, ct := multipartBody(t, validFields(), "samba.png", "PNGDATA")
	req := httptest.NewRequest(http.MethodPost, "/api/products/create", body)
	req.Header.Set("Content-Type", ct)
	resp := do(t, env.app, req)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out["_id"])
	assert.Equal(t, 420.5, out["price"], "el precio viaja como número JSON")
	assert.Equal(t, map[string]any{"value": 5.0, "unit": "kg"}, out["weight"])

	image, _ := out["image"].(string)
	require.NotEmpty(t, image)
	data, err := os.ReadFile(filepath.Join(env.imagesDir, image))
	require.NoError(t, err)
	assert.Equal(t, "PNGDATA", string(data))

	// La imagen se sirve en /images/<archivo>
	imgResp := do(t, env.app, httptest.NewRequest(http.MethodGet, "/images/"+image, nil))
	defer imgResp.Body.Close()
	assert.Equal(t, http.StatusOK, imgResp.StatusCode)

	list := listProducts(t, env)
	require.Len(t, list, 1)
	assert.Equal(t, out["_id"], list[0]["_id"])
}

func TestProductAPI_CreateJSON(t *testing.T) {
	env := buildTestApp(t)

	payload := `{"name":"Suwandel","description":"Heritage rice","price":780,"stock":4,
		"category":"traditional","weight":{"value":1,"unit":"kg"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/products/create", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := do(t, env.app, req)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestProductAPI_CreateValidacion(t *testing.T) {
	env := buildTestApp(t)

	cases := map[string]func(map[string]string){
		"sin categoría":      func(f map[string]string) { delete(f, "category") },
		"categoría inválida": func(f map[string]string) { f["category"] = "basmati" },
		"precio no numérico": func(f map[string]string) { f["price"] = "caro" },
		"sin peso":           func(f map[string]string) { delete(f, "weight.value") },
		"stock negativo":     func(f map[string]string) { f["stock"] = "-1" },
		"sin nombre":         func(f map[string]string) { f["name"] = "  " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			fields := validFields()
			mutate(fields)
			body, ct := multipartBody(t, fields, "", "")
			req := httptest.NewRequest(http.MethodPost, "/api/products/create", body)
			req.Header.Set("Content-Type", ct)
			resp := do(t, env.app, req)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var e dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
			assert.Equal(t, "VALIDATION", e.Code)
		})
	}
	assert.Empty(t, listProducts(t, env), "ningún producto inválido se persiste")
}

func TestProductAPI_UpdateYGet(t *testing.T) {
	env := buildTestApp(t)
	created := createProduct(t, env)
	id := created["_id"].(string)

	req := httptest.NewRequest(http.MethodPut, "/api/products/update/"+id, strings.NewReader(`{"stock":40,"price":399.99}`))
	req.Header.Set("Content-Type", "application/json")
	resp := do(t, env.app, req)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	getResp := do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/products/"+id, nil))
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var got dto.ProductResponse
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&got))
	assert.Equal(t, 40, got.Stock)
	assert.True(t, decimal.RequireFromString("399.99").Equal(got.Price))
	assert.Equal(t, "Keeri Samba", got.Name, "los campos ausentes no cambian")
}

func TestProductAPI_NoEncontrado(t *testing.T) {
	env := buildTestApp(t)

	req := httptest.NewRequest(http.MethodPut, "/api/products/update/nope", strings.NewReader(`{"stock":1}`))
	req.Header.Set("Content-Type", "application/json")
	resp := do(t, env.app, req)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/products/nope", nil))
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, env.app, httptest.NewRequest(http.MethodDelete, "/api/products/delete/nope", nil))
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProductAPI_DeleteLuegoList(t *testing.T) {
	env := buildTestApp(t)
	created := createProduct(t, env)
	createProduct(t, env)

	resp := do(t, env.app, httptest.NewRequest(http.MethodDelete, "/api/products/delete/"+created["_id"].(string), nil))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	list := listProducts(t, env)
	require.Len(t, list, 1)
	assert.NotEqual(t, created["_id"], list[0]["_id"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Reporte y métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestReportAPI_DescargaPDF(t *testing.T) {
	env := buildTestApp(t)
	createProduct(t, env)

	resp := do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/products/report", nil))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="`+report.Filename+`"`, resp.Header.Get("Content-Disposition"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
}

func TestMetricsMiddleware_UsaRutaRegistrada(t *testing.T) {
	env := buildTestApp(t)

	resp := do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/products/abc", nil))
	resp.Body.Close()

	env.observer.mu.Lock()
	defer env.observer.mu.Unlock()
	require.NotEmpty(t, env.observer.seen)
	last := env.observer.seen[len(env.observer.seen)-1]
	assert.Equal(t, observed{http.MethodGet, "/api/products/:id", http.StatusNotFound}, last)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cliente HTTP contra la API real
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalogClient_IdaYVueltaContraAPI(t *testing.T) {
	env := buildTestApp(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = env.app.Listener(ln) }()
	t.Cleanup(func() { _ = env.app.Shutdown() })

	client := catalogapi.NewClient("http://"+ln.Addr().String(), 5*time.Second)
	ctx := t.Context()

	in := dto.CreateProductRequest{
		Name:        "Kalu Heenati",
		Description: "Red heritage rice",
		Price:       decimal.RequireFromString("650.00"),
		Stock:       8,
		Category:    "red rice",
		Weight:      dto.WeightDTO{Value: decimal.RequireFromString("2.5"), Unit: "kg"},
	}
	img := &dto.ImageUpload{Filename: "heenati.jpg", Content: strings.NewReader("JPEGDATA")}
	require.NoError(t, client.Create(ctx, in, img))

	list, err := client.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	p := list[0]
	assert.Equal(t, in.Name, p.Name)
	assert.Equal(t, in.Description, p.Description)
	assert.True(t, in.Price.Equal(p.Price))
	assert.Equal(t, in.Stock, p.Stock)
	assert.Equal(t, in.Category, string(p.Category))
	assert.True(t, in.Weight.Value.Equal(p.Weight.Value))
	assert.True(t, strings.HasSuffix(p.Image, ".jpg"))

	require.NoError(t, client.Delete(ctx, p.ID))
	list, err = client.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
