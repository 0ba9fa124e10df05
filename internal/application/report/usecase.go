package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sandaruwank/AgroPulze/internal/domain/entity"
)

// UseCase genera el reporte de inventario y lo entrega en memoria o en disco.
type UseCase struct {
	generator Generator
	recorder  Recorder
}

// NewUseCase construye el caso de uso. recorder puede ser nil.
func NewUseCase(generator Generator, recorder Recorder) *UseCase {
	return &UseCase{generator: generator, recorder: recorder}
}

// Build genera el reporte para el catálogo dado, en el orden recibido.
func (uc *UseCase) Build(ctx context.Context, products []entity.Product, asOf time.Time) (*Document, error) {
	content, pages, err := uc.generator.GenerateProductReport(ctx, products, asOf)
	if err != nil {
		uc.observe("error", 0)
		log.Error().Err(err).Int("products", len(products)).Msg("reporte: generación fallida")
		return nil, fmt.Errorf("reporte: %w", err)
	}
	uc.observe("ok", pages)
	log.Info().
		Int("products", len(products)).
		Int("pages", pages).
		Int("bytes", len(content)).
		Msg("reporte generado")
	return &Document{Filename: Filename, Content: content, Pages: pages}, nil
}

// Save genera el reporte y lo escribe en dir con el nombre fijo. La escritura es atómica:
// si algo falla no queda un archivo parcial. Devuelve la ruta final.
func (uc *UseCase) Save(ctx context.Context, products []entity.Product, asOf time.Time, dir string) (string, error) {
	doc, err := uc.Build(ctx, products, asOf)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("reporte: crear directorio: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.pdf")
	if err != nil {
		return "", fmt.Errorf("reporte: archivo temporal: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op tras el rename

	if _, err := tmp.Write(doc.Content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("reporte: escribir: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("reporte: cerrar: %w", err)
	}

	path := filepath.Join(dir, doc.Filename)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("reporte: mover: %w", err)
	}
	if err := os.Chmod(path, 0o644); err != nil {
		return "", fmt.Errorf("reporte: permisos: %w", err)
	}
	return path, nil
}

func (uc *UseCase) observe(outcome string, pages int) {
	if uc.recorder != nil {
		uc.recorder.ObserveReport(outcome, pages)
	}
}
