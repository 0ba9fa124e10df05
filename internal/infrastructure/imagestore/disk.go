// Package imagestore guarda en disco las imágenes subidas con los productos.
package imagestore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/sandaruwank/AgroPulze/internal/application/usecase"
	"github.com/sandaruwank/AgroPulze/internal/domain"
)

var _ usecase.ImageStore = (*Disk)(nil)

// maxImageSize tamaño máximo aceptado por imagen.
const maxImageSize = 5 << 20

var allowedExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// Disk almacena imágenes como <uuid><ext> dentro de Dir, que se sirve en /images.
type Disk struct {
	Dir string
}

// NewDisk crea el directorio si no existe.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("imagestore: crear %s: %w", dir, err)
	}
	return &Disk{Dir: dir}, nil
}

// Save copia content a un archivo nuevo y devuelve su nombre (sin directorio).
func (d *Disk) Save(originalName string, content io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExt[ext] {
		return "", fmt.Errorf("%w: extensión de imagen %q no soportada", domain.ErrInvalidInput, ext)
	}
	name := uuid.New().String() + ext

	f, err := os.OpenFile(filepath.Join(d.Dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("imagestore: crear archivo: %w", err)
	}
	n, err := io.Copy(f, io.LimitReader(content, maxImageSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > maxImageSize {
		err = fmt.Errorf("%w: la imagen supera %d bytes", domain.ErrInvalidInput, maxImageSize)
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return name, nil
}

// Remove borra la imagen; un archivo inexistente no es error.
func (d *Disk) Remove(name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("%w: nombre de imagen %q", domain.ErrInvalidInput, name)
	}
	err := os.Remove(filepath.Join(d.Dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("imagestore: eliminar %s: %w", name, err)
	}
	return nil
}
