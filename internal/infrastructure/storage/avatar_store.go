// Package storage guarda los avatares de usuario en un "bucket" sobre afero.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/jhoicas/reparo-api/internal/application/ports"
	"github.com/jhoicas/reparo-api/internal/domain"
)

var _ ports.AvatarStorage = (*AvatarStore)(nil)

// AvatarStore bucket plano: un archivo por avatar bajo el directorio raíz.
type AvatarStore struct {
	fs      afero.Fs
	baseURL string
}

// NewAvatarStore crea el bucket sobre fs. En producción fs es
// afero.NewBasePathFs(afero.NewOsFs(), dir); en tests, afero.NewMemMapFs().
func NewAvatarStore(fs afero.Fs, publicBaseURL string) (*AvatarStore, error) {
	if err := fs.MkdirAll("/", 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear bucket: %w", err)
	}
	return &AvatarStore{fs: fs, baseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// NewDiskAvatarStore bucket en disco bajo dir.
func NewDiskAvatarStore(dir, publicBaseURL string) (*AvatarStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear directorio %s: %w", dir, err)
	}
	return NewAvatarStore(afero.NewBasePathFs(afero.NewOsFs(), dir), publicBaseURL)
}

// Save escribe el archivo y devuelve su URL pública.
func (s *AvatarStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	clean, err := cleanName(name)
	if err != nil {
		return "", err
	}
	tmp := clean + ".tmp"
	f, err := s.fs.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("storage: crear %s: %w", clean, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(tmp)
		return "", fmt.Errorf("storage: escribir %s: %w", clean, err)
	}
	if err := f.Close(); err != nil {
		_ = s.fs.Remove(tmp)
		return "", fmt.Errorf("storage: cerrar %s: %w", clean, err)
	}
	if err := s.fs.Rename(tmp, clean); err != nil {
		_ = s.fs.Remove(tmp)
		return "", fmt.Errorf("storage: mover %s: %w", clean, err)
	}
	return s.baseURL + "/" + clean, nil
}

// Open abre el avatar; domain.ErrNotFound si no existe.
func (s *AvatarStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	clean, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	f, err := s.fs.Open(clean)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("storage: abrir %s: %w", clean, err)
	}
	return f, nil
}

// Delete borra el avatar. Borrar uno inexistente no es error.
func (s *AvatarStore) Delete(_ context.Context, name string) error {
	clean, err := cleanName(name)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(clean); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: borrar %s: %w", clean, err)
	}
	return nil
}

// NameFromURL extrae el nombre del archivo de una URL generada por Save.
func (s *AvatarStore) NameFromURL(url string) string {
	if !strings.HasPrefix(url, s.baseURL+"/") {
		return ""
	}
	return strings.TrimPrefix(url, s.baseURL+"/")
}

// cleanName rechaza rutas: el bucket es plano.
func cleanName(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name != path.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: nombre de archivo inválido %q", domain.ErrInvalidInput, name)
	}
	return name, nil
}
