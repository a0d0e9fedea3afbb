// Package storage guarda los archivos subidos (documentos, certificados) en disco local.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/topmei-api/internal/application/usecase"
	"github.com/jhoicas/topmei-api/internal/domain"
)

var _ usecase.FileStore = (*LocalStore)(nil)

// LocalStore FileStore sobre un directorio raíz. Las rutas son relativas a la raíz.
type LocalStore struct {
	root string
}

// NewLocalStore crea la raíz si no existe.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("storage: criar raiz %s: %w", root, err)
	}
	return &LocalStore{root: root}, nil
}

// Put escribe el archivo creando los directorios intermedios.
func (s *LocalStore) Put(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return fmt.Errorf("storage: criar diretório: %w", err)
	}
	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("storage: gravar %s: %w", path, err)
	}
	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("storage: gravar %s: %w", path, err)
	}
	return nil
}

// Get devuelve domain.ErrNotFound si el archivo no existe.
func (s *LocalStore) Get(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: arquivo %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: ler %s: %w", path, err)
	}
	return data, nil
}

// Delete es idempotente: borrar algo inexistente no es error.
func (s *LocalStore) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: remover %s: %w", path, err)
	}
	return nil
}

// resolve impide salir de la raíz con "..".
func (s *LocalStore) resolve(path string) (string, error) {
	clean := filepath.Clean("/" + strings.TrimSpace(path))
	if clean == "/" {
		return "", fmt.Errorf("%w: caminho vazio", domain.ErrInvalidInput)
	}
	return filepath.Join(s.root, clean), nil
}
