// Package storage is the blob store for payment receipts, KYC files and
// property documents. The rest of the system only needs "store bytes, get
// back a path" and "delete by path".
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type StoreInterface interface {
	Save(dir, fileName string, r io.Reader) (string, error)
	Delete(path string) error
}

// LocalStore writes blobs under a root directory, one subdirectory per
// category (receipts, kyc, documents). Stored names are random so uploads
// can never collide or traverse paths.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) StoreInterface {
	return &LocalStore{root: root}
}

func (s *LocalStore) Save(dir, fileName string, r io.Reader) (string, error) {
	rel := filepath.Join(dir, uuid.New().String()+filepath.Ext(fileName))
	full := filepath.Join(s.root, rel)

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return rel, nil
}

func (s *LocalStore) Delete(path string) error {
	if err := os.Remove(filepath.Join(s.root, path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
