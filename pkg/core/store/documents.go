package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrDocumentNotFound is returned when a correlation ID resolves to no
// stored document. The transport layer maps it to 404.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore keeps uploaded filings on disk under generated IDs.
type DocumentStore struct {
	dir string
}

// NewDocumentStore creates the upload directory if needed.
func NewDocumentStore(dir string) (*DocumentStore, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &DocumentStore{dir: dir}, nil
}

// Save writes the document and returns its correlation ID. The original
// filename never reaches disk; IDs are opaque UUIDs.
func (s *DocumentStore) Save(content []byte) (string, error) {
	id := uuid.New().String()
	if err := os.WriteFile(s.path(id), content, 0o644); err != nil {
		return "", fmt.Errorf("failed to store document: %w", err)
	}
	return id, nil
}

// Load reads a stored document by ID.
func (s *DocumentStore) Load(id string) ([]byte, error) {
	if !validID(id) {
		return nil, ErrDocumentNotFound
	}
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return data, nil
}

func (s *DocumentStore) path(id string) string {
	return filepath.Join(s.dir, id+".html")
}

// validID rejects anything that is not a plain UUID, which also keeps path
// traversal out of Load.
func validID(id string) bool {
	if strings.ContainsAny(id, "/\\.") {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
