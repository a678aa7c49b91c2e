package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/talkpal-app/conversation-service/internal/models"
	"github.com/talkpal-app/conversation-service/internal/repositories"
)

// DocumentJSONFile stores the whole document as one JSON file on disk.
// This is the default store; it mirrors the flat-file layout the
// frontend tooling expects ({"users": {...}}).
type DocumentJSONFile struct {
	path   string
	logger *slog.Logger
}

func NewDocumentJSONFile(path string, logger *slog.Logger) repositories.DocumentStore {
	return &DocumentJSONFile{path: path, logger: logger}
}

func (s *DocumentJSONFile) Load(_ context.Context) (*models.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read document file, starting empty",
				"path", s.path, "error", err)
		}
		return models.NewDocument(), nil
	}

	doc := models.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		// Malformed content is treated as no data.
		s.logger.Warn("document file is not valid JSON, starting empty",
			"path", s.path, "error", err)
		return models.NewDocument(), nil
	}
	return doc, nil
}

func (s *DocumentJSONFile) Save(_ context.Context, doc *models.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	// Write to a sibling temp file and rename so readers never observe
	// a partially written document.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp document file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close document file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace document file: %w", err)
	}
	return nil
}
