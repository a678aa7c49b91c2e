package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/talkpal-app/conversation-service/internal/models"
	"github.com/talkpal-app/conversation-service/internal/repositories"
)

const documentKey = "conversation-service:user-document"

// DocumentRedis keeps the whole user document under a single Redis
// key. It deliberately preserves the flat-file store's semantics
// (whole-document load/save, last write wins) so the two
// implementations stay interchangeable.
type DocumentRedis struct {
	client *redis.Client
	logger *slog.Logger
}

func NewDocumentRedis(client *redis.Client, logger *slog.Logger) repositories.DocumentStore {
	return &DocumentRedis{client: client, logger: logger}
}

func (s *DocumentRedis) Load(ctx context.Context) (*models.Document, error) {
	data, err := s.client.Get(ctx, documentKey).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("failed to read document from redis, starting empty",
				"error", err)
		}
		return models.NewDocument(), nil
	}

	doc := models.NewDocument()
	if err := json.Unmarshal([]byte(data), doc); err != nil {
		s.logger.Warn("stored document is not valid JSON, starting empty",
			"error", err)
		return models.NewDocument(), nil
	}
	return doc, nil
}

func (s *DocumentRedis) Save(ctx context.Context, doc *models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := s.client.Set(ctx, documentKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write document to redis: %w", err)
	}
	return nil
}
