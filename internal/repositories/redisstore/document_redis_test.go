package redisstore

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/talkpal-app/conversation-service/internal/models"
)

func newTestStore(t *testing.T) (*DocumentRedis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDocumentRedis(client, logger).(*DocumentRedis), mr
}

func TestLoadMissingKeyReturnsEmptyDocument(t *testing.T) {
	store, _ := newTestStore(t)

	doc, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(doc.Users) != 0 {
		t.Errorf("expected empty document, got %d users", len(doc.Users))
	}
}

func TestLoadCorruptValueReturnsEmptyDocument(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Set(documentKey, "{not json")

	doc, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() must not fail on corrupt content, got %v", err)
	}
	if len(doc.Users) != 0 {
		t.Errorf("expected empty document, got %d users", len(doc.Users))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	doc := models.NewDocument()
	doc.Put("carol", models.NewUserRecord("carol", time.Now().UTC()))
	doc.Get("carol").CompletedScenarios = []string{"airport"}

	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got := loaded.Get("carol")
	if got == nil {
		t.Fatal("carol missing after round trip")
	}
	if len(got.CompletedScenarios) != 1 || got.CompletedScenarios[0] != "airport" {
		t.Errorf("CompletedScenarios = %v", got.CompletedScenarios)
	}
}

func TestSaveFailurePropagates(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	if err := store.Save(context.Background(), models.NewDocument()); err == nil {
		t.Fatal("Save() against a closed server should fail")
	}
}
