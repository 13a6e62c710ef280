package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/nijaru/ytsum/errors"
	"github.com/nijaru/ytsum/models"
)

func setupRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "test.db"), DefaultDBConfig())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewRepository(db)
}

func TestSaveAndFind(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	req := models.NewRequest("req-1", 99, "https://www.youtube.com/watch?v=abc")
	if err := repo.Save(ctx, req); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	req.Complete("Short summary.")
	req.SetTranslation("Краткое содержание.")
	if err := repo.Save(ctx, req); err != nil {
		t.Fatalf("Save() update error = %v", err)
	}

	got, err := repo.Find(ctx, "req-1")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got.Status != models.StatusCompleted {
		t.Errorf("expected '%s', got '%s'", models.StatusCompleted, got.Status)
	}
	if got.Summary != "Short summary." {
		t.Errorf("expected 'Short summary.', got '%s'", got.Summary)
	}
	if got.Translation != "Краткое содержание." {
		t.Errorf("unexpected translation '%s'", got.Translation)
	}
	if got.ChatID != 99 {
		t.Errorf("expected chat 99, got %d", got.ChatID)
	}
}

func TestFindMissing(t *testing.T) {
	repo := setupRepository(t)

	_, err := repo.Find(context.Background(), "nope")
	if !errors.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestListByChat(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		chatID := int64(1)
		if i%2 == 1 {
			chatID = 2
		}
		req := models.NewRequest(fmt.Sprintf("req-%d", i), chatID, fmt.Sprintf("video-%d", i))
		req.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		req.UpdatedAt = req.CreatedAt
		if err := repo.Save(ctx, req); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	got, err := repo.ListByChat(ctx, 1, 2)
	if err != nil {
		t.Fatalf("ListByChat() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(got))
	}
	if got[0].ID != "req-4" || got[1].ID != "req-2" {
		t.Errorf("expected newest first, got %s, %s", got[0].ID, got[1].ID)
	}

	all, err := repo.ListRecent(ctx, 0)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(all) != 5 {
		t.Errorf("expected 5 requests, got %d", len(all))
	}
}

func TestListByStatus(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	pending := models.NewRequest("pending", 1, "a")
	done := models.NewRequest("done", 1, "b")
	done.Complete("Summary.")

	for _, req := range []*models.Request{pending, done} {
		if err := repo.Save(ctx, req); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	got, err := repo.ListByStatus(ctx, models.StatusProcessing, 10)
	if err != nil {
		t.Fatalf("ListByStatus() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "pending" {
		t.Errorf("expected only 'pending', got %v", got)
	}
}
