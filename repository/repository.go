package repository

import (
	"context"

	"github.com/nijaru/ytsum/models"
)

type RequestRepository interface {
	Save(ctx context.Context, req *models.Request) error
	Find(ctx context.Context, id string) (*models.Request, error)
	ListByChat(ctx context.Context, chatID int64, limit int) ([]*models.Request, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Request, error)
	ListByStatus(ctx context.Context, status models.Status, limit int) ([]*models.Request, error)
}
