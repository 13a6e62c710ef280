package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/nijaru/ytsum/errors"
	"github.com/nijaru/ytsum/models"
)

const defaultListLimit = 10

type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Save(ctx context.Context, req *models.Request) error {
	const op = "SQLiteRepository.Save"

	var lastErr error
	for i := 0; i < r.db.config.MaxRetries; i++ {
		err := r.save(ctx, req)
		if err == nil {
			return nil
		}
		if !isLockError(err) {
			return errors.Internal(op, err, "failed to save request")
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return errors.Internal(op, ctx.Err(), "context cancelled")
		case <-time.After(r.db.config.RetryDelay * time.Duration(i+1)):
		}
	}
	return errors.Internal(op, lastErr, "failed after retries")
}

func (r *Repository) save(ctx context.Context, req *models.Request) error {
	_, err := r.db.statements.upsert.ExecContext(ctx,
		req.ID,
		req.ChatID,
		req.VideoURL,
		string(req.Status),
		req.Summary,
		req.Translation,
		req.Error,
		req.CreatedAt,
		req.UpdatedAt,
	)
	return err
}

func (r *Repository) Find(ctx context.Context, id string) (*models.Request, error) {
	const op = "SQLiteRepository.Find"

	req, err := scanRequest(r.db.statements.get.QueryRowContext(ctx, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound(op, nil, "request not found")
	}
	if err != nil {
		return nil, errors.Internal(op, err, "failed to query request")
	}
	return req, nil
}

// ListByChat returns the newest requests made from one chat.
func (r *Repository) ListByChat(ctx context.Context, chatID int64, limit int) ([]*models.Request, error) {
	const op = "SQLiteRepository.ListByChat"

	rows, err := r.db.statements.listByChat.QueryContext(ctx, chatID, normalizeLimit(limit))
	if err != nil {
		return nil, errors.Internal(op, err, "failed to list requests")
	}
	return collect(op, rows)
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]*models.Request, error) {
	const op = "SQLiteRepository.ListRecent"

	rows, err := r.db.statements.listRecent.QueryContext(ctx, normalizeLimit(limit))
	if err != nil {
		return nil, errors.Internal(op, err, "failed to list requests")
	}
	return collect(op, rows)
}

// ListByStatus returns the oldest requests in one status.
func (r *Repository) ListByStatus(ctx context.Context, status models.Status, limit int) ([]*models.Request, error) {
	const op = "SQLiteRepository.ListByStatus"

	rows, err := r.db.statements.byStatus.QueryContext(ctx, string(status), normalizeLimit(limit))
	if err != nil {
		return nil, errors.Internal(op, err, "failed to list requests")
	}
	return collect(op, rows)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row scanner) (*models.Request, error) {
	req := &models.Request{}
	var status string

	err := row.Scan(
		&req.ID,
		&req.ChatID,
		&req.VideoURL,
		&status,
		&req.Summary,
		&req.Translation,
		&req.Error,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	req.Status = models.Status(status)
	return req, nil
}

func collect(op string, rows *sql.Rows) ([]*models.Request, error) {
	defer rows.Close()

	var out []*models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, errors.Internal(op, err, "failed to scan request")
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal(op, err, "failed to iterate requests")
	}
	return out, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return limit
}
