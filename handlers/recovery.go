package handlers

import (
	"context"
	"time"

	"github.com/nijaru/ytsum/errors"
	"github.com/nijaru/ytsum/logger"
	"github.com/nijaru/ytsum/models"
	"github.com/nijaru/ytsum/repository"
)

const recoveryBatch = 500

var errInterrupted = errors.Internal("handlers.RecoverStale", nil, "interrupted before a reply was sent")

// RecoverStale marks requests left in processing for longer than timeout as
// failed. A previous run that stopped mid-request leaves such rows behind.
func RecoverStale(ctx context.Context, repo repository.RequestRepository, timeout time.Duration) (int, error) {
	const op = "handlers.RecoverStale"
	log := logger.FromContext(ctx)

	pending, err := repo.ListByStatus(ctx, models.StatusProcessing, recoveryBatch)
	if err != nil {
		return 0, errors.Internal(op, err, "failed to list pending requests")
	}

	recovered := 0
	for _, req := range pending {
		if !req.IsStale(timeout) {
			continue
		}
		req.Fail(errInterrupted)
		if err := repo.Save(ctx, req); err != nil {
			return recovered, err
		}
		log.WithField("request_id", req.ID).Info("Marked stale request as failed")
		recovered++
	}
	return recovered, nil
}
