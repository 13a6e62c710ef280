package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nijaru/ytsum/errors"
)

const (
	upsertRequestQuery = `
        INSERT INTO requests (
            id, chat_id, video_url, status, summary,
            translation, error, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            status = excluded.status,
            summary = excluded.summary,
            translation = excluded.translation,
            error = excluded.error,
            updated_at = excluded.updated_at
    `

	getRequestQuery = `
        SELECT id, chat_id, video_url, status, summary,
               translation, error, created_at, updated_at
        FROM requests WHERE id = ?
    `

	listByChatQuery = `
        SELECT id, chat_id, video_url, status, summary,
               translation, error, created_at, updated_at
        FROM requests WHERE chat_id = ?
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?
    `

	listRecentQuery = `
        SELECT id, chat_id, video_url, status, summary,
               translation, error, created_at, updated_at
        FROM requests
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?
    `

	listByStatusQuery = `
        SELECT id, chat_id, video_url, status, summary,
               translation, error, created_at, updated_at
        FROM requests WHERE status = ?
        ORDER BY created_at ASC, rowid ASC
        LIMIT ?
    `
)

type PreparedStatements struct {
	upsert     *sql.Stmt
	get        *sql.Stmt
	listByChat *sql.Stmt
	listRecent *sql.Stmt
	byStatus   *sql.Stmt
}

func (stmts *PreparedStatements) Prepare(ctx context.Context, conn *sql.DB) error {
	const op = "PreparedStatements.Prepare"

	var err error

	if stmts.upsert, err = conn.PrepareContext(ctx, upsertRequestQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare upsert statement")
	}

	if stmts.get, err = conn.PrepareContext(ctx, getRequestQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare get statement")
	}

	if stmts.listByChat, err = conn.PrepareContext(ctx, listByChatQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare listByChat statement")
	}

	if stmts.listRecent, err = conn.PrepareContext(ctx, listRecentQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare listRecent statement")
	}

	if stmts.byStatus, err = conn.PrepareContext(ctx, listByStatusQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare listByStatus statement")
	}

	return nil
}

func (stmts *PreparedStatements) Close() error {
	var errs []error

	statements := [...]*sql.Stmt{
		stmts.upsert,
		stmts.get,
		stmts.listByChat,
		stmts.listRecent,
		stmts.byStatus,
	}

	for _, stmt := range statements {
		if stmt != nil {
			if err := stmt.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to close prepared statements: %v", errs)
	}

	return nil
}
