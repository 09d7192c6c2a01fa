package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Paladinnu/paladinspalace/internal/core"
)

// InsertAuditEvent records one audit trail entry.
func (s *Store) InsertAuditEvent(ctx context.Context, e *core.AuditEvent) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO audit_events (id, user_id, action, entity_type, entity_id, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Action, e.EntityType, e.EntityID, e.Detail, e.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// QueryAuditEvents returns up to limit+1 events newest first, matching the
// optional exact filters. The cursor names the event a page starts at, same
// contract as listing search.
func (s *Store) QueryAuditEvents(ctx context.Context, f core.AuditFilter) ([]core.AuditEvent, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	b := &whereBuilder{}
	if f.Action != "" {
		b.and("action = ?", f.Action)
	}
	if f.UserID != "" {
		b.and("user_id = ?", f.UserID)
	}
	if f.EntityType != "" {
		b.and("entity_type = ?", f.EntityType)
	}

	if f.Cursor != nil && *f.Cursor != "" {
		cur, err := s.getAuditEvent(ctx, *f.Cursor)
		if err != nil {
			return nil, err
		}
		if cur != nil {
			b.and("((created_at < ?) OR (created_at = ? AND id > ?) OR id = ?)",
				cur.CreatedAt.Unix(), cur.CreatedAt.Unix(), cur.ID, cur.ID)
		}
	}

	query := `SELECT id, user_id, action, entity_type, entity_id, detail, created_at FROM audit_events`
	if clause := b.clause(); clause != "" {
		query += " WHERE " + clause
	}
	query += " ORDER BY created_at DESC, id ASC LIMIT ?"
	args := append(b.args, f.ClampedLimit()+1)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var out []core.AuditEvent
	for rows.Next() {
		var (
			e         core.AuditEvent
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.EntityType, &e.EntityID, &e.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("query audit events: %w", err)
		}
		e.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	return out, nil
}

func (s *Store) getAuditEvent(ctx context.Context, id string) (*core.AuditEvent, error) {
	var (
		e         core.AuditEvent
		createdAt int64
	)
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, user_id, action, entity_type, entity_id, detail, created_at
		 FROM audit_events WHERE id = ?`, id).
		Scan(&e.ID, &e.UserID, &e.Action, &e.EntityType, &e.EntityID, &e.Detail, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get audit event: %w", err)
	}
	e.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &e, nil
}
