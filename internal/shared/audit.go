package shared

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminLog represents a record stored in admin_logs. Reverted entries stay
// in the trail with the reverting admin recorded next to them.
type AdminLog struct {
	ID         string         `json:"id"`
	AdminID    string         `json:"adminId"`
	AdminName  string         `json:"adminName,omitempty"`
	Action     string         `json:"action"`
	Entity     string         `json:"relatedEntityType,omitempty"`
	EntityID   string         `json:"relatedEntityId,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	OccurredAt time.Time      `json:"timestamp"`
	IsReverted bool           `json:"isReverted"`
	RevertedBy string         `json:"revertedBy,omitempty"`
	RevertedAt *time.Time     `json:"revertedAt,omitempty"`
}

// AuditLogger writes records into admin_logs.
type AuditLogger struct {
	pool *pgxpool.Pool
}

// NewAuditLogger returns a new AuditLogger.
func NewAuditLogger(pool *pgxpool.Pool) *AuditLogger {
	return &AuditLogger{pool: pool}
}

// Record persists the log entry.
func (l *AuditLogger) Record(ctx context.Context, log AdminLog) error {
	if l == nil {
		return errors.New("audit logger not initialised")
	}
	if log.AdminID == "" || log.Action == "" {
		return errors.New("admin log requires admin_id/action")
	}
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	detailsJSON, err := json.Marshal(log.Details)
	if err != nil {
		return err
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO admin_logs (id, admin_id, action, entity, entity_id, details, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))`,
		log.ID, log.AdminID, log.Action, log.Entity, log.EntityID, detailsJSON, nullableTime(log.OccurredAt))
	return err
}

// MarkReverted flags an existing entry as undone by another admin.
func (l *AuditLogger) MarkReverted(ctx context.Context, logID, revertedBy string) error {
	if l == nil {
		return errors.New("audit logger not initialised")
	}
	tag, err := l.pool.Exec(ctx,
		`UPDATE admin_logs SET is_reverted = TRUE, reverted_by = $2, reverted_at = NOW()
		 WHERE id = $1 AND is_reverted = FALSE`,
		logID, revertedBy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByAdmin returns the action trail for one admin, newest first.
func (l *AuditLogger) ListByAdmin(ctx context.Context, adminID string, limit, offset int) ([]AdminLog, int, error) {
	if l == nil {
		return nil, 0, errors.New("audit logger not initialised")
	}
	var total int
	if err := l.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM admin_logs WHERE admin_id = $1`, adminID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := l.pool.Query(ctx,
		`SELECT l.id, l.admin_id, COALESCE(a.first_name || ' ' || a.last_name, ''), l.action,
		        COALESCE(l.entity, ''), COALESCE(l.entity_id, ''), l.details, l.occurred_at,
		        l.is_reverted, COALESCE(l.reverted_by, ''), l.reverted_at
		 FROM admin_logs l
		 LEFT JOIN admins a ON a.id = l.admin_id
		 WHERE l.admin_id = $1
		 ORDER BY l.occurred_at DESC
		 LIMIT $2 OFFSET $3`,
		adminID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var logs []AdminLog
	for rows.Next() {
		var entry AdminLog
		var detailsJSON []byte
		if err := rows.Scan(&entry.ID, &entry.AdminID, &entry.AdminName, &entry.Action,
			&entry.Entity, &entry.EntityID, &detailsJSON, &entry.OccurredAt,
			&entry.IsReverted, &entry.RevertedBy, &entry.RevertedAt); err != nil {
			return nil, 0, err
		}
		if len(detailsJSON) > 0 {
			_ = json.Unmarshal(detailsJSON, &entry.Details)
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
