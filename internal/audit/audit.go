// Package audit records who did what to which record. Every operator
// mutation lands here, including ones that later failed on the backend.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Entry is one audit trail record.
type Entry struct {
	ID        string    `json:"id"`
	Operator  string    `json:"operator"`
	Action    string    `json:"action"`
	TargetID  string    `json:"targetId"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Trail persists and lists audit entries.
type Trail interface {
	Record(ctx context.Context, operator, action, targetID, detail string) error
	List(ctx context.Context, limit int) ([]Entry, error)
}

type store struct {
	db *sql.DB

	now func() time.Time
}

// New creates an audit trail backed by the operational database.
func New(db *sql.DB) Trail {
	return &store{db: db, now: time.Now}
}

var _ Trail = (*store)(nil)

func (s *store) Record(ctx context.Context, operator, action, targetID, detail string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO audit_log (id, operator, action, target_id, detail, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		uuid.NewString(), operator, action, targetID, detail, s.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	log.Debug("Recorded audit entry", "operator", operator, "action", action, "target", targetID)
	return nil
}

// List returns the newest entries first, at most limit of them.
func (s *store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, operator, action, target_id, detail, created_at FROM audit_log ORDER BY created_at DESC, id LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.Operator, &e.Action, &e.TargetID, &e.Detail, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt = time.Unix(createdAt, 0).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
