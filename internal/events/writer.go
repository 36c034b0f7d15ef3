// Package events keeps an append-only journal of engine mutations in
// SQLite. Journal writes happen after the project record is saved;
// they are observability, not part of the load-mutate-save contract.
package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"teamtasks/internal/domain"
)

type Writer struct {
	DB  *sql.DB
	Now func() time.Time
}

type EventPayload map[string]any

// Append records one event. A nil payload is stored as an empty object.
func (w Writer) Append(ctx context.Context, evtType, project, entity string, payload EventPayload) error {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	ts := now().UTC().Format(time.RFC3339)
	if payload == nil {
		payload = EventPayload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	_, err = w.DB.ExecContext(ctx, `INSERT INTO events(ts,type,project,entity,payload_json) VALUES (?,?,?,?,?)`,
		ts, evtType, nullable(project), nullable(entity), string(data))
	return err
}

// Latest returns up to n most recent events, newest first, optionally
// filtered by project and type.
func (w Writer) Latest(ctx context.Context, n int, project, evtType string) ([]domain.Event, error) {
	q := `SELECT id,ts,type,COALESCE(project,''),COALESCE(entity,''),payload_json FROM events`
	var args []any
	var where []string
	if project != "" {
		where = append(where, "project=?")
		args = append(args, project)
	}
	if evtType != "" {
		where = append(where, "type=?")
		args = append(args, evtType)
	}
	for i, cond := range where {
		if i == 0 {
			q += " WHERE " + cond
		} else {
			q += " AND " + cond
		}
	}
	q += " ORDER BY id DESC LIMIT ?"
	args = append(args, n)
	rows, err := w.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Event
	for rows.Next() {
		var ev domain.Event
		if err := rows.Scan(&ev.ID, &ev.TS, &ev.Type, &ev.Project, &ev.Entity, &ev.Payload); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
