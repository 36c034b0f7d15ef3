package events_test

import (
	"context"
	"testing"
	"time"

	"teamtasks/internal/db"
	"teamtasks/internal/events"
	"teamtasks/internal/migrate"
)

func newWriter(t *testing.T) events.Writer {
	t.Helper()
	conn, err := db.Open(db.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return events.Writer{
		DB:  conn,
		Now: func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func TestAppendAndLatest(t *testing.T) {
	w := newWriter(t)
	ctx := context.Background()

	if err := w.Append(ctx, "project.init", "api", "", events.EventPayload{"mode": "dag"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := w.Append(ctx, "task.added", "api", "schema", nil); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := w.Append(ctx, "project.init", "web", "", nil); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := w.Latest(ctx, 10, "", "")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("events = %d, want 3", len(got))
	}
	// newest first
	if got[0].Project != "web" || got[2].Type != "project.init" || got[2].Project != "api" {
		t.Fatalf("order wrong: %+v", got)
	}
	if got[1].Entity != "schema" || got[1].Payload != "{}" {
		t.Fatalf("task event = %+v", got[1])
	}
	if got[2].TS != "2024-01-01T00:00:00Z" {
		t.Fatalf("ts = %q", got[2].TS)
	}
}

func TestLatestFilters(t *testing.T) {
	w := newWriter(t)
	ctx := context.Background()

	_ = w.Append(ctx, "project.init", "api", "", nil)
	_ = w.Append(ctx, "task.added", "api", "a", nil)
	_ = w.Append(ctx, "task.added", "web", "b", nil)

	got, err := w.Latest(ctx, 10, "api", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("project filter: %d events", len(got))
	}

	got, err = w.Latest(ctx, 10, "", "task.added")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("type filter: %d events", len(got))
	}

	got, err = w.Latest(ctx, 10, "web", "project.init")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("combined filter: %+v", got)
	}

	got, err = w.Latest(ctx, 1, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Project != "web" {
		t.Fatalf("limit: %+v", got)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	w := newWriter(t)
	if err := migrate.Migrate(w.DB); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	var v int
	if err := w.DB.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	if v != 1 {
		t.Fatalf("schema version = %d, want 1", v)
	}
}
