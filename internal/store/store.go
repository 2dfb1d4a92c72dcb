// Package store persists threads, transcripts, channel mappings and
// automations in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rp-bot/AbletonBuddy/internal/types"
)

var ErrNotFound = errors.New("not found")

const dbName = "abletonbuddy.db"

const schema = `
CREATE TABLE IF NOT EXISTS threads (
	thread_id TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	message_count INTEGER NOT NULL DEFAULT 0,
	first_message_preview TEXT,
	last_message TEXT,
	title TEXT
);

CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	thread_id TEXT NOT NULL REFERENCES threads(thread_id) ON DELETE CASCADE,
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_thread ON messages(thread_id, id);

CREATE TABLE IF NOT EXISTS channels (
	channel_key TEXT PRIMARY KEY,
	thread_id TEXT NOT NULL REFERENCES threads(thread_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS automations (
	name TEXT PRIMARY KEY,
	command TEXT NOT NULL,
	schedule TEXT,
	thread_id TEXT,
	deliver TEXT,
	enabled INTEGER NOT NULL DEFAULT 1
);
`

// Store is the SQLite-backed implementation of types.ThreadStore and
// types.AutomationStore.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database under dataDir with
// foreign keys on.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		filepath.Join(dataDir, dbName))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Create(ctx context.Context) (*types.Thread, error) {
	now := time.Now().UTC()
	t := &types.Thread{
		ID:        types.NewThreadID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO threads(thread_id, created_at, updated_at) VALUES (?,?,?)`,
		t.ID, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert thread: %w", err)
	}
	return t, nil
}

func scanThread(row *sql.Row) (*types.Thread, error) {
	var t types.Thread
	err := row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt, &t.MessageCount, &t.Preview, &t.Title)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const threadColumns = `thread_id, created_at, updated_at, message_count,
	COALESCE(first_message_preview,'') AS first_message_preview,
	COALESCE(title,'') AS title`

func (s *Store) Get(ctx context.Context, id types.ThreadID) (*types.Thread, error) {
	return scanThread(s.db.QueryRowContext(ctx,
		`SELECT `+threadColumns+` FROM threads WHERE thread_id=?`, id))
}

func (s *Store) List(ctx context.Context) ([]*types.Thread, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+threadColumns+` FROM threads ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var threads []*types.Thread
	for rows.Next() {
		var t types.Thread
		if err := rows.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt, &t.MessageCount, &t.Preview, &t.Title); err != nil {
			return nil, err
		}
		threads = append(threads, &t)
	}
	return threads, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id types.ThreadID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM threads WHERE thread_id=?`, id)
	if err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) AppendMessage(ctx context.Context, id types.ThreadID, role types.Role, content string) error {
	now := time.Now().UTC()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages(thread_id, role, content, created_at) VALUES (?,?,?,?)`,
		id, role, content, now); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	if role == types.RoleUser {
		// first user message becomes the thread preview
		if _, err := tx.ExecContext(ctx,
			`UPDATE threads SET
				first_message_preview = COALESCE(NULLIF(first_message_preview,''), ?),
				updated_at = ?
			 WHERE thread_id = ?`, content, now, id); err != nil {
			return fmt.Errorf("update preview: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) Messages(ctx context.Context, id types.ThreadID) ([]*types.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, thread_id, role, content, created_at FROM messages WHERE thread_id=? ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*types.Message
	for rows.Next() {
		var m types.Message
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}

// MessageCount counts user and agent-result messages only; agent-status
// entries are audit trail, not conversation.
func (s *Store) MessageCount(ctx context.Context, id types.ThreadID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE thread_id=? AND role IN (?,?)`,
		id, types.RoleUser, types.RoleResult).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) UpdateMeta(ctx context.Context, id types.ThreadID, count int, lastMessage string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE threads SET message_count=?, last_message=?, updated_at=? WHERE thread_id=?`,
		count, lastMessage, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update thread metadata: %w", err)
	}
	return nil
}

func (s *Store) SetTitle(ctx context.Context, id types.ThreadID, title string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE threads SET title=?, updated_at=? WHERE thread_id=?`,
		title, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set title: %w", err)
	}
	return nil
}

// ResolveChannelThread returns the thread bound to a channel key,
// creating thread and binding on first use.
func (s *Store) ResolveChannelThread(ctx context.Context, key types.ChannelKey) (types.ThreadID, error) {
	var id types.ThreadID
	err := s.db.QueryRowContext(ctx,
		`SELECT thread_id FROM channels WHERE channel_key=?`, key).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	t, err := s.Create(ctx)
	if err != nil {
		return "", err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO channels(channel_key, thread_id) VALUES (?,?)`, key, t.ID); err != nil {
		return "", fmt.Errorf("bind channel: %w", err)
	}
	return t.ID, nil
}

func (s *Store) ListAutomations(ctx context.Context) ([]*types.Automation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, command, COALESCE(schedule,''), COALESCE(thread_id,''), COALESCE(deliver,''), enabled
		 FROM automations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var automations []*types.Automation
	for rows.Next() {
		var a types.Automation
		if err := rows.Scan(&a.Name, &a.Command, &a.Schedule, &a.ThreadID, &a.Deliver, &a.Enabled); err != nil {
			return nil, err
		}
		automations = append(automations, &a)
	}
	return automations, rows.Err()
}

func (s *Store) PutAutomation(ctx context.Context, a *types.Automation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO automations(name, command, schedule, thread_id, deliver, enabled)
		 VALUES (?,?,?,?,?,?)
		 ON CONFLICT(name) DO UPDATE SET
			command=excluded.command, schedule=excluded.schedule,
			thread_id=excluded.thread_id, deliver=excluded.deliver, enabled=excluded.enabled`,
		a.Name, a.Command, a.Schedule, a.ThreadID, a.Deliver, a.Enabled)
	if err != nil {
		return fmt.Errorf("put automation: %w", err)
	}
	return nil
}

func (s *Store) DeleteAutomation(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM automations WHERE name=?`, name)
	if err != nil {
		return fmt.Errorf("delete automation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
