package idea

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"ideaforge/internal/gateway/entity"
	"ideaforge/internal/pipeline"
)

type PostgresStore struct {
	db *sql.DB

	schemaMu    sync.Mutex
	schemaReady bool
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres opens dsn with the pgx driver and checks the connection.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// ensureSchema creates the table on first use. A failed attempt is not
// remembered; the next call runs the DDL again with its own context.
func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("db is nil")
	}
	s.schemaMu.Lock()
	defer s.schemaMu.Unlock()
	if s.schemaReady {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS ideas (
    id UUID PRIMARY KEY,
    user_id TEXT NOT NULL,
    method TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    score INTEGER NOT NULL,
    note_a TEXT,
    note_b TEXT,
    note_c TEXT,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_ideas_user_created ON ideas(user_id, created_at DESC);
`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	s.schemaReady = true
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, in Idea) (Idea, error) {
	if s == nil {
		return Idea{}, fmt.Errorf("store is nil")
	}
	out, err := prepare(in, time.Now())
	if err != nil {
		return Idea{}, err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return Idea{}, err
	}
	res, err := s.db.ExecContext(ctx, `
INSERT INTO ideas (id, user_id, method, title, description, score, note_a, note_b, note_c, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id)
DO UPDATE SET method=EXCLUDED.method, title=EXCLUDED.title, description=EXCLUDED.description,
    score=EXCLUDED.score, note_a=EXCLUDED.note_a, note_b=EXCLUDED.note_b, note_c=EXCLUDED.note_c
WHERE ideas.user_id = EXCLUDED.user_id
`, out.ID, out.UserID.String(), string(out.Method), out.Title, out.Description, out.Score,
		nullable(out.NoteA), nullable(out.NoteB), nullable(out.NoteC), out.CreatedAt)
	if err != nil {
		return Idea{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Idea{}, fmt.Errorf("id %s belongs to another user", out.ID)
	}
	return out, nil
}

const selectColumns = `id, user_id, method, title, description, score, note_a, note_b, note_c, created_at`

func (s *PostgresStore) Get(ctx context.Context, userID entity.UserID, id string) (Idea, error) {
	if s == nil {
		return Idea{}, fmt.Errorf("store is nil")
	}
	if err := checkKey(userID, id); err != nil {
		return Idea{}, err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return Idea{}, err
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM ideas WHERE id=$1 AND user_id=$2`,
		strings.TrimSpace(id), userID.String())
	it, err := scanIdea(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Idea{}, ErrNotFound
	}
	return it, err
}

func (s *PostgresStore) List(ctx context.Context, userID entity.UserID) ([]Idea, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if userID.IsZero() {
		return nil, fmt.Errorf("user_id is required")
	}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM ideas WHERE user_id=$1 ORDER BY created_at DESC, id`,
		userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Idea, 0, 16)
	for rows.Next() {
		it, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID entity.UserID, id string) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	if err := checkKey(userID, id); err != nil {
		return err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM ideas WHERE id=$1 AND user_id=$2`, strings.TrimSpace(id), userID.String())
	if err != nil {
		return err
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdea(row rowScanner) (Idea, error) {
	var (
		it                  Idea
		userID, method      string
		noteA, noteB, noteC sql.NullString
	)
	if err := row.Scan(&it.ID, &userID, &method, &it.Title, &it.Description, &it.Score,
		&noteA, &noteB, &noteC, &it.CreatedAt); err != nil {
		return Idea{}, err
	}
	it.UserID = entity.UserID(userID)
	it.Method = pipeline.MethodID(method)
	it.NoteA = fromNullable(noteA)
	it.NoteB = fromNullable(noteB)
	it.NoteC = fromNullable(noteC)
	it.CreatedAt = it.CreatedAt.UTC()
	return it, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
