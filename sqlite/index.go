package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/castindex"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ castindex.IndexStore = (*IndexStore)(nil)

// Run records one saved index.
type Run struct {
	ID        string
	CreatedAt time.Time
	Words     int
	Postings  int
}

// IndexStore implements castindex.IndexStore using SQLite. Each word's
// titles are stored as numbered postings so order and duplicates survive.
type IndexStore struct {
	db *DB
}

// NewIndexStore creates a new IndexStore.
func NewIndexStore(db *DB) *IndexStore {
	return &IndexStore{db: db}
}

// SaveIndex replaces all postings with idx and records a run, in one
// transaction.
func (s *IndexStore) SaveIndex(ctx context.Context, idx castindex.Index) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return castindex.Errorf(castindex.EPERSIST, "begin transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM postings`); err != nil {
		return castindex.Errorf(castindex.EPERSIST, "clear postings: %v", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO postings (word, position, title) VALUES (?, ?, ?)`)
	if err != nil {
		return castindex.Errorf(castindex.EPERSIST, "prepare insert: %v", err)
	}
	defer stmt.Close()

	postings := 0
	for _, word := range idx.Words() {
		for i, title := range idx[word] {
			if _, err := stmt.ExecContext(ctx, word, i, title); err != nil {
				return castindex.Errorf(castindex.EPERSIST, "insert posting %q: %v", word, err)
			}
			postings++
		}
	}

	run := Run{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Words:     len(idx),
		Postings:  postings,
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, words, postings)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.CreatedAt.Format(time.RFC3339), run.Words, run.Postings); err != nil {
		return castindex.Errorf(castindex.EPERSIST, "record run: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return castindex.Errorf(castindex.EPERSIST, "commit: %v", err)
	}
	return nil
}

// LoadIndex returns the postings of the last saved index.
// Returns ENOTFOUND if no index has been saved.
func (s *IndexStore) LoadIndex(ctx context.Context) (castindex.Index, error) {
	var runs int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&runs); err != nil {
		return nil, castindex.Errorf(castindex.EPERSIST, "count runs: %v", err)
	}
	if runs == 0 {
		return nil, castindex.Errorf(castindex.ENOTFOUND, "no index saved")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT word, title
		FROM postings
		ORDER BY word, position
	`)
	if err != nil {
		return nil, castindex.Errorf(castindex.EPERSIST, "query postings: %v", err)
	}
	defer rows.Close()

	idx := castindex.Index{}
	for rows.Next() {
		var word, title string
		if err := rows.Scan(&word, &title); err != nil {
			return nil, castindex.Errorf(castindex.EPERSIST, "scan posting: %v", err)
		}
		idx[word] = append(idx[word], title)
	}
	if err := rows.Err(); err != nil {
		return nil, castindex.Errorf(castindex.EPERSIST, "read postings: %v", err)
	}
	return idx, nil
}

// Runs returns recorded runs, newest first. A limit of zero returns all.
func (s *IndexStore) Runs(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT id, created_at, words, postings FROM runs ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, castindex.Errorf(castindex.EPERSIST, "query runs: %v", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, castindex.Errorf(castindex.EPERSIST, "read runs: %v", err)
	}
	return runs, nil
}

func scanRun(rows *sql.Rows) (*Run, error) {
	var run Run
	var createdAt string
	if err := rows.Scan(&run.ID, &createdAt, &run.Words, &run.Postings); err != nil {
		return nil, castindex.Errorf(castindex.EPERSIST, "scan run: %v", err)
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, castindex.Errorf(castindex.EPERSIST, "run %s created_at: %v", run.ID, err)
	}
	run.CreatedAt = t
	return &run, nil
}
