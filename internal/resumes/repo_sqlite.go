package resumes

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteRepo implements Repo on SQLite, storing list columns as JSON text.
type SQLiteRepo struct {
	DB  *sql.DB
	Now func() time.Time
}

// Create inserts the analysis; the id comes from the rowid.
func (r *SQLiteRepo) Create(ctx context.Context, rec Record) (Record, error) {
	const query = `
INSERT INTO resume_analyses (
	filename, resume_text, skills, strength_score, career_roles, keywords, fallback_used, created_at
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = nowUTC(r.Now)
	}
	skills, roles, keywords, err := marshalLists(rec)
	if err != nil {
		return Record{}, err
	}
	res, err := r.DB.ExecContext(ctx, query,
		rec.Filename,
		rec.ResumeText,
		string(skills),
		rec.StrengthScore,
		string(roles),
		string(keywords),
		rec.FallbackUsed,
		rec.CreatedAt.UTC(),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert resume analysis: %w", err)
	}
	if rec.ID, err = res.LastInsertId(); err != nil {
		return Record{}, fmt.Errorf("resume analysis id: %w", err)
	}
	return rec, nil
}

// GetByID returns the analysis with id.
func (r *SQLiteRepo) GetByID(ctx context.Context, id int64) (Record, error) {
	const query = `
SELECT id, filename, resume_text, skills, strength_score, career_roles, keywords, fallback_used, created_at
FROM resume_analyses
WHERE id = ?`
	return scanRecord(r.DB.QueryRowContext(ctx, query, id))
}
