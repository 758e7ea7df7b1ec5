package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PGRepo implements Repo using Postgres with JSONB list columns.
type PGRepo struct {
	DB  *sql.DB
	Now func() time.Time
}

// Create inserts the analysis and returns it with the generated id.
func (r *PGRepo) Create(ctx context.Context, rec Record) (Record, error) {
	const query = `
INSERT INTO resume_analyses (
	filename, resume_text, skills, strength_score, career_roles, keywords, fallback_used, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = nowUTC(r.Now)
	}
	skills, roles, keywords, err := marshalLists(rec)
	if err != nil {
		return Record{}, err
	}
	err = r.DB.QueryRowContext(ctx, query,
		rec.Filename,
		rec.ResumeText,
		skills,
		rec.StrengthScore,
		roles,
		keywords,
		rec.FallbackUsed,
		rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return Record{}, fmt.Errorf("insert resume analysis: %w", err)
	}
	return rec, nil
}

// GetByID returns the analysis with id.
func (r *PGRepo) GetByID(ctx context.Context, id int64) (Record, error) {
	const query = `
SELECT id, filename, resume_text, skills, strength_score, career_roles, keywords, fallback_used, created_at
FROM resume_analyses
WHERE id = $1`
	return scanRecord(r.DB.QueryRowContext(ctx, query, id))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec                     Record
		skills, roles, keywords []byte
	)
	err := row.Scan(
		&rec.ID,
		&rec.Filename,
		&rec.ResumeText,
		&skills,
		&rec.StrengthScore,
		&roles,
		&keywords,
		&rec.FallbackUsed,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("select resume analysis: %w", err)
	}
	if rec.Skills, err = unmarshalList(skills); err != nil {
		return Record{}, fmt.Errorf("decode skills: %w", err)
	}
	if rec.CareerRoles, err = unmarshalList(roles); err != nil {
		return Record{}, fmt.Errorf("decode career_roles: %w", err)
	}
	if rec.Keywords, err = unmarshalList(keywords); err != nil {
		return Record{}, fmt.Errorf("decode keywords: %w", err)
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}

func marshalLists(rec Record) (skills, roles, keywords []byte, err error) {
	if skills, err = marshalList(rec.Skills); err != nil {
		return nil, nil, nil, err
	}
	if roles, err = marshalList(rec.CareerRoles); err != nil {
		return nil, nil, nil, err
	}
	if keywords, err = marshalList(rec.Keywords); err != nil {
		return nil, nil, nil, err
	}
	return skills, roles, keywords, nil
}

func marshalList(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

func unmarshalList(raw []byte) ([]string, error) {
	out := []string{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func nowUTC(now func() time.Time) time.Time {
	if now == nil {
		now = time.Now
	}
	return now().UTC()
}
