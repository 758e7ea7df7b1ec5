package resumes

import (
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// MaxStoredTextChars bounds the resume text kept with each analysis.
const MaxStoredTextChars = 5000

// Record is a persisted analysis.
type Record struct {
	ID            int64     `json:"id"`
	Filename      string    `json:"filename" validate:"required"`
	ResumeText    string    `json:"-" validate:"max=5000"`
	Skills        []string  `json:"skills" validate:"max=10"`
	StrengthScore float64   `json:"strength_score"`
	CareerRoles   []string  `json:"career_roles" validate:"max=5"`
	Keywords      []string  `json:"keywords"`
	FallbackUsed  bool      `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

var validate = validator.New()

// Validate checks field bounds before the record is handed to a repository.
func (r Record) Validate() error {
	return validate.Struct(r)
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

func cloneRecord(r Record) Record {
	r.Skills = append([]string(nil), r.Skills...)
	r.CareerRoles = append([]string(nil), r.CareerRoles...)
	r.Keywords = append([]string(nil), r.Keywords...)
	return r
}
