package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Shape limits.
const (
	MaxSkills      = 10
	MaxCareerRoles = 5
	DefaultScore   = 70
)

// Result is the structured analysis of one resume.
type Result struct {
	Skills        []string `json:"skills"`
	StrengthScore int      `json:"strength_score"`
	CareerRoles   []string `json:"career_roles"`
	Keywords      []string `json:"keywords"`
	FallbackUsed  bool     `json:"fallback_used"`
	// FallbackReason explains why the fallback was used; it is diagnostic only.
	FallbackReason string `json:"-"`
}

var (
	fallbackSkills = []string{
		"Communication", "Problem Solving", "Leadership", "Team Work", "Project Management",
		"Time Management", "Adaptability", "Critical Thinking", "Technical Skills", "Analysis",
	}
	fallbackRoles = []string{
		"Project Manager", "Business Analyst", "Team Lead", "Coordinator", "Specialist",
	}
	fallbackKeywords = []string{
		"experience", "leadership", "management", "projects", "team",
		"skills", "results", "professional", "development", "achievements",
	}
)

// Fallback returns the fixed generic analysis, annotated with reason.
func Fallback(reason string) Result {
	return Result{
		Skills:         append([]string(nil), fallbackSkills...),
		StrengthScore:  DefaultScore,
		CareerRoles:    append([]string(nil), fallbackRoles...),
		Keywords:       append([]string(nil), fallbackKeywords...),
		FallbackUsed:   true,
		FallbackReason: reason,
	}
}

// Shape bounds skills and roles and replaces nil lists with empty ones.
// Shape(Shape(r)) == Shape(r).
func Shape(r Result) Result {
	r.Skills = truncate(r.Skills, MaxSkills)
	r.CareerRoles = truncate(r.CareerRoles, MaxCareerRoles)
	r.Keywords = truncate(r.Keywords, -1)
	return r
}

func truncate(in []string, max int) []string {
	if max >= 0 && len(in) > max {
		in = in[:max]
	}
	return append(make([]string, 0, len(in)), in...)
}

// coerce converts a decoded model payload that already carries all required keys.
func coerce(payload map[string]any) Result {
	return Shape(Result{
		Skills:        stringList(payload["skills"]),
		StrengthScore: score(payload["strength_score"]),
		CareerRoles:   stringList(payload["career_roles"]),
		Keywords:      stringList(payload["keywords"]),
	})
}

// stringList keeps scalar elements of a JSON array as strings; anything else yields an empty list.
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case string:
			out = append(out, t)
		case json.Number:
			out = append(out, t.String())
		case float64:
			out = append(out, strconv.FormatFloat(t, 'f', -1, 64))
		case bool:
			out = append(out, fmt.Sprint(t))
		}
	}
	return out
}

// score truncates numeric values toward zero; non-numeric or out-of-range values become DefaultScore.
func score(v any) int {
	var f float64
	switch t := v.(type) {
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return DefaultScore
		}
		f = parsed
	case float64:
		f = t
	default:
		return DefaultScore
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return DefaultScore
	}
	return int(math.Trunc(f))
}
