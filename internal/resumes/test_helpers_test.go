package resumes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-screener/internal/analysis"
	"resume-screener/internal/extract"
	"resume-screener/internal/extract/extracttest"
	"resume-screener/internal/llm"
)

const wellFormedAnalysis = `{
  "skills": ["Go", "SQL", "Kubernetes", "AWS", "gRPC", "Docker", "Linux", "Terraform", "Kafka", "Redis", "Extra"],
  "strength_score": 82,
  "career_roles": ["Backend Engineer", "Platform Engineer", "SRE", "Tech Lead", "Architect", "CTO"],
  "keywords": ["golang", "microservices", "cloud", "distributed", "api", "devops", "scalability", "testing"]
}`

type fakeLLM struct {
	text  string
	err   error
	calls int
}

func (f *fakeLLM) Provider() string { return "fake" }

func (f *fakeLLM) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	f.calls++
	if f.err != nil {
		return llm.Response{}, f.err
	}
	return llm.Response{Text: f.text, Model: "fake-model"}, nil
}

type fakeExtractor struct {
	result extract.Result
	err    error
	calls  int
}

func (f *fakeExtractor) Extract(ctx context.Context, data []byte, format extract.Format) (extract.Result, error) {
	f.calls++
	return f.result, f.err
}

type panicAnalyzer struct{}

func (panicAnalyzer) Analyze(ctx context.Context, text string) analysis.Result {
	panic("analyzer exploded")
}

type failingRepo struct{}

func (failingRepo) Create(ctx context.Context, rec Record) (Record, error) {
	return Record{}, errors.New("disk full")
}

func (failingRepo) GetByID(ctx context.Context, id int64) (Record, error) {
	return Record{}, errors.New("connection reset")
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
}

// resumePDF builds a two page resume with well over 1000 characters of text.
func resumePDF() []byte {
	line := "Senior software engineer building distributed payment systems with Go and PostgreSQL"
	var pages [][]string
	for p := 0; p < 2; p++ {
		var lines []string
		for i := 0; i < 10; i++ {
			lines = append(lines, fmt.Sprintf("%s, project %d.%d", line, p+1, i+1))
		}
		pages = append(pages, lines)
	}
	return extracttest.PDF(pages...)
}

func resumeDOCX() []byte {
	return extracttest.DOCX(
		"Jane Doe - Platform Engineer",
		strings.Repeat("Designed and operated Kubernetes clusters for payments. ", 4),
		"Skills: Go, Terraform, AWS, PostgreSQL",
	)
}

func newTestService(client llm.Client, credential string) *Service {
	return &Service{
		Extractor: extract.New(),
		Analyzer:  analysis.New(client, analysis.Options{Credential: credential, Timeout: time.Second}),
		Repo:      NewMemoryRepo(),
		Now:       fixedNow,
	}
}
