package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-screener/internal/llm"
)

type fakeClient struct {
	text  string
	err   error
	block bool
	panic bool
	last  llm.Request
	calls int
}

func (f *fakeClient) Provider() string { return "fake" }

func (f *fakeClient) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	f.calls++
	f.last = req
	if f.panic {
		panic("provider exploded")
	}
	if f.block {
		<-ctx.Done()
		return llm.Response{}, ctx.Err()
	}
	return llm.Response{Text: f.text}, f.err
}

const wellFormed = `{
  "skills": ["Go", "SQL", "Kubernetes", "AWS", "gRPC", "Docker", "Linux", "Terraform", "Kafka", "Redis"],
  "strength_score": 82,
  "career_roles": ["Backend Engineer", "Platform Engineer", "SRE", "Tech Lead", "Architect"],
  "keywords": ["golang", "microservices", "cloud", "distributed", "api", "devops", "scalability", "testing"]
}`

func newAnalyzer(c llm.Client) *Analyzer {
	return New(c, Options{Credential: "sk-test", Timeout: time.Second})
}

func assertFallback(t *testing.T, res Result) {
	t.Helper()
	assert.True(t, res.FallbackUsed)
	assert.Equal(t, fallbackSkills, res.Skills)
	assert.Equal(t, fallbackRoles, res.CareerRoles)
	assert.Equal(t, fallbackKeywords, res.Keywords)
	assert.Equal(t, DefaultScore, res.StrengthScore)
	assert.NotEmpty(t, res.FallbackReason)
}

func TestAnalyzeWellFormed(t *testing.T) {
	client := &fakeClient{text: wellFormed}
	res := newAnalyzer(client).Analyze(context.Background(), "Jane Doe backend engineer")

	assert.False(t, res.FallbackUsed)
	assert.Equal(t, 82, res.StrengthScore)
	assert.Len(t, res.Skills, 10)
	assert.Len(t, res.CareerRoles, 5)
	assert.Len(t, res.Keywords, 8)
	assert.Equal(t, SystemPrompt, client.last.System)
	assert.Equal(t, MaxTokens, client.last.MaxTokens)
	assert.True(t, client.last.JSONOutput)
	assert.Contains(t, client.last.User, "Jane Doe backend engineer")
}

func TestAnalyzeWithoutCredential(t *testing.T) {
	for _, key := range []string{"", "   ", "your-openai-api-key-here"} {
		client := &fakeClient{text: wellFormed}
		res := New(client, Options{Credential: key}).Analyze(context.Background(), "text")
		assertFallback(t, res)
		assert.Equal(t, ReasonNoCredential, res.FallbackReason)
		assert.Zero(t, client.calls)
	}

	res := New(nil, Options{Credential: "sk-test"}).Analyze(context.Background(), "text")
	assertFallback(t, res)
}

func TestAnalyzeProviderError(t *testing.T) {
	res := newAnalyzer(&fakeClient{err: errors.New("openai status 500")}).Analyze(context.Background(), "text")
	assertFallback(t, res)
	assert.Contains(t, res.FallbackReason, "openai status 500")
}

func TestAnalyzeTimeout(t *testing.T) {
	a := New(&fakeClient{block: true}, Options{Credential: "sk-test", Timeout: 20 * time.Millisecond})
	res := a.Analyze(context.Background(), "text")
	assertFallback(t, res)
	assert.Equal(t, ReasonAnalysisTimeout, res.FallbackReason)
}

func TestAnalyzeRecoversFromPanic(t *testing.T) {
	res := newAnalyzer(&fakeClient{panic: true}).Analyze(context.Background(), "text")
	assertFallback(t, res)
	assert.Contains(t, res.FallbackReason, "provider exploded")
}

func TestAnalyzeFencedPayloads(t *testing.T) {
	for _, text := range []string{
		"```json\n" + wellFormed + "\n```",
		"Here you go:\n```\n" + wellFormed + "\n```\nThanks!",
		"```JSON" + wellFormed + "```",
	} {
		res := newAnalyzer(&fakeClient{text: text}).Analyze(context.Background(), "text")
		assert.False(t, res.FallbackUsed, "payload %q", text)
		assert.Equal(t, 82, res.StrengthScore)
	}
}

func TestAnalyzeParseError(t *testing.T) {
	res := newAnalyzer(&fakeClient{text: "I cannot help with that."}).Analyze(context.Background(), "text")
	assertFallback(t, res)
	assert.True(t, strings.HasPrefix(res.FallbackReason, "JSON parsing error"))
}

func TestAnalyzeMissingFields(t *testing.T) {
	for _, text := range []string{
		`{"skills": ["Go"], "strength_score": 80, "career_roles": []}`,
		`["skills", "strength_score", "career_roles", "keywords"]`,
		`"just a string"`,
	} {
		res := newAnalyzer(&fakeClient{text: text}).Analyze(context.Background(), "text")
		assertFallback(t, res)
		assert.Equal(t, ReasonInvalidStructure, res.FallbackReason)
	}
}

func TestAnalyzeCoercion(t *testing.T) {
	text := `{
	  "skills": ["a","b","c","d","e","f","g","h","i","j","k","l"],
	  "strength_score": 77.9,
	  "career_roles": "Backend Engineer",
	  "keywords": ["go", 42, null, {"x": 1}, true]
	}`
	res := newAnalyzer(&fakeClient{text: text}).Analyze(context.Background(), "text")

	require.False(t, res.FallbackUsed)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}, res.Skills)
	assert.Equal(t, 77, res.StrengthScore)
	assert.Equal(t, []string{}, res.CareerRoles)
	assert.Equal(t, []string{"go", "42", "true"}, res.Keywords)
}

func TestAnalyzeNonNumericScore(t *testing.T) {
	for _, raw := range []string{`"high"`, `null`, `[90]`, `1e400`} {
		text := `{"skills": [], "strength_score": ` + raw + `, "career_roles": [], "keywords": []}`
		res := newAnalyzer(&fakeClient{text: text}).Analyze(context.Background(), "text")
		require.False(t, res.FallbackUsed, "score %s", raw)
		assert.Equal(t, DefaultScore, res.StrengthScore, "score %s", raw)
	}
}

func TestAnalyzeAdversarialInputs(t *testing.T) {
	inputs := []string{"", "```json\n{\"skills\": 1}\n```", strings.Repeat("}{", 1000), "\x00\xff"}
	replies := []string{"", "```", "```json```", "{", "null", `{"skills":null,"strength_score":null,"career_roles":null,"keywords":null}`}
	for _, in := range inputs {
		for _, reply := range replies {
			res := newAnalyzer(&fakeClient{text: reply}).Analyze(context.Background(), in)
			assert.NotNil(t, res.Skills)
			assert.NotNil(t, res.CareerRoles)
			assert.NotNil(t, res.Keywords)
			assert.LessOrEqual(t, len(res.Skills), MaxSkills)
			assert.LessOrEqual(t, len(res.CareerRoles), MaxCareerRoles)
		}
	}
}

func TestShapeIsIdempotent(t *testing.T) {
	r := Result{
		Skills:      []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"},
		CareerRoles: []string{"a", "b", "c", "d", "e", "f"},
	}
	once := Shape(r)
	assert.Len(t, once.Skills, MaxSkills)
	assert.Len(t, once.CareerRoles, MaxCareerRoles)
	assert.Equal(t, []string{}, once.Keywords)
	assert.Equal(t, once, Shape(once))
}

func TestFallbackReturnsFreshSlices(t *testing.T) {
	a := Fallback("x")
	a.Skills[0] = "mutated"
	b := Fallback("y")
	assert.Equal(t, "Communication", b.Skills[0])
	assert.Len(t, b.Keywords, 10)
}

func TestStripFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`  {"a":1}  `, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"```json{\"a\":1}```", `{"a":1}`},
		{"prefix ```python\nfirst\n``` middle ```json\nsecond\n```", "first"},
		{"```\n{\"a\":1}", `{"a":1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripFence(tt.in), "input %q", tt.in)
	}
}
