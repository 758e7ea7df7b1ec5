// Package analysis turns cleaned resume text into a structured Result using an LLM,
// substituting a fixed fallback whenever the model cannot produce one.
package analysis

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"resume-screener/internal/llm"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/telemetry"
	"resume-screener/internal/shared/util"
)

// Prompt parameters.
const (
	SystemPrompt = "You are an experienced recruiter who evaluates resumes. Reply with valid JSON only."
	MaxTokens    = 800
	Temperature  = 0.3
)

// Fallback reasons that do not carry an underlying error.
const (
	ReasonNoCredential      = "no valid credential"
	ReasonInvalidStructure  = "invalid response structure"
	ReasonAnalysisTimeout   = "analysis timed out"
	reasonPanicPrefix       = "analysis panic: "
	promptResumePlaceholder = "{{RESUME_TEXT}}"
)

//go:embed prompts/analysis.txt
var promptTemplate string

// responseSchema only requires the four keys; types are coerced afterwards.
const responseSchema = `{
  "type": "object",
  "required": ["skills", "strength_score", "career_roles", "keywords"]
}`

// Options configures an Analyzer.
type Options struct {
	// Credential is the provider API key the client was built with.
	Credential string
	// Timeout bounds the provider call. Zero means no extra bound beyond the caller's context.
	Timeout time.Duration
}

// Analyzer calls the LLM and validates its answer. Analyze never returns an error.
type Analyzer struct {
	client  llm.Client
	opts    Options
	schema  *jsonschema.Schema
	timeNow func() time.Time
}

// New builds an Analyzer. A nil client or missing credential puts it in permanent fallback mode.
func New(client llm.Client, opts Options) *Analyzer {
	return &Analyzer{
		client:  client,
		opts:    opts,
		schema:  mustCompileSchema(),
		timeNow: time.Now,
	}
}

// HasCredential reports whether key is usable: non-blank and not the template placeholder.
func HasCredential(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != config.PlaceholderAPIKey
}

// Enabled reports whether the analyzer will call the provider.
func (a *Analyzer) Enabled() bool {
	return a != nil && a.client != nil && HasCredential(a.opts.Credential)
}

// Analyze returns the structured analysis of text, or the fallback with a reason.
func (a *Analyzer) Analyze(ctx context.Context, text string) (result Result) {
	if !a.Enabled() {
		return a.fallback(ReasonNoCredential, nil)
	}
	defer func() {
		if rec := recover(); rec != nil {
			result = a.fallback(fmt.Sprintf("%s%v", reasonPanicPrefix, rec), nil)
		}
	}()

	callCtx := ctx
	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	prompt := BuildPrompt(text)
	start := a.timeNow()
	resp, err := a.client.Complete(callCtx, llm.Request{
		System:      SystemPrompt,
		User:        prompt,
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
		JSONOutput:  true,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return a.fallback(ReasonAnalysisTimeout, err)
		}
		return a.fallback(fmt.Sprintf("analysis request failed: %v", err), err)
	}

	result, reason, err := a.parse(resp.Text)
	if reason != "" {
		return a.fallback(reason, err)
	}

	telemetry.Info("analysis.completed", map[string]any{
		"provider":       a.client.Provider(),
		"prompt_sha256":  util.ContentHash([]byte(prompt)),
		"duration_ms":    float64(a.timeNow().Sub(start).Microseconds()) / 1000.0,
		"skills":         len(result.Skills),
		"career_roles":   len(result.CareerRoles),
		"keywords":       len(result.Keywords),
		"strength_score": result.StrengthScore,
	})
	return result
}

// parse strips fencing, decodes and validates the payload. A non-empty reason means fallback.
func (a *Analyzer) parse(raw string) (Result, string, error) {
	payload := StripFence(raw)

	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return Result{}, fmt.Sprintf("JSON parsing error: %v", err), err
	}
	if err := a.schema.Validate(decoded); err != nil {
		return Result{}, ReasonInvalidStructure, err
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return Result{}, ReasonInvalidStructure, nil
	}
	return coerce(obj), "", nil
}

func (a *Analyzer) fallback(reason string, err error) Result {
	fields := map[string]any{"reason": reason}
	if err != nil {
		fields["error"] = err
	}
	if a != nil && a.client != nil {
		fields["provider"] = a.client.Provider()
	}
	telemetry.Warn("analysis.fallback", fields)
	return Fallback(reason)
}

// BuildPrompt embeds text into the analysis prompt template.
func BuildPrompt(text string) string {
	return strings.Replace(promptTemplate, promptResumePlaceholder, text, 1)
}

// StripFence returns the body of the first ``` fenced block in text, dropping an optional
// language tag after the opening fence. Text without a fence is returned trimmed.
func StripFence(text string) string {
	start := strings.Index(text, "```")
	if start < 0 {
		return strings.TrimSpace(text)
	}
	rest := text[start+3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 && isLanguageTag(strings.TrimSpace(rest[:nl])) {
		rest = rest[nl+1:]
	} else if len(rest) >= 4 && strings.EqualFold(rest[:4], "json") {
		rest = rest[4:]
	}
	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

func isLanguageTag(s string) bool {
	if s == "" || len(s) > 20 {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '+') {
			return false
		}
	}
	return true
}

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("analysis.json", bytes.NewReader([]byte(responseSchema))); err != nil {
		panic(fmt.Errorf("add analysis schema: %w", err))
	}
	return compiler.MustCompile("analysis.json")
}
