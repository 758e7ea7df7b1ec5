package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"resume-screener/internal/extract/extracttest"
	"resume-screener/internal/shared/config"
)

func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		saveResult, provider, model, apiKey, timeout, compact = false, "", "", "", 0, false
	})
}

func TestApplyFlagsOverridesConfig(t *testing.T) {
	resetFlags(t)
	provider, apiKey, timeout = "Gemini", "g-key", 5*time.Second

	cfg := applyFlags(config.Config{
		LLMProvider:  "openai",
		LLMModel:     "gpt-3.5-turbo",
		StoreDriver:  "postgres",
		ArchiveStore: "s3",
	})
	if cfg.LLMProvider != "gemini" || cfg.LLMModel != "gemini-2.5-flash" || cfg.GeminiAPIKey != "g-key" {
		t.Fatalf("unexpected provider settings: %+v", cfg)
	}
	if cfg.AnalysisTimeout != 5*time.Second {
		t.Fatalf("expected timeout override, got %s", cfg.AnalysisTimeout)
	}
	if cfg.StoreDriver != "memory" || cfg.ArchiveStore != "none" {
		t.Fatalf("expected nothing persisted without --save, got %s/%s", cfg.StoreDriver, cfg.ArchiveStore)
	}
}

func TestApplyFlagsKeepsStoreWithSave(t *testing.T) {
	resetFlags(t)
	saveResult = true

	cfg := applyFlags(config.Config{StoreDriver: "sqlite", ArchiveStore: "local", LLMProvider: "openai"})
	if cfg.StoreDriver != "sqlite" || cfg.ArchiveStore != "local" {
		t.Fatalf("expected configured store with --save, got %s/%s", cfg.StoreDriver, cfg.ArchiveStore)
	}
}

func TestRunAnalyzePrintsFallbackWithoutCredential(t *testing.T) {
	resetFlags(t)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("ENV", "dev")

	path := filepath.Join(t.TempDir(), "resume.docx")
	doc := extracttest.DOCX(
		"Sam Lee - Site Reliability Engineer",
		"Ran incident response and capacity planning for a global CDN with Go tooling.",
	)
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"--compact", path})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var got struct {
		Filename       string `json:"filename"`
		Format         string `json:"format"`
		FallbackReason string `json:"fallback_reason"`
		Data           struct {
			StrengthScore int  `json:"strength_score"`
			FallbackUsed  bool `json:"fallback_used"`
		} `json:"data"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v (%s)", err, stdout.String())
	}
	if got.Filename != "resume.docx" || got.Format != "docx" {
		t.Fatalf("unexpected output: %+v", got)
	}
	if !got.Data.FallbackUsed || got.Data.StrengthScore != 70 || got.FallbackReason == "" {
		t.Fatalf("expected fallback analysis, got %+v", got)
	}
}

func TestRunAnalyzeRejectsUnsupportedFile(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(path, []byte("plain text"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{path})
	if err := rootCmd.Execute(); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
