// Command analyze runs the screening pipeline on a local resume file and prints the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"resume-screener/internal/analysis"
	"resume-screener/internal/bootstrap"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/telemetry"
)

var (
	saveResult bool
	provider   string
	model      string
	apiKey     string
	timeout    time.Duration
	compact    bool
)

var rootCmd = &cobra.Command{
	Use:   "analyze <resume.pdf|resume.docx>",
	Short: "Screen a resume file from the terminal",
	Long: "Extract, clean and analyze a PDF or DOCX resume with the configured provider and print the analysis as JSON. " +
		"With --save the analysis is persisted through the configured STORE_DRIVER.",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runAnalyze,
}

func init() {
	rootCmd.Flags().BoolVar(&saveResult, "save", false, "Persist the analysis through the configured store")
	rootCmd.Flags().StringVar(&provider, "provider", "", "LLM provider (openai or gemini); overrides LLM_PROVIDER")
	rootCmd.Flags().StringVar(&model, "model", "", "LLM model; overrides LLM_MODEL")
	rootCmd.Flags().StringVar(&apiKey, "api-key", "", "Provider API key; overrides OPENAI_API_KEY / GEMINI_API_KEY")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "Analysis timeout; overrides ANALYSIS_TIMEOUT")
	rootCmd.Flags().BoolVar(&compact, "compact", false, "Print compact JSON")
}

type output struct {
	AnalysisID     int64           `json:"analysis_id,omitempty"`
	Filename       string          `json:"filename"`
	Format         string          `json:"format"`
	Strategy       string          `json:"strategy"`
	TextLength     int             `json:"text_length"`
	Data           analysis.Result `json:"data"`
	FallbackReason string          `json:"fallback_reason,omitempty"`
	ProcessedAt    string          `json:"processed_at"`
}

func main() {
	defer telemetry.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read resume: %w", err)
	}

	cfg := applyFlags(config.Load())
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap build: %w", err)
	}
	defer app.Close()

	out, err := app.ResumeService.Process(ctx, filepath.Base(path), data)
	if err != nil {
		return err
	}

	result := output{
		Filename:       out.Record.Filename,
		Format:         string(out.Format),
		Strategy:       out.Strategy,
		TextLength:     out.TextLength,
		Data:           out.Analysis,
		FallbackReason: out.Analysis.FallbackReason,
		ProcessedAt:    out.ProcessedAt.Format(time.RFC3339Nano),
	}
	if saveResult {
		result.AnalysisID = out.Record.ID
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}

// applyFlags layers command-line overrides on cfg. Without --save nothing is persisted or archived.
func applyFlags(cfg config.Config) config.Config {
	if p := strings.ToLower(strings.TrimSpace(provider)); p != "" {
		cfg.LLMProvider = p
		if model == "" && p == "gemini" && !strings.HasPrefix(cfg.LLMModel, "gemini") {
			cfg.LLMModel = "gemini-2.5-flash"
		}
	}
	if m := strings.TrimSpace(model); m != "" {
		cfg.LLMModel = m
	}
	if k := strings.TrimSpace(apiKey); k != "" {
		if cfg.LLMProvider == "gemini" {
			cfg.GeminiAPIKey = k
		} else {
			cfg.OpenAIAPIKey = k
		}
	}
	if timeout > 0 {
		cfg.AnalysisTimeout = timeout
	}
	if !saveResult {
		cfg.StoreDriver = "memory"
		cfg.ArchiveStore = "none"
	}
	return cfg
}
