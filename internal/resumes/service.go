package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"resume-screener/internal/analysis"
	"resume-screener/internal/extract"
	"resume-screener/internal/shared/metrics"
	"resume-screener/internal/shared/storage/object"
	"resume-screener/internal/shared/telemetry"
	"resume-screener/internal/shared/util"
	"resume-screener/internal/textclean"
)

// Content gates between pipeline stages, in trimmed characters.
const (
	MinExtractedChars = 20
	MinCleanedChars   = 50
)

// Extractor turns document bytes into text.
type Extractor interface {
	Extract(ctx context.Context, data []byte, format extract.Format) (extract.Result, error)
}

// Analyzer produces a structured analysis. It never fails.
type Analyzer interface {
	Analyze(ctx context.Context, text string) analysis.Result
}

// Service runs the upload pipeline: validate, extract, gate, clean, gate, analyze, shape, persist.
type Service struct {
	Extractor Extractor
	Analyzer  Analyzer
	Repo      Repo
	// Archive, when set, receives the raw upload and its extracted text.
	Archive object.ObjectStore
	Now     func() time.Time
}

// Outcome is a processed upload.
type Outcome struct {
	Record      Record
	Analysis    analysis.Result
	Format      extract.Format
	Strategy    string
	TextLength  int
	ProcessedAt time.Time
}

// Process runs one upload through the pipeline. Failures are *PipelineError.
func (s *Service) Process(ctx context.Context, filename string, data []byte) (out Outcome, err error) {
	start := s.now()
	defer func() {
		if rec := recover(); rec != nil {
			err = newPipelineError(KindInternal, fmt.Errorf("panic: %v", rec), "unexpected failure")
		}
		s.observe(filename, start, err)
	}()

	format, ext, ok := extract.FormatFromFilename(filename)
	if !ok {
		if ext == "" {
			ext = filename
		}
		return Outcome{}, newPipelineError(KindUnsupportedFormat, nil,
			"Unsupported file format: %s. Please upload PDF or DOCX files only.", ext)
	}
	if len(data) == 0 {
		return Outcome{}, newPipelineError(KindEmptyFile, nil, "File is empty or could not be read")
	}
	metrics.IncUploadReceived()
	telemetry.Info("pipeline.received", map[string]any{
		"filename": filename,
		"format":   string(format),
		"bytes":    len(data),
	})

	archiveKey := s.archiveUpload(ctx, filename, format, data)

	extracted, err := s.Extractor.Extract(ctx, data, format)
	if err != nil {
		return Outcome{}, classifyExtractError(format, err)
	}
	rawChars := utf8.RuneCountInString(strings.TrimSpace(extracted.Text))
	telemetry.Info("pipeline.extracted", map[string]any{
		"filename":   filename,
		"strategy":   extracted.Strategy,
		"text_chars": rawChars,
	})
	if rawChars < MinExtractedChars {
		return Outcome{}, newPipelineError(KindInsufficientContent, nil,
			"Very little text extracted (%d chars). File may be corrupted or image-based.", rawChars)
	}
	s.archiveText(ctx, archiveKey, extracted.Text)

	cleaned := textclean.Normalize(extracted.Text)
	cleanChars := utf8.RuneCountInString(strings.TrimSpace(cleaned))
	telemetry.Info("pipeline.cleaned", map[string]any{
		"filename":   filename,
		"text_chars": cleanChars,
	})
	if cleanChars < MinCleanedChars {
		return Outcome{}, newPipelineError(KindInsufficientContentAfterCleaning, nil,
			"Resume text is too short after cleaning (%d chars).", cleanChars)
	}

	result := analysis.Shape(s.Analyzer.Analyze(ctx, cleaned))
	telemetry.Info("pipeline.analyzed", map[string]any{
		"filename":        filename,
		"fallback_used":   result.FallbackUsed,
		"fallback_reason": result.FallbackReason,
		"strength_score":  result.StrengthScore,
	})

	rec := Record{
		Filename:      filename,
		ResumeText:    truncateRunes(cleaned, MaxStoredTextChars),
		Skills:        result.Skills,
		StrengthScore: float64(result.StrengthScore),
		CareerRoles:   result.CareerRoles,
		Keywords:      result.Keywords,
		FallbackUsed:  result.FallbackUsed,
		CreatedAt:     s.now().UTC(),
	}
	if err := rec.Validate(); err != nil {
		return Outcome{}, newPipelineError(KindInternal, err, "invalid analysis record")
	}
	saved, err := s.Repo.Create(ctx, rec)
	if err != nil {
		return Outcome{}, newPipelineError(KindInternal, err, "failed to save analysis")
	}

	metrics.IncAnalysisCompleted()
	if result.FallbackUsed {
		metrics.IncAnalysisFallback()
	}
	telemetry.Info("pipeline.persisted", map[string]any{
		"filename":    filename,
		"analysis_id": saved.ID,
	})

	return Outcome{
		Record:      saved,
		Analysis:    result,
		Format:      format,
		Strategy:    extracted.Strategy,
		TextLength:  utf8.RuneCountInString(cleaned),
		ProcessedAt: saved.CreatedAt,
	}, nil
}

// Get returns a persisted analysis.
func (s *Service) Get(ctx context.Context, id int64) (Record, error) {
	if id <= 0 {
		return Record{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

func classifyExtractError(format extract.Format, err error) *PipelineError {
	switch {
	case errors.Is(err, extract.ErrMalformedDocument) && format == extract.FormatPDF:
		return newPipelineError(KindExtractionFailed, err, "Invalid PDF file format.")
	case errors.Is(err, extract.ErrMalformedDocument):
		return newPipelineError(KindExtractionFailed, err, "Error reading DOCX file. The file may be corrupted.")
	case errors.Is(err, extract.ErrInsufficientOrCorrupt):
		return newPipelineError(KindExtractionFailed, err,
			"PDF text extraction failed. File may be image-based, encrypted, or corrupted.")
	case errors.Is(err, extract.ErrInsufficientText):
		return newPipelineError(KindExtractionFailed, err, "DOCX file contains insufficient text.")
	case errors.Is(err, extract.ErrEmptyDocument):
		return newPipelineError(KindEmptyFile, err, "File is empty or could not be read")
	default:
		return newPipelineError(KindInternal, err, "text extraction failed")
	}
}

func (s *Service) archiveUpload(ctx context.Context, filename string, format extract.Format, data []byte) string {
	if s.Archive == nil {
		return ""
	}
	key, err := object.UploadKey(s.now(), util.ContentHash(data), filename)
	if err != nil {
		telemetry.Warn("pipeline.archive_failed", map[string]any{"filename": filename, "error": err})
		return ""
	}
	if _, err := s.Archive.Put(ctx, key, format.ContentType(), bytes.NewReader(data)); err != nil {
		telemetry.Warn("pipeline.archive_failed", map[string]any{"key": key, "error": err})
		return ""
	}
	return key
}

func (s *Service) archiveText(ctx context.Context, uploadKey, text string) {
	if s.Archive == nil || uploadKey == "" {
		return
	}
	key := object.ExtractedTextKey(uploadKey)
	if _, err := s.Archive.Put(ctx, key, "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		telemetry.Warn("pipeline.archive_failed", map[string]any{"key": key, "error": err})
	}
}

func (s *Service) observe(filename string, start time.Time, err error) {
	metrics.ObservePipelineDurationMs(float64(s.now().Sub(start).Microseconds()) / 1000.0)
	if err == nil {
		return
	}
	var pe *PipelineError
	if !errors.As(err, &pe) {
		return
	}
	fields := map[string]any{
		"filename": filename,
		"kind":     string(pe.Kind),
		"detail":   pe.Detail,
	}
	if pe.Err != nil {
		fields["error"] = pe.Err
	}
	if pe.Kind == KindInternal {
		metrics.IncUploadFailed()
		telemetry.Error("pipeline.failed", fields)
		return
	}
	metrics.IncUploadRejected(string(pe.Kind))
	telemetry.Warn("pipeline.rejected", fields)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
