// Package extract turns uploaded PDF and DOCX bytes into plain text.
package extract

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"resume-screener/internal/shared/telemetry"
)

// Format is the declared document type of an upload.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// MinTextChars is the minimum number of trimmed characters an extraction must yield.
const MinTextChars = 20

// Content types used when archiving uploads.
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// FormatFromFilename returns the format for the text after the last '.', compared case-insensitively.
// The second return value is the raw extension, useful in error messages.
func FormatFromFilename(name string) (Format, string, bool) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return "", "", false
	}
	ext := strings.ToLower(name[idx+1:])
	switch Format(ext) {
	case FormatPDF, FormatDOCX:
		return Format(ext), ext, true
	default:
		return "", ext, false
	}
}

// ContentType maps a format to its MIME type.
func (f Format) ContentType() string {
	if f == FormatDOCX {
		return MimeDOCX
	}
	return MimePDF
}

// Result is the text pulled out of a document and the strategy that produced it.
type Result struct {
	Text     string
	Strategy string
}

// Extractor runs format-specific extraction. PDFStrategies are tried in order.
type Extractor struct {
	PDFStrategies []Strategy
}

// New returns an Extractor with the default PDF strategy chain.
func New() *Extractor {
	return &Extractor{PDFStrategies: DefaultPDFStrategies()}
}

// Extract pulls text from data according to format.
func (e *Extractor) Extract(ctx context.Context, data []byte, format Format) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if len(data) == 0 {
		return Result{}, ErrEmptyDocument
	}
	switch format {
	case FormatPDF:
		return e.extractPDF(ctx, data)
	case FormatDOCX:
		text, err := extractDOCX(data)
		if err != nil {
			return Result{}, err
		}
		return Result{Text: text, Strategy: "docx-paragraphs"}, nil
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func (e *Extractor) extractPDF(ctx context.Context, data []byte) (Result, error) {
	if !hasPDFMagic(data) {
		return Result{}, fmt.Errorf("%w: invalid PDF file format", ErrMalformedDocument)
	}
	for _, s := range e.PDFStrategies {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		text, ok := s.Extract(ctx, data)
		if ok && adequate(text) {
			return Result{Text: text, Strategy: s.Name()}, nil
		}
		telemetry.Info("extract.strategy_inadequate", map[string]any{
			"strategy":   s.Name(),
			"text_chars": utf8.RuneCountInString(strings.TrimSpace(text)),
		})
	}
	return Result{}, ErrInsufficientOrCorrupt
}

// adequate reports whether trimmed text is longer than MinTextChars.
func adequate(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) > MinTextChars
}
