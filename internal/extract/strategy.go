package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"resume-screener/internal/shared/telemetry"
)

// Strategy is one PDF text extraction path. ok is false when the strategy could not produce text.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, data []byte) (text string, ok bool)
}

// DefaultPDFStrategies returns the fast plain-text reader followed by the content-stream parser.
func DefaultPDFStrategies() []Strategy {
	return []Strategy{PlainTextStrategy{}, ContentStreamStrategy{}}
}

// PlainTextStrategy reads text runs with github.com/ledongthuc/pdf.
type PlainTextStrategy struct{}

func (PlainTextStrategy) Name() string { return "plain-text" }

func (s PlainTextStrategy) Extract(ctx context.Context, data []byte) (text string, ok bool) {
	defer recoverStrategy(s.Name(), &ok)

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		logStrategyError(s.Name(), err)
		return "", false
	}
	plain, err := r.GetPlainText()
	if err != nil {
		logStrategyError(s.Name(), err)
		return "", false
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		logStrategyError(s.Name(), err)
		return "", false
	}
	return buf.String(), true
}

// ContentStreamStrategy validates the document with pdfcpu and decodes text operators
// from each page content stream.
type ContentStreamStrategy struct{}

var disableConfigDir sync.Once

func (ContentStreamStrategy) Name() string { return "content-stream" }

func (s ContentStreamStrategy) Extract(ctx context.Context, data []byte) (text string, ok bool) {
	defer recoverStrategy(s.Name(), &ok)
	disableConfigDir.Do(api.DisableConfigDir)

	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		logStrategyError(s.Name(), err)
		return "", false
	}

	var out strings.Builder
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		if ctx.Err() != nil {
			return "", false
		}
		r, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr)
		if err != nil || r == nil {
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil || len(content) == 0 {
			continue
		}
		if page := textFromContentStream(content); page != "" {
			if out.Len() > 0 {
				out.WriteByte('\n')
			}
			out.WriteString(page)
		}
	}
	return out.String(), true
}

func recoverStrategy(name string, ok *bool) {
	if rec := recover(); rec != nil {
		logStrategyError(name, fmt.Errorf("panic: %v", rec))
		*ok = false
	}
}

func logStrategyError(name string, err error) {
	telemetry.Warn("extract.strategy_failed", map[string]any{
		"strategy": name,
		"error":    err,
	})
}

func hasPDFMagic(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF"))
}
