package resumes

import "time"

type analysisData struct {
	Skills        []string `json:"skills"`
	StrengthScore int      `json:"strength_score"`
	CareerRoles   []string `json:"career_roles"`
	Keywords      []string `json:"keywords"`
}

type uploadResponse struct {
	Success      bool         `json:"success"`
	AnalysisID   int64        `json:"analysis_id"`
	Filename     string       `json:"filename"`
	Data         analysisData `json:"data"`
	ProcessedAt  string       `json:"processed_at"`
	TextLength   int          `json:"text_length"`
	FallbackUsed bool         `json:"fallback_used"`
}

type analysisView struct {
	ID            int64    `json:"id"`
	Filename      string   `json:"filename"`
	Skills        []string `json:"skills"`
	CareerRoles   []string `json:"career_roles"`
	StrengthScore float64  `json:"strength_score"`
	Keywords      []string `json:"keywords"`
	CreatedAt     string   `json:"created_at"`
}

type analysisResponse struct {
	Success  bool         `json:"success"`
	Analysis analysisView `json:"analysis"`
}

func toUploadResponse(out Outcome) uploadResponse {
	return uploadResponse{
		Success:    true,
		AnalysisID: out.Record.ID,
		Filename:   out.Record.Filename,
		Data: analysisData{
			Skills:        nonNil(out.Analysis.Skills),
			StrengthScore: out.Analysis.StrengthScore,
			CareerRoles:   nonNil(out.Analysis.CareerRoles),
			Keywords:      nonNil(out.Analysis.Keywords),
		},
		ProcessedAt:  out.ProcessedAt.UTC().Format(time.RFC3339Nano),
		TextLength:   out.TextLength,
		FallbackUsed: out.Analysis.FallbackUsed,
	}
}

func toAnalysisResponse(rec Record) analysisResponse {
	return analysisResponse{
		Success: true,
		Analysis: analysisView{
			ID:            rec.ID,
			Filename:      rec.Filename,
			Skills:        nonNil(rec.Skills),
			CareerRoles:   nonNil(rec.CareerRoles),
			StrengthScore: rec.StrengthScore,
			Keywords:      nonNil(rec.Keywords),
			CreatedAt:     rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		},
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
