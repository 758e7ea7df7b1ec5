package resumes

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/shared/server/middleware"
	"resume-screener/internal/shared/server/respond"
)

// DefaultMaxUploadBytes caps the multipart body of an upload.
const DefaultMaxUploadBytes = 10 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler. A non-positive limit uses DefaultMaxUploadBytes.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches the upload route and the lookup route. Extra handlers run before upload.
func (h *Handler) RegisterRoutes(rg gin.IRoutes, uploadMiddleware ...gin.HandlerFunc) {
	upload := append(append([]gin.HandlerFunc{}, uploadMiddleware...), h.upload)
	rg.POST("/upload_resume", upload...)
	rg.GET("/analysis/:id", h.get)
}

func (h *Handler) upload(c *gin.Context) {
	if c.Request.ContentLength > h.MaxUploadBytes {
		h.tooLarge(c)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.tooLarge(c)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	c.Set(middleware.FileNameKey, fileHeader.Filename)

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	out, err := h.Svc.Process(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		writePipelineError(c, err)
		return
	}

	c.Set(middleware.AnalysisIDKey, out.Record.ID)
	c.Set(middleware.FileFormatKey, string(out.Format))
	respond.OK(c, toUploadResponse(out))
}

func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusNotFound, "not_found", "Analysis not found", nil)
		return
	}

	rec, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Analysis not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load analysis", nil)
		return
	}

	c.Set(middleware.AnalysisIDKey, rec.ID)
	respond.OK(c, toAnalysisResponse(rec))
}

func (h *Handler) tooLarge(c *gin.Context) {
	respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "File is too large",
		gin.H{"max_bytes": h.MaxUploadBytes})
}

func writePipelineError(c *gin.Context, err error) {
	var pe *PipelineError
	if !errors.As(err, &pe) {
		respond.Error(c, http.StatusInternalServerError, string(KindInternal), "Error processing resume", nil)
		return
	}
	message := pe.Detail
	if pe.Kind == KindInternal {
		message = "Error processing resume: " + pe.Detail
	}
	respond.Error(c, pe.HTTPStatus(), string(pe.Kind), message, nil)
}
