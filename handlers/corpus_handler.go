package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"lexalign-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DefaultMaxUploadSize bounds corpus uploads
const DefaultMaxUploadSize int64 = 64 * 1024 * 1024

// CorpusHandler handles HTTP requests for corpus management
type CorpusHandler struct {
	corpusService *service.CorpusService
	maxFileSize   int64
	logger        *zap.Logger
}

// NewCorpusHandler creates a new corpus handler. A maxFileSize of 0 uses
// DefaultMaxUploadSize.
func NewCorpusHandler(corpusService *service.CorpusService, maxFileSize int64, logger *zap.Logger) *CorpusHandler {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxUploadSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CorpusHandler{
		corpusService: corpusService,
		maxFileSize:   maxFileSize,
		logger:        logger,
	}
}

// Upload handles POST /api/corpus/upload
func (h *CorpusHandler) Upload(c *gin.Context) {
	kind := service.CorpusKind(c.PostForm("kind"))
	if kind == "" {
		respondError(c, http.StatusBadRequest, "MISSING_KIND", "kind is required (cases or legislation)")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "File is required")
		return
	}

	if fileHeader.Size > h.maxFileSize {
		respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE",
			fmt.Sprintf("File size exceeds maximum of %d bytes", h.maxFileSize))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_OPEN_ERROR", err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_READ_ERROR", err.Error())
		return
	}

	result, err := h.corpusService.Upload(c.Request.Context(), service.UploadRequest{
		Kind:     kind,
		Filename: fileHeader.Filename,
		Data:     data,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownCorpusKind):
			respondError(c, http.StatusBadRequest, "INVALID_KIND", err.Error())
		case errors.Is(err, service.ErrEmptyCorpus), errors.Is(err, service.ErrInvalidCorpus):
			respondError(c, http.StatusBadRequest, "INVALID_CORPUS", err.Error())
		case errors.Is(err, service.ErrUploadUnsupported):
			respondError(c, http.StatusNotImplemented, "UPLOAD_UNSUPPORTED", err.Error())
		case errors.Is(err, service.ErrCorpusUnavailable):
			respondError(c, http.StatusServiceUnavailable, "CORPUS_UNAVAILABLE", err.Error())
		default:
			h.logger.Error("corpus upload failed", zap.String("filename", fileHeader.Filename), zap.Error(err))
			respondError(c, http.StatusInternalServerError, "UPLOAD_FAILED", fmt.Sprintf("Failed to upload corpus: %v", err))
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result,
	})
}

// Reload handles POST /api/corpus/reload
func (h *CorpusHandler) Reload(c *gin.Context) {
	stats, err := h.corpusService.Reload(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusServiceUnavailable, "CORPUS_UNAVAILABLE", err.Error())
		return
	}

	respondOK(c, stats)
}

// Stats handles GET /api/corpus/stats
func (h *CorpusHandler) Stats(c *gin.Context) {
	respondOK(c, h.corpusService.Stats())
}
