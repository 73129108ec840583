package handlers

import (
	"errors"
	"net/http"

	"lexalign-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AlignmentHandler handles HTTP requests for story analysis
type AlignmentHandler struct {
	alignmentService *service.AlignmentService
	logger           *zap.Logger
}

// NewAlignmentHandler creates a new alignment handler
func NewAlignmentHandler(alignmentService *service.AlignmentService, logger *zap.Logger) *AlignmentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlignmentHandler{
		alignmentService: alignmentService,
		logger:           logger,
	}
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// StoryRequest represents a request body carrying a user's story
type StoryRequest struct {
	Story string `json:"story" binding:"required"`
}

// TextRequest represents a request body carrying free text
type TextRequest struct {
	Text string `json:"text" binding:"required"`
}

// Align handles POST /api/alignment
func (h *AlignmentHandler) Align(c *gin.Context) {
	var req StoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.alignmentService.Align(c.Request.Context(), service.AlignRequest{Story: req.Story})
	if err != nil {
		if errors.Is(err, service.ErrEmptyStory) {
			respondError(c, http.StatusBadRequest, "EMPTY_STORY", "Story must not be empty")
			return
		}
		h.logger.Error("alignment failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "ALIGNMENT_FAILED", err.Error())
		return
	}

	respondOK(c, result)
}

// Factorize handles POST /api/factorize
func (h *AlignmentHandler) Factorize(c *gin.Context) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	respondOK(c, h.alignmentService.Factorize(req.Text))
}

// PrecedentsRequest represents the request body for precedent search
type PrecedentsRequest struct {
	Story string `json:"story" binding:"required"`
	TopK  int    `json:"top_k" binding:"gte=0"`
}

// FindPrecedents handles POST /api/precedents
func (h *AlignmentHandler) FindPrecedents(c *gin.Context) {
	var req PrecedentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.alignmentService.FindPrecedents(c.Request.Context(), service.PrecedentsRequest{
		Story: req.Story,
		TopK:  req.TopK,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyStory) {
			respondError(c, http.StatusBadRequest, "EMPTY_STORY", "Story must not be empty")
			return
		}
		h.logger.Error("precedent search failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "PRECEDENTS_FAILED", err.Error())
		return
	}

	respondOK(c, result)
}

// DetectGaps handles POST /api/gaps
func (h *AlignmentHandler) DetectGaps(c *gin.Context) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	respondOK(c, h.alignmentService.DetectGaps(req.Text))
}

// Validate handles POST /api/validate
func (h *AlignmentHandler) Validate(c *gin.Context) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	respondOK(c, h.alignmentService.Validate(req.Text))
}

// Keywords handles POST /api/keywords
func (h *AlignmentHandler) Keywords(c *gin.Context) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	respondOK(c, gin.H{"keywords": h.alignmentService.Keywords(req.Text)})
}

// RankCasesRequest represents the request body for case ranking
type RankCasesRequest struct {
	Keywords []string `json:"keywords" binding:"required"`
	Limit    int      `json:"limit" binding:"gte=0"`
}

// RankCases handles POST /api/cases/rank
func (h *AlignmentHandler) RankCases(c *gin.Context) {
	var req RankCasesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	respondOK(c, h.alignmentService.RankCases(c.Request.Context(), req.Keywords, req.Limit))
}

// RankSectionsRequest represents the request body for section ranking
type RankSectionsRequest struct {
	Facts string `json:"facts" binding:"required"`
}

// RankSections handles POST /api/sections/rank
func (h *AlignmentHandler) RankSections(c *gin.Context) {
	var req RankSectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	respondOK(c, h.alignmentService.RankSections(c.Request.Context(), req.Facts))
}
