package handlers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the analysis and corpus endpoints on api
func RegisterRoutes(api *gin.RouterGroup, alignment *AlignmentHandler, corpus *CorpusHandler) {
	// Composite
	api.POST("/alignment", alignment.Align)

	// Subsystems
	api.POST("/factorize", alignment.Factorize)
	api.POST("/precedents", alignment.FindPrecedents)
	api.POST("/gaps", alignment.DetectGaps)
	api.POST("/validate", alignment.Validate)
	api.POST("/keywords", alignment.Keywords)
	api.POST("/cases/rank", alignment.RankCases)
	api.POST("/sections/rank", alignment.RankSections)

	// Corpus
	api.POST("/corpus/upload", corpus.Upload)
	api.POST("/corpus/reload", corpus.Reload)
	api.GET("/corpus/stats", corpus.Stats)
}
