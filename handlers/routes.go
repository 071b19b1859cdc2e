package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the health check and the /api routes on r
func RegisterRoutes(r *gin.Engine, analysisHandler *AnalysisHandler, documentHandler *DocumentHandler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api")
	{
		// Analysis endpoints
		api.POST("/analyze", analysisHandler.Analyze)
		api.POST("/analyze-prd", analysisHandler.AnalyzePRD)
		api.POST("/analyze-bot-card", analysisHandler.AnalyzeBotCard)
		api.POST("/quantify-bot-card", analysisHandler.QuantifyBotCard)
		api.GET("/analyses/:id", analysisHandler.GetAnalysis)
		api.POST("/analyses/:id/relocate", analysisHandler.Relocate)
		api.POST("/locate", analysisHandler.Locate)

		// File endpoints
		api.POST("/files/upload", documentHandler.UploadFile)
		api.GET("/files/:id", documentHandler.GetFile)
		api.DELETE("/files/:id", documentHandler.DeleteFile)
	}
}
