package api

import (
	"net/http"

	"ingestion-service/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// NewRouter monta as rotas do serviço. auth protege todas as rotas de upload.
func NewRouter(ingestionHandler *handlers.IngestionHandler, auth gin.HandlerFunc, maxUploadBytes int64) *gin.Engine {
	router := gin.Default()
	if maxUploadBytes > 0 {
		router.MaxMultipartMemory = maxUploadBytes
	}

	apiV1 := router.Group("/api/v1")
	{
		upload := apiV1.Group("/upload", auth)
		upload.POST("/propostas", ingestionHandler.HandlePropostas)
		upload.POST("/logistica-consolidado", ingestionHandler.HandleLogisticaConsolidado)
		upload.POST("/logistica-diaria", ingestionHandler.HandleLogisticaDiaria)
		upload.POST("/estoque", ingestionHandler.HandleEstoque)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "ingestion-service"})
	})

	return router
}
