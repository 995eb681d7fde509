package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"ingestion-service/internal/api/middleware"
	"ingestion-service/internal/api/responses"
	"ingestion-service/internal/core/ingestion"
	"ingestion-service/internal/domain"
	apperrors "ingestion-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

// IngestionHandler lida com os uploads de planilhas de relatório.
type IngestionHandler struct {
	service ingestion.Service
}

// NewIngestionHandler cria um novo handler de ingestão.
func NewIngestionHandler(service ingestion.Service) *IngestionHandler {
	return &IngestionHandler{
		service: service,
	}
}

// HandlePropostas recebe o relatório mensal de propostas.
func (h *IngestionHandler) HandlePropostas(c *gin.Context) {
	h.handleUpload(c, domain.ReportProposals)
}

// HandleLogisticaConsolidado recebe o consolidado de logística (categorias e regiões).
func (h *IngestionHandler) HandleLogisticaConsolidado(c *gin.Context) {
	h.handleUpload(c, domain.ReportLogisticsConsolidated)
}

// HandleLogisticaDiaria recebe o relatório diário de logística.
func (h *IngestionHandler) HandleLogisticaDiaria(c *gin.Context) {
	h.handleUpload(c, domain.ReportLogisticsDaily)
}

// HandleEstoque recebe o relatório de estoque.
func (h *IngestionHandler) HandleEstoque(c *gin.Context) {
	h.handleUpload(c, domain.ReportStock)
}

func (h *IngestionHandler) handleUpload(c *gin.Context, report domain.ReportType) {
	user, ok := middleware.UserFrom(c)
	if !ok {
		responses.AppError(c, apperrors.Unauthorized("usuário não identificado"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Arquivo (.xlsx, .xls) não encontrado ou inválido")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xlsx" && ext != ".xls" {
		responses.AppError(c, apperrors.UnsupportedFormat(ext))
		return
	}

	dryRun := false
	if raw := c.Query("dryRun"); raw != "" {
		dryRun, err = strconv.ParseBool(raw)
		if err != nil {
			responses.Error(c, http.StatusBadRequest, fmt.Sprintf("Valor inválido para dryRun: %q", raw))
			return
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Não foi possível abrir o arquivo enviado")
		return
	}
	defer file.Close()

	result, err := h.service.Ingest(c.Request.Context(), ingestion.Request{
		ReportType: report,
		FileName:   fileHeader.Filename,
		File:       file,
		User:       user,
		DryRun:     dryRun,
	})
	if err != nil {
		responses.AppError(c, err)
		return
	}

	message := fmt.Sprintf("%d registros gravados", result.TotalRecords())
	if dryRun {
		message = fmt.Sprintf("%d registros lidos (simulação, nada foi gravado)", result.TotalRecords())
	}
	responses.Success(c, result, message)
}
