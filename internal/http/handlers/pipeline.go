package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/fundgraph-backend/internal/http/response"
	"github.com/yungbote/fundgraph-backend/internal/platform/ctxutil"
	"github.com/yungbote/fundgraph-backend/internal/platform/logger"
	"github.com/yungbote/fundgraph-backend/internal/services"
)

type PipelineHandler struct {
	log       *logger.Logger
	ingestion services.IngestionService
}

func NewPipelineHandler(log *logger.Logger, ingestion services.IngestionService) *PipelineHandler {
	return &PipelineHandler{log: log.With("handler", "PipelineHandler"), ingestion: ingestion}
}

type ingestResponse struct {
	Message string `json:"message"`
	*services.IngestSummary
}

// POST /api/ingest-scraped-data
func (h *PipelineHandler) IngestScrapedData(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		response.RespondMessage(c, http.StatusBadRequest, services.InvalidPayloadMessage)
		return
	}
	deals, err := services.ParseDealPayload(raw)
	if err != nil {
		h.log.Warn("rejected ingest payload", append(ctxutil.LogFields(c.Request.Context()), "error", err)...)
		response.RespondMessage(c, http.StatusBadRequest, services.InvalidPayloadMessage)
		return
	}
	summary, err := h.ingestion.Ingest(c.Request.Context(), deals)
	if err != nil {
		h.log.Error("ingest interrupted", append(ctxutil.LogFields(c.Request.Context()), "error", err)...)
		_ = c.Error(err)
		response.RespondMessage(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.RespondCreated(c, ingestResponse{Message: summary.Message(), IngestSummary: summary})
}
