package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/fundgraph-backend/internal/http/response"
	"github.com/yungbote/fundgraph-backend/internal/services"
)

type FundingEventHandler struct {
	events services.FundingEventService
}

func NewFundingEventHandler(events services.FundingEventService) *FundingEventHandler {
	return &FundingEventHandler{events: events}
}

// GET /api/events/search
func (h *FundingEventHandler) Search(c *gin.Context) {
	q := services.EventQuery{
		SearchTerm:   c.Query("searchTerm"),
		Stage:        c.Query("stage"),
		Sector:       c.Query("sector"),
		Country:      c.Query("country"),
		Tags:         strings.Join(c.QueryArray("tags"), ","),
		StartDate:    c.Query("startDate"),
		EndDate:      c.Query("endDate"),
		InvestorName: c.Query("investorName"),
		SortOrder:    c.Query("sortOrder"),
	}
	events, err := h.events.Search(c.Request.Context(), q)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, events)
}
