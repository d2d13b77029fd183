package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/fundgraph-backend/internal/http/response"
	fgerrors "github.com/yungbote/fundgraph-backend/internal/pkg/errors"
	"github.com/yungbote/fundgraph-backend/internal/services"
)

type InvestorHandler struct {
	listing services.InvestorListingService
	scoring services.MatchScoringService
}

func NewInvestorHandler(listing services.InvestorListingService, scoring services.MatchScoringService) *InvestorHandler {
	return &InvestorHandler{listing: listing, scoring: scoring}
}

// GET /api/investors
func (h *InvestorHandler) List(c *gin.Context) {
	filter, err := investorFilter(c)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	q := services.InvestorQuery{
		InvestorFilter: filter,
		SortBy:         c.Query("sortBy"),
		Page:           lenientInt(c.Query("page")),
		PageSize:       lenientInt(c.Query("pageSize")),
		Profile:        listingProfile(c),
	}
	page, err := h.listing.List(c.Request.Context(), q)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /api/investors/timeline
func (h *InvestorHandler) Timeline(c *gin.Context) {
	all, err := h.listing.Timeline(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, all)
}

// GET /api/investors/matches
func (h *InvestorHandler) Matches(c *gin.Context) {
	filter, err := investorFilter(c)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	// sector is a scoring criterion here, not a filter.
	filter.Sector = ""
	matches, err := h.scoring.MatchInvestors(c.Request.Context(), startupProfile(c), filter)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"investors": matches})
}

// GET /api/investors/:id
func (h *InvestorHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_investor_id", err)
		return
	}
	inv, err := h.listing.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, inv)
}

func investorFilter(c *gin.Context) (services.InvestorFilter, error) {
	f := services.InvestorFilter{
		SearchTerm:     c.Query("searchTerm"),
		PreferredStage: c.Query("preferredStage"),
		Sector:         c.Query("sector"),
		CheckSize:      c.Query("checkSize"),
	}
	var err error
	if f.MinInvestments, err = optionalInt(c, "minInvestments"); err != nil {
		return f, err
	}
	if f.MaxInvestments, err = optionalInt(c, "maxInvestments"); err != nil {
		return f, err
	}
	return f, nil
}

func startupProfile(c *gin.Context) services.StartupProfile {
	return services.StartupProfile{
		Sector:        c.Query("sector"),
		FundingStage:  c.Query("fundingStage"),
		FundingNeeded: c.Query("fundingNeeded"),
		TeamSize:      c.Query("teamSize"),
	}
}

// listingProfile only scores when a profile-specific parameter is present; sector alone is a filter.
func listingProfile(c *gin.Context) services.StartupProfile {
	p := startupProfile(c)
	if p.FundingStage == "" && p.FundingNeeded == "" && p.TeamSize == "" {
		return services.StartupProfile{}
	}
	return p
}

func optionalInt(c *gin.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("%w: %s must be a non-negative integer", fgerrors.ErrInvalidArgument, name)
	}
	return &v, nil
}

// lenientInt returns 0 for anything unparseable; pagination clamps it to a default.
func lenientInt(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return v
}
