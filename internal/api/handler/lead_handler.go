package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/biometricleads/leads-system/internal/core/domain"
	"github.com/biometricleads/leads-system/internal/core/ports"
)

// LeadHandler handles HTTP requests for lead operations.
type LeadHandler struct {
	leads       ports.LeadService
	transitions ports.TransitionService
}

func NewLeadHandler(leads ports.LeadService, transitions ports.TransitionService) *LeadHandler {
	return &LeadHandler{leads: leads, transitions: transitions}
}

// Create handles POST /v1/leads.
//
// @Summary      Create a new lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createLeadRequest  true  "Lead details"
// @Success      201   {object}  domain.Lead
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/leads [post]
func (h *LeadHandler) Create(c echo.Context) error {
	var req createLeadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	lead, err := h.leads.Create(c.Request().Context(), ports.CreateLeadInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
		ActorID:  userID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, lead)
}

// Get handles GET /v1/leads/:id.
//
// @Summary      Get a lead by id
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Lead id"
// @Success      200  {object}  domain.Lead
// @Failure      404  {object}  errorResponse
// @Router       /v1/leads/{id} [get]
func (h *LeadHandler) Get(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	lead, err := h.leads.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lead)
}

// List handles GET /v1/leads.
//
// @Summary      List leads
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Filter by status"
// @Param        location   query     string  false  "Filter by location"
// @Param        date_from  query     string  false  "Created on or after (YYYY-MM-DD)"
// @Param        date_to    query     string  false  "Created on or before (YYYY-MM-DD)"
// @Param        sort       query     string  false  "Sort column"
// @Param        order      query     string  false  "asc or desc"
// @Param        page       query     int     false  "Page number"
// @Param        limit      query     int     false  "Page size (max 50)"
// @Success      200        {object}  listLeadsResponse
// @Failure      401        {object}  errorResponse
// @Router       /v1/leads [get]
func (h *LeadHandler) List(c echo.Context) error {
	userID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	in := leadListInput(c)
	// Agents see their own leads; admins see everything.
	if role != domain.RoleAdmin {
		in.UserID = userID
	}

	list, err := h.leads.List(c.Request().Context(), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listLeadsResponse{
		Data: list.Items,
		Pagination: paginationResponse{
			Total:      list.Total,
			Page:       list.Page,
			Limit:      list.Limit,
			TotalPages: list.TotalPages,
		},
	})
}

// History handles GET /v1/leads/history — the caller's own leads plus
// summary breakdowns.
//
// @Summary      Lead history for the current user
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  leadHistoryResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/leads/history [get]
func (h *LeadHandler) History(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	history, err := h.leads.History(c.Request().Context(), userID, leadListInput(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, leadHistoryResponse{
		Data: history.Leads.Items,
		Pagination: paginationResponse{
			Total:      history.Leads.Total,
			Page:       history.Leads.Page,
			Limit:      history.Leads.Limit,
			TotalPages: history.Leads.TotalPages,
		},
		TotalLeads:        history.TotalLeads,
		ApprovedCount:     history.ApprovedCount,
		RejectedCount:     history.RejectedCount,
		StatusBreakdown:   history.StatusBreakdown,
		LocationBreakdown: history.LocationBreakdown,
		UniqueLocations:   history.UniqueLocations,
	})
}

// SetStatus handles POST /v1/leads/:id/status/:new_status.
//
// @Summary      Change a lead's status
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id          path      string  true  "Lead id"
// @Param        new_status  path      string  true  "Target status"
// @Success      200         {object}  domain.Lead
// @Failure      404         {object}  errorResponse
// @Failure      422         {object}  errorResponse
// @Router       /v1/leads/{id}/status/{new_status} [post]
func (h *LeadHandler) SetStatus(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	lead, err := h.transitions.SetLeadStatus(c.Request().Context(), c.Param("id"), c.Param("new_status"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lead)
}

// leadListInput collects the shared list/history query parameters.
func leadListInput(c echo.Context) ports.ListLeadsInput {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	return ports.ListLeadsInput{
		Status:   c.QueryParam("status"),
		Location: c.QueryParam("location"),
		DateFrom: parseDate(c.QueryParam("date_from")),
		DateTo:   parseDate(c.QueryParam("date_to")),
		SortBy:   c.QueryParam("sort"),
		Order:    c.QueryParam("order"),
		Page:     page,
		Limit:    limit,
	}
}

// parseDate accepts YYYY-MM-DD; anything else leaves the bound open.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
