package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/biometricleads/leads-system/internal/core/ports"
)

// BiometricHandler handles HTTP requests for biometric operations.
type BiometricHandler struct {
	biometrics  ports.BiometricService
	transitions ports.TransitionService
}

func NewBiometricHandler(biometrics ports.BiometricService, transitions ports.TransitionService) *BiometricHandler {
	return &BiometricHandler{biometrics: biometrics, transitions: transitions}
}

// Get handles GET /v1/biometrics/:id.
//
// @Summary      Get a biometric by id
// @Tags         biometrics
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Biometric id"
// @Success      200  {object}  domain.Biometric
// @Failure      404  {object}  errorResponse
// @Router       /v1/biometrics/{id} [get]
func (h *BiometricHandler) Get(c echo.Context) error {
	userID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	b, err := h.biometrics.Get(c.Request().Context(), c.Param("id"), userID, role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

// List handles GET /v1/biometrics.
//
// @Summary      List biometrics
// @Tags         biometrics
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
// @Success      200        {object}  listBiometricsResponse
// @Failure      401        {object}  errorResponse
// @Router       /v1/biometrics [get]
func (h *BiometricHandler) List(c echo.Context) error {
	userID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	list, err := h.biometrics.List(c.Request().Context(), ports.ListBiometricsInput{
		ActorID:   userID,
		ActorRole: role,
		Status:    c.QueryParam("status"),
		Location:  c.QueryParam("location"),
		DateFrom:  parseDate(c.QueryParam("date_from")),
		DateTo:    parseDate(c.QueryParam("date_to")),
		SortBy:    c.QueryParam("sort"),
		Order:     c.QueryParam("order"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listBiometricsResponse{
		Data: list.Items,
		Pagination: paginationResponse{
			Total:      list.Total,
			Page:       list.Page,
			Limit:      list.Limit,
			TotalPages: list.TotalPages,
		},
	})
}

// Process handles POST /v1/biometrics/:id/:action where action is approve
// or reject. The rejection reason rides in the optional body.
//
// @Summary      Approve or reject a biometric
// @Tags         biometrics
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string                   true   "Biometric id"
// @Param        action  path      string                   true   "approve or reject"
// @Param        body    body      processBiometricRequest  false  "Rejection details"
// @Success      200     {object}  domain.Biometric
// @Failure      404     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Router       /v1/biometrics/{id}/{action} [post]
func (h *BiometricHandler) Process(c echo.Context) error {
	userID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	// The body is optional: approve has no payload.
	var req processBiometricRequest
	_ = c.Bind(&req)

	b, err := h.transitions.ProcessBiometric(c.Request().Context(), ports.ProcessBiometricInput{
		BiometricID:     c.Param("id"),
		Action:          c.Param("action"),
		RejectionReason: req.RejectionReason,
		ActorID:         userID,
		ActorRole:       role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}
