package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/biometricleads/leads-system/internal/core/domain"
	"github.com/biometricleads/leads-system/internal/core/ports"
)

// DashboardHandler serves the analytics endpoints.
type DashboardHandler struct {
	dashboard ports.DashboardService
}

func NewDashboardHandler(dashboard ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Metrics handles GET /v1/dashboard. Admins aggregate over all leads;
// agents over their own.
//
// @Summary      Dashboard metrics
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.DashboardMetrics
// @Failure      401  {object}  errorResponse
// @Router       /v1/dashboard [get]
func (h *DashboardHandler) Metrics(c echo.Context) error {
	userID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	scope := ports.MetricsScope{UserID: userID}
	if role == domain.RoleAdmin {
		scope.UserID = ""
	}

	metrics, err := h.dashboard.Metrics(c.Request().Context(), scope)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, metrics)
}

// UserStats handles GET /v1/users/me/stats.
//
// @Summary      The current user's biometric activity summary
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.UserStats
// @Failure      401  {object}  errorResponse
// @Router       /v1/users/me/stats [get]
func (h *DashboardHandler) UserStats(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	stats, err := h.dashboard.UserStats(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
