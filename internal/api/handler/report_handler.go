package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/biometricleads/leads-system/internal/core/ports"
)

// ReportHandler serves the on-demand report and contact endpoints.
type ReportHandler struct {
	reports ports.ReportService
	contact ports.ContactService
}

func NewReportHandler(reports ports.ReportService, contact ports.ContactService) *ReportHandler {
	return &ReportHandler{reports: reports, contact: contact}
}

// Weekly handles POST /v1/reports/weekly. The summary is stored as a
// notification and emailed to the caller.
//
// @Summary      Generate the caller's weekly report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  domain.Notification
// @Failure      401  {object}  errorResponse
// @Router       /v1/reports/weekly [post]
func (h *ReportHandler) Weekly(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	notification, err := h.reports.Weekly(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, notification)
}

// Contact handles POST /v1/contact — no auth required, the form is public.
//
// @Summary      Submit the contact form
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body      contactRequest  true  "Contact form"
// @Success      202   {object}  map[string]string
// @Failure      400   {object}  errorResponse
// @Router       /v1/contact [post]
func (h *ReportHandler) Contact(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.contact.Send(c.Request().Context(), ports.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusAccepted, map[string]string{"status": "sent"})
}
