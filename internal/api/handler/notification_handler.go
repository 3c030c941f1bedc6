package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/biometricleads/leads-system/internal/core/ports"
)

// NotificationHandler handles HTTP requests for the caller's notifications.
type NotificationHandler struct {
	notifications ports.NotificationService
}

func NewNotificationHandler(notifications ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /v1/notifications. recent=true caps the page at the five
// newest, matching the header dropdown.
//
// @Summary      List the current user's notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int   false  "Page number"
// @Param        limit   query     int   false  "Page size (max 50)"
// @Param        recent  query     bool  false  "Return only the five newest"
// @Success      200     {object}  listNotificationsResponse
// @Failure      401     {object}  errorResponse
// @Router       /v1/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	list, err := h.notifications.List(c.Request().Context(), ports.ListNotificationsInput{
		UserID: userID,
		Page:   page,
		Limit:  limit,
		Recent: c.QueryParam("recent") == "true",
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listNotificationsResponse{
		Data:        list.Items,
		UnreadCount: list.UnreadCount,
		Pagination: paginationResponse{
			Total: list.Total,
			Page:  list.Page,
			Limit: list.Limit,
		},
	})
}

// MarkRead handles POST /v1/notifications/:id/read.
//
// @Summary      Mark one notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notification id"
// @Success      200  {object}  markReadResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	unread, err := h.notifications.MarkRead(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, markReadResponse{Status: "ok", UnreadCount: unread})
}

// MarkAllRead handles POST /v1/notifications/read-all.
//
// @Summary      Mark all notifications as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  markAllReadResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	marked, err := h.notifications.MarkAllRead(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, markAllReadResponse{Marked: marked})
}

// UnreadCount handles GET /v1/notifications/unread-count — the badge poll.
//
// @Summary      Unread notification count
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  unreadCountResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	unread, err := h.notifications.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, unreadCountResponse{UnreadCount: unread})
}
