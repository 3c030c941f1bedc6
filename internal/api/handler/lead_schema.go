package handler

import (
	"github.com/biometricleads/leads-system/internal/core/domain"
	"github.com/biometricleads/leads-system/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type createLeadRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"    validate:"required"`
	Location string `json:"location" validate:"required"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listLeadsResponse struct {
	Data       []*domain.Lead     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type leadHistoryResponse struct {
	Data              []*domain.Lead             `json:"data"`
	Pagination        paginationResponse         `json:"pagination"`
	TotalLeads        int64                      `json:"total_leads"`
	ApprovedCount     int64                      `json:"approved_count"`
	RejectedCount     int64                      `json:"rejected_count"`
	StatusBreakdown   []ports.StatusBreakdownRow `json:"status_breakdown"`
	LocationBreakdown []ports.LocationBucket     `json:"location_breakdown"`
	UniqueLocations   []string                   `json:"unique_locations"`
}

type listBiometricsResponse struct {
	Data       []*domain.Biometric `json:"data"`
	Pagination paginationResponse  `json:"pagination"`
}

type processBiometricRequest struct {
	RejectionReason string `json:"rejection_reason"`
}

type listNotificationsResponse struct {
	Data        []*domain.Notification `json:"data"`
	UnreadCount int64                  `json:"unread_count"`
	Pagination  paginationResponse     `json:"pagination"`
}

type markReadResponse struct {
	Status      string `json:"status"`
	UnreadCount int64  `json:"unread_count"`
}

type markAllReadResponse struct {
	Marked int64 `json:"marked"`
}

type unreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

type searchResponse struct {
	Results    []ports.SearchResult `json:"results"`
	Pagination paginationResponse   `json:"pagination"`
}

type contactRequest struct {
	Name    string `json:"name"    validate:"required"`
	Email   string `json:"email"   validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}
