package domain

import (
	"errors"
	"time"
)

// LeadStatus represents the lifecycle state of a lead.
type LeadStatus string

const (
	LeadStatusNew        LeadStatus = "new"
	LeadStatusInProgress LeadStatus = "in_progress"
	LeadStatusApproved   LeadStatus = "approved"
	LeadStatusRejected   LeadStatus = "rejected"
)

// LeadStatuses lists every valid lead status, in lifecycle order.
var LeadStatuses = []LeadStatus{LeadStatusNew, LeadStatusInProgress, LeadStatusApproved, LeadStatusRejected}

var ErrLeadNotFound = errors.New("lead not found")
var ErrInvalidStatus = errors.New("invalid status")
var ErrInvalidFilter = errors.New("invalid filter field")
var ErrForbidden = errors.New("access forbidden")

// Valid reports whether s is a member of the lead status enumeration.
// Membership is the only transition rule: any enumerated value may follow
// any other.
func (s LeadStatus) Valid() bool {
	for _, known := range LeadStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Display returns the human-readable form of the status.
func (s LeadStatus) Display() string {
	switch s {
	case LeadStatusNew:
		return "New"
	case LeadStatusInProgress:
		return "In Progress"
	case LeadStatusApproved:
		return "Approved"
	case LeadStatusRejected:
		return "Rejected"
	}
	return string(s)
}

// Lead is a prospective contact moving through the status lifecycle.
// Leads are never hard-deleted.
type Lead struct {
	ID               string     `json:"id" bson:"_id,omitempty"`
	UserID           string     `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Name             string     `json:"name" bson:"name"`
	Email            string     `json:"email" bson:"email"`
	Phone            string     `json:"phone" bson:"phone"`
	Location         string     `json:"location" bson:"location"`
	Status           LeadStatus `json:"status" bson:"status"`
	ViewCount        int64      `json:"view_count" bson:"view_count"`
	InteractionScore int64      `json:"interaction_score" bson:"interaction_score"`
	CreatedAt        time.Time  `json:"created_at" bson:"created_at"`
}
