package domain

import (
	"errors"
	"time"
)

// BiometricStatus represents the verification state of a biometric record.
type BiometricStatus string

const (
	BiometricStatusPending  BiometricStatus = "pending"
	BiometricStatusApproved BiometricStatus = "approved"
	BiometricStatusRejected BiometricStatus = "rejected"
)

// BiometricStatuses lists every valid biometric status.
var BiometricStatuses = []BiometricStatus{BiometricStatusPending, BiometricStatusApproved, BiometricStatusRejected}

// Actions accepted by biometric processing.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

var ErrBiometricNotFound = errors.New("biometric not found")

// Valid reports whether s is a member of the biometric status enumeration.
func (s BiometricStatus) Valid() bool {
	for _, known := range BiometricStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Display returns the human-readable form of the status.
func (s BiometricStatus) Display() string {
	switch s {
	case BiometricStatusPending:
		return "Pending"
	case BiometricStatusApproved:
		return "Approved"
	case BiometricStatusRejected:
		return "Rejected"
	}
	return string(s)
}

// Biometric is an identity verification record, usually derived from an
// approved lead. ApprovedAt and RejectedAt are mutually exclusive and
// written exactly once: the first transition into that state wins.
type Biometric struct {
	ID              string          `json:"id" bson:"_id,omitempty"`
	LeadID          string          `json:"lead_id,omitempty" bson:"lead_id,omitempty"`
	UserID          string          `json:"user_id" bson:"user_id"`
	Name            string          `json:"name" bson:"name"`
	Location        string          `json:"location" bson:"location"`
	Status          BiometricStatus `json:"status" bson:"status"`
	CreatedAt       time.Time       `json:"created_at" bson:"created_at"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty" bson:"approved_at,omitempty"`
	RejectedAt      *time.Time      `json:"rejected_at,omitempty" bson:"rejected_at,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
}
