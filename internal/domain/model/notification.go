// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package model

// AdditionFailure is the consolidated failure report for an addition
// request that produced no fulfilling outcome.
type AdditionFailure struct {
	RequestID      string `json:"request_id"`
	RegistrationID string `json:"registration_id"`
	GroupID        string `json:"group_id"`
	Reason         string `json:"reason"`

	// UnauthorizedPhones aids manual diagnosis of missing consent records.
	// Numbers are redacted before they enter the payload.
	UnauthorizedPhones []string `json:"unauthorized_phones,omitempty"`

	// FailedPhones lists per-phone technical failure reasons.
	FailedPhones []string `json:"failed_phones,omitempty"`
}

// RemovalFailure is the failure report for a removal work item, carrying
// both the business reason (why removal was requested) and the technical
// reason (why the attempt failed).
type RemovalFailure struct {
	RegistrationID  string `json:"registration_id"`
	GroupID         string `json:"group_id"`
	Phone           string `json:"phone"`
	BusinessReason  string `json:"business_reason"`
	TechnicalReason string `json:"technical_reason"`
}
