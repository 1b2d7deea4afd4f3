// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package model

// AttemptStatus is the outcome class of one phone-against-one-group
// operation.
type AttemptStatus string

// Attempt outcome values
const (
	AttemptAdded         AttemptStatus = "added"
	AttemptAlreadyMember AttemptStatus = "already_member"
	AttemptInvited       AttemptStatus = "invited"
	AttemptFailed        AttemptStatus = "failed"
)

// AttemptResult describes the outcome of one phone-against-one-group
// operation. Transient: never persisted directly, only folded into the
// request-level ProcessResult.
type AttemptResult struct {
	Phone  string
	Status AttemptStatus
	Reason string
}

// Progressed reports whether the attempt moved the request toward
// fulfillment.
func (r AttemptResult) Progressed() bool {
	switch r.Status {
	case AttemptAdded, AttemptAlreadyMember, AttemptInvited:
		return true
	default:
		return false
	}
}

// StatusCodeClass is the semantic class of a numeric participant status
// code returned by the platform's update-participant call.
type StatusCodeClass int

// Status code classes
const (
	// StatusAccepted covers the 200 class: the change was applied
	StatusAccepted StatusCodeClass = iota
	// StatusAlreadyPresent covers the 409 class: the member was already
	// there, a valid terminal outcome rather than a failure
	StatusAlreadyPresent
	// StatusRejected covers everything else: an ambiguous policy failure
	// that triggers fallback handling
	StatusRejected
)

// ClassifyStatusCode maps the platform's numeric per-target status codes
// onto their semantic class.
func ClassifyStatusCode(code int) StatusCodeClass {
	switch {
	case code >= 200 && code < 300:
		return StatusAccepted
	case code >= 409 && code < 410:
		return StatusAlreadyPresent
	default:
		return StatusRejected
	}
}

// ProcessResult aggregates the per-phone outcomes of one addition work
// item. Born and discarded within one processing cycle; only the derived
// request status outlives it.
type ProcessResult struct {
	ProcessedPhones int
	Added           bool
	InviteSent      bool
	AlreadyInGroup  bool

	// UnauthorizedPhones lists numbers skipped for missing consent,
	// collected for the consolidated failure notification.
	UnauthorizedPhones []string

	// Failures collects per-phone terminal failures with their reasons.
	Failures []AttemptResult
}

// Fold merges one attempt outcome into the aggregate.
func (r *ProcessResult) Fold(attempt AttemptResult) {
	r.ProcessedPhones++

	switch attempt.Status {
	case AttemptAdded:
		r.Added = true
	case AttemptAlreadyMember:
		r.AlreadyInGroup = true
	case AttemptInvited:
		r.InviteSent = true
	case AttemptFailed:
		r.Failures = append(r.Failures, attempt)
	}
}

// Fulfilled reports whether at least one phone produced a fulfilling
// outcome.
func (r *ProcessResult) Fulfilled() bool {
	return r.Added || r.InviteSent || r.AlreadyInGroup
}

// RemovalScope identifies where a removal took effect.
type RemovalScope string

// Removal scopes
const (
	RemovalScopeGroup     RemovalScope = "group"
	RemovalScopeCommunity RemovalScope = "community"
)

// RemoveResult is the aggregate outcome of one removal work item.
type RemoveResult struct {
	Removed     bool
	Scope       RemovalScope
	ErrorReason string
}
