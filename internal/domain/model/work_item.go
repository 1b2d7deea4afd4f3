// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package model

import (
	errs "github.com/vereinsbot/group-lifecycle-service/pkg/errors"
)

// AddWorkItem is one queued request to add a registration's phones to a
// group. Enqueued by the external registration system, immutable once read,
// consumed exactly once per successful pop.
type AddWorkItem struct {
	Type           string `json:"type"`
	RequestID      string `json:"request_id"`
	RegistrationID string `json:"registration_id"`
	GroupID        string `json:"group_id"`
	GroupType      string `json:"group_type"`
}

// Validate checks the required fields of an addition work item.
func (w *AddWorkItem) Validate() error {
	if w.RequestID == "" {
		return errs.NewValidation("addition work item is missing request_id")
	}
	if w.RegistrationID == "" {
		return errs.NewValidation("addition work item is missing registration_id")
	}
	if w.GroupID == "" {
		return errs.NewValidation("addition work item is missing group_id")
	}
	return nil
}

// RemoveWorkItem is one queued request to remove a phone from a group and,
// optionally, from its parent community first. Wire field names follow the
// enqueuing system's mixed casing.
type RemoveWorkItem struct {
	Type           string  `json:"type"`
	RegistrationID string  `json:"registration_id"`
	GroupID        string  `json:"groupId"`
	Phone          string  `json:"phone"`
	Reason         string  `json:"reason"`
	CommunityID    *string `json:"communityId"`
}

// Validate checks the required fields of a removal work item.
func (w *RemoveWorkItem) Validate() error {
	if w.RegistrationID == "" {
		return errs.NewValidation("removal work item is missing registration_id")
	}
	if w.GroupID == "" {
		return errs.NewValidation("removal work item is missing groupId")
	}
	if w.Phone == "" {
		return errs.NewValidation("removal work item is missing phone")
	}
	return nil
}
