// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package model

// AdminRole is the privilege level of a group participant.
type AdminRole string

// Admin role values as surfaced by the platform
const (
	AdminRoleNone       AdminRole = ""
	AdminRoleAdmin      AdminRole = "admin"
	AdminRoleSuperAdmin AdminRole = "superadmin"
)

// IsAdmin reports whether the role carries admin privileges.
func (r AdminRole) IsAdmin() bool {
	return r == AdminRoleAdmin || r == AdminRoleSuperAdmin
}

// Participant is one roster entry. Depending on how the platform surfaced
// the entry, any subset of the identity fields may be populated.
type Participant struct {
	// Address is the identity the platform listed the participant under
	Address Address `json:"address"`

	// PhoneAddress is the phone-number-form identity, when known
	PhoneAddress Address `json:"phone_address,omitempty"`

	// LinkedAddress is the opaque linked-device identity, when known
	LinkedAddress Address `json:"linked_address,omitempty"`

	// Role is the participant's admin privilege level
	Role AdminRole `json:"role"`
}

// NumericKeys returns the numeric keys of every populated identity field.
// Partially populated entries yield fewer keys rather than failing.
func (p *Participant) NumericKeys() []string {
	if p == nil {
		return nil
	}

	var keys []string
	for _, addr := range []Address{p.Address, p.PhoneAddress, p.LinkedAddress} {
		if key := addr.NumericKey(); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// Roster is a snapshot of a group's participant list and roles. It is
// fetched fresh per request and never cached across requests, since
// membership and roles change between requests.
type Roster struct {
	GroupAddress Address       `json:"group_address"`
	Subject      string        `json:"subject"`
	Participants []Participant `json:"participants"`
}
