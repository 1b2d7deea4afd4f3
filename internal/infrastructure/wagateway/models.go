// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package wagateway

// sessionObject is the gateway's session identity response
type sessionObject struct {
	Address       string `json:"address"`
	LinkedAddress string `json:"linked_address,omitempty"`
	Ready         bool   `json:"ready"`
}

// participantObject is one roster entry as the gateway reports it
type participantObject struct {
	Address       string `json:"address"`
	PhoneAddress  string `json:"phone_address,omitempty"`
	LinkedAddress string `json:"linked_address,omitempty"`
	Role          string `json:"role,omitempty"`
}

// groupObject is the gateway's group metadata response
type groupObject struct {
	Address      string              `json:"address"`
	Subject      string              `json:"subject"`
	Participants []participantObject `json:"participants"`
}

// participantUpdateRequest is the membership change request payload
type participantUpdateRequest struct {
	Action       string   `json:"action"`
	Participants []string `json:"participants"`
}

// participantResultObject is the per-target outcome of a membership change
type participantResultObject struct {
	Address string `json:"address"`
	Status  int    `json:"status"`
}

// participantUpdateResponse wraps the per-target outcomes
type participantUpdateResponse struct {
	Results []participantResultObject `json:"results"`
}

// inviteCodeObject is the invite code response
type inviteCodeObject struct {
	Code string `json:"code"`
}

// groupInviteRequest is the native invite message payload
type groupInviteRequest struct {
	To      string `json:"to"`
	Group   string `json:"group"`
	Subject string `json:"subject"`
	Code    string `json:"code"`
}

// textMessageRequest is the plain text message payload
type textMessageRequest struct {
	To      string `json:"to"`
	Content string `json:"content"`
}
