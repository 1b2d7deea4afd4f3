// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

// Package mock provides in-memory implementations of the domain ports for
// testing and local development.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/vereinsbot/group-lifecycle-service/internal/domain/model"
	"github.com/vereinsbot/group-lifecycle-service/internal/domain/port"
	errs "github.com/vereinsbot/group-lifecycle-service/pkg/errors"
)

// SentMessage records one outbound message for assertions.
type SentMessage struct {
	To      model.Address
	Group   model.Address
	Subject string
	Code    string
	Content string
	Invite  bool
}

// ParticipantCall records one membership change call for assertions.
type ParticipantCall struct {
	Group   model.Address
	Members []model.Address
	Change  port.ParticipantChange
}

// MockMessagingClient is a scriptable in-memory implementation of
// port.MessagingClient. Rosters, status codes, and invite codes are
// configured up front; every mutating call is recorded.
type MockMessagingClient struct {
	mu sync.Mutex

	// Self is the bot's own address; SelfLinked the linked-device one.
	Self       model.Address
	SelfLinked model.Address

	// Rosters maps a group numeric key to the roster returned for it.
	// Groups without an entry yield a NotFound error.
	Rosters map[string]*model.Roster

	// StatusCodes maps a member numeric key to the status code returned by
	// UpdateParticipants. Members without an entry get 200.
	StatusCodes map[string]int

	// InviteCodes maps a group numeric key to its invite code. Groups
	// without an entry get a generated placeholder code.
	InviteCodes map[string]string

	// Error hooks. When set, the matching call fails with that error.
	RosterErr      error
	UpdateErr      error
	InviteCodeErr  error
	GroupInviteErr error
	DirectMsgErr   error

	// Recorded calls.
	ParticipantCalls []ParticipantCall
	Messages         []SentMessage
}

// Ensure MockMessagingClient implements the MessagingClient interface
var _ port.MessagingClient = (*MockMessagingClient)(nil)

// NewMockMessagingClient creates a messaging client mock with empty state.
func NewMockMessagingClient() *MockMessagingClient {
	return &MockMessagingClient{
		Self:        "990000000000@s.whatsapp.net",
		Rosters:     make(map[string]*model.Roster),
		StatusCodes: make(map[string]int),
		InviteCodes: make(map[string]string),
	}
}

// SelfIdentity returns the configured bot identity.
func (m *MockMessagingClient) SelfIdentity(_ context.Context) (model.Address, model.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Self, m.SelfLinked, nil
}

// FetchGroupRoster returns the scripted roster for the group.
func (m *MockMessagingClient) FetchGroupRoster(_ context.Context, group model.Address) (*model.Roster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RosterErr != nil {
		return nil, m.RosterErr
	}

	roster, ok := m.Rosters[group.NumericKey()]
	if !ok {
		return nil, errs.NewNotFound(fmt.Sprintf("group %s not found", group))
	}
	return roster, nil
}

// UpdateParticipants records the call and returns the scripted status code
// for each member, defaulting to 200.
func (m *MockMessagingClient) UpdateParticipants(_ context.Context, group model.Address, members []model.Address, change port.ParticipantChange) ([]port.ParticipantStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ParticipantCalls = append(m.ParticipantCalls, ParticipantCall{
		Group:   group,
		Members: members,
		Change:  change,
	})

	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}

	statuses := make([]port.ParticipantStatus, 0, len(members))
	for _, member := range members {
		code, ok := m.StatusCodes[member.NumericKey()]
		if !ok {
			code = 200
		}
		statuses = append(statuses, port.ParticipantStatus{Address: member, Code: code})
	}
	return statuses, nil
}

// GenerateInviteCode returns the scripted invite code for the group.
func (m *MockMessagingClient) GenerateInviteCode(_ context.Context, group model.Address) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.InviteCodeErr != nil {
		return "", m.InviteCodeErr
	}

	if code, ok := m.InviteCodes[group.NumericKey()]; ok {
		return code, nil
	}
	return "mock-invite-" + group.NumericKey(), nil
}

// SendGroupInvite records the native invite message.
func (m *MockMessagingClient) SendGroupInvite(_ context.Context, to model.Address, group model.Address, groupSubject, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GroupInviteErr != nil {
		return m.GroupInviteErr
	}

	m.Messages = append(m.Messages, SentMessage{
		To:      to,
		Group:   group,
		Subject: groupSubject,
		Code:    code,
		Invite:  true,
	})
	return nil
}

// SendDirectMessage records the plain text message.
func (m *MockMessagingClient) SendDirectMessage(_ context.Context, to model.Address, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DirectMsgErr != nil {
		return m.DirectMsgErr
	}

	m.Messages = append(m.Messages, SentMessage{
		To:      to,
		Content: content,
	})
	return nil
}

// IsReady always reports a usable session.
func (m *MockMessagingClient) IsReady(_ context.Context) error {
	return nil
}
