// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

// Package wagateway implements the messaging platform boundary against an
// HTTP gateway that fronts the actual WhatsApp session.
package wagateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/vereinsbot/group-lifecycle-service/internal/domain/model"
	"github.com/vereinsbot/group-lifecycle-service/internal/domain/port"
	errs "github.com/vereinsbot/group-lifecycle-service/pkg/errors"
	"github.com/vereinsbot/group-lifecycle-service/pkg/httpclient"
)

// apiKeyRoundTripper injects the gateway API key into every request
type apiKeyRoundTripper struct {
	apiKey string
}

// RoundTrip adds the authentication header before the request goes out
func (rt *apiKeyRoundTripper) RoundTrip(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	if rt.apiKey != "" {
		req.Header.Set("X-Api-Key", rt.apiKey)
	}
	return next(req)
}

// Client implements port.MessagingClient against the HTTP gateway. The
// orchestration layer owns all retry and timeout policy, so the underlying
// HTTP client never retries on its own: a membership mutation must hit the
// platform at most once per decision.
type Client struct {
	config     Config
	httpClient *httpclient.Client

	// identity cache, resolved once per process since the session's own
	// number never changes while connected
	identityMu   sync.Mutex
	selfAddr     model.Address
	selfLinked   model.Address
	identityDone bool
}

// Ensure Client implements the MessagingClient interface
var _ port.MessagingClient = (*Client)(nil)

// NewClient creates a new gateway client with the given configuration
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("gateway base URL is required")
	}

	httpConfig := httpclient.Config{
		Timeout:    cfg.Timeout,
		MaxRetries: 0, // retry policy lives in the orchestration layer
	}

	client := &Client{
		config:     cfg,
		httpClient: httpclient.NewClient(httpConfig),
	}
	client.httpClient.AddRoundTripper(&apiKeyRoundTripper{apiKey: cfg.APIKey})

	return client, nil
}

// SelfIdentity returns the bot's own address and, when the gateway surfaces
// one, its linked-device address. Resolved once and cached.
func (c *Client) SelfIdentity(ctx context.Context) (model.Address, model.Address, error) {
	c.identityMu.Lock()
	defer c.identityMu.Unlock()

	if c.identityDone {
		return c.selfAddr, c.selfLinked, nil
	}

	var session sessionObject
	if err := c.makeRequest(ctx, http.MethodGet, c.sessionPath("/me"), nil, &session); err != nil {
		return "", "", err
	}
	if session.Address == "" {
		return "", "", errs.NewUnexpected("gateway reported no session address")
	}

	c.selfAddr = model.Address(session.Address)
	c.selfLinked = model.Address(session.LinkedAddress)
	c.identityDone = true

	slog.DebugContext(ctx, "session identity resolved",
		"has_linked_address", session.LinkedAddress != "",
	)
	return c.selfAddr, c.selfLinked, nil
}

// FetchGroupRoster returns a fresh participant snapshot for the group.
func (c *Client) FetchGroupRoster(ctx context.Context, group model.Address) (*model.Roster, error) {
	var response groupObject
	err := c.makeRequest(ctx, http.MethodGet, c.sessionPath("/groups/"+string(group)), nil, &response)
	if err != nil {
		return nil, err
	}

	roster := &model.Roster{
		GroupAddress: model.Address(response.Address),
		Subject:      response.Subject,
		Participants: make([]model.Participant, 0, len(response.Participants)),
	}
	for _, p := range response.Participants {
		roster.Participants = append(roster.Participants, model.Participant{
			Address:       model.Address(p.Address),
			PhoneAddress:  model.Address(p.PhoneAddress),
			LinkedAddress: model.Address(p.LinkedAddress),
			Role:          model.AdminRole(p.Role),
		})
	}

	slog.DebugContext(ctx, "group roster fetched",
		"subject", roster.Subject,
		"participant_count", len(roster.Participants),
	)
	return roster, nil
}

// UpdateParticipants applies a membership change and returns one status per
// target.
func (c *Client) UpdateParticipants(ctx context.Context, group model.Address, members []model.Address, change port.ParticipantChange) ([]port.ParticipantStatus, error) {
	if len(members) == 0 {
		return nil, errs.NewValidation("at least one member is required")
	}

	request := participantUpdateRequest{
		Action:       string(change),
		Participants: make([]string, 0, len(members)),
	}
	for _, member := range members {
		request.Participants = append(request.Participants, string(member))
	}

	var response participantUpdateResponse
	path := c.sessionPath("/groups/" + string(group) + "/participants")
	if err := c.makeRequest(ctx, http.MethodPost, path, request, &response); err != nil {
		return nil, err
	}

	statuses := make([]port.ParticipantStatus, 0, len(response.Results))
	for _, result := range response.Results {
		statuses = append(statuses, port.ParticipantStatus{
			Address: model.Address(result.Address),
			Code:    result.Status,
		})
	}
	return statuses, nil
}

// GenerateInviteCode creates an invite code for the group.
func (c *Client) GenerateInviteCode(ctx context.Context, group model.Address) (string, error) {
	var response inviteCodeObject
	path := c.sessionPath("/groups/" + string(group) + "/invite-code")
	if err := c.makeRequest(ctx, http.MethodPost, path, nil, &response); err != nil {
		return "", err
	}
	if response.Code == "" {
		return "", errs.NewUnexpected("gateway returned an empty invite code")
	}
	return response.Code, nil
}

// SendGroupInvite sends a native invite message for the group to a person's
// private address.
func (c *Client) SendGroupInvite(ctx context.Context, to model.Address, group model.Address, groupSubject, code string) error {
	request := groupInviteRequest{
		To:      string(to),
		Group:   string(group),
		Subject: groupSubject,
		Code:    code,
	}
	return c.makeRequest(ctx, http.MethodPost, c.sessionPath("/messages/invite"), request, nil)
}

// SendDirectMessage sends a plain text message to a person's private
// address.
func (c *Client) SendDirectMessage(ctx context.Context, to model.Address, content string) error {
	request := textMessageRequest{
		To:      string(to),
		Content: content,
	}
	return c.makeRequest(ctx, http.MethodPost, c.sessionPath("/messages/text"), request, nil)
}

// IsReady checks whether the gateway session is connected and usable.
func (c *Client) IsReady(ctx context.Context) error {
	var session sessionObject
	if err := c.makeRequest(ctx, http.MethodGet, c.sessionPath("/status"), nil, &session); err != nil {
		return err
	}
	if !session.Ready {
		return errs.NewServiceUnavailable("gateway session is not ready")
	}
	return nil
}

// makeRequest centralizes all gateway calls with JSON encoding and error
// mapping.
func (c *Client) makeRequest(ctx context.Context, method, path string, payload, result any) error {
	reqURL := c.config.BaseURL + path

	var body io.Reader
	headers := map[string]string{}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request payload: %w", err)
		}
		body = bytes.NewReader(data)
		headers["Content-Type"] = "application/json"
	}

	resp, err := c.httpClient.Request(ctx, method, reqURL, body, headers)
	if err != nil {
		return MapHTTPError(ctx, err)
	}

	if result != nil {
		if err := json.Unmarshal(resp.Body, result); err != nil {
			return fmt.Errorf("failed to parse gateway response: %w", err)
		}
	}
	return nil
}

// sessionPath builds an API path scoped to the configured session.
func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + c.config.SessionID + suffix
}
