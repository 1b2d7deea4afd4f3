// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package wagateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vereinsbot/group-lifecycle-service/internal/domain/model"
	"github.com/vereinsbot/group-lifecycle-service/internal/domain/port"
	errs "github.com/vereinsbot/group-lifecycle-service/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL:   server.URL,
		APIKey:    "test-key",
		SessionID: "primary",
		Timeout:   5 * time.Second,
	})
	require.NoError(t, err)
	return client, server
}

func TestClientSelfIdentity(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "/api/sessions/primary/me", r.URL.Path)

		_ = json.NewEncoder(w).Encode(sessionObject{
			Address:       "990000000000@s.whatsapp.net",
			LinkedAddress: "123450000000000@lid",
		})
	}))

	ctx := context.Background()

	addr, linked, err := client.SelfIdentity(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Address("990000000000@s.whatsapp.net"), addr)
	assert.Equal(t, model.Address("123450000000000@lid"), linked)

	// The identity is cached after the first resolution.
	_, _, err = client.SelfIdentity(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestClientFetchGroupRoster(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sessions/primary/groups/120363041234567890@g.us", r.URL.Path)

		_ = json.NewEncoder(w).Encode(groupObject{
			Address: "120363041234567890@g.us",
			Subject: "JB Ortsgruppe Nord",
			Participants: []participantObject{
				{Address: "4915123456789@s.whatsapp.net", Role: "admin"},
				{Address: "987654321098765@lid", PhoneAddress: "4917698765432@s.whatsapp.net"},
			},
		})
	}))

	roster, err := client.FetchGroupRoster(context.Background(), "120363041234567890@g.us")
	require.NoError(t, err)
	assert.Equal(t, "JB Ortsgruppe Nord", roster.Subject)
	require.Len(t, roster.Participants, 2)
	assert.Equal(t, model.AdminRoleAdmin, roster.Participants[0].Role)
	assert.Equal(t, model.Address("4917698765432@s.whatsapp.net"), roster.Participants[1].PhoneAddress)
}

func TestClientFetchGroupRosterNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"unknown group"}`, http.StatusNotFound)
	}))

	_, err := client.FetchGroupRoster(context.Background(), "120363040000000000@g.us")
	require.Error(t, err)
	assert.IsType(t, errs.NotFound{}, err)
}

func TestClientUpdateParticipants(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sessions/primary/groups/120363041234567890@g.us/participants", r.URL.Path)

		var request participantUpdateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, "add", request.Action)
		require.Len(t, request.Participants, 1)

		_ = json.NewEncoder(w).Encode(participantUpdateResponse{
			Results: []participantResultObject{
				{Address: request.Participants[0], Status: 409},
			},
		})
	}))

	statuses, err := client.UpdateParticipants(context.Background(),
		"120363041234567890@g.us",
		[]model.Address{"4915123456789@s.whatsapp.net"},
		port.ParticipantAdd,
	)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, 409, statuses[0].Code)

	_, err = client.UpdateParticipants(context.Background(), "120363041234567890@g.us", nil, port.ParticipantAdd)
	require.Error(t, err)
	assert.IsType(t, errs.Validation{}, err)
}

func TestClientInviteAndMessages(t *testing.T) {
	var paths []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)

		switch {
		case r.URL.Path == "/api/sessions/primary/groups/120363041234567890@g.us/invite-code":
			_ = json.NewEncoder(w).Encode(inviteCodeObject{Code: "ABCDEF123"})
		case r.URL.Path == "/api/sessions/primary/messages/invite":
			var request groupInviteRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
			assert.Equal(t, "ABCDEF123", request.Code)
			w.WriteHeader(http.StatusOK)
		case r.URL.Path == "/api/sessions/primary/messages/text":
			var request textMessageRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
			assert.Contains(t, request.Content, "chat.whatsapp.com")
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	ctx := context.Background()
	group := model.Address("120363041234567890@g.us")
	to := model.Address("4915123456789@s.whatsapp.net")

	code, err := client.GenerateInviteCode(ctx, group)
	require.NoError(t, err)
	assert.Equal(t, "ABCDEF123", code)

	require.NoError(t, client.SendGroupInvite(ctx, to, group, "JB Ortsgruppe Nord", code))
	require.NoError(t, client.SendDirectMessage(ctx, to, "Tritt hier bei: https://chat.whatsapp.com/"+code))

	assert.Len(t, paths, 3)
}

func TestClientIsReady(t *testing.T) {
	ready := false
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sessions/primary/status", r.URL.Path)
		_ = json.NewEncoder(w).Encode(sessionObject{Ready: ready})
	}))

	ctx := context.Background()

	err := client.IsReady(ctx)
	require.Error(t, err)
	assert.IsType(t, errs.ServiceUnavailable{}, err)

	ready = true
	require.NoError(t, client.IsReady(ctx))
}
