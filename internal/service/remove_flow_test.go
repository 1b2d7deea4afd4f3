// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vereinsbot/group-lifecycle-service/internal/domain/model"
	"github.com/vereinsbot/group-lifecycle-service/internal/domain/port"
	errs "github.com/vereinsbot/group-lifecycle-service/pkg/errors"
)

const testCommunityID = "120363049999999999"

func removeItem(communityID string) *model.RemoveWorkItem {
	item := &model.RemoveWorkItem{
		Type:           "remove_member",
		RegistrationID: "reg-1",
		GroupID:        testGroupID,
		Phone:          "4915123456789",
		Reason:         "membership ended",
	}
	if communityID != "" {
		item.CommunityID = &communityID
	}
	return item
}

// installRoster installs a roster for the given scope with the listed
// participants.
func installRoster(f *flowFixture, scopeID, subject string, participants ...model.Participant) {
	f.client.Rosters[model.NumericKeyOf(scopeID)] = &model.Roster{
		GroupAddress: model.Address(scopeID + "@g.us"),
		Subject:      subject,
		Participants: participants,
	}
}

func member(phone string, role model.AdminRole) model.Participant {
	return model.Participant{
		Address: model.Address(phone + "@s.whatsapp.net"),
		Role:    role,
	}
}

func TestRemovalFlowProcessRemoval(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		setupMock     func(f *flowFixture)
		item          *model.RemoveWorkItem
		expectedError bool
		errorType     error
		validate      func(t *testing.T, f *flowFixture, result *model.RemoveResult)
	}{
		{
			name: "removal from the group succeeds",
			setupMock: func(f *flowFixture) {
				installRoster(f, testGroupID, "JB Ortsgruppe Nord",
					member("4915123456789", model.AdminRoleNone),
				)
			},
			item: removeItem(""),
			validate: func(t *testing.T, f *flowFixture, result *model.RemoveResult) {
				assert.True(t, result.Removed)
				assert.Equal(t, model.RemovalScopeGroup, result.Scope)

				require.Len(t, f.client.ParticipantCalls, 1)
				assert.Equal(t, port.ParticipantRemove, f.client.ParticipantCalls[0].Change)

				records := f.repo.MembershipRecords()
				require.Len(t, records, 1)
				assert.Equal(t, model.MembershipExited, records[0].Status)
				assert.Equal(t, "membership ended", records[0].ExitReason)
			},
		},
		{
			name: "admin target is never removed",
			setupMock: func(f *flowFixture) {
				installRoster(f, testGroupID, "JB Ortsgruppe Nord",
					member("4915123456789", model.AdminRoleAdmin),
				)
			},
			item: removeItem(""),
			validate: func(t *testing.T, f *flowFixture, result *model.RemoveResult) {
				assert.False(t, result.Removed)
				assert.Contains(t, result.ErrorReason, "admin protection")
				assert.Empty(t, f.client.ParticipantCalls)

				require.Len(t, f.notifier.RemovalFailures, 1)
				assert.Contains(t, f.notifier.RemovalFailures[0].TechnicalReason, "admin protection")
			},
		},
		{
			name: "target found in the community is removed there and the group is not touched",
			setupMock: func(f *flowFixture) {
				installRoster(f, testCommunityID, "JB Community",
					member("4915123456789", model.AdminRoleNone),
				)
				installRoster(f, testGroupID, "JB Ortsgruppe Nord",
					member("4915123456789", model.AdminRoleNone),
				)
			},
			item: removeItem(testCommunityID),
			validate: func(t *testing.T, f *flowFixture, result *model.RemoveResult) {
				assert.True(t, result.Removed)
				assert.Equal(t, model.RemovalScopeCommunity, result.Scope)

				require.Len(t, f.client.ParticipantCalls, 1)
				assert.Equal(t, model.NumericKeyOf(testCommunityID), f.client.ParticipantCalls[0].Group.NumericKey())
			},
		},
		{
			name: "target absent from the community falls through to the group",
			setupMock: func(f *flowFixture) {
				installRoster(f, testCommunityID, "JB Community")
				installRoster(f, testGroupID, "JB Ortsgruppe Nord",
					member("4915123456789", model.AdminRoleNone),
				)
			},
			item: removeItem(testCommunityID),
			validate: func(t *testing.T, f *flowFixture, result *model.RemoveResult) {
				assert.True(t, result.Removed)
				assert.Equal(t, model.RemovalScopeGroup, result.Scope)

				require.Len(t, f.client.ParticipantCalls, 1)
				assert.Equal(t, model.NumericKeyOf(testGroupID), f.client.ParticipantCalls[0].Group.NumericKey())
			},
		},
		{
			name: "unresolvable community concludes the request without touching the group",
			setupMock: func(f *flowFixture) {
				// Only the group exists; the community roster fetch fails.
				installRoster(f, testGroupID, "JB Ortsgruppe Nord",
					member("4915123456789", model.AdminRoleNone),
				)
			},
			item: removeItem(testCommunityID),
			validate: func(t *testing.T, f *flowFixture, result *model.RemoveResult) {
				assert.False(t, result.Removed)
				assert.Contains(t, result.ErrorReason, "could not be resolved")
				assert.Empty(t, f.client.ParticipantCalls)
				require.Len(t, f.notifier.RemovalFailures, 1)
			},
		},
		{
			name: "already-gone status code counts as a removal",
			setupMock: func(f *flowFixture) {
				installRoster(f, testGroupID, "JB Ortsgruppe Nord",
					member("4915123456789", model.AdminRoleNone),
				)
				f.client.StatusCodes["4915123456789"] = 409
			},
			item: removeItem(""),
			validate: func(t *testing.T, f *flowFixture, result *model.RemoveResult) {
				assert.True(t, result.Removed)
				assert.Equal(t, model.RemovalScopeGroup, result.Scope)
			},
		},
		{
			name: "target not present anywhere notifies instead of removing",
			setupMock: func(f *flowFixture) {
				installRoster(f, testGroupID, "JB Ortsgruppe Nord")
			},
			item: removeItem(""),
			validate: func(t *testing.T, f *flowFixture, result *model.RemoveResult) {
				assert.False(t, result.Removed)
				assert.Contains(t, result.ErrorReason, "not found")
				require.Len(t, f.notifier.RemovalFailures, 1)
				assert.Empty(t, f.repo.MembershipRecords())
			},
		},
		{
			name: "failed removal call concludes with a notification",
			setupMock: func(f *flowFixture) {
				installRoster(f, testGroupID, "JB Ortsgruppe Nord",
					member("4915123456789", model.AdminRoleNone),
				)
				f.client.UpdateErr = errs.NewServiceUnavailable("gateway timeout")
			},
			item: removeItem(""),
			validate: func(t *testing.T, f *flowFixture, result *model.RemoveResult) {
				assert.False(t, result.Removed)
				assert.Contains(t, result.ErrorReason, "removal call failed")
				require.Len(t, f.notifier.RemovalFailures, 1)
			},
		},
		{
			name: "rejected removal status code concludes with a notification",
			setupMock: func(f *flowFixture) {
				installRoster(f, testGroupID, "JB Ortsgruppe Nord",
					member("4915123456789", model.AdminRoleNone),
				)
				f.client.StatusCodes["4915123456789"] = 403
			},
			item: removeItem(""),
			validate: func(t *testing.T, f *flowFixture, result *model.RemoveResult) {
				assert.False(t, result.Removed)
				assert.Contains(t, result.ErrorReason, "removal call failed")
			},
		},
		{
			name:      "missing phone aborts the cycle",
			setupMock: func(f *flowFixture) {},
			item: &model.RemoveWorkItem{
				Type:           "remove_member",
				RegistrationID: "reg-1",
				GroupID:        testGroupID,
			},
			expectedError: true,
			errorType:     errs.Validation{},
			validate: func(t *testing.T, f *flowFixture, result *model.RemoveResult) {
				assert.Nil(t, result)
				assert.Empty(t, f.notifier.RemovalFailures)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newFlowFixture()
			tt.setupMock(fixture)

			flow := NewRemovalFlow(testConfig(), fixture.deps())

			result, err := flow.ProcessRemoval(ctx, tt.item)

			if tt.expectedError {
				require.Error(t, err)
				if tt.errorType != nil {
					assert.IsType(t, tt.errorType, err)
				}
			} else {
				require.NoError(t, err)
			}

			tt.validate(t, fixture, result)
		})
	}
}

func TestRemovalFlowMatchesAcrossAddressEncodings(t *testing.T) {
	ctx := context.Background()
	fixture := newFlowFixture()

	// The platform lists the target under an opaque linked-device identity
	// with the phone form attached separately.
	installRoster(fixture, testGroupID, "JB Ortsgruppe Nord",
		model.Participant{
			Address:      "123456789012345@lid",
			PhoneAddress: "4915123456789:2@s.whatsapp.net",
			Role:         model.AdminRoleNone,
		},
	)

	flow := NewRemovalFlow(testConfig(), fixture.deps())

	result, err := flow.ProcessRemoval(ctx, removeItem(""))
	require.NoError(t, err)
	assert.True(t, result.Removed)
}
