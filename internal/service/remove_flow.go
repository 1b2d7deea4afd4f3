// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vereinsbot/group-lifecycle-service/internal/domain/model"
	"github.com/vereinsbot/group-lifecycle-service/internal/domain/port"
	"github.com/vereinsbot/group-lifecycle-service/pkg/log"
	"github.com/vereinsbot/group-lifecycle-service/pkg/utils"
)

// RemovalFlow processes queued removal work items: it optionally attempts
// removal from a parent community before the target group, enforces the
// admin-protection rule, and records the outcome.
type RemovalFlow struct {
	config Config
	deps   Dependencies
}

// NewRemovalFlow creates the removal state machine.
func NewRemovalFlow(config Config, deps Dependencies) *RemovalFlow {
	return &RemovalFlow{
		config: config,
		deps:   deps,
	}
}

// ProcessRemoval runs one removal work item to completion. Admin
// protection is absolute: an admin or superadmin target is never removed,
// in either a community or a group.
func (f *RemovalFlow) ProcessRemoval(ctx context.Context, item *model.RemoveWorkItem) (*model.RemoveResult, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	ctx = log.AppendCtx(ctx, slog.String("registration_id", item.RegistrationID))

	target, err := model.NewMemberAddress(item.Phone)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "processing removal request",
		"group_id", item.GroupID,
		"phone", log.RedactPhone(item.Phone),
		"reason", item.Reason,
	)

	result := &model.RemoveResult{}

	if item.CommunityID != nil && *item.CommunityID != "" {
		done := f.removeFromScope(ctx, item, *item.CommunityID, model.RemovalScopeCommunity, target, result)
		if done {
			return result, f.settle(ctx, item, result)
		}
		// Fall through to the group only when the community attempt did
		// not conclude the request: the community was absent or the
		// target was not among its participants.
	}

	f.removeFromScope(ctx, item, item.GroupID, model.RemovalScopeGroup, target, result)
	return result, f.settle(ctx, item, result)
}

// removeFromScope attempts the removal against one scope (community or
// group). It reports whether the request is concluded: true for a removal,
// an unresolvable scope, an admin-protection stop, or a failed removal
// call; false when the scope identifier was unusable or the target was
// simply not present there, which lets the caller fall through to the
// group.
func (f *RemovalFlow) removeFromScope(ctx context.Context, item *model.RemoveWorkItem, rawScopeID string, scope model.RemovalScope, target model.Address, result *model.RemoveResult) bool {
	scopeAddr, err := model.NewGroupAddress(rawScopeID)
	if err != nil {
		result.ErrorReason = fmt.Sprintf("%s identifier is invalid: %v", scope, err)
		return false
	}

	roster, err := boundedRetry(ctx, f.config, fmt.Sprintf("fetch %s roster", scope), func(ctx context.Context) (*model.Roster, error) {
		return f.deps.Client.FetchGroupRoster(ctx, scopeAddr)
	})
	if err != nil {
		result.ErrorReason = fmt.Sprintf("%s %s could not be resolved: %v", scope, rawScopeID, err)
		return true
	}

	participant := FindParticipant(roster, target)
	if participant == nil {
		result.ErrorReason = fmt.Sprintf("target not found in %s %s", scope, rawScopeID)
		return false
	}

	if participant.Role.IsAdmin() {
		slog.WarnContext(ctx, "refusing to remove an admin",
			"scope", scope,
			"role", participant.Role,
			"phone", log.RedactPhone(item.Phone),
		)
		result.ErrorReason = fmt.Sprintf("target is %s in %s %s, admin protection applies", participant.Role, scope, rawScopeID)
		return true
	}

	if err := f.removeParticipant(ctx, scopeAddr, target); err != nil {
		result.ErrorReason = fmt.Sprintf("removal call failed in %s %s: %v", scope, rawScopeID, err)
		return true
	}

	slog.InfoContext(ctx, "participant removed",
		"scope", scope,
		"phone", log.RedactPhone(item.Phone),
	)
	result.Removed = true
	result.Scope = scope
	result.ErrorReason = ""
	return true
}

// removeParticipant issues the remove-participant call under the same
// retry policy as the add call, since neither is guaranteed idempotent by
// the platform.
func (f *RemovalFlow) removeParticipant(ctx context.Context, scopeAddr, target model.Address) error {
	call := func(ctx context.Context) ([]port.ParticipantStatus, error) {
		return f.deps.Client.UpdateParticipants(ctx, scopeAddr, []model.Address{target}, port.ParticipantRemove)
	}

	var (
		statuses []port.ParticipantStatus
		err      error
	)
	if f.config.RetryMembershipCalls {
		statuses, err = boundedRetry(ctx, f.config, "remove participant", call)
	} else {
		statuses, err = boundedOnce(ctx, f.config, call)
	}
	if err != nil {
		return err
	}

	targetKey := target.NumericKey()
	for _, status := range statuses {
		if status.Address.NumericKey() != targetKey {
			continue
		}
		switch model.ClassifyStatusCode(status.Code) {
		case model.StatusAccepted, model.StatusAlreadyPresent:
			// 409-class on remove means the member was already gone
			return nil
		default:
			return fmt.Errorf("platform rejected the removal with status %d", status.Code)
		}
	}
	return nil
}

// settle persists the exit record on success and notifies on failure, both
// best-effort.
func (f *RemovalFlow) settle(ctx context.Context, item *model.RemoveWorkItem, result *model.RemoveResult) error {
	if result.Removed {
		err := f.deps.Memberships.RecordExit(ctx, item.RegistrationID, item.Phone, item.GroupID, item.Reason, time.Now())
		if err != nil {
			slog.ErrorContext(ctx, "failed to persist membership exit",
				"error", err,
				"phone", log.RedactPhone(item.Phone),
				log.PriorityCritical(),
			)
		}

		_ = utils.SleepWithJitter(ctx, f.config.SuccessBackoffMin, f.config.SuccessBackoffMax)
		return nil
	}

	slog.WarnContext(ctx, "removal request not carried out",
		"reason", result.ErrorReason,
		"phone", log.RedactPhone(item.Phone),
	)

	payload := model.RemovalFailure{
		RegistrationID:  item.RegistrationID,
		GroupID:         item.GroupID,
		Phone:           log.RedactPhone(item.Phone),
		BusinessReason:  item.Reason,
		TechnicalReason: result.ErrorReason,
	}

	// Notification errors are swallowed on purpose, never propagated.
	if err := f.deps.Notifier.NotifyRemovalFailure(ctx, payload); err != nil {
		slog.ErrorContext(ctx, "removal failure notification could not be delivered", "error", err)
	}

	return nil
}
