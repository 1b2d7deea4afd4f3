// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vereinsbot/group-lifecycle-service/internal/domain/model"
	"github.com/vereinsbot/group-lifecycle-service/internal/domain/port"
	"github.com/vereinsbot/group-lifecycle-service/pkg/constants"
	errs "github.com/vereinsbot/group-lifecycle-service/pkg/errors"
	"github.com/vereinsbot/group-lifecycle-service/pkg/log"
	"github.com/vereinsbot/group-lifecycle-service/pkg/utils"
)

// Dependencies bundles the collaborators shared by the lifecycle flows.
type Dependencies struct {
	Client         port.MessagingClient
	Registry       port.RegistryReader
	Authorizations port.AuthorizationReader
	Memberships    port.MembershipWriter
	Notifier       port.FailureNotifier
	GroupTypes     *GroupTypeCache
}

// AdditionFlow processes queued addition work items: it resolves eligible
// phone numbers, checks the bot's admin precondition, attempts inclusion
// per phone with an invite fallback, and records the outcomes.
type AdditionFlow struct {
	config Config
	deps   Dependencies
}

// NewAdditionFlow creates the addition state machine.
func NewAdditionFlow(config Config, deps Dependencies) *AdditionFlow {
	return &AdditionFlow{
		config: config,
		deps:   deps,
	}
}

// ProcessAddition runs one addition work item to completion and returns the
// aggregate result. Terminal per-request failures (group missing, bot not
// admin, no phones) are converted into a recorded attempt plus a
// notification rather than an error; only malformed required input aborts
// the cycle.
func (f *AdditionFlow) ProcessAddition(ctx context.Context, item *model.AddWorkItem) (*model.ProcessResult, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	ctx = log.AppendCtx(ctx, slog.String("request_id", item.RequestID))
	ctx = log.AppendCtx(ctx, slog.String("registration_id", item.RegistrationID))

	group, err := model.NewGroupAddress(item.GroupID)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "processing addition request",
		"group_id", item.GroupID,
		"group_type", item.GroupType,
	)

	result := &model.ProcessResult{}

	roster, err := boundedRetry(ctx, f.config, "fetch group roster", func(ctx context.Context) (*model.Roster, error) {
		return f.deps.Client.FetchGroupRoster(ctx, group)
	})
	if err != nil {
		return result, f.finalizeUnfulfilled(ctx, item, result, fmt.Sprintf("group %s could not be resolved: %v", item.GroupID, err))
	}

	groupType := f.resolveGroupType(ctx, group, item, roster)

	selfAdmin, err := f.checkSelfAdmin(ctx, roster)
	if err != nil {
		return result, f.finalizeUnfulfilled(ctx, item, result, fmt.Sprintf("own identity could not be resolved: %v", err))
	}
	if !selfAdmin {
		return result, f.finalizeUnfulfilled(ctx, item, result, "bot is not an admin of the group")
	}

	phones, err := boundedRetry(ctx, f.config, "list member phones", func(ctx context.Context) ([]model.MemberPhone, error) {
		return f.deps.Registry.ListMemberPhones(ctx, item.RegistrationID)
	})
	if err != nil {
		return result, f.finalizeUnfulfilled(ctx, item, result, fmt.Sprintf("member phones could not be listed: %v", err))
	}

	phones = model.DedupeByAuthorizationKey(phones)
	if len(phones) == 0 {
		return result, f.finalizeUnfulfilled(ctx, item, result, "registration has no reachable phone numbers")
	}

	for _, phone := range phones {
		if groupType == constants.GroupTypeRJB && !phone.IsLegalRep {
			slog.DebugContext(ctx, "skipping non-representative phone for RJB group",
				"phone", log.RedactPhone(phone.Phone),
			)
			continue
		}

		if !f.isAuthorized(ctx, phone) {
			result.UnauthorizedPhones = append(result.UnauthorizedPhones, log.RedactPhone(phone.Phone))
			continue
		}

		attempt := f.attemptAdd(ctx, group, roster.Subject, phone)
		result.Fold(attempt)

		if attempt.Progressed() {
			f.recordEntry(ctx, item, phone)
		}

		f.throttle(ctx, attempt)
	}

	return result, f.finalize(ctx, item, result)
}

// resolveGroupType determines the group's category tag: the work item's tag
// wins, then the cache, then a prefix convention on the group subject.
// Whatever is learned is stored for the connection's lifetime.
func (f *AdditionFlow) resolveGroupType(ctx context.Context, group model.Address, item *model.AddWorkItem, roster *model.Roster) string {
	if item.GroupType != "" {
		f.deps.GroupTypes.Store(group, item.GroupType)
		return item.GroupType
	}

	if cached, ok := f.deps.GroupTypes.Lookup(group); ok {
		return cached
	}

	for _, tag := range []string{constants.GroupTypeRJB, constants.GroupTypeJB, constants.GroupTypeMB} {
		if strings.HasPrefix(roster.Subject, tag+" ") || strings.HasPrefix(roster.Subject, tag+"-") {
			slog.DebugContext(ctx, "group type inferred from subject",
				"subject", roster.Subject,
				"group_type", tag,
			)
			f.deps.GroupTypes.Store(group, tag)
			return tag
		}
	}
	return ""
}

// checkSelfAdmin resolves the bot's own identities and looks them up in the
// roster.
func (f *AdditionFlow) checkSelfAdmin(ctx context.Context, roster *model.Roster) (bool, error) {
	type identity struct {
		addr   model.Address
		linked model.Address
	}

	self, err := boundedRetry(ctx, f.config, "resolve own identity", func(ctx context.Context) (identity, error) {
		addr, linked, errSelf := f.deps.Client.SelfIdentity(ctx)
		return identity{addr: addr, linked: linked}, errSelf
	})
	if err != nil {
		return false, err
	}

	return IsAdmin(roster, self.addr, self.linked), nil
}

// isAuthorized checks the phone's consent record for this worker identity.
// A missing record silently skips the phone; a lookup failure is logged and
// also skips, erring on the side of not contacting the number.
func (f *AdditionFlow) isAuthorized(ctx context.Context, phone model.MemberPhone) bool {
	_, err := f.deps.Authorizations.FindAuthorization(ctx, phone.AuthorizationKey(), f.config.WorkerID)
	if err == nil {
		return true
	}

	var notFound errs.NotFound
	if errors.As(err, &notFound) {
		slog.DebugContext(ctx, "phone has no authorization record for this worker",
			"phone", log.RedactPhone(phone.Phone),
			"worker_id", f.config.WorkerID,
		)
		return false
	}

	slog.ErrorContext(ctx, "authorization lookup failed, skipping phone",
		"error", err,
		"phone", log.RedactPhone(phone.Phone),
	)
	return false
}

// attemptAdd tries direct roster inclusion for one phone, falling back to
// an invitation on policy rejection.
func (f *AdditionFlow) attemptAdd(ctx context.Context, group model.Address, groupSubject string, phone model.MemberPhone) model.AttemptResult {
	member, err := model.NewMemberAddress(phone.Phone)
	if err != nil {
		// Malformed phone skips the affected unit only
		return model.AttemptResult{
			Phone:  phone.Phone,
			Status: model.AttemptFailed,
			Reason: err.Error(),
		}
	}

	code, err := f.updateParticipant(ctx, group, member)
	if err == nil {
		switch model.ClassifyStatusCode(code) {
		case model.StatusAccepted:
			slog.InfoContext(ctx, "participant added to group",
				"phone", log.RedactPhone(phone.Phone),
			)
			return model.AttemptResult{Phone: phone.Phone, Status: model.AttemptAdded}
		case model.StatusAlreadyPresent:
			slog.InfoContext(ctx, "participant was already in the group",
				"phone", log.RedactPhone(phone.Phone),
			)
			return model.AttemptResult{Phone: phone.Phone, Status: model.AttemptAlreadyMember}
		}
		slog.WarnContext(ctx, "participant add rejected by platform policy",
			"phone", log.RedactPhone(phone.Phone),
			"status_code", code,
		)
	} else {
		slog.WarnContext(ctx, "participant add call failed",
			"error", err,
			"phone", log.RedactPhone(phone.Phone),
		)
	}

	return f.attemptInvite(ctx, group, groupSubject, member, phone)
}

// updateParticipant issues the add-participant call. The platform gives it
// no idempotency guarantee, so the bounded retry only wraps it when the
// deployment explicitly opted in.
func (f *AdditionFlow) updateParticipant(ctx context.Context, group, member model.Address) (int, error) {
	call := func(ctx context.Context) ([]port.ParticipantStatus, error) {
		return f.deps.Client.UpdateParticipants(ctx, group, []model.Address{member}, port.ParticipantAdd)
	}

	var (
		statuses []port.ParticipantStatus
		err      error
	)
	if f.config.RetryMembershipCalls {
		statuses, err = boundedRetry(ctx, f.config, "add participant", call)
	} else {
		statuses, err = boundedOnce(ctx, f.config, call)
	}
	if err != nil {
		return 0, err
	}

	memberKey := member.NumericKey()
	for _, status := range statuses {
		if status.Address.NumericKey() == memberKey {
			return status.Code, nil
		}
	}
	if len(statuses) > 0 {
		return statuses[0].Code, nil
	}
	return 0, errs.NewUnexpected("platform returned no participant status")
}

// attemptInvite is the fallback when direct inclusion was rejected: send a
// group invitation to the phone's private address, degrading to a plain
// text link when the native invite message cannot be delivered.
func (f *AdditionFlow) attemptInvite(ctx context.Context, group model.Address, groupSubject string, member model.Address, phone model.MemberPhone) model.AttemptResult {
	code, err := boundedRetry(ctx, f.config, "generate invite code", func(ctx context.Context) (string, error) {
		return f.deps.Client.GenerateInviteCode(ctx, group)
	})
	if err != nil {
		return model.AttemptResult{
			Phone:  phone.Phone,
			Status: model.AttemptFailed,
			Reason: fmt.Sprintf("invite code generation failed: %v", err),
		}
	}

	_, err = boundedOnce(ctx, f.config, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, f.deps.Client.SendGroupInvite(ctx, member, group, groupSubject, code)
	})
	if err != nil {
		slog.WarnContext(ctx, "native invite message failed, falling back to plain link",
			"error", err,
			"phone", log.RedactPhone(phone.Phone),
		)

		link := fmt.Sprintf("https://chat.whatsapp.com/%s", code)
		content := fmt.Sprintf("Du wurdest zur Gruppe %q eingeladen. Tritt hier bei: %s", groupSubject, link)
		_, err = boundedOnce(ctx, f.config, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, f.deps.Client.SendDirectMessage(ctx, member, content)
		})
		if err != nil {
			return model.AttemptResult{
				Phone:  phone.Phone,
				Status: model.AttemptFailed,
				Reason: fmt.Sprintf("invite delivery failed: %v", err),
			}
		}
	}

	slog.InfoContext(ctx, "invitation sent",
		"phone", log.RedactPhone(phone.Phone),
	)
	return model.AttemptResult{Phone: phone.Phone, Status: model.AttemptInvited}
}

// recordEntry persists the membership record, best-effort. A persistence
// failure never aborts an otherwise successful membership change.
func (f *AdditionFlow) recordEntry(ctx context.Context, item *model.AddWorkItem, phone model.MemberPhone) {
	err := f.deps.Memberships.RecordEntry(ctx, item.RegistrationID, phone.Phone, item.GroupID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to persist membership entry",
			"error", err,
			"phone", log.RedactPhone(phone.Phone),
			log.PriorityCritical(),
		)
	}
}

// throttle pauses between per-phone operations: the long randomized window
// after a platform mutation, the short idle jitter otherwise.
func (f *AdditionFlow) throttle(ctx context.Context, attempt model.AttemptResult) {
	switch attempt.Status {
	case model.AttemptAdded, model.AttemptInvited:
		_ = utils.SleepWithJitter(ctx, f.config.SuccessBackoffMin, f.config.SuccessBackoffMax)
	default:
		_ = utils.SleepWithJitter(ctx, 0, f.config.IdleJitter)
	}
}

// finalize settles the request status once all phones were handled.
func (f *AdditionFlow) finalize(ctx context.Context, item *model.AddWorkItem, result *model.ProcessResult) error {
	if result.Fulfilled() {
		if err := f.deps.Memberships.MarkFulfilled(ctx, item.RequestID); err != nil {
			slog.ErrorContext(ctx, "failed to mark request fulfilled",
				"error", err,
				log.PriorityCritical(),
			)
		}
		slog.InfoContext(ctx, "addition request fulfilled",
			"processed_phones", result.ProcessedPhones,
			"added", result.Added,
			"invite_sent", result.InviteSent,
			"already_in_group", result.AlreadyInGroup,
		)
		return nil
	}

	return f.finalizeUnfulfilled(ctx, item, result, f.consolidatedReason(result))
}

// finalizeUnfulfilled records an unfulfilled attempt and sends the
// consolidated failure notification, both best-effort.
func (f *AdditionFlow) finalizeUnfulfilled(ctx context.Context, item *model.AddWorkItem, result *model.ProcessResult, reason string) error {
	slog.WarnContext(ctx, "addition request not fulfilled",
		"reason", reason,
		"processed_phones", result.ProcessedPhones,
		"unauthorized_phones", len(result.UnauthorizedPhones),
	)

	if err := f.deps.Memberships.MarkAttempt(ctx, item.RequestID); err != nil {
		slog.ErrorContext(ctx, "failed to mark request attempt",
			"error", err,
			log.PriorityCritical(),
		)
	}
	if err := f.deps.Memberships.SetFailureReason(ctx, item.RequestID, reason); err != nil {
		slog.ErrorContext(ctx, "failed to record failure reason", "error", err)
	}

	payload := model.AdditionFailure{
		RequestID:          item.RequestID,
		RegistrationID:     item.RegistrationID,
		GroupID:            item.GroupID,
		Reason:             reason,
		UnauthorizedPhones: result.UnauthorizedPhones,
	}
	for _, failure := range result.Failures {
		payload.FailedPhones = append(payload.FailedPhones,
			fmt.Sprintf("%s: %s", log.RedactPhone(failure.Phone), failure.Reason))
	}

	// Notification is fire-and-forget: the error is acknowledged and
	// dropped here, never propagated.
	if err := f.deps.Notifier.NotifyAdditionFailure(ctx, payload); err != nil {
		slog.ErrorContext(ctx, "addition failure notification could not be delivered", "error", err)
	}

	return nil
}

// consolidatedReason summarizes why no phone reached the group.
func (f *AdditionFlow) consolidatedReason(result *model.ProcessResult) string {
	var parts []string
	if len(result.UnauthorizedPhones) > 0 {
		parts = append(parts, fmt.Sprintf("%d phone(s) without authorization", len(result.UnauthorizedPhones)))
	}
	if len(result.Failures) > 0 {
		parts = append(parts, fmt.Sprintf("%d phone(s) failed", len(result.Failures)))
	}
	if result.ProcessedPhones == 0 && len(result.UnauthorizedPhones) == 0 {
		parts = append(parts, "no eligible phones")
	}
	if len(parts) == 0 {
		return "no phone produced a fulfilling outcome"
	}
	return strings.Join(parts, ", ")
}
