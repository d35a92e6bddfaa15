package panel

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dest-sports/backoffice/internal/audit"
	"github.com/dest-sports/backoffice/internal/backend"
	"github.com/dest-sports/backoffice/internal/pubsub"
	"github.com/dest-sports/backoffice/internal/viewmodel"
)

// Mutation action names used in alerts and audit entries.
const (
	ActionApprovePartner   = "approve-partner"
	ActionDisablePartner   = "disable-partner"
	ActionEnablePartner    = "enable-partner"
	ActionDeleteAccount    = "delete-account"
	ActionManualEnrollment = "manual-enrollment"
	ActionResolveSupport   = "resolve-support"
	ActionSaveSolution     = "save-support-solution"
)

// patchPartner applies patch to the cached partner and returns a revert
// closure restoring the previous value. Reports false when the partner is
// not in the cache.
func (s *Service) patchPartner(partnerID string, patch func(*viewmodel.Partner)) (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.partners {
		if s.partners[i].ID != partnerID {
			continue
		}
		snapshot := s.partners[i]
		patch(&s.partners[i])
		index := i
		return func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if index < len(s.partners) && s.partners[index].ID == partnerID {
				s.partners[index] = snapshot
			}
		}, true
	}
	return func() {}, false
}

func (s *Service) patchSupport(audience, requestID string, patch func(*viewmodel.SupportRequest)) (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue := &s.partnerSupport
	if audience == viewmodel.AudienceCustomer {
		queue = &s.customerSupport
	}
	for i := range *queue {
		if (*queue)[i].ID != requestID {
			continue
		}
		snapshot := (*queue)[i]
		patch(&(*queue)[i])
		index := i
		return func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if index < len(*queue) && (*queue)[index].ID == requestID {
				(*queue)[index] = snapshot
			}
		}, true
	}
	return func() {}, false
}

// finishMutation handles the common failure/success tail of every mutation:
// on failure the optimistic patch is reverted and an ops alert raised; on
// success the event is published. Event and alert failures are logged, never
// propagated.
func (s *Service) finishMutation(action, targetID, actor string, revert func(), event pubsub.EventType, dryRun bool, writeErr error) error {
	if writeErr != nil {
		revert()
		s.metrics.IncMutationFailures()
		log.Error("Mutation write failed, optimistic change reverted", "action", action, "target", targetID, "error", writeErr)
		if err := s.notifier.SendMutationFailureAlert(action, targetID, writeErr, dryRun); err != nil {
			log.Error("Failed to send mutation failure alert", "error", err)
		}
		if err := s.audit.Record(context.Background(), actor, action, targetID, "failed: "+writeErr.Error()); err != nil {
			log.Error("Failed to record audit entry", "error", err)
		}
		return fmt.Errorf("%s failed: %w", action, writeErr)
	}

	s.metrics.IncMutationsApplied()
	if err := s.audit.Record(context.Background(), actor, action, targetID, ""); err != nil {
		log.Error("Failed to record audit entry", "error", err)
	}
	if err := s.events.SendMessage(event, pubsub.MutationEvent{
		Event:      event,
		TargetID:   targetID,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
		Detail:     action,
	}); err != nil {
		log.Error("Failed to publish mutation event", "event", event, "error", err)
	}
	log.Info("Mutation applied", "action", action, "target", targetID, "actor", actor)
	return nil
}

// AuditLog returns the newest audit entries, newest first.
func (s *Service) AuditLog(ctx context.Context, limit int) ([]audit.Entry, error) {
	return s.audit.List(ctx, limit)
}

// ApprovePartner marks a partner verified. The cached row is patched
// optimistically; a failed write reverts it.
func (s *Service) ApprovePartner(ctx context.Context, partnerID, actor string, dryRun bool) error {
	var name string
	revert, _ := s.patchPartner(partnerID, func(p *viewmodel.Partner) {
		name = p.Name
		p.Verified = true
		p.Status = viewmodel.DeriveStatus(true, p.Disabled)
	})

	err := s.backend.SetPartnerVerified(ctx, partnerID, true)
	if err := s.finishMutation(ActionApprovePartner, partnerID, actor, revert, pubsub.EventPartnerApproved, dryRun, err); err != nil {
		return err
	}
	if name != "" {
		if err := s.notifier.SendPartnerStatusAlert(name, viewmodel.StatusActive, dryRun); err != nil {
			log.Error("Failed to send partner status alert", "error", err)
		}
	}
	return nil
}

// SetPartnerDisabled suspends or reinstates a partner.
func (s *Service) SetPartnerDisabled(ctx context.Context, partnerID string, disabled bool, actor string, dryRun bool) error {
	action := ActionDisablePartner
	if !disabled {
		action = ActionEnablePartner
	}
	var name, status string
	revert, _ := s.patchPartner(partnerID, func(p *viewmodel.Partner) {
		name = p.Name
		p.Disabled = disabled
		p.Status = viewmodel.DeriveStatus(p.Verified, disabled)
		status = p.Status
	})

	err := s.backend.SetPartnerDisabled(ctx, partnerID, disabled)
	if err := s.finishMutation(action, partnerID, actor, revert, pubsub.EventPartnerDisabled, dryRun, err); err != nil {
		return err
	}
	if name != "" {
		if err := s.notifier.SendPartnerStatusAlert(name, status, dryRun); err != nil {
			log.Error("Failed to send partner status alert", "error", err)
		}
	}
	return nil
}

// SoftDeleteAccount soft-deletes a customer account.
func (s *Service) SoftDeleteAccount(ctx context.Context, userID, actor string, dryRun bool) error {
	err := s.backend.SoftDeleteAccount(ctx, userID)
	return s.finishMutation(ActionDeleteAccount, userID, actor, func() {}, pubsub.EventAccountDeleted, dryRun, err)
}

// CreateManualEnrollment creates an enrollment on a customer's behalf. A
// missing id is generated.
func (s *Service) CreateManualEnrollment(ctx context.Context, enrollment backend.Enrollment, actor string, dryRun bool) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.UserID == "" || enrollment.PlanID == "" {
		return fmt.Errorf("manual enrollment requires a user id and a plan id")
	}
	err := s.backend.CreateManualEnrollment(ctx, enrollment)
	return s.finishMutation(ActionManualEnrollment, enrollment.ID, actor, func() {}, pubsub.EventEnrollmentCreated, dryRun, err)
}

// ResolveSupportRequest marks a ticket resolved, optimistically.
func (s *Service) ResolveSupportRequest(ctx context.Context, audience, requestID, actor string, dryRun bool) error {
	revert, _ := s.patchSupport(audience, requestID, func(r *viewmodel.SupportRequest) {
		r.Resolved = true
	})
	err := s.backend.ResolveSupportRequest(ctx, audience, requestID)
	return s.finishMutation(ActionResolveSupport, requestID, actor, revert, pubsub.EventSupportResolved, dryRun, err)
}

// SaveSupportSolution stores the written solution on a ticket,
// optimistically.
func (s *Service) SaveSupportSolution(ctx context.Context, audience, requestID, solution, actor string, dryRun bool) error {
	revert, _ := s.patchSupport(audience, requestID, func(r *viewmodel.SupportRequest) {
		r.Solution = solution
	})
	err := s.backend.SaveSupportSolution(ctx, audience, requestID, solution)
	return s.finishMutation(ActionSaveSolution, requestID, actor, revert, pubsub.EventSupportResolved, dryRun, err)
}
