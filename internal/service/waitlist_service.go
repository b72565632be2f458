package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/cove-house/waitlist-service/internal/api/dto"
	"github.com/cove-house/waitlist-service/internal/auth"
	"github.com/cove-house/waitlist-service/internal/bucket"
	"github.com/cove-house/waitlist-service/internal/domain"
	"github.com/cove-house/waitlist-service/internal/events"
	"github.com/cove-house/waitlist-service/internal/referral"
	"github.com/cove-house/waitlist-service/internal/repository"
	"github.com/cove-house/waitlist-service/internal/validation"
	apperrors "github.com/cove-house/waitlist-service/pkg/util"
)

// MailDispatcher is the slice of the mailer the service depends on.
type MailDispatcher interface {
	SendConfirmation(ctx context.Context, kind domain.Kind, to string, cities []string) error
	SendApproval(ctx context.Context, kind domain.Kind, to string, name *string, referralLink string, cities []string) error
}

// WaitlistService coordinates the intake and approval workflows.
type WaitlistService struct {
	entries    repository.WaitlistRepository
	painPoints repository.PainPointRepository
	recorder   *events.Recorder
	mailer     MailDispatcher
	referral   *referral.Issuer
	admin      auth.AdminVerifier
	uploader   bucket.Uploader
	logger     *zap.Logger
	now        func() time.Time
}

// WaitlistDependencies bundles collaborators for the service.
type WaitlistDependencies struct {
	EntryRepo     repository.WaitlistRepository
	PainPointRepo repository.PainPointRepository
	Recorder      *events.Recorder
	Mailer        MailDispatcher
	Referral      *referral.Issuer
	Admin         auth.AdminVerifier
	Uploader      bucket.Uploader
	Logger        *zap.Logger
}

// NewWaitlistService constructs the service.
func NewWaitlistService(deps WaitlistDependencies) *WaitlistService {
	return &WaitlistService{
		entries:    deps.EntryRepo,
		painPoints: deps.PainPointRepo,
		recorder:   deps.Recorder,
		mailer:     deps.Mailer,
		referral:   deps.Referral,
		admin:      deps.Admin,
		uploader:   deps.Uploader,
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// Attachment is an optional binary upload accompanying a supply submission.
type Attachment struct {
	Filename    string
	ContentType string
	Body        io.Reader
	Size        int64
}

// ApprovalResult reports a completed approval. EmailSent is false on
// degraded success: the status change is durable but the approval email
// could not be dispatched.
type ApprovalResult struct {
	Entry        *domain.WaitlistEntry
	ReferralLink string
	EmailSent    bool
}

// SubmitDemand validates, persists and acknowledges a demand submission.
func (s *WaitlistService) SubmitDemand(ctx context.Context, in dto.DemandSubmission) (*domain.WaitlistEntry, error) {
	entry, err := validation.Demand(in)
	if err != nil {
		return nil, err
	}

	if err := s.entries.Insert(ctx, entry); err != nil {
		s.logger.Error("demand insert failed", zap.Error(err))
		return nil, apperrors.NewPersistenceError("save submission", err)
	}

	s.sendConfirmation(ctx, entry)
	s.recorder.Record(ctx, domain.EventDemandSubmission, map[string]any{
		"waitlist_id": entry.ID,
		"cities":      entry.Demand.TargetCities,
		"status":      entry.Demand.Status,
	})
	return entry, nil
}

// SubmitSupply validates, persists and acknowledges a supply submission.
// An attachment upload failure is logged and skipped; it never fails the
// submission.
func (s *WaitlistService) SubmitSupply(ctx context.Context, in dto.SupplySubmission, attachment *Attachment) (*domain.WaitlistEntry, error) {
	entry, err := validation.Supply(in)
	if err != nil {
		return nil, err
	}

	if attachment != nil && attachment.Size > 0 && s.uploader != nil && s.uploader.Enabled() {
		url, err := s.uploader.Upload(ctx, attachment.Filename, attachment.ContentType, attachment.Body, attachment.Size)
		if err != nil {
			s.logger.Warn("attachment upload failed; continuing without it", zap.Error(err))
		} else {
			entry.Supply.AttachmentURL = &url
		}
	}

	if err := s.entries.Insert(ctx, entry); err != nil {
		s.logger.Error("supply insert failed", zap.Error(err))
		return nil, apperrors.NewPersistenceError("save submission", err)
	}

	s.sendConfirmation(ctx, entry)
	s.recorder.Record(ctx, domain.EventSupplySubmission, map[string]any{
		"waitlist_id":       entry.ID,
		"willing_to_verify": entry.Supply.WillingToVerify,
		"city":              entry.Supply.City,
	})
	return entry, nil
}

// SubmitPainPoint validates and persists a housing-story submission.
func (s *WaitlistService) SubmitPainPoint(ctx context.Context, in dto.PainPointSubmission) (*domain.PainPoint, error) {
	point, err := validation.PainPoint(in)
	if err != nil {
		return nil, err
	}

	if err := s.painPoints.Insert(ctx, point); err != nil {
		s.logger.Error("pain point insert failed", zap.Error(err))
		return nil, apperrors.NewPersistenceError("save submission", err)
	}

	s.recorder.Record(ctx, domain.EventPainPointSubmitted, map[string]any{
		"pain_point_id": point.ID,
		"can_reach_out": point.CanReachOut,
	})
	return point, nil
}

// Approve is the sole gate for the pending -> approved transition.
// Authorization and the state check short-circuit before any mutation; the
// storage update is conditional, so concurrent duplicate approvals resolve
// to exactly one success. Email failure after the durable update is a
// degraded success, not a rollback.
func (s *WaitlistService) Approve(ctx context.Context, kind domain.Kind, id, credential string) (*ApprovalResult, error) {
	if !s.admin.Verify(credential) {
		return nil, apperrors.NewUnauthorized()
	}

	entry, err := s.entries.GetByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Waitlist entry")
		}
		s.logger.Error("approval lookup failed", zap.String("id", id), zap.Error(err))
		return nil, apperrors.NewPersistenceError("fetch entry", err)
	}
	if entry.ApprovalStatus == domain.ApprovalStatusApproved {
		return nil, apperrors.NewAlreadyApproved()
	}

	approvedAt := s.now().UTC()
	updated, err := s.entries.Approve(ctx, kind, id, approvedAt)
	if err != nil {
		s.logger.Error("approval update failed", zap.String("id", id), zap.Error(err))
		return nil, apperrors.NewPersistenceError("approve", err)
	}
	if !updated {
		// Lost the race against a concurrent approval.
		return nil, apperrors.NewAlreadyApproved()
	}
	entry.ApprovalStatus = domain.ApprovalStatusApproved
	entry.ApprovedAt = &approvedAt

	link := s.referral.Link(kind, id)

	emailSent := true
	if err := s.mailer.SendApproval(ctx, kind, entry.Email, entry.Name(), link, entry.TargetCities()); err != nil {
		s.logger.Warn("approval email failed; approval stands",
			zap.String("id", id),
			zap.Error(err),
		)
		emailSent = false
	}

	s.recorder.Record(ctx, approvalEventType(kind), map[string]any{
		"waitlist_id": id,
	})

	return &ApprovalResult{Entry: entry, ReferralLink: link, EmailSent: emailSent}, nil
}

// ListEntries returns all entries of a kind, newest first, for the admin
// panel.
func (s *WaitlistService) ListEntries(ctx context.Context, kind domain.Kind) ([]domain.WaitlistEntry, error) {
	entries, err := s.entries.ListByKind(ctx, kind)
	if err != nil {
		s.logger.Error("list entries failed", zap.String("kind", string(kind)), zap.Error(err))
		return nil, apperrors.NewPersistenceError("fetch entries", err)
	}
	return entries, nil
}

// RecordEvent appends a client-side analytics event, best-effort.
func (s *WaitlistService) RecordEvent(ctx context.Context, eventType string, payload map[string]any) {
	s.recorder.Record(ctx, eventType, payload)
}

func (s *WaitlistService) sendConfirmation(ctx context.Context, entry *domain.WaitlistEntry) {
	if err := s.mailer.SendConfirmation(ctx, entry.Kind, entry.Email, entry.TargetCities()); err != nil {
		s.logger.Warn("confirmation email failed",
			zap.String("id", entry.ID),
			zap.Error(err),
		)
	}
}

func approvalEventType(kind domain.Kind) string {
	if kind == domain.KindSupply {
		return domain.EventSupplyApproved
	}
	return domain.EventDemandApproved
}
