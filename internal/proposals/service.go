package proposals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/budgets"
	"github.com/kelvin-saputra/sievo-sub000/internal/contacts"
	"github.com/kelvin-saputra/sievo-sub000/internal/events"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
	"github.com/kelvin-saputra/sievo-sub000/pkg/pagination"
)

type plannedTotaler interface {
	Summary(ctx context.Context, organizationID, eventID uuid.UUID) (*budgets.Summary, error)
}

// Service manages client proposals.
type Service interface {
	Create(ctx context.Context, actor Actor, req CreateProposalRequest) (*ProposalDTO, error)
	Get(ctx context.Context, organizationID, id uuid.UUID) (*ProposalDTO, error)
	Update(ctx context.Context, organizationID, id uuid.UUID, req UpdateProposalRequest) (*ProposalDTO, error)
	ChangeStatus(ctx context.Context, actor Actor, id uuid.UUID, req ChangeStatusRequest) (*ProposalDTO, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	List(ctx context.Context, organizationID uuid.UUID, filters ListFilters, page pagination.Params) (*pagination.Page[ProposalDTO], error)
}

type service struct {
	repo    *Repository
	events  *events.Repository
	budgets plannedTotaler
	db      *gorm.DB
	now     func() time.Time
}

func NewService(repo *Repository, conn *gorm.DB, budgetSvc plannedTotaler) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("proposal repository required")
	}
	if conn == nil {
		return nil, fmt.Errorf("database connection required")
	}
	if budgetSvc == nil {
		return nil, fmt.Errorf("budget service required")
	}
	return &service{
		repo:    repo,
		events:  events.NewRepository(conn),
		budgets: budgetSvc,
		db:      conn,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateProposalRequest) (*ProposalDTO, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fieldError("title", "title is required")
	}
	event, err := s.events.FindByID(ctx, actor.OrganizationID, req.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fieldError("event_id", "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}

	clientID := event.ClientContactID
	if req.ClientContactID != nil {
		if err := s.checkClient(ctx, actor.OrganizationID, *req.ClientContactID); err != nil {
			return nil, err
		}
		clientID = req.ClientContactID
	}

	total, err := s.defaultTotal(ctx, actor.OrganizationID, event.ID, req.TotalAmount)
	if err != nil {
		return nil, err
	}

	p := &models.Proposal{
		OrganizationID:  actor.OrganizationID,
		EventID:         event.ID,
		ClientContactID: clientID,
		Title:           title,
		Content:         req.Content,
		Status:          enums.ProposalStatusDraft,
		TotalAmount:     total,
		ValidUntil:      req.ValidUntil,
		CreatedBy:       &actor.UserID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create proposal")
	}
	return FromModel(p), nil
}

func (s *service) Get(ctx context.Context, organizationID, id uuid.UUID) (*ProposalDTO, error) {
	p, err := s.load(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(p), nil
}

// Update edits a draft proposal.
func (s *service) Update(ctx context.Context, organizationID, id uuid.UUID, req UpdateProposalRequest) (*ProposalDTO, error) {
	p, err := s.load(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if p.Status != enums.ProposalStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only draft proposals can be edited").
			WithDetails(map[string]any{"status": p.Status})
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fieldError("title", "title cannot be empty")
		}
		p.Title = title
	}
	if req.Content != nil {
		p.Content = *req.Content
	}
	if req.ClientContactID != nil {
		if err := s.checkClient(ctx, organizationID, *req.ClientContactID); err != nil {
			return nil, err
		}
		p.ClientContactID = req.ClientContactID
	}
	if req.TotalAmount != nil {
		if req.TotalAmount.IsNegative() {
			return nil, fieldError("total_amount", "total_amount must not be negative")
		}
		p.TotalAmount = req.TotalAmount.Round(2)
	}
	if req.ValidUntil != nil {
		p.ValidUntil = req.ValidUntil
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update proposal")
	}
	return FromModel(p), nil
}

// ChangeStatus moves a proposal along draft->sent->accepted|rejected and
// rejected->draft. Recording the client's answer needs an approver role.
func (s *service) ChangeStatus(ctx context.Context, actor Actor, id uuid.UUID, req ChangeStatusRequest) (*ProposalDTO, error) {
	if !req.Status.IsValid() {
		return nil, fieldError("status", "invalid status")
	}
	p, err := s.load(ctx, actor.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	from := p.Status
	if !from.CanTransitionTo(req.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "proposal status transition not allowed").
			WithDetails(map[string]any{"from": from, "to": req.Status})
	}
	answering := req.Status == enums.ProposalStatusAccepted || req.Status == enums.ProposalStatusRejected
	if answering && !actor.Role.CanApprove() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only owners and executives record client answers")
	}

	now := s.now()
	p.Status = req.Status
	switch {
	case req.Status == enums.ProposalStatusSent:
		p.SentAt = &now
		p.RespondedAt = nil
	case answering:
		p.RespondedAt = &now
	case req.Status == enums.ProposalStatusDraft:
		p.SentAt = nil
		p.RespondedAt = nil
	}
	if err := s.repo.Transition(ctx, p, from); err != nil {
		if errors.Is(err, ErrStaleStatus) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "proposal status changed, reload and retry")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update proposal status")
	}
	return FromModel(p), nil
}

func (s *service) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, organizationID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "proposal not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete proposal")
	}
	return nil
}

func (s *service) List(ctx context.Context, organizationID uuid.UUID, filters ListFilters, page pagination.Params) (*pagination.Page[ProposalDTO], error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, fieldError("status", "invalid status")
	}
	rows, err := s.repo.List(ctx, organizationID, filters, page)
	if err != nil {
		if pagination.IsCursorError(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list proposals")
	}
	rows, next := pagination.Trim(rows, page.Limit, func(p models.Proposal) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	})
	items := make([]ProposalDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return &pagination.Page[ProposalDTO]{Items: items, NextCursor: next}, nil
}

func (s *service) load(ctx context.Context, organizationID, id uuid.UUID) (*models.Proposal, error) {
	p, err := s.repo.FindByID(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "proposal not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load proposal")
	}
	return p, nil
}

func (s *service) checkClient(ctx context.Context, organizationID, contactID uuid.UUID) error {
	contact, err := contacts.NewRepository(s.db).FindByID(ctx, organizationID, contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fieldError("client_contact_id", "client contact not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client contact")
	}
	if contact.Type != enums.ContactTypeClient {
		return fieldError("client_contact_id", "contact is not a client")
	}
	return nil
}

// defaultTotal falls back to the event's planned budget total.
func (s *service) defaultTotal(ctx context.Context, organizationID, eventID uuid.UUID, requested *decimal.Decimal) (decimal.Decimal, error) {
	if requested != nil {
		if requested.IsNegative() {
			return decimal.Zero, fieldError("total_amount", "total_amount must not be negative")
		}
		return requested.Round(2), nil
	}
	summary, err := s.budgets.Summary(ctx, organizationID, eventID)
	if err != nil {
		if pkgerrors.As(err).Code() == pkgerrors.CodeNotFound {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return summary.PlannedTotal.Round(2), nil
}

func fieldError(field, msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, msg).
		WithDetails(map[string]any{"field": field})
}
