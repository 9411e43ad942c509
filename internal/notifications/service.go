package notifications

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
	"github.com/kelvin-saputra/sievo-sub000/pkg/pagination"
)

// Service defines notification list/read operations.
type Service interface {
	List(ctx context.Context, params ListParams) (*pagination.Page[models.Notification], error)
	MarkRead(ctx context.Context, recipient Recipient, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipient Recipient) (int64, error)
}

// Recipient identifies the member whose inbox is addressed.
type Recipient struct {
	OrganizationID uuid.UUID
	UserID         uuid.UUID
}

// ListParams configures pagination for notifications.
type ListParams struct {
	Recipient  Recipient
	Limit      int
	Cursor     string
	UnreadOnly bool
}

// Message is the payload other services raise for a member.
type Message struct {
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	Type           enums.NotificationType
	Title          string
	Body           string
	Link           string
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires notifications dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Send persists msg through repo, typically bound to the caller's transaction.
func Send(ctx context.Context, repo Repository, msg Message) error {
	if msg.UserID == uuid.Nil || msg.OrganizationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification recipient required")
	}
	if !msg.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid notification type")
	}
	n := &models.Notification{
		OrganizationID: msg.OrganizationID,
		UserID:         msg.UserID,
		Type:           msg.Type,
		Title:          msg.Title,
		Message:        msg.Body,
	}
	if link := strings.TrimSpace(msg.Link); link != "" {
		n.Link = &link
	}
	if err := repo.Create(ctx, n); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}
	return nil
}

func (s *service) List(ctx context.Context, params ListParams) (*pagination.Page[models.Notification], error) {
	if err := validateRecipient(params.Recipient); err != nil {
		return nil, err
	}
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, listNotificationsParams{
		Recipient:  params.Recipient,
		Page:       pagination.Params{Limit: params.Limit, Cursor: params.Cursor},
		UnreadOnly: params.UnreadOnly,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	items, next := pagination.Trim(rows, params.Limit, func(n models.Notification) pagination.Cursor {
		return pagination.Cursor{CreatedAt: n.CreatedAt, ID: n.ID}
	})
	return &pagination.Page[models.Notification]{Items: items, NextCursor: next}, nil
}

func (s *service) MarkRead(ctx context.Context, recipient Recipient, notificationID uuid.UUID) error {
	if err := validateRecipient(recipient); err != nil {
		return err
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, recipient, notificationID, s.now())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, recipient Recipient) (int64, error) {
	if err := validateRecipient(recipient); err != nil {
		return 0, err
	}

	count, err := s.repo.MarkAllRead(ctx, recipient, s.now())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}

func validateRecipient(r Recipient) error {
	if r.OrganizationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "active organization id required")
	}
	if r.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	return nil
}
