package services

import (
	"context"
	"fmt"
	"strings"

	"holou/internal/models/db_models"
	"holou/internal/models/request_models"
	"holou/internal/repositories"
	"holou/pkg/logger"
	"holou/pkg/utils"
)

type ContactServiceInterface interface {
	JoinWishlist(ctx context.Context, sessionKey string, req request_models.WishlistRequest) (created bool, err error)
	SubmitFeedback(ctx context.Context, sessionKey string, req request_models.FeedbackRequest) error
	SubmitPartnerInterest(ctx context.Context, sessionKey string, req request_models.PartnerInterestRequest) error
	ListFeedback(ctx context.Context, page, pageSize int) ([]db_models.Feedback, error)
}

type ContactService struct {
	wishlist    repositories.WishlistRepositoryInterface
	feedback    repositories.FeedbackRepositoryInterface
	partners    repositories.PartnerRepositoryInterface
	mail        MailServiceInterface
	staffNotify string
	log         *logger.Logger
}

func NewContactService(
	wishlist repositories.WishlistRepositoryInterface,
	feedback repositories.FeedbackRepositoryInterface,
	partners repositories.PartnerRepositoryInterface,
	mail MailServiceInterface,
	staffNotify string,
	log *logger.Logger,
) ContactServiceInterface {
	return &ContactService{
		wishlist:    wishlist,
		feedback:    feedback,
		partners:    partners,
		mail:        mail,
		staffNotify: staffNotify,
		log:         log.With("service", "ContactService"),
	}
}

func (s *ContactService) JoinWishlist(ctx context.Context, sessionKey string, req request_models.WishlistRequest) (bool, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return false, fmt.Errorf("%w: email is required", utils.ErrInvalidInput)
	}

	entry := &db_models.Wishlist{
		Email:          email,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		CompanyName:    strings.TrimSpace(req.CompanyName),
		JobTitle:       strings.TrimSpace(req.JobTitle),
		AdditionalInfo: strings.TrimSpace(req.AdditionalInfo),
		SessionKey:     sessionKey,
	}
	created, err := s.wishlist.UpsertWishlist(ctx, entry)
	if err != nil {
		return false, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	if err := s.mail.SendWishlistConfirmation(email, entry.FirstName); err != nil {
		s.log.Warn("wishlist confirmation mail failed", "email", email, "error", err)
	}
	return created, nil
}

func (s *ContactService) SubmitFeedback(ctx context.Context, sessionKey string, req request_models.FeedbackRequest) error {
	text := strings.TrimSpace(req.FeedbackText)
	if text == "" {
		return fmt.Errorf("%w: feedback text is required", utils.ErrInvalidInput)
	}
	if utils.RuneLen(text) > 5000 {
		return fmt.Errorf("%w: feedback must be at most 5000 characters", utils.ErrInvalidInput)
	}

	feedback := &db_models.Feedback{
		FeedbackText: text,
		Email:        normalizeEmail(req.Email),
		Name:         strings.TrimSpace(req.Name),
		SessionKey:   sessionKey,
	}
	if err := s.feedback.CreateFeedback(ctx, feedback); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (s *ContactService) SubmitPartnerInterest(ctx context.Context, sessionKey string, req request_models.PartnerInterestRequest) error {
	email := normalizeEmail(req.Email)
	if email == "" {
		return fmt.Errorf("%w: email is required", utils.ErrInvalidInput)
	}

	partner := &db_models.PartnerInterest{
		Email:       email,
		CompanyName: strings.TrimSpace(req.CompanyName),
		Name:        strings.TrimSpace(req.Name),
		Message:     strings.TrimSpace(req.Message),
		SessionKey:  sessionKey,
	}
	if err := s.partners.CreatePartnerInterest(ctx, partner); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	if s.staffNotify != "" {
		if err := s.mail.SendPartnerNotification(s.staffNotify, partner); err != nil {
			s.log.Warn("partner notification mail failed", "error", err)
		}
	}
	return nil
}

func (s *ContactService) ListFeedback(ctx context.Context, page, pageSize int) ([]db_models.Feedback, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}
	return s.feedback.ListFeedback(ctx, page, pageSize)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
