package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"holou/internal/models/db_models"
)

type WishlistRepositoryInterface interface {
	// UpsertWishlist inserts the entry or refreshes the one with the same
	// email. created reports which happened.
	UpsertWishlist(ctx context.Context, entry *db_models.Wishlist) (created bool, err error)
	ListWishlist(ctx context.Context) ([]db_models.Wishlist, error)
}

type FeedbackRepositoryInterface interface {
	CreateFeedback(ctx context.Context, feedback *db_models.Feedback) error
	ListFeedback(ctx context.Context, page, pageSize int) ([]db_models.Feedback, error)
	ListAllFeedback(ctx context.Context) ([]db_models.Feedback, error)
}

type PartnerRepositoryInterface interface {
	CreatePartnerInterest(ctx context.Context, partner *db_models.PartnerInterest) error
	ListPartnerInterests(ctx context.Context) ([]db_models.PartnerInterest, error)
}

type WishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

var wishlistUpdatableColumns = []string{
	"first_name", "last_name", "company_name", "job_title", "additional_info", "session_key", "updated_at",
}

func (r *WishlistRepository) UpsertWishlist(ctx context.Context, entry *db_models.Wishlist) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing db_models.Wishlist
		err := tx.Where("email = ?", entry.Email).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created = true
			// a concurrent signup with the same email turns into an update
			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "email"}},
				DoUpdates: clause.AssignmentColumns(wishlistUpdatableColumns),
			}).Create(entry).Error
		}
		if err != nil {
			return err
		}

		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
		return tx.Model(&existing).Updates(map[string]interface{}{
			"first_name":      entry.FirstName,
			"last_name":       entry.LastName,
			"company_name":    entry.CompanyName,
			"job_title":       entry.JobTitle,
			"additional_info": entry.AdditionalInfo,
			"session_key":     entry.SessionKey,
		}).Error
	})
	return created, err
}

func (r *WishlistRepository) ListWishlist(ctx context.Context) ([]db_models.Wishlist, error) {
	var entries []db_models.Wishlist
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&entries).Error
	return entries, err
}

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) CreateFeedback(ctx context.Context, feedback *db_models.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *FeedbackRepository) ListFeedback(ctx context.Context, page, pageSize int) ([]db_models.Feedback, error) {
	var feedbacks []db_models.Feedback
	err := r.db.WithContext(ctx).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Order("created_at DESC").
		Find(&feedbacks).Error
	return feedbacks, err
}

func (r *FeedbackRepository) ListAllFeedback(ctx context.Context) ([]db_models.Feedback, error) {
	var feedbacks []db_models.Feedback
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&feedbacks).Error
	return feedbacks, err
}

type PartnerRepository struct {
	db *gorm.DB
}

func NewPartnerRepository(db *gorm.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

func (r *PartnerRepository) CreatePartnerInterest(ctx context.Context, partner *db_models.PartnerInterest) error {
	return r.db.WithContext(ctx).Create(partner).Error
}

func (r *PartnerRepository) ListPartnerInterests(ctx context.Context) ([]db_models.PartnerInterest, error) {
	var partners []db_models.PartnerInterest
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&partners).Error
	return partners, err
}
