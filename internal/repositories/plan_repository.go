package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"holou/internal/models/db_models"
	"holou/pkg/utils"
)

type PlanRepositoryInterface interface {
	CreatePlan(ctx context.Context, plan *db_models.LearningPlan) error
	GetPlanByID(ctx context.Context, id uuid.UUID) (*db_models.LearningPlan, error)
	GetLatestPlanForSession(ctx context.Context, sessionKey string) (*db_models.LearningPlan, error)
	ListPlans(ctx context.Context, status db_models.PlanStatus, page, pageSize int) ([]db_models.LearningPlan, int64, error)
	ListAllPlans(ctx context.Context) ([]db_models.LearningPlan, error)
	UpdatePlanStatus(ctx context.Context, id uuid.UUID, status db_models.PlanStatus, approvedAt *int64) error
}

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) CreatePlan(ctx context.Context, plan *db_models.LearningPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *PlanRepository) GetPlanByID(ctx context.Context, id uuid.UUID) (*db_models.LearningPlan, error) {
	var plan db_models.LearningPlan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) GetLatestPlanForSession(ctx context.Context, sessionKey string) (*db_models.LearningPlan, error) {
	if sessionKey == "" {
		return nil, nil
	}
	var plan db_models.LearningPlan
	err := r.db.WithContext(ctx).
		Where("session_key = ?", sessionKey).
		Order("created_at DESC").
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) ListPlans(ctx context.Context, status db_models.PlanStatus, page, pageSize int) ([]db_models.LearningPlan, int64, error) {
	query := r.db.WithContext(ctx).Model(&db_models.LearningPlan{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var plans []db_models.LearningPlan
	err := query.
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Order("created_at DESC").
		Find(&plans).Error
	return plans, total, err
}

func (r *PlanRepository) ListAllPlans(ctx context.Context) ([]db_models.LearningPlan, error) {
	var plans []db_models.LearningPlan
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&plans).Error
	return plans, err
}

func (r *PlanRepository) UpdatePlanStatus(ctx context.Context, id uuid.UUID, status db_models.PlanStatus, approvedAt *int64) error {
	res := r.db.WithContext(ctx).
		Model(&db_models.LearningPlan{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"approved_at": approvedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrRecordNotFound
	}
	return nil
}
