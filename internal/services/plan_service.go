package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"holou/internal/models/db_models"
	"holou/internal/models/response_models"
	"holou/internal/repositories"
	"holou/pkg/jsonrepair"
	"holou/pkg/session"
	"holou/pkg/utils"
)

const (
	MessagePlanInvalid   = "Plan data is invalid. Please contact support."
	MessagePlanNoContent = "Approved plan has no content. Please contact support."
	MessagePlanPending   = "Your learning plan is being reviewed by our team. Please check back soon."
	MessagePlanRejected  = "This learning plan was not approved. Start a new conversation to generate a fresh one."
)

type PlanServiceInterface interface {
	CreatePlan(ctx context.Context, sessionKey string, in PlanInputs, plan *GeneratedPlan, status db_models.PlanStatus) (*db_models.LearningPlan, error)
	GetPlan(ctx context.Context, id string) (*response_models.PlanDetail, error)
	ListPlans(ctx context.Context, status string, page, pageSize int) (*response_models.PlanListResponse, error)
	ApprovePlan(ctx context.Context, id string) error
	RejectPlan(ctx context.Context, id string) error
	ResolveResults(ctx context.Context, sessionKey string, data *session.Data) (*response_models.PlanView, error)
}

type PlanService struct {
	planRepo repositories.PlanRepositoryInterface
}

func NewPlanService(planRepo repositories.PlanRepositoryInterface) PlanServiceInterface {
	return &PlanService{planRepo: planRepo}
}

func (s *PlanService) CreatePlan(ctx context.Context, sessionKey string, in PlanInputs, plan *GeneratedPlan, status db_models.PlanStatus) (*db_models.LearningPlan, error) {
	if plan == nil || plan.Content == nil || !status.Valid() {
		return nil, utils.ErrInvalidInput
	}

	content, err := json.Marshal(plan.Content)
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}

	record := &db_models.LearningPlan{
		SessionKey:         sessionKey,
		ProjectDescription: in.ProjectDescription,
		DeveloperLevel:     in.DeveloperLevel,
		Framework:          in.Framework,
		SoftwareType:       in.SoftwareType,
		PlanData:           datatypes.JSON(content),
		Status:             status,
		Source:             plan.Source,
	}
	if status == db_models.PlanStatusApproved {
		now := utils.NowUnixSeconds()
		record.ApprovedAt = &now
	}

	if err := s.planRepo.CreatePlan(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return record, nil
}

func (s *PlanService) GetPlan(ctx context.Context, id string) (*response_models.PlanDetail, error) {
	plan, err := s.findPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	return &response_models.PlanDetail{
		PlanSummary: toPlanSummary(plan),
		PlanData:    json.RawMessage(plan.PlanData),
	}, nil
}

func (s *PlanService) ListPlans(ctx context.Context, status string, page, pageSize int) (*response_models.PlanListResponse, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	planStatus := db_models.PlanStatus(strings.ToLower(strings.TrimSpace(status)))
	if planStatus != "" && !planStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", utils.ErrInvalidInput, status)
	}

	plans, total, err := s.planRepo.ListPlans(ctx, planStatus, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	summaries := make([]response_models.PlanSummary, 0, len(plans))
	for i := range plans {
		summaries = append(summaries, toPlanSummary(&plans[i]))
	}
	return &response_models.PlanListResponse{
		Plans:    summaries,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// ApprovePlan makes a plan servable. Approving an approved plan changes
// nothing, including its approval time.
func (s *PlanService) ApprovePlan(ctx context.Context, id string) error {
	plan, err := s.findPlan(ctx, id)
	if err != nil {
		return err
	}
	if plan.Status == db_models.PlanStatusApproved {
		return nil
	}

	now := utils.NowUnixSeconds()
	return s.updateStatus(ctx, plan.ID, db_models.PlanStatusApproved, &now)
}

func (s *PlanService) RejectPlan(ctx context.Context, id string) error {
	plan, err := s.findPlan(ctx, id)
	if err != nil {
		return err
	}
	if plan.Status == db_models.PlanStatusRejected {
		return nil
	}
	return s.updateStatus(ctx, plan.ID, db_models.PlanStatusRejected, nil)
}

// ResolveResults finds the plan to show a visitor: the plan remembered in
// the session, then the newest plan stored for the session key, then the
// content kept in the session when storing failed.
func (s *PlanService) ResolveResults(ctx context.Context, sessionKey string, data *session.Data) (*response_models.PlanView, error) {
	if data == nil {
		data = &session.Data{}
	}

	var plan *db_models.LearningPlan
	if id, err := uuid.Parse(data.PlanID); err == nil {
		plan, err = s.planRepo.GetPlanByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
	}
	if plan == nil {
		var err error
		plan, err = s.planRepo.GetLatestPlanForSession(ctx, sessionKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
	}
	if plan != nil {
		return renderPlan(plan.Status, plan.PlanData, planInputsOf(plan)), nil
	}

	if len(data.PlanData) > 0 {
		in := PlanInputs{
			ProjectDescription: data.ProjectDescription,
			DeveloperLevel:     data.DeveloperLevel,
			Framework:          data.Framework,
			SoftwareType:       data.SoftwareType,
		}
		return renderPlan(db_models.PlanStatusApproved, data.PlanData, in), nil
	}

	return nil, utils.ErrRecordNotFound
}

func renderPlan(status db_models.PlanStatus, content []byte, in PlanInputs) *response_models.PlanView {
	view := &response_models.PlanView{Status: string(status)}

	switch status {
	case db_models.PlanStatusPending:
		view.Message = MessagePlanPending
		return view
	case db_models.PlanStatusRejected:
		view.Message = MessagePlanRejected
		return view
	}

	doc, err := jsonrepair.ParseObject(string(content))
	if err != nil {
		view.Message = MessagePlanInvalid
		return view
	}
	normalized, err := NormalizePlan(doc, in)
	if err != nil {
		view.Message = MessagePlanNoContent
		return view
	}
	view.Plan = normalized
	return view
}

func (s *PlanService) findPlan(ctx context.Context, id string) (*db_models.LearningPlan, error) {
	planID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid plan id", utils.ErrInvalidInput)
	}
	plan, err := s.planRepo.GetPlanByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if plan == nil {
		return nil, utils.ErrRecordNotFound
	}
	return plan, nil
}

func (s *PlanService) updateStatus(ctx context.Context, id uuid.UUID, status db_models.PlanStatus, approvedAt *int64) error {
	err := s.planRepo.UpdatePlanStatus(ctx, id, status, approvedAt)
	if errors.Is(err, utils.ErrRecordNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func planInputsOf(plan *db_models.LearningPlan) PlanInputs {
	return PlanInputs{
		ProjectDescription: plan.ProjectDescription,
		DeveloperLevel:     plan.DeveloperLevel,
		Framework:          plan.Framework,
		SoftwareType:       plan.SoftwareType,
	}
}

func toPlanSummary(plan *db_models.LearningPlan) response_models.PlanSummary {
	return response_models.PlanSummary{
		ID:                 plan.ID.String(),
		ProjectDescription: plan.ProjectDescription,
		DeveloperLevel:     plan.DeveloperLevel,
		Framework:          plan.Framework,
		SoftwareType:       plan.SoftwareType,
		Status:             string(plan.Status),
		Source:             plan.Source,
		CreatedAt:          utils.FormatUnix(plan.CreatedAt),
		ApprovedAt:         utils.FormatUnixPtr(plan.ApprovedAt),
	}
}
