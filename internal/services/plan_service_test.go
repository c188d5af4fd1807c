package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"holou/internal/models/db_models"
	"holou/pkg/session"
	"holou/pkg/utils"
)

func storePlan(t *testing.T, repo interface {
	CreatePlan(context.Context, *db_models.LearningPlan) error
}, content string, status db_models.PlanStatus) *db_models.LearningPlan {
	t.Helper()
	plan := &db_models.LearningPlan{
		SessionKey:         "visitor",
		ProjectDescription: "Recipe planner",
		DeveloperLevel:     "beginner",
		Framework:          "Vue",
		PlanData:           datatypes.JSON(content),
		Status:             status,
	}
	require.NoError(t, repo.CreatePlan(context.Background(), plan))
	return plan
}

func TestApproveAndRejectAreIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newPlanRepo(t)
	svc := NewPlanService(repo)
	plan := storePlan(t, repo, `{"daily_plan": [{"day": 1}]}`, db_models.PlanStatusPending)
	id := plan.ID.String()

	require.NoError(t, svc.ApprovePlan(ctx, id))
	first, err := svc.GetPlan(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "approved", first.Status)
	require.NotEmpty(t, first.ApprovedAt)

	require.NoError(t, svc.ApprovePlan(ctx, id))
	again, err := svc.GetPlan(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, first.ApprovedAt, again.ApprovedAt)

	require.NoError(t, svc.RejectPlan(ctx, id))
	require.NoError(t, svc.RejectPlan(ctx, id))
	rejected, err := svc.GetPlan(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "rejected", rejected.Status)
	assert.Empty(t, rejected.ApprovedAt)

	assert.ErrorIs(t, svc.ApprovePlan(ctx, uuid.NewString()), utils.ErrRecordNotFound)
	assert.ErrorIs(t, svc.RejectPlan(ctx, "not-a-uuid"), utils.ErrInvalidInput)
}

func TestListPlansValidates(t *testing.T) {
	ctx := context.Background()
	repo := newPlanRepo(t)
	svc := NewPlanService(repo)
	storePlan(t, repo, `{}`, db_models.PlanStatusPending)
	storePlan(t, repo, `{}`, db_models.PlanStatusApproved)

	list, err := svc.ListPlans(ctx, "Pending", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
	assert.Equal(t, "pending", list.Plans[0].Status)

	_, err = svc.ListPlans(ctx, "", 0, 10)
	assert.ErrorIs(t, err, utils.ErrInvalidPage)
	_, err = svc.ListPlans(ctx, "", 1, 101)
	assert.ErrorIs(t, err, utils.ErrInvalidPageSize)
	_, err = svc.ListPlans(ctx, "archived", 1, 10)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestResolveResultsMessages(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name    string
		content string
		status  db_models.PlanStatus
		message string
	}{
		{"not an object", `[1, 2]`, db_models.PlanStatusApproved, MessagePlanInvalid},
		{"no days", `{"project_overview": {"title": "x"}}`, db_models.PlanStatusApproved, MessagePlanNoContent},
		{"pending", `{"daily_plan": [{"day": 1}]}`, db_models.PlanStatusPending, MessagePlanPending},
		{"rejected", `{"daily_plan": [{"day": 1}]}`, db_models.PlanStatusRejected, MessagePlanRejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newPlanRepo(t)
			plan := storePlan(t, repo, tc.content, tc.status)

			view, err := NewPlanService(repo).ResolveResults(ctx, "someone-else", &session.Data{PlanID: plan.ID.String()})
			require.NoError(t, err)
			assert.Equal(t, string(tc.status), view.Status)
			assert.Equal(t, tc.message, view.Message)
			assert.Nil(t, view.Plan)
		})
	}
}

func TestResolveResultsLookupOrder(t *testing.T) {
	ctx := context.Background()
	repo := newPlanRepo(t)
	svc := NewPlanService(repo)

	_, err := svc.ResolveResults(ctx, "visitor", &session.Data{})
	assert.ErrorIs(t, err, utils.ErrRecordNotFound)

	sessionPlan, err := json.Marshal(map[string]any{"daily_plan": []any{map[string]any{"day": 1}}})
	require.NoError(t, err)
	view, err := svc.ResolveResults(ctx, "visitor", &session.Data{ProjectDescription: "From session", PlanData: sessionPlan})
	require.NoError(t, err)
	assert.Equal(t, "From session", view.Plan["project_overview"].(map[string]any)["title"])

	storePlan(t, repo, `{"daily_plan": [{"day": 1}]}`, db_models.PlanStatusApproved)
	view, err = svc.ResolveResults(ctx, "visitor", &session.Data{PlanID: uuid.NewString(), PlanData: sessionPlan})
	require.NoError(t, err)
	overview := view.Plan["project_overview"].(map[string]any)
	assert.Equal(t, "Recipe planner", overview["title"])
	assert.Equal(t, []any{"Vue"}, overview["recommended_tech_stack"])
}
