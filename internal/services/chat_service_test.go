package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holou/internal/infra"
	"holou/internal/models/db_models"
	"holou/internal/models/request_models"
	"holou/internal/models/response_models"
	"holou/internal/repositories"
	"holou/pkg/logger"
	"holou/pkg/session"
)

type staticGenerator struct{}

func (staticGenerator) Generate(_ context.Context, in PlanInputs) (*GeneratedPlan, error) {
	doc, err := StaticPlan(in)
	if err != nil {
		return nil, err
	}
	return &GeneratedPlan{Content: doc, Source: StageStatic}, nil
}

type failingPlanRepo struct {
	repositories.PlanRepositoryInterface
}

func (failingPlanRepo) CreatePlan(context.Context, *db_models.LearningPlan) error {
	return errors.New("disk full")
}

func newPlanRepo(t *testing.T) repositories.PlanRepositoryInterface {
	t.Helper()
	db, err := infra.OpenMemoryDatabase()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repositories.NewPlanRepository(db)
}

func newChat(repo repositories.PlanRepositoryInterface, autoApprove bool) (*ChatService, *session.Manager, PlanServiceInterface) {
	sessions := session.NewManager(session.NewMemoryStore(), time.Hour)
	plans := NewPlanService(repo)
	chat := NewChatService(sessions, staticGenerator{}, plans, autoApprove, logger.NewNop()).(*ChatService)
	return chat, sessions, plans
}

func send(t *testing.T, chat *ChatService, kind, message string) *response_models.ChatReply {
	t.Helper()
	reply, err := chat.HandleMessage(context.Background(), "visitor", request_models.ChatRequest{Type: kind, Message: message})
	require.NoError(t, err)
	return reply
}

func TestChatFlowStoresApprovedPlan(t *testing.T) {
	chat, sessions, plans := newChat(newPlanRepo(t), true)

	reply := send(t, chat, "", "")
	assert.Equal(t, response_models.ChatStatusWaiting, reply.Status)
	assert.Equal(t, StepProjectDescription, reply.NextQuestion)

	assert.Equal(t, StepDeveloperLevel, send(t, chat, StepProjectDescription, "  A recipe planner  ").NextQuestion)
	assert.Equal(t, StepDeveloperLevel, send(t, chat, StepDeveloperLevel, "expert").NextQuestion)
	assert.Equal(t, StepSoftwareType, send(t, chat, StepDeveloperLevel, "Intermediate").NextQuestion)
	assert.Equal(t, StepFramework, send(t, chat, StepSoftwareType, "Web application").NextQuestion)

	reply = send(t, chat, StepFramework, "None")
	assert.Equal(t, response_models.ChatStatusGenerating, reply.Status)

	data, err := sessions.Load(context.Background(), "visitor")
	require.NoError(t, err)
	assert.Equal(t, "A recipe planner", data.ProjectDescription)
	assert.Equal(t, "intermediate", data.DeveloperLevel)
	assert.Equal(t, NoFrameworkPreference, data.Framework)

	reply = send(t, chat, StepGenerate, "")
	assert.Equal(t, response_models.ChatStatusSuccess, reply.Status)
	assert.Equal(t, "/results/", reply.RedirectURL)

	data, err = sessions.Load(context.Background(), "visitor")
	require.NoError(t, err)
	require.NotEmpty(t, data.PlanID)
	assert.Empty(t, data.PlanData)

	detail, err := plans.GetPlan(context.Background(), data.PlanID)
	require.NoError(t, err)
	assert.Equal(t, "approved", detail.Status)
	assert.Equal(t, StageStatic, detail.Source)
	assert.NotEmpty(t, detail.ApprovedAt)

	view, err := plans.ResolveResults(context.Background(), "visitor", data)
	require.NoError(t, err)
	assert.Empty(t, view.Message)
	assert.Len(t, view.Plan["daily_plan"], PlanDays)
}

func TestChatPendingWhenNotAutoApproved(t *testing.T) {
	chat, sessions, plans := newChat(newPlanRepo(t), false)
	send(t, chat, StepProjectDescription, "Chess clock")
	send(t, chat, StepDeveloperLevel, "1")
	send(t, chat, StepSoftwareType, "Mobile app")
	send(t, chat, StepFramework, "Flutter")
	require.Equal(t, response_models.ChatStatusSuccess, send(t, chat, StepGenerate, "").Status)

	data, err := sessions.Load(context.Background(), "visitor")
	require.NoError(t, err)
	view, err := plans.ResolveResults(context.Background(), "visitor", data)
	require.NoError(t, err)
	assert.Equal(t, "pending", view.Status)
	assert.Equal(t, MessagePlanPending, view.Message)
	assert.Nil(t, view.Plan)
}

func TestChatKeepsPlanInSessionWhenStoreFails(t *testing.T) {
	chat, sessions, plans := newChat(failingPlanRepo{newPlanRepo(t)}, true)
	send(t, chat, StepProjectDescription, "Budget tracker")
	send(t, chat, StepDeveloperLevel, "advanced")
	send(t, chat, StepSoftwareType, "Desktop app")
	send(t, chat, StepFramework, "Tauri")

	reply := send(t, chat, StepGenerate, "")
	assert.Equal(t, response_models.ChatStatusSuccess, reply.Status)

	data, err := sessions.Load(context.Background(), "visitor")
	require.NoError(t, err)
	assert.Empty(t, data.PlanID)
	require.NotEmpty(t, data.PlanData)

	view, err := plans.ResolveResults(context.Background(), "visitor", data)
	require.NoError(t, err)
	assert.Equal(t, "Budget tracker", view.Plan["project_overview"].(map[string]any)["title"])
}

func TestChatRejectsLongAndMissingAnswers(t *testing.T) {
	chat, _, _ := newChat(newPlanRepo(t), true)
	long := strings.Repeat("é", MaxChatMessageLength+1)

	for _, step := range []string{StepProjectDescription, StepDeveloperLevel, StepSoftwareType, StepFramework} {
		reply := send(t, chat, step, long)
		assert.Equal(t, response_models.ChatStatusWaiting, reply.Status, step)
		assert.Equal(t, step, reply.NextQuestion, step)
	}

	exact := strings.Repeat("é", MaxChatMessageLength)
	assert.Equal(t, StepDeveloperLevel, send(t, chat, StepProjectDescription, exact).NextQuestion)

	assert.Equal(t, StepProjectDescription, send(t, chat, StepProjectDescription, "   ").NextQuestion)

	reply := send(t, chat, StepGenerate, "")
	assert.Equal(t, response_models.ChatStatusError, reply.Status)
	assert.Equal(t, chatMissingAnswers, reply.Error)

	reply = send(t, chat, "dance", "")
	assert.Equal(t, response_models.ChatStatusError, reply.Status)
	assert.Equal(t, "Invalid message type", reply.Error)
}
