package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"holou/internal/infra"
	"holou/internal/models/db_models"
	"holou/pkg/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := infra.OpenMemoryDatabase()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestPlanRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewPlanRepository(newTestDB(t))

	plan := &db_models.LearningPlan{
		SessionKey:         "s1",
		ProjectDescription: "todo app",
		DeveloperLevel:     "beginner",
		PlanData:           datatypes.JSON(`{"daily_plan":[{"day":1}]}`),
		Status:             db_models.PlanStatusPending,
		Source:             "primary",
	}
	require.NoError(t, repo.CreatePlan(ctx, plan))
	require.NotEqual(t, uuid.Nil, plan.ID)

	got, err := repo.GetPlanByID(ctx, plan.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "todo app", got.ProjectDescription)
	assert.JSONEq(t, `{"daily_plan":[{"day":1}]}`, string(got.PlanData))

	missing, err := repo.GetPlanByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	stamp := int64(1_700_000_000)
	require.NoError(t, repo.UpdatePlanStatus(ctx, plan.ID, db_models.PlanStatusApproved, &stamp))
	got, err = repo.GetPlanByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, db_models.PlanStatusApproved, got.Status)
	require.NotNil(t, got.ApprovedAt)
	assert.Equal(t, stamp, *got.ApprovedAt)

	require.NoError(t, repo.UpdatePlanStatus(ctx, plan.ID, db_models.PlanStatusRejected, nil))
	got, err = repo.GetPlanByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, db_models.PlanStatusRejected, got.Status)
	assert.Nil(t, got.ApprovedAt)

	err = repo.UpdatePlanStatus(ctx, uuid.New(), db_models.PlanStatusApproved, &stamp)
	assert.ErrorIs(t, err, utils.ErrRecordNotFound)
}

func TestPlanRepositoryLatestAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewPlanRepository(newTestDB(t))

	for i, status := range []db_models.PlanStatus{
		db_models.PlanStatusPending,
		db_models.PlanStatusApproved,
		db_models.PlanStatusApproved,
	} {
		plan := &db_models.LearningPlan{
			BaseModel:          db_models.BaseModel{CreatedAt: int64(1000 + i)},
			SessionKey:         "s1",
			ProjectDescription: "plan",
			DeveloperLevel:     "beginner",
			Status:             status,
		}
		require.NoError(t, repo.CreatePlan(ctx, plan))
	}

	latest, err := repo.GetLatestPlanForSession(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, int64(1002), latest.CreatedAt)

	none, err := repo.GetLatestPlanForSession(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, none)

	approved, total, err := repo.ListPlans(ctx, db_models.PlanStatusApproved, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, approved, 1)

	all, total, err := repo.ListPlans(ctx, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	exported, err := repo.ListAllPlans(ctx)
	require.NoError(t, err)
	assert.Len(t, exported, 3)
}

func TestWishlistUpsertByEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewWishlistRepository(newTestDB(t))

	created, err := repo.UpsertWishlist(ctx, &db_models.Wishlist{Email: "a@example.com", FirstName: "Ann", SessionKey: "s1"})
	require.NoError(t, err)
	assert.True(t, created)

	second := &db_models.Wishlist{Email: "a@example.com", FirstName: "Anna", CompanyName: "Acme", SessionKey: "s2"}
	created, err = repo.UpsertWishlist(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)

	entries, err := repo.ListWishlist(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Anna", entries[0].FirstName)
	assert.Equal(t, "Acme", entries[0].CompanyName)
	assert.Equal(t, "s2", entries[0].SessionKey)
	assert.Equal(t, entries[0].ID, second.ID)
}

func TestFeedbackAndPartnerRepositories(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	feedbackRepo := NewFeedbackRepository(db)
	partnerRepo := NewPartnerRepository(db)

	require.NoError(t, feedbackRepo.CreateFeedback(ctx, &db_models.Feedback{FeedbackText: "great"}))
	require.NoError(t, feedbackRepo.CreateFeedback(ctx, &db_models.Feedback{FeedbackText: "more days"}))

	page, err := feedbackRepo.ListFeedback(ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	all, err := feedbackRepo.ListAllFeedback(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, partnerRepo.CreatePartnerInterest(ctx, &db_models.PartnerInterest{Email: "p@example.com", CompanyName: "Acme"}))
	partners, err := partnerRepo.ListPartnerInterests(ctx)
	require.NoError(t, err)
	require.Len(t, partners, 1)
	assert.Equal(t, "Acme", partners[0].CompanyName)
}

func TestAvatarRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAvatarRepository(newTestDB(t))

	avatar := &db_models.Avatar{CharacterClass: "elf", Profession: "Web Development", GeneratedImage: "avatars/generated/x.png"}
	require.NoError(t, repo.CreateAvatar(ctx, avatar))

	got, err := repo.GetAvatarByID(ctx, avatar.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "elf", got.CharacterClass)

	missing, err := repo.GetAvatarByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := repo.ListAvatars(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
