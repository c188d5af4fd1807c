package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"holou/internal/infra"
	"holou/internal/models/db_models"
	"holou/internal/repositories"
	"holou/pkg/utils"
)

func TestExportWorkbooks(t *testing.T) {
	db, err := infra.OpenMemoryDatabase()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	ctx := context.Background()

	wishlist := repositories.NewWishlistRepository(db)
	feedback := repositories.NewFeedbackRepository(db)
	_, err = wishlist.UpsertWishlist(ctx, &db_models.Wishlist{Email: "a@example.com", FirstName: "Ada"})
	require.NoError(t, err)
	require.NoError(t, feedback.CreateFeedback(ctx, &db_models.Feedback{FeedbackText: "nice"}))

	svc := NewExportService(wishlist, feedback, repositories.NewPartnerRepository(db), repositories.NewPlanRepository(db)).(*ExportService)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	name, data, err := svc.Export(ctx, "wishlist")
	require.NoError(t, err)
	assert.Equal(t, "holou_wishlist_20260301.xlsx", name)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Email", rows[0][0])
	assert.Equal(t, "a@example.com", rows[1][0])
	assert.Equal(t, "Ada", rows[1][1])

	for _, kind := range ExportKinds {
		_, _, err := svc.Export(ctx, kind)
		assert.NoError(t, err, kind)
	}

	_, _, err = svc.Export(ctx, "passwords")
	assert.ErrorIs(t, err, utils.ErrUnknownExport)
}
