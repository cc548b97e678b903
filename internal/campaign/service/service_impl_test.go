package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/nyarko-dennis/donor-app-backend/internal/campaign/domain"
	"github.com/nyarko-dennis/donor-app-backend/internal/campaign/repository"
	"github.com/nyarko-dennis/donor-app-backend/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

func setupService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_campaign_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&domain.Campaign{}))

	node, err := snowflake.NewNode(7)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zaptest.NewLogger(t),
		GenID: node,
		Clock: clock.NewFakeClock(testNow),
		Repo:  repository.Provide(),
	})
}

func TestCreateGeneratesSlug(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	campaign, err := svc.Create(ctx, domain.CreateCampaignRequest{Name: "Spring Appeal 2026"})
	require.NoError(t, err)
	assert.Equal(t, "spring-appeal-2026", campaign.Slug)
	assert.True(t, campaign.IsActive)
}

func TestCreateStampsInjectedClock(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	campaign, err := svc.Create(ctx, domain.CreateCampaignRequest{Name: "Clocked"})
	require.NoError(t, err)
	assert.True(t, campaign.CreatedAt.Equal(testNow))
	assert.True(t, campaign.UpdatedAt.Equal(testNow))
}

func TestCreateDuplicateSlugRejected(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	_, err := svc.Create(ctx, domain.CreateCampaignRequest{Name: "Spring Appeal"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateCampaignRequest{Name: "Spring Appeal"})
	assert.ErrorIs(t, err, domain.ErrDuplicateSlug)
}

func TestCreateRejectsInvertedDates(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, -1, 0)
	_, err := svc.Create(ctx, domain.CreateCampaignRequest{
		Name:      "Backwards",
		StartDate: &start,
		EndDate:   &end,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDates)
}

func TestUpdateRenamesSlug(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	campaign, err := svc.Create(ctx, domain.CreateCampaignRequest{Name: "Old Name"})
	require.NoError(t, err)

	newName := "New Name"
	updated, err := svc.Update(ctx, campaign.ID, domain.UpdateCampaignRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "new-name", updated.Slug)

	bySlug, err := svc.GetBySlug(ctx, "new-name")
	require.NoError(t, err)
	assert.Equal(t, campaign.ID, bySlug.ID)
}

func TestDeleteIsSoft(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	campaign, err := svc.Create(ctx, domain.CreateCampaignRequest{Name: "Short Lived"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, campaign.ID))

	_, err = svc.GetByID(ctx, campaign.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := svc.List(ctx, domain.ListCampaignRequest{})
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)
}
