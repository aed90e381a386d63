package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redants-101/nano-banana-ai/database"
	"github.com/redants-101/nano-banana-ai/internal/domain/billing"
	"github.com/redants-101/nano-banana-ai/internal/domain/generations"
	"github.com/redants-101/nano-banana-ai/internal/domain/subscriptions"
	"github.com/redants-101/nano-banana-ai/internal/domain/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// openTestDB connects to TEST_DB_URL; the tests are skipped without it.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DB_URL")
	if dsn == "" {
		t.Skip("TEST_DB_URL not set")
	}
	db, err := database.Open(dsn, true)
	require.NoError(t, err)
	return db
}

func TestSubscriptionRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()
	userID := uuid.NewString()
	subID := "sub_" + uuid.NewString()

	now := time.Now()
	require.NoError(t, repo.Upsert(ctx, &subscriptions.Subscription{
		UserID: userID, Plan: "pro_monthly", Status: subscriptions.StatusActive,
		SubscriptionID: subID, CurrentPeriodStart: &now,
	}))
	require.NoError(t, repo.Upsert(ctx, &subscriptions.Subscription{
		UserID: userID, Plan: "pro_yearly", Status: subscriptions.StatusActive, SubscriptionID: subID,
	}))

	sub, err := repo.FindActiveByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "pro_yearly", sub.Plan)

	n, err := repo.UpdateBySubscriptionID(ctx, subID, map[string]any{"status": subscriptions.StatusCancelled})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.FindActiveByUser(ctx, userID)
	assert.ErrorIs(t, err, subscriptions.ErrNotFound)
}

func TestGenerationRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewGenerationRepository(db)
	ctx := context.Background()
	userID := uuid.NewString()

	require.NoError(t, repo.Record(ctx, &generations.ImageGeneration{UserID: userID, Prompt: "a", HasImage: true}))
	require.NoError(t, repo.Record(ctx, &generations.ImageGeneration{UserID: userID, Prompt: "b"}))

	n, err := repo.CountSince(ctx, userID, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestUserRepositoryUpsertIdentity(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	account := uuid.NewString()

	first := &users.User{Provider: "github", ProviderUserID: account, Email: "a@example.com"}
	require.NoError(t, repo.UpsertIdentity(ctx, first))

	second := &users.User{Provider: "github", ProviderUserID: account, Email: "b@example.com"}
	require.NoError(t, repo.UpsertIdentity(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	found, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", found.Email)

	_, err = repo.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestWebhookEventRepositoryDeduplicates(t *testing.T) {
	db := openTestDB(t)
	repo := NewWebhookEventRepository(db)
	ctx := context.Background()
	eventID := "evt_" + uuid.NewString()

	first := &billing.WebhookEvent{Provider: "creem", EventID: eventID, EventType: "checkout.completed", PayloadJSON: "{}"}
	created, err := repo.Record(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	dup := &billing.WebhookEvent{Provider: "creem", EventID: eventID, EventType: "checkout.completed", PayloadJSON: "{}"}
	created, err = repo.Record(ctx, dup)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, dup.ID)

	require.NoError(t, repo.MarkProcessed(ctx, first.ID, ""))
}
