package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-billing/internal/domain/errors"
	"go.uber.org/zap"
)

const testUserID = "7f1c2a9e-3d4b-4e5f-8a6b-1c2d3e4f5a6b"

func TestBillingCustomerRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewBillingCustomerRepository(newTestDB(t), zap.NewNop())

	customer := &entity.BillingCustomer{
		UserID:             testUserID,
		Email:              "user@example.com",
		ExternalCustomerID: "cus_123",
	}
	require.NoError(t, repo.Create(ctx, customer))
	assert.NotZero(t, customer.ID)

	byExternal, err := repo.GetByExternalCustomerID(ctx, "cus_123")
	require.NoError(t, err)
	require.NotNil(t, byExternal)
	assert.Equal(t, testUserID, byExternal.UserID)
	assert.Equal(t, entity.SubscriptionStatusAbsent, byExternal.SubscriptionStatus)
	assert.False(t, byExternal.HasSubscription())

	byUser, err := repo.GetByUserID(ctx, testUserID)
	require.NoError(t, err)
	require.NotNil(t, byUser)
	assert.Equal(t, "cus_123", byUser.ExternalCustomerID)
}

func TestBillingCustomerRepository_GetMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewBillingCustomerRepository(newTestDB(t), zap.NewNop())

	customer, err := repo.GetByExternalCustomerID(ctx, "cus_missing")
	assert.NoError(t, err)
	assert.Nil(t, customer)

	customer, err = repo.GetByUserID(ctx, testUserID)
	assert.NoError(t, err)
	assert.Nil(t, customer)

	_, err = repo.GetByUserID(ctx, "not-a-uuid")
	assert.Error(t, err)
}

func TestBillingCustomerRepository_UpdateSubscription(t *testing.T) {
	ctx := context.Background()
	repo := NewBillingCustomerRepository(newTestDB(t), zap.NewNop())

	require.NoError(t, repo.Create(ctx, &entity.BillingCustomer{
		UserID:             testUserID,
		ExternalCustomerID: "cus_123",
	}))

	subID := "sub_1"
	periodEnd := time.Unix(1735689600, 0).UTC()
	require.NoError(t, repo.UpdateSubscription(ctx, &entity.BillingCustomer{
		ExternalCustomerID:     "cus_123",
		ExternalSubscriptionID: &subID,
		SubscriptionStatus:     entity.SubscriptionStatusActive,
		SubscriptionPlan:       "price_A",
		CurrentPeriodEnd:       &periodEnd,
	}))

	stored, err := repo.GetByExternalCustomerID(ctx, "cus_123")
	require.NoError(t, err)
	require.NotNil(t, stored.ExternalSubscriptionID)
	assert.Equal(t, "sub_1", *stored.ExternalSubscriptionID)
	assert.Equal(t, entity.SubscriptionStatusActive, stored.SubscriptionStatus)
	assert.Equal(t, "price_A", stored.SubscriptionPlan)
	require.NotNil(t, stored.CurrentPeriodEnd)
	assert.True(t, periodEnd.Equal(*stored.CurrentPeriodEnd))

	// clearing the subscription id writes NULL
	stored.ExternalSubscriptionID = nil
	stored.SubscriptionStatus = entity.SubscriptionStatusCanceled
	require.NoError(t, repo.UpdateSubscription(ctx, stored))

	stored, err = repo.GetByExternalCustomerID(ctx, "cus_123")
	require.NoError(t, err)
	assert.Nil(t, stored.ExternalSubscriptionID)
	assert.Equal(t, entity.SubscriptionStatusCanceled, stored.SubscriptionStatus)
	assert.Equal(t, "price_A", stored.SubscriptionPlan)
}

func TestBillingCustomerRepository_StatusAndCancelFlag(t *testing.T) {
	ctx := context.Background()
	repo := NewBillingCustomerRepository(newTestDB(t), zap.NewNop())

	require.NoError(t, repo.Create(ctx, &entity.BillingCustomer{
		UserID:             testUserID,
		ExternalCustomerID: "cus_123",
	}))

	require.NoError(t, repo.UpdateStatus(ctx, "cus_123", entity.SubscriptionStatusPastDue))
	require.NoError(t, repo.SetCancelAtPeriodEnd(ctx, "cus_123", true))

	stored, err := repo.GetByExternalCustomerID(ctx, "cus_123")
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionStatusPastDue, stored.SubscriptionStatus)
	assert.True(t, stored.CancelAtPeriodEnd)

	err = repo.UpdateStatus(ctx, "cus_unknown", entity.SubscriptionStatusActive)
	assert.ErrorIs(t, err, domainErrors.ErrCustomerNotFound)
}
