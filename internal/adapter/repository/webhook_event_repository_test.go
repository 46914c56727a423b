package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wekeepgrowing/semo-billing/internal/domain/model"
	"go.uber.org/zap"
)

func TestWebhookEventRepository_RecordDelivery(t *testing.T) {
	ctx := context.Background()
	repo := NewWebhookEventRepository(newTestDB(t), zap.NewNop())

	created := time.Unix(1700000000, 0)
	data := []byte(`{"id":"evt_1","type":"invoice.payment_succeeded"}`)
	require.NoError(t, repo.RecordDelivery(ctx, "evt_1", "invoice.payment_succeeded", "2024-06-20", created, data))

	event, err := repo.GetEvent(ctx, "evt_1")
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, model.WebhookStatusReceived, event.Status)
	assert.Equal(t, 1, event.DeliveryAttempts)
	assert.JSONEq(t, string(data), string(event.Data))
	require.NotNil(t, event.StripeCreatedAt)
	assert.Equal(t, created.Unix(), event.StripeCreatedAt.Unix())

	require.NoError(t, repo.MarkOutcome(ctx, "evt_1", model.WebhookStatusCompleted, nil))
	require.NoError(t, repo.RecordDelivery(ctx, "evt_1", "invoice.payment_succeeded", "2024-06-20", created, data))

	event, err = repo.GetEvent(ctx, "evt_1")
	require.NoError(t, err)
	assert.Equal(t, 2, event.DeliveryAttempts)
	assert.Equal(t, model.WebhookStatusReceived, event.Status)
}

func TestWebhookEventRepository_MarkOutcome(t *testing.T) {
	ctx := context.Background()
	repo := NewWebhookEventRepository(newTestDB(t), zap.NewNop())

	require.NoError(t, repo.RecordDelivery(ctx, "evt_2", "invoice.payment_failed", "", time.Time{}, []byte(`{}`)))
	require.NoError(t, repo.MarkOutcome(ctx, "evt_2", model.WebhookStatusFailed, errors.New("db down")))

	event, err := repo.GetEvent(ctx, "evt_2")
	require.NoError(t, err)
	assert.Equal(t, model.WebhookStatusFailed, event.Status)
	require.NotNil(t, event.LastError)
	assert.Equal(t, "db down", *event.LastError)
	assert.NotNil(t, event.ProcessedAt)
	assert.Nil(t, event.StripeCreatedAt)

	assert.Error(t, repo.MarkOutcome(ctx, "evt_unknown", model.WebhookStatusCompleted, nil))

	missing, err := repo.GetEvent(ctx, "evt_unknown")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
