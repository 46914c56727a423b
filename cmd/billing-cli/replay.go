package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	"github.com/wekeepgrowing/semo-billing/internal/infrastructure/database"
	httpServer "github.com/wekeepgrowing/semo-billing/internal/infrastructure/http"
	"github.com/wekeepgrowing/semo-billing/internal/usecase"
	"github.com/wekeepgrowing/semo-billing/pkg/messaging"
	"go.uber.org/zap"
)

// deliverer hands one signed event to the webhook pipeline and describes the outcome
type deliverer interface {
	deliver(ctx context.Context, payload []byte, signature string) (string, error)
}

// directDeliverer runs the pipeline in-process
type directDeliverer struct {
	service *usecase.WebhookService
}

func (d *directDeliverer) deliver(ctx context.Context, payload []byte, signature string) (string, error) {
	result, err := d.service.Process(ctx, payload, signature)
	if err != nil {
		return "", err
	}
	if result.Err != nil {
		return fmt.Sprintf("%s (%v)", result.Status, result.Err), nil
	}
	return string(result.Status), nil
}

// httpDeliverer posts to a running server's webhook endpoint
type httpDeliverer struct {
	client *http.Client
	url    string
}

func (d *httpDeliverer) deliver(ctx context.Context, payload []byte, signature string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", signature)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("webhook endpoint returned %s", resp.Status)
	}
	return resp.Status, nil
}

func replayCmd() *cobra.Command {
	var (
		customerID   string
		fixturesPath string
		targetURL    string
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay sample provider events for an existing customer",
		Long: `Replay signs a list of subscription and invoice events addressed to one
billing customer and delivers them, either in-process or to a running server's
/webhook endpoint with --url. The resulting customer state is printed at the end.

Examples:
  billing-cli replay --customer-id cus_123
  billing-cli replay --customer-id cus_123 --fixtures configs/example/replay-events.yaml
  billing-cli replay --customer-id cus_123 --url http://localhost:8080/webhook`,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadFixtures(fixturesPath)
			if err != nil {
				return err
			}

			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			repos := database.NewRepositories(rt.db, rt.logger)

			var d deliverer
			if targetURL != "" {
				d = &httpDeliverer{client: &http.Client{Timeout: 15 * time.Second}, url: targetURL}
			} else {
				publisher, closePublisher := rt.publisher()
				defer closePublisher()
				d = &directDeliverer{service: httpServer.NewWebhookService(rt.config, repos, publisher, rt.logger)}
			}

			return replay(cmd.Context(), cmd.OutOrStdout(), repos, d, set, customerID, rt.config.Service.StripeWebhookSecret)
		},
	}

	cmd.Flags().StringVar(&customerID, "customer-id", "", "provider customer id (cus_...) of an existing billing customer")
	cmd.Flags().StringVar(&fixturesPath, "fixtures", "", "YAML fixture file (defaults to the built-in set)")
	cmd.Flags().StringVar(&targetURL, "url", "", "webhook URL of a running server; replays in-process when empty")
	_ = cmd.MarkFlagRequired("customer-id")

	return cmd
}

// publisher returns the Redis publisher when one is configured
func (r *runtime) publisher() (messaging.Publisher, func()) {
	if r.config.Redis.Addr == "" {
		return messaging.NopPublisher{}, func() {}
	}
	client, err := messaging.NewRedisClient(r.config.Redis)
	if err != nil {
		r.logger.Warn("Redis unavailable, notifications disabled", zap.Error(err))
		return messaging.NopPublisher{}, func() {}
	}
	return client, func() { _ = client.Close() }
}

func replay(
	ctx context.Context,
	out io.Writer,
	repos *database.Repositories,
	d deliverer,
	set *FixtureSet,
	customerID string,
	secret string,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	customer, err := repos.BillingCustomer.GetByExternalCustomerID(ctx, customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return fmt.Errorf("no billing customer with id %s", customerID)
	}

	for i, event := range set.Events {
		now := time.Now()
		payload, err := event.envelope(i, customerID, now)
		if err != nil {
			return fmt.Errorf("event %d (%s): %w", i+1, event.Type, err)
		}

		outcome, err := d.deliver(ctx, payload, sign(payload, secret, now))
		if err != nil {
			return fmt.Errorf("event %d (%s): %w", i+1, event.Type, err)
		}
		fmt.Fprintf(out, "%2d  %-32s %s\n", i+1, event.Type, outcome)
	}

	return printCustomer(ctx, out, repos, customerID)
}

func printCustomer(ctx context.Context, out io.Writer, repos *database.Repositories, customerID string) error {
	customer, err := repos.BillingCustomer.GetByExternalCustomerID(ctx, customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return fmt.Errorf("billing customer %s disappeared", customerID)
	}

	count, err := repos.Payment.CountByUserID(ctx, customer.UserID)
	if err != nil {
		return err
	}

	subscriptionID := "-"
	if customer.HasSubscription() {
		subscriptionID = *customer.ExternalSubscriptionID
	}
	periodEnd := "-"
	if customer.CurrentPeriodEnd != nil {
		periodEnd = customer.CurrentPeriodEnd.UTC().Format(time.RFC3339)
	}
	status := string(customer.SubscriptionStatus)
	if customer.SubscriptionStatus == entity.SubscriptionStatusAbsent {
		status = "none"
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "customer:             %s (user %s)\n", customer.ExternalCustomerID, customer.UserID)
	fmt.Fprintf(out, "subscription:         %s\n", subscriptionID)
	fmt.Fprintf(out, "status:               %s\n", status)
	fmt.Fprintf(out, "plan:                 %s\n", customer.SubscriptionPlan)
	fmt.Fprintf(out, "current period end:   %s\n", periodEnd)
	fmt.Fprintf(out, "cancel at period end: %t\n", customer.CancelAtPeriodEnd)
	fmt.Fprintf(out, "payments:             %d\n", count)
	return nil
}
