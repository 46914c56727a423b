package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v79/webhook"
	"gopkg.in/yaml.v3"
)

//go:embed default-events.yaml
var defaultFixtures []byte

const replayAPIVersion = "2024-06-20"

// FixtureSet is a YAML list of provider events to replay against one customer
type FixtureSet struct {
	Events []FixtureEvent `yaml:"events"`
}

type FixtureEvent struct {
	// ID defaults to evt_replay_<n>
	ID     string                 `yaml:"id"`
	Type   string                 `yaml:"type"`
	Object map[string]interface{} `yaml:"object"`
}

// loadFixtures reads a fixture file, or the built-in set when path is empty
func loadFixtures(path string) (*FixtureSet, error) {
	data := defaultFixtures
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read fixtures: %w", err)
		}
	}

	var set FixtureSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	if len(set.Events) == 0 {
		return nil, fmt.Errorf("fixture set has no events")
	}
	for i, e := range set.Events {
		if e.Type == "" {
			return nil, fmt.Errorf("fixture event %d has no type", i+1)
		}
		if e.Object == nil {
			return nil, fmt.Errorf("fixture event %d (%s) has no object", i+1, e.Type)
		}
	}
	return &set, nil
}

// envelope renders a fixture as a provider event addressed to customerID.
// Subscription objects without a period end get one 30 days out.
func (e FixtureEvent) envelope(index int, customerID string, now time.Time) ([]byte, error) {
	object := make(map[string]interface{}, len(e.Object)+2)
	for k, v := range e.Object {
		object[k] = v
	}
	object["customer"] = customerID
	if strings.HasPrefix(e.Type, "customer.subscription.") {
		if _, ok := object["current_period_end"]; !ok {
			object["current_period_end"] = now.AddDate(0, 0, 30).Unix()
		}
	}

	id := e.ID
	if id == "" {
		id = fmt.Sprintf("evt_replay_%d", index+1)
	}

	return json.Marshal(map[string]interface{}{
		"id":          id,
		"object":      "event",
		"type":        e.Type,
		"api_version": replayAPIVersion,
		"created":     now.Unix(),
		"livemode":    false,
		"data":        map[string]interface{}{"object": object},
	})
}

// sign produces the Stripe-Signature header value for payload
func sign(payload []byte, secret string, now time.Time) string {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: now,
	})
	return signed.Header
}
