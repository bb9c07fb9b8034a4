// Package pubsub publishes match events to a Google Cloud Pub/Sub topic for
// downstream consumers that are not connected live.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	gcps "cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/pitchside/matchcast/pkg/core"
)

// Config holds Pub/Sub publisher configuration.
type Config struct {
	ProjectID       string
	TopicID         string
	CredentialsFile string
}

// Publisher sends event envelopes to a Pub/Sub topic. Each Publish waits
// for the server result so ordering guarantees survive the hop.
type Publisher struct {
	client *gcps.Client
	topic  *gcps.Topic
	logger zerolog.Logger
}

// New creates a Pub/Sub publisher and verifies the topic exists.
func New(ctx context.Context, cfg Config, log zerolog.Logger) (*Publisher, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := gcps.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	topic := client.Topic(cfg.TopicID)
	ok, err := topic.Exists(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("checking topic %s: %w", cfg.TopicID, err)
	}
	if !ok {
		client.Close()
		return nil, fmt.Errorf("pubsub topic %s does not exist", cfg.TopicID)
	}

	// Events must arrive in sequence order; one ordering key keeps the
	// topic from reordering across publish batches.
	topic.EnableMessageOrdering = true

	log.Info().Str("project", cfg.ProjectID).Str("topic", cfg.TopicID).
		Msg("Pub/Sub publisher initialized")

	return &Publisher{client: client, topic: topic, logger: log}, nil
}

// Publish sends one event envelope and waits for the server ID.
func (p *Publisher) Publish(ctx context.Context, env *core.Envelope) error {
	msg, err := buildMessage(env)
	if err != nil {
		return err
	}

	id, err := p.topic.Publish(ctx, msg).Get(ctx)
	if err != nil {
		return fmt.Errorf("publishing event %d: %w", env.EventID, err)
	}

	p.logger.Debug().Uint64("event_id", env.EventID).Str("message_id", id).
		Str("type", string(env.Type)).Msg("Event published to Pub/Sub")
	return nil
}

// Close stops the topic's publish goroutines and closes the client.
func (p *Publisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}

// buildMessage converts an envelope into a Pub/Sub message with routing
// attributes mirroring the envelope header.
func buildMessage(env *core.Envelope) (*gcps.Message, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", env.Type, err)
	}

	return &gcps.Message{
		Data:        data,
		OrderingKey: "match-events",
		Attributes: map[string]string{
			"event_id":   strconv.FormatUint(env.EventID, 10),
			"event_type": string(env.Type),
			"match_time": env.MatchTime,
		},
	}, nil
}
