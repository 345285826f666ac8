package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// SearchRunConsumer returns the durable pull consumer for search.run messages,
// creating the search stream first if it does not exist yet.
func SearchRunConsumer(broker *NatsBroker) (jetstream.Consumer, error) {
	if broker == nil || broker.js == nil {
		return nil, fmt.Errorf("NATS broker not initialized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stream, err := EnsureStream(ctx, broker, StreamName, StreamSubjects())
	if err != nil {
		return nil, err
	}

	consumerName := "consumer_" + strings.ReplaceAll(SubjectSearchRun, ".", "-")
	consumerConfig := jetstream.ConsumerConfig{
		Name:          consumerName,
		Durable:       consumerName,
		FilterSubject: SubjectSearchRun,
		AckPolicy:     jetstream.AckExplicitPolicy,
	}

	consumer, err := stream.CreateOrUpdateConsumer(ctx, consumerConfig)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("stream", StreamName).
		Str("subject", SubjectSearchRun).
		Str("consumer", consumerName).
		Msg("Got JetStream pull consumer")

	return consumer, nil
}

// EnsureStream ensures a stream exists with the specified subjects
func EnsureStream(ctx context.Context, client *NatsBroker, name string, subjects []string) (jetstream.Stream, error) {
	// Try to get the stream first
	stream, err := client.GetStream(ctx, name)
	if err != nil {
		if !errors.Is(err, jetstream.ErrStreamNotFound) && !strings.Contains(err.Error(), "stream not found") {
			log.Error().Err(err).Str("stream_name", name).Msg("Failed to get stream for unknown reasons")
			return nil, err
		}
		// If we couldn't get the stream, try to create it
		streamConfig := jetstream.StreamConfig{
			Name:     name,
			Subjects: subjects,
		}

		return client.CreateStream(ctx, streamConfig)
	}

	// Stream exists, add any missing subjects
	info, err := stream.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stream info: %w", err)
	}

	config := info.Config
	subjectSet := make(map[string]struct{}, len(config.Subjects))
	for _, s := range config.Subjects {
		subjectSet[s] = struct{}{}
	}

	hasNewSubjects := false
	for _, s := range subjects {
		if _, ok := subjectSet[s]; !ok {
			hasNewSubjects = true
			config.Subjects = append(config.Subjects, s)
		}
	}

	if !hasNewSubjects {
		return stream, nil
	}

	log.Info().Strs("subjects", config.Subjects).Str("stream_name", name).Msg("Updating stream with new subjects")
	return client.CreateStream(ctx, config)
}
