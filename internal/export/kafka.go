// Package export publishes collected bulk results to Kafka.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"briteverify/internal/platform/logger"
	"briteverify/internal/platform/metrics"
	"briteverify/pkg/verification"
)

const (
	HeaderResultKind = "result-kind"
	HeaderListID     = "list-id"

	kindEmail = "email"
)

var ErrNoBrokers = errors.New("export: no kafka brokers configured")

// KafkaSink writes one record per bulk result, keyed by list id so a list's
// results land on one partition in order.
type KafkaSink struct {
	client  *kgo.Client
	topic   string
	logger  *slog.Logger
	metrics *metrics.Metrics

	partitions  int32
	replication int16
	extra       []kgo.Opt
}

type Option func(*KafkaSink)

func WithLogger(l *slog.Logger) Option {
	return func(s *KafkaSink) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *KafkaSink) {
		s.metrics = m
	}
}

// WithTopicLayout sets the partition count and replication factor EnsureTopic uses.
func WithTopicLayout(partitions int32, replication int16) Option {
	return func(s *KafkaSink) {
		s.partitions = partitions
		s.replication = replication
	}
}

// WithClientOptions passes extra options to the underlying kgo client.
func WithClientOptions(opts ...kgo.Opt) Option {
	return func(s *KafkaSink) {
		s.extra = append(s.extra, opts...)
	}
}

// NewKafkaSink connects a producer for topic.
func NewKafkaSink(brokers []string, topic string, opts ...Option) (*KafkaSink, error) {
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if topic == "" {
		return nil, errors.New("export: topic is required")
	}

	s := &KafkaSink{
		topic:       topic,
		logger:      logger.Discard(),
		partitions:  1,
		replication: 1,
	}
	for _, opt := range opts {
		opt(s)
	}

	kopts := append([]kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression(), kgo.NoCompression()),
	}, s.extra...)
	client, err := kgo.NewClient(kopts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	s.client = client
	return s, nil
}

// EnsureTopic creates the topic when it does not exist yet.
func (s *KafkaSink) EnsureTopic(ctx context.Context) error {
	adm := kadm.NewClient(s.client)

	topics, err := adm.ListTopics(ctx, s.topic)
	if err != nil {
		return fmt.Errorf("list topics: %w", err)
	}
	if detail, ok := topics[s.topic]; ok && detail.Err == nil {
		return nil
	}

	resp, err := adm.CreateTopic(ctx, s.partitions, s.replication, nil, s.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", s.topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", s.topic, resp.Err)
	}
	s.logger.InfoContext(ctx, "created export topic", "topic", s.topic, "partitions", s.partitions)
	return nil
}

// Publish produces every result of a list and waits for the broker to
// acknowledge them. Failed records are joined into one error.
func (s *KafkaSink) Publish(ctx context.Context, listID string, results []verification.BulkVerificationResult) error {
	if len(results) == 0 {
		return nil
	}

	records := make([]*kgo.Record, 0, len(results))
	for _, r := range results {
		rec, err := s.record(listID, r)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}

	var (
		errs   []error
		failed int
	)
	for _, res := range s.client.ProduceSync(ctx, records...) {
		if res.Err != nil {
			failed++
			errs = append(errs, res.Err)
		}
	}
	s.metrics.AddExported(len(records)-failed, failed)

	if failed > 0 {
		s.logger.ErrorContext(ctx, "failed to export results",
			"list_id", listID,
			"failed", failed,
			"total", len(records),
		)
		return fmt.Errorf("export list %s: %d of %d records failed: %w", listID, failed, len(records), errors.Join(errs...))
	}
	s.logger.InfoContext(ctx, "exported results", "list_id", listID, "records", len(records), "topic", s.topic)
	return nil
}

func (s *KafkaSink) record(listID string, r verification.BulkVerificationResult) (*kgo.Record, error) {
	value, err := json.Marshal(verification.BulkResultJSON{BulkVerificationResult: r})
	if err != nil {
		return nil, fmt.Errorf("encode result for list %s: %w", listID, err)
	}
	return &kgo.Record{
		Topic: s.topic,
		Key:   []byte(listID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: HeaderResultKind, Value: []byte(resultKind(r))},
			{Key: HeaderListID, Value: []byte(listID)},
		},
	}, nil
}

// resultKind is "email" for a bare email record and "contact:<kind>" for a
// contact record, e.g. "contact:email_and_phone".
func resultKind(r verification.BulkVerificationResult) string {
	switch v := r.(type) {
	case verification.BulkEmailResult:
		return kindEmail
	case verification.BulkContactResult:
		if k, ok := v.Kind(); ok {
			return "contact:" + k.String()
		}
	}
	return "unknown"
}

// Close flushes buffered records and closes the client.
func (s *KafkaSink) Close(ctx context.Context) error {
	err := s.client.Flush(ctx)
	s.client.Close()
	return err
}
