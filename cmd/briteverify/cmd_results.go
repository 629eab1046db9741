package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"briteverify/internal/export"
	"briteverify/internal/platform/metrics"
	platformredis "briteverify/internal/platform/redis"
	"briteverify/internal/results"
	"briteverify/pkg/briteverify"
)

const (
	cacheMemory   = "memory"
	cacheRedis    = "redis"
	cachePostgres = "postgres"
)

func (a *app) resultsCmd() *cobra.Command {
	var (
		cacheBackend string
		kafkaTopic   string
		completed    bool
	)

	cmd := &cobra.Command{
		Use:   "results [list-id]",
		Short: "Fetch the results of finished bulk lists",
		Long: `Fetch every result page of a finished bulk list.

Results of lists that are complete are kept in the selected cache so later runs
skip the API. When KAFKA_BROKERS is set the results are also published to the
export topic, one record per result keyed by list id.`,
		Example: `  briteverify results 6f2bd5d1-6a3c-4f0b-9d0e-0ad0b3b5b1c5
  briteverify results --completed --cache redis --kafka-topic verified-contacts`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if completed == (len(args) == 1) {
				return errors.New("give either a list id or --completed")
			}
			ctx := cmd.Context()
			m := metrics.New(a.registry)

			store, closeStore, err := a.openStore(ctx, cacheBackend, m)
			if err != nil {
				return err
			}
			defer closeStore()

			client, err := a.client(briteverify.WithResultCache(results.NewAccountCache(store, a.cfg.API.Key)))
			if err != nil {
				return err
			}

			opts := []results.Option{results.WithLogger(a.logger)}
			if len(a.cfg.Kafka.Brokers) > 0 {
				topic := a.cfg.Kafka.Topic
				if kafkaTopic != "" {
					topic = kafkaTopic
				}
				sink, err := export.NewKafkaSink(a.cfg.Kafka.Brokers, topic,
					export.WithLogger(a.logger),
					export.WithMetrics(m),
				)
				if err != nil {
					return err
				}
				defer func() {
					if err := sink.Close(context.WithoutCancel(ctx)); err != nil {
						a.logger.WarnContext(ctx, "failed to flush export sink", "error", err)
					}
				}()
				if err := sink.EnsureTopic(ctx); err != nil {
					return err
				}
				opts = append(opts, results.WithSink(sink))
			}
			collector := results.NewCollector(client, opts...)

			if completed {
				byList, err := collector.CollectCompleted(ctx)
				if renderErr := a.render(byList); renderErr != nil {
					return renderErr
				}
				return err
			}

			found, err := collector.Collect(ctx, args[0])
			if err != nil && found == nil {
				return err
			}
			if renderErr := a.render(found); renderErr != nil {
				return renderErr
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&cacheBackend, "cache", cacheMemory, "result cache backend: memory, redis or postgres")
	f.StringVar(&kafkaTopic, "kafka-topic", "", "export topic, overriding KAFKA_TOPIC")
	f.BoolVar(&completed, "completed", false, "collect every list on the first page of completed lists")
	return cmd
}

// openStore builds the selected result store. The returned func releases its
// connections.
func (a *app) openStore(ctx context.Context, backend string, m *metrics.Metrics) (results.ResultStore, func(), error) {
	ttl := a.cfg.Results.CacheTTL

	switch backend {
	case cacheMemory:
		return results.NewInMemoryStore(ttl, m), func() {}, nil

	case cacheRedis:
		client, err := platformredis.New(ctx, a.cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		if client == nil {
			return nil, nil, errors.New("--cache redis needs REDIS_URL")
		}
		return results.NewRedisStore(client.Client, ttl, m), func() { _ = client.Close() }, nil

	case cachePostgres:
		if a.cfg.Results.DatabaseURL == "" {
			return nil, nil, errors.New("--cache postgres needs DATABASE_URL")
		}
		db, err := results.OpenPostgres(ctx, a.cfg.Results.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store := results.NewPostgresStore(db, ttl, m)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, func() { _ = db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
