package cmd

import (
	"context"
	"errors"
	"fmt"

	"orders/internal/adapters/in/events"
	httpapi "orders/internal/adapters/in/http"
	"orders/internal/adapters/out/gateway"
	"orders/internal/adapters/out/postgres"
	"orders/internal/adapters/out/publisher"
	"orders/internal/core/application/audit"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/ports"
	"orders/internal/jobs"
	"orders/internal/pkg/metrics"

	"cloud.google.com/go/pubsub"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs  Config
	gormDB   *gorm.DB
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	pubsubClient *pubsub.Client
	publisher    ports.DomainEventPublisher
	closers      []func() error

	uowFactory *postgres.GormUnitOfWorkFactory
	gateways   *gateway.Factory
	auditor    *audit.Writer
}

// NewCompositionRoot wires the adapters. The Pub/Sub client is created only
// when a project is configured.
func NewCompositionRoot(ctx context.Context, configs Config, gormDB *gorm.DB, logger *zap.Logger) (*CompositionRoot, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	c := &CompositionRoot{
		configs:  configs,
		gormDB:   gormDB,
		logger:   logger,
		registry: registry,
		metrics:  metrics.New(registry),
		auditor:  audit.NewWriter(logger, nil),
	}

	if configs.PubSubProject != "" {
		client, err := pubsub.NewClient(ctx, configs.PubSubProject)
		if err != nil {
			return nil, fmt.Errorf("pubsub client: %w", err)
		}
		c.pubsubClient = client
		c.closers = append(c.closers, client.Close)
	}

	pub, err := c.newPublisher()
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.publisher = pub

	c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, c.publisher, logger)
	c.gateways = gateway.NewFactory(gateway.Config{
		BaseURL:       configs.GatewayBaseURL,
		CountryHeader: configs.CountryHeader,
		Timeout:       configs.GatewayTimeout,
	}, c.metrics, logger)
	return c, nil
}

// newPublisher prefers Pub/Sub, then Kafka, and drops events when neither is
// configured.
func (c *CompositionRoot) newPublisher() (ports.DomainEventPublisher, error) {
	switch {
	case c.pubsubClient != nil && c.configs.PubSubTopic != "":
		topic := c.pubsubClient.Topic(c.configs.PubSubTopic)
		c.closers = append(c.closers, func() error { topic.Stop(); return nil })
		c.logger.Info("publishing order events to pubsub", zap.String("topic", c.configs.PubSubTopic))
		pub, err := publisher.NewPubSub(topic)
		if err != nil {
			return nil, err
		}
		return pub, nil
	case c.configs.KafkaBrokers != "" && c.configs.KafkaTopic != "":
		writer := publisher.NewKafkaWriter(c.configs.KafkaBrokers, c.configs.KafkaTopic)
		c.closers = append(c.closers, writer.Close)
		c.logger.Info("publishing order events to kafka", zap.String("topic", c.configs.KafkaTopic))
		return publisher.NewKafka(writer), nil
	default:
		c.logger.Warn("no event broker configured, order events are dropped")
		return publisher.Noop{}, nil
	}
}

// Close releases broker clients in reverse order of creation.
func (c *CompositionRoot) Close() error {
	var errList []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errList = append(errList, c.closers[i]())
	}
	return errors.Join(errList...)
}

func (c *CompositionRoot) Metrics() *metrics.Metrics { return c.metrics }

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func(country string) commands.UoW {
		return c.uowFactory.Create(country)
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uow(), c.gateways, c.auditor, c.configs.Settings(), c.logger)
}

func (c *CompositionRoot) CreateMarkOrderReceivedCommandHandler() commands.MarkOrderReceivedCommandHandler {
	return commands.NewMarkOrderReceivedCommandHandler(c.uow(), c.gateways, c.auditor, c.configs.Settings())
}

func (c *CompositionRoot) CreateMarkOrderDispatchedCommandHandler() commands.MarkOrderDispatchedCommandHandler {
	return commands.NewMarkOrderDispatchedCommandHandler(c.uow(), c.auditor, c.configs.Settings())
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.uow(), c.auditor, c.configs.Settings())
}

func (c *CompositionRoot) CreateReconcilePendingEffectsCommandHandler() commands.ReconcilePendingEffectsCommandHandler {
	return commands.NewReconcilePendingEffectsCommandHandler(c.uow(), c.auditor, c.configs.Settings())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderEventsQueryHandler() queries.GetOrderEventsQueryHandler {
	return queries.NewGetOrderEventsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateDispatcher() *events.Dispatcher {
	return events.NewDispatcher(
		c.CreateMarkOrderReceivedCommandHandler(),
		c.CreateMarkOrderDispatchedCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.configs.DefaultCountry,
		c.configs.Tenants,
		c.metrics,
		c.logger,
	)
}

// CreateSubscriber returns nil when no subscription is configured.
func (c *CompositionRoot) CreateSubscriber() *events.Subscriber {
	if c.pubsubClient == nil || c.configs.PubSubSubscription == "" {
		return nil
	}
	return events.NewSubscriber(c.pubsubClient.Subscription(c.configs.PubSubSubscription), c.CreateDispatcher(), c.logger)
}

func (c *CompositionRoot) CreateHTTPServer() *httpapi.Server {
	return httpapi.NewServer(httpapi.Handlers{
		CreateOrder:    c.CreateCreateOrderCommandHandler(),
		MarkReceived:   c.CreateMarkOrderReceivedCommandHandler(),
		MarkDispatched: c.CreateMarkOrderDispatchedCommandHandler(),
		Cancel:         c.CreateCancelOrderCommandHandler(),
		GetOrder:       c.CreateGetOrderQueryHandler(),
		ListOrders:     c.CreateListOrdersQueryHandler(),
		GetOrderEvents: c.CreateGetOrderEventsQueryHandler(),
		Inbound:        c.CreateDispatcher(),
	}, httpapi.Config{
		CountryHeader:  c.configs.CountryHeader,
		DefaultCountry: c.configs.DefaultCountry,
		Countries:      c.configs.Tenants,
	}, c.metrics, c.registry, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateReconcilePendingEffectsCommandHandler(), jobs.ReconcileConfig{
		Schedule:  c.configs.ReconcileSchedule,
		Countries: c.configs.Tenants.List(),
		OlderThan: c.configs.ReconcileStaleAfter,
		Limit:     c.configs.ReconcileLimit,
	}, c.metrics, c.logger)
}

type FuncUoWFactory func(country string) commands.UoW

func (f FuncUoWFactory) Create(country string) commands.UoW {
	return f(country)
}
