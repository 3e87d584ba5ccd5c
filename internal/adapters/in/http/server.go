package http

import (
	"context"
	"net/http"

	"orders/internal/adapters/in/events"
	"orders/internal/core/application/audit"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/metrics"
	"orders/internal/pkg/tenant"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

type commandHandler[C any] interface {
	Handle(ctx context.Context, cmd C) (*order.Order, error)
}

type queryHandler[Q, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

type envelopeHandler interface {
	HandleEnvelope(ctx context.Context, body []byte) events.Outcome
}

// Handlers are the use cases the API exposes.
type Handlers struct {
	CreateOrder    commandHandler[commands.CreateOrderCommand]
	MarkReceived   commandHandler[commands.MarkOrderReceivedCommand]
	MarkDispatched commandHandler[commands.MarkOrderDispatchedCommand]
	Cancel         commandHandler[commands.CancelOrderCommand]

	GetOrder       queryHandler[queries.GetOrderQuery, queries.OrderResponse]
	ListOrders     queryHandler[queries.ListOrdersQuery, []queries.OrderResponse]
	GetOrderEvents queryHandler[queries.GetOrderEventsQuery, []queries.EventResponse]

	Inbound envelopeHandler
}

type Config struct {
	CountryHeader  string
	DefaultCountry string
	// Countries are the countries requests may address.
	Countries tenant.Countries
}

// Server maps HTTP requests onto command and query handlers.
type Server struct {
	handlers Handlers
	config   Config
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

func NewServer(
	handlers Handlers,
	config Config,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) *Server {
	return &Server{
		handlers: handlers,
		config:   config,
		metrics:  m,
		gatherer: gatherer,
		logger:   logger.With(zap.String("component", "http")),
	}
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.HTTPErrorHandler = s.handleError
	e.Use(s.observe, s.auditContext)

	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(s.gatherer)))
	e.POST("/pubsub", s.Push)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1/orders")
	v1.POST("", s.CreateOrder)
	v1.GET("", s.ListOrders)
	v1.GET("/:id", s.GetOrder)
	v1.GET("/:id/events", s.GetOrderEvents)
	v1.POST("/:id/mark-received", s.MarkReceived)
	v1.POST("/:id/mark-dispatched", s.MarkDispatched)
	v1.POST("/:id/cancel", s.Cancel)
}

func (s *Server) Health(c echo.Context) error {
	return c.String(http.StatusOK, "Healthy")
}

// CreateOrder handles POST /v1/orders. The country header is required.
func (s *Server) CreateOrder(c echo.Context) error {
	actx := auditOf(c)
	if actx.Country == "" {
		return errs.NewValueIsRequiredError(s.config.CountryHeader + " header")
	}
	country, err := s.config.Countries.Resolve(actx.Country)
	if err != nil {
		return err
	}
	actx.Country = country

	var body createOrderRequest
	if err = c.Bind(&body); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	params := body.params()
	params.Country = actx.Country
	params.Audit = actx

	cmd, err := commands.NewCreateOrderCommand(params)
	if err != nil {
		return err
	}
	created, err := s.handlers.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return s.respondWithOrder(c, http.StatusCreated, created.ID(), actx.Country)
}

// MarkReceived handles POST /v1/orders/:id/mark-received.
func (s *Server) MarkReceived(c echo.Context) error {
	return transition(s, c, s.handlers.MarkReceived, commands.NewMarkOrderReceivedCommand)
}

// MarkDispatched handles POST /v1/orders/:id/mark-dispatched.
func (s *Server) MarkDispatched(c echo.Context) error {
	return transition(s, c, s.handlers.MarkDispatched, commands.NewMarkOrderDispatchedCommand)
}

// Cancel handles POST /v1/orders/:id/cancel.
func (s *Server) Cancel(c echo.Context) error {
	return transition(s, c, s.handlers.Cancel, commands.NewCancelOrderCommand)
}

func transition[C any](
	s *Server,
	c echo.Context,
	h commandHandler[C],
	build func(kernel.UUID, string, audit.Context) (C, error),
) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	actx, err := s.scopedAudit(c)
	if err != nil {
		return err
	}
	cmd, err := build(id, actx.Country, actx)
	if err != nil {
		return err
	}
	if _, err = h.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondWithOrder(c, http.StatusOK, id, actx.Country)
}

// GetOrder handles GET /v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	actx, err := s.scopedAudit(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderQuery(id, actx.Country)
	if err != nil {
		return err
	}
	found, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return notFoundAware(err)
	}
	return c.JSON(http.StatusOK, found)
}

// GetOrderEvents handles GET /v1/orders/:id/events.
func (s *Server) GetOrderEvents(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	actx, err := s.scopedAudit(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderEventsQuery(id, actx.Country)
	if err != nil {
		return err
	}
	trail, err := s.handlers.GetOrderEvents.Handle(c.Request().Context(), query)
	if err != nil {
		return notFoundAware(err)
	}
	return c.JSON(http.StatusOK, trail)
}

// ListOrders handles GET /v1/orders.
func (s *Server) ListOrders(c echo.Context) error {
	params, err := listParams(c)
	if err != nil {
		return err
	}
	actx, err := s.scopedAudit(c)
	if err != nil {
		return err
	}
	params.Country = actx.Country

	query, err := queries.NewListOrdersQuery(params)
	if err != nil {
		return err
	}
	found, err := s.handlers.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	if found == nil {
		found = []queries.OrderResponse{}
	}
	return c.JSON(http.StatusOK, found)
}

// Push handles Pub/Sub push deliveries. It always answers 204 so that the
// message is acknowledged.
func (s *Server) Push(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		s.logger.Error("read push body", zap.Error(err))
		return c.NoContent(http.StatusNoContent)
	}
	s.handlers.Inbound.HandleEnvelope(c.Request().Context(), body)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) respondWithOrder(c echo.Context, status int, id kernel.UUID, country string) error {
	query, err := queries.NewGetOrderQuery(id, country)
	if err != nil {
		return err
	}
	found, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(status, found)
}
