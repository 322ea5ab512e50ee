package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	userapp "github.com/Apurer/go-gin-user-directory/internal/domains/users/application"
	usertypes "github.com/Apurer/go-gin-user-directory/internal/domains/users/application/types"
	userports "github.com/Apurer/go-gin-user-directory/internal/domains/users/ports"
)

const tracerName = "github.com/Apurer/go-gin-user-directory/internal/domains/users/adapters/observability/service"

// Service decorates the user service with tracing, logging, and metrics.
type Service struct {
	inner   userports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core user service.
func New(inner userports.Service, opts ...Option) userports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) ListUsers(ctx context.Context, input usertypes.ListUsersInput) (*usertypes.UserPage, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.ListUsers", trace.WithAttributes(
		attribute.Bool("user.filter.present", input.Filter != ""),
		attribute.Int("user.page.no", input.PageNo),
		attribute.Int("user.page.size", input.PageSize),
	))
	defer span.End()
	page, err := s.inner.ListUsers(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list users")
	}
	span.SetAttributes(attribute.Int64("user.page.total", page.TotalCount), attribute.Int("user.page.returned", len(page.Users)))
	s.metrics.recordListed(ctx)
	return page, nil
}

func (s *Service) CreateUser(ctx context.Context, input usertypes.CreateUserInput) (string, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.CreateUser")
	defer span.End()
	s.logInfo(ctx, "creating user")
	id, err := s.inner.CreateUser(ctx, input)
	if err != nil {
		if errors.Is(err, userapp.ErrInvalidInput) || errors.Is(err, userapp.ErrConflict) {
			span.SetStatus(codes.Error, err.Error())
			s.metrics.recordRejected(ctx)
			s.logInfo(ctx, "user rejected", slog.String("reason", err.Error()))
			return "", err
		}
		return "", s.handleError(ctx, span, err, "failed to create user")
	}
	span.SetAttributes(attribute.String("user.id", id))
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "user created", slog.String("user_id", id))
	return id, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

type serviceMetrics struct {
	usersListed   metric.Int64Counter
	usersCreated  metric.Int64Counter
	usersRejected metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	listed, _ := m.Int64Counter("users.service.listed", metric.WithDescription("Number of user pages served"))
	created, _ := m.Int64Counter("users.service.created", metric.WithDescription("Number of users created"))
	rejected, _ := m.Int64Counter("users.service.rejected", metric.WithDescription("Number of create requests rejected by validation or conflict"))
	return serviceMetrics{usersListed: listed, usersCreated: created, usersRejected: rejected}
}

func (m serviceMetrics) recordListed(ctx context.Context) {
	if m.usersListed != nil {
		m.usersListed.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.usersCreated != nil {
		m.usersCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context) {
	if m.usersRejected != nil {
		m.usersRejected.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ userports.Service = (*Service)(nil)
