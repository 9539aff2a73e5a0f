package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ikigai-ua/formrelay/internal/config"
	"github.com/ikigai-ua/formrelay/internal/metrics"
	"github.com/ikigai-ua/formrelay/internal/notification"
	"github.com/ikigai-ua/formrelay/internal/storage"
)

// defaultPersistTimeout bounds the store write when the request carries no deadline.
const defaultPersistTimeout = 10 * time.Second

const tracerName = "github.com/ikigai-ua/formrelay/internal/service"

// NoComment replaces an absent message in both the email and the stored record.
const NoComment = "Немає коментаря"

// SubmissionInput is a contact-form payload as received from the caller.
type SubmissionInput struct {
	Name    string `json:"name"    validate:"required"`
	Phone   string `json:"phone"   validate:"required"`
	Message string `json:"message"`
}

// PersistResult describes the best-effort store write that follows a
// delivered notification. It is logged and counted, never returned as an error.
type PersistResult struct {
	Saved bool
	ID    string
	Err   error
}

// SubmitResult is returned when the notification was delivered.
type SubmitResult struct {
	Persist PersistResult
}

// SubmissionService handles contact-form submissions.
type SubmissionService interface {
	// Submit validates in, notifies the operator and then records the submission.
	// A nil error means the notification was delivered, whatever happened to the write.
	Submit(ctx context.Context, in SubmissionInput) (*SubmitResult, error)
	// List returns the most recent stored submissions.
	List(ctx context.Context, limit int) ([]storage.Submission, error)
	// SendTest sends a test notification using the current mail settings.
	SendTest(ctx context.Context) error
}

// Option customizes the submission service.
type Option func(*submissionServiceImpl)

// WithLocation sets the zone used to print the processing time. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *submissionServiceImpl) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithMetrics records workflow outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *submissionServiceImpl) { s.metrics = m }
}

// WithClock overrides the processing-time source.
func WithClock(now func() time.Time) Option {
	return func(s *submissionServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPersistTimeout bounds the store write when the request has no deadline.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *submissionServiceImpl) {
		if d > 0 {
			s.persistTimeout = d
		}
	}
}

// WithTracerProvider sets the provider spans are recorded on. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *submissionServiceImpl) {
		if tp != nil {
			s.tracerProvider = tp
		}
	}
}

// submissionServiceImpl implements SubmissionService.
type submissionServiceImpl struct {
	mail     config.MailConfig
	provider notification.Provider
	store    storage.SubmissionStore
	logger   *slog.Logger
	location *time.Location
	metrics  *metrics.Metrics
	now      func() time.Time
	validate *validator.Validate
	tracer   trace.Tracer

	persistTimeout time.Duration
	tracerProvider trace.TracerProvider
}

// NewSubmissionService creates a SubmissionService. provider and store are
// long-lived collaborators shared by all requests.
func NewSubmissionService(
	mailCfg config.MailConfig,
	provider notification.Provider,
	store storage.SubmissionStore,
	logger *slog.Logger,
	opts ...Option,
) SubmissionService {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	s := &submissionServiceImpl{
		mail:     mailCfg,
		provider: provider,
		store:    store,
		logger:   logger,
		location: time.UTC,
		now:      time.Now,
		validate: v,

		persistTimeout: defaultPersistTimeout,
		tracerProvider: otel.GetTracerProvider(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tracer = s.tracerProvider.Tracer(tracerName)
	return s
}

// Submit runs validate, notify, persist. Persistence is only attempted after
// a successful send and its failure does not change the result.
func (s *submissionServiceImpl) Submit(ctx context.Context, in SubmissionInput) (*SubmitResult, error) {
	if err := s.validateInput(in); err != nil {
		s.logger.Info("submission rejected", "error", err)
		s.metrics.Submission(metrics.OutcomeRejected)
		return nil, err
	}

	if missing := s.mail.Missing(); len(missing) > 0 {
		s.logger.Error("mail configuration incomplete, cannot send notification",
			"missing", missing)
		s.metrics.Submission(metrics.OutcomeConfigError)
		return nil, &ConfigError{Missing: missing}
	}

	message := in.Message
	if message == "" {
		message = NoComment
	}

	if err := s.notify(ctx, in.Name, in.Phone, message); err != nil {
		s.metrics.Submission(metrics.OutcomeDeliveryFailed)
		return nil, err
	}
	s.logger.Info("notification email sent", "name", in.Name, "phone", in.Phone)
	s.metrics.Submission(metrics.OutcomeDelivered)

	persistCtx, cancel := s.persistContext(ctx)
	defer cancel()
	result := s.persist(persistCtx, storage.NewSubmission{
		Name:    in.Name,
		Phone:   in.Phone,
		Message: message,
	})
	return &SubmitResult{Persist: result}, nil
}

// persistContext detaches the write from caller cancellation, since the email
// is already out, but keeps the request deadline or falls back to persistTimeout.
func (s *submissionServiceImpl) persistContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if dl, ok := ctx.Deadline(); ok {
		return context.WithDeadline(detached, dl)
	}
	return context.WithTimeout(detached, s.persistTimeout)
}

func (s *submissionServiceImpl) validateInput(in SubmissionInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Field: verrs[0].Field(), Message: "name and phone are required"}
	}
	return &ValidationError{Message: err.Error()}
}

func (s *submissionServiceImpl) notify(ctx context.Context, name, phone, message string) error {
	ctx, span := s.tracer.Start(ctx, "submission.notify",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("notification.provider", s.provider.Name())),
	)
	defer span.End()

	msg, err := notification.BuildSubmissionMessage(notification.SubmissionDetails{
		Name:        name,
		Phone:       phone,
		Message:     message,
		ProcessedAt: s.now().In(s.location),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		s.logger.Error("building notification failed", "error", err)
		return fmt.Errorf("building notification: %w", err)
	}

	start := time.Now()
	err = s.provider.Send(ctx, msg)
	s.metrics.ObserveSend(time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		s.logger.Error("critical failure: notification not sent",
			"provider", s.provider.Name(), "error", err)
		return &DeliveryError{Provider: s.provider.Name(), Err: err}
	}
	return nil
}

func (s *submissionServiceImpl) persist(ctx context.Context, sub storage.NewSubmission) PersistResult {
	ctx, span := s.tracer.Start(ctx, "submission.persist")
	defer span.End()

	rec, err := s.store.Add(ctx, sub)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store write failed")
		s.logger.Warn("failed to save contact request, notification email was already sent",
			"name", sub.Name, "phone", sub.Phone, "error", err)
		s.metrics.Persist(metrics.PersistFailed)
		return PersistResult{Err: err}
	}

	span.SetAttributes(attribute.String("submission.id", rec.ID))
	s.logger.Info("contact request saved", "id", rec.ID, "name", sub.Name, "phone", sub.Phone)
	s.metrics.Persist(metrics.PersistSaved)
	return PersistResult{Saved: true, ID: rec.ID}
}

// List returns the most recent stored submissions.
func (s *submissionServiceImpl) List(ctx context.Context, limit int) ([]storage.Submission, error) {
	subs, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	return subs, nil
}

// SendTest sends a test notification so SMTP credentials can be checked
// without submitting the form.
func (s *submissionServiceImpl) SendTest(ctx context.Context) error {
	if missing := s.mail.Missing(); len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	msg := notification.BuildTestMessage(s.now().In(s.location))
	if err := s.provider.Send(ctx, msg); err != nil {
		return &DeliveryError{Provider: s.provider.Name(), Err: err}
	}
	return nil
}
