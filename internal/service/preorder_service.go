package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kmohsen11/Argos/internal/entity"
	"github.com/kmohsen11/Argos/internal/metrics"
	"github.com/kmohsen11/Argos/internal/notification"
	"github.com/kmohsen11/Argos/internal/repository"
)

const (
	DefaultSubmitTimeout = 5 * time.Second
	DefaultNotifyTimeout = 5 * time.Second

	defaultRecentLimit = 50
	maxRecentLimit     = 200
)

// Result is the outcome of a pipeline run whose durable write succeeded.
// NotificationErr is set when the best-effort notification failed.
type Result struct {
	Record          *entity.PreorderRecord
	NotificationErr *entity.NotificationError
}

// Warning returns the soft warning to show next to a successful submission.
func (r *Result) Warning() string {
	if r == nil || r.NotificationErr == nil {
		return ""
	}
	return entity.NotificationWarning
}

// PreorderService runs the validate, insert, notify pipeline.
type PreorderService struct {
	repo          repository.PreorderRepository
	notifier      notification.Notifier
	metrics       *metrics.Metrics
	submitTimeout time.Duration
	notifyTimeout time.Duration
}

type Option func(*PreorderService)

func WithTimeouts(submit, notify time.Duration) Option {
	return func(s *PreorderService) {
		if submit > 0 {
			s.submitTimeout = submit
		}
		if notify > 0 {
			s.notifyTimeout = notify
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *PreorderService) { s.metrics = m }
}

func NewPreorderService(repo repository.PreorderRepository, notifier notification.Notifier, opts ...Option) *PreorderService {
	if notifier == nil {
		notifier = notification.Noop{}
	}
	s := &PreorderService{
		repo:          repo,
		notifier:      notifier,
		submitTimeout: DefaultSubmitTimeout,
		notifyTimeout: DefaultNotifyTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit runs one pipeline invocation. It returns a *entity.ValidationError
// or *entity.SubmissionError on failure. The run is detached from ctx
// cancellation; only the per-step timeouts bound it.
func (s *PreorderService) Submit(ctx context.Context, raw entity.RawPreorder) (*Result, error) {
	started := time.Now()

	req, err := entity.ValidatePreorder(raw)
	if err != nil {
		var verr *entity.ValidationError
		if errors.As(err, &verr) {
			slog.Info("Pre-order rejected", "field", verr.Field, "reason", verr.Message)
		}
		s.metrics.ObserveSubmission(metrics.OutcomeValidationError, started)
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)

	rec, err := s.insert(ctx, req)
	if err != nil {
		slog.Error("Failed to submit pre-order", "email", req.Email, "err", err)
		s.metrics.ObserveSubmission(metrics.OutcomeSubmissionError, started)
		return nil, &entity.SubmissionError{Cause: err}
	}
	slog.Info("Pre-order stored", "order_id", rec.ID, "product", rec.ProductType, "size", rec.Size)

	res := &Result{Record: rec}
	switch err := s.notify(ctx, rec); {
	case err != nil:
		res.NotificationErr = &entity.NotificationError{OrderID: rec.ID, Cause: err}
		slog.Warn("Pre-order notification failed", "order_id", rec.ID, "err", err)
		s.metrics.ObserveNotification(metrics.ResultFailed)
	case s.notifierDisabled():
		s.metrics.ObserveNotification(metrics.ResultSkipped)
	default:
		s.metrics.ObserveNotification(metrics.ResultSent)
	}

	s.metrics.ObserveSubmission(metrics.OutcomeSucceeded, started)
	return res, nil
}

func (s *PreorderService) insert(ctx context.Context, req entity.PreorderRequest) (*entity.PreorderRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.submitTimeout)
	defer cancel()
	return s.repo.Create(ctx, req)
}

func (s *PreorderService) notify(ctx context.Context, rec *entity.PreorderRecord) error {
	ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()
	return s.notifier.Notify(ctx, rec)
}

func (s *PreorderService) notifierDisabled() bool {
	_, ok := s.notifier.(notification.Noop)
	return ok
}

// Recent returns the latest stored pre-orders, newest first.
func (s *PreorderService) Recent(ctx context.Context, limit int) ([]entity.PreorderRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	return s.repo.FindRecent(ctx, limit)
}

// Choice is one select option.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Options struct {
	ProductTypes []Choice `json:"productTypes"`
	Sizes        []Choice `json:"sizes"`
	DeviceTypes  []Choice `json:"deviceTypes"`
}

// Options returns every accepted value of the enumerated fields.
func (s *PreorderService) Options() Options {
	var o Options
	for _, p := range entity.ProductTypes {
		o.ProductTypes = append(o.ProductTypes, Choice{Value: string(p), Label: p.Label()})
	}
	for _, sz := range entity.Sizes {
		o.Sizes = append(o.Sizes, Choice{Value: string(sz), Label: string(sz)})
	}
	for _, d := range entity.DeviceTypes {
		o.DeviceTypes = append(o.DeviceTypes, Choice{Value: string(d), Label: d.Label()})
	}
	return o
}

// Ping checks the datastore.
func (s *PreorderService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
