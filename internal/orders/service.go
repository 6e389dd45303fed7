package orders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lanort/pedidos/internal/cart"
	"github.com/lanort/pedidos/internal/catalog"
	"github.com/lanort/pedidos/pkg/enums"
	pkgerrors "github.com/lanort/pedidos/pkg/errors"
	"github.com/lanort/pedidos/pkg/logger"
	"github.com/lanort/pedidos/pkg/metrics"
)

const msgSubmissionInProgress = "Já existe um pedido sendo enviado"

// CartStore is the cart surface the pipeline reconciles after a submission.
type CartStore interface {
	Items() []cart.Item
	Clear(ctx context.Context) error
	DropSent(ctx context.Context, n int) error
}

// References resolves the selected user and payment term.
type References interface {
	User(code string) (catalog.User, bool)
	PaymentTerm(termType string) (catalog.PaymentTerm, bool)
}

// Numberer issues client-side order numbers.
type Numberer interface {
	Next(ctx context.Context) (string, error)
	Current(ctx context.Context) (int, error)
}

// ServiceOption configures optional service behavior.
type ServiceOption func(*Service)

func WithMetrics(m *metrics.Pipeline) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// Service runs the submission pipeline:
// idle -> validating -> submitting -> succeeded | partially_failed | failed -> idle.
// Only one submission runs at a time.
type Service struct {
	mu       sync.Mutex
	state    enums.SubmissionState
	last     *Outcome
	strategy Strategy
	cart     CartStore
	refs     References
	numbers  Numberer
	metrics  *metrics.Pipeline
	logg     *logger.Logger
}

func NewService(strategy Strategy, cartStore CartStore, refs References, numbers Numberer, logg *logger.Logger, opts ...ServiceOption) (*Service, error) {
	if strategy == nil {
		return nil, fmt.Errorf("submission strategy required")
	}
	if cartStore == nil {
		return nil, fmt.Errorf("cart required")
	}
	if refs == nil {
		return nil, fmt.Errorf("reference lookup required")
	}
	if numbers == nil {
		return nil, fmt.Errorf("order numberer required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	s := &Service{
		state:    enums.SubmissionIdle,
		strategy: strategy,
		cart:     cartStore,
		refs:     refs,
		numbers:  numbers,
		logg:     logg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// State returns the current pipeline state.
func (s *Service) State() enums.SubmissionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastOutcome returns the outcome of the most recent delivered submission.
func (s *Service) LastOutcome() *Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	out := *s.last
	return &out
}

// LastNumber is the last client number issued, zero-padded, or "" before the first.
func (s *Service) LastNumber(ctx context.Context) (string, error) {
	current, err := s.numbers.Current(ctx)
	if err != nil || current == 0 {
		return "", err
	}
	return fmt.Sprintf("%04d", current), nil
}

// Strategy returns the configured strategy kind.
func (s *Service) Strategy() enums.StrategyKind {
	return s.strategy.Kind()
}

// Submit validates the form, sends the cart and reconciles the cart with the outcome.
// Validation failures make no network call. A transport error leaves the cart as is.
func (s *Service) Submit(ctx context.Context, form Form) (*Outcome, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.transition(enums.SubmissionIdle)

	form = form.Normalize()
	if err := form.Validate(); err != nil {
		return nil, err
	}
	items := s.cart.Items()
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgEmptyCart)
	}

	number, err := s.numbers.Next(ctx)
	if err != nil {
		return nil, err
	}
	order := Order{
		Number:  number,
		Email:   form.Email,
		Notes:   form.Notes,
		UserRef: s.userRef(form.User),
		TermRef: s.termRef(form.PaymentTerm),
		Status:  StatusPending,
		Lines:   LinesFromCart(items),
	}

	ctx = s.logg.WithOrderNumber(ctx, order.Number)
	ctx = s.logg.WithStrategy(ctx, s.strategy.Kind().String())
	s.transition(enums.SubmissionSubmitting)
	start := time.Now()

	outcome, err := s.strategy.Submit(ctx, order)
	strategy := outcome.Strategy.String()
	s.metrics.ObserveSubmission(strategy, time.Since(start))
	if err != nil {
		s.metrics.IncSubmission(strategy, metrics.OutcomeFailure)
		s.logg.Error(ctx, "order submission aborted", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, failureMessage(rootMessage(err)))
	}

	s.transition(outcome.State)
	s.record(outcome)
	s.metrics.IncSubmission(strategy, outcomeLabel(outcome.State))

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"state":  outcome.State.String(),
		"sent":   outcome.Sent,
		"failed": outcome.Failed,
	})
	switch outcome.State {
	case enums.SubmissionSucceeded:
		s.logg.Info(logCtx, "order submitted")
		if err := s.cart.Clear(ctx); err != nil {
			s.logg.Error(logCtx, "failed to clear cart after submission", err)
			return &outcome, err
		}
	case enums.SubmissionPartiallyFailed:
		s.logg.Warn(logCtx, "order partially submitted")
		if err := s.cart.DropSent(ctx, outcome.Sent); err != nil {
			s.logg.Error(logCtx, "failed to drop sent cart lines", err)
			return &outcome, err
		}
	default:
		s.logg.Warn(logCtx, "order rejected")
	}
	return &outcome, nil
}

func (s *Service) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != enums.SubmissionIdle {
		return pkgerrors.New(pkgerrors.CodeStateConflict, msgSubmissionInProgress).
			WithDetails(map[string]any{"state": s.state.String()})
	}
	s.state = enums.SubmissionValidating
	return nil
}

func (s *Service) transition(state enums.SubmissionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *Service) record(outcome Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &outcome
}

func (s *Service) userRef(code string) string {
	if u, ok := s.refs.User(code); ok {
		return u.Label()
	}
	return ""
}

func (s *Service) termRef(termType string) string {
	if t, ok := s.refs.PaymentTerm(termType); ok {
		return t.Label()
	}
	return ""
}

func outcomeLabel(state enums.SubmissionState) string {
	switch state {
	case enums.SubmissionSucceeded:
		return metrics.OutcomeSuccess
	case enums.SubmissionPartiallyFailed:
		return metrics.OutcomePartial
	}
	return metrics.OutcomeFailure
}

func rootMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil && typed.Unwrap() != nil {
		return typed.Unwrap().Error()
	}
	return err.Error()
}
