package orders

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/lanort/pedidos/pkg/enums"
	"github.com/lanort/pedidos/pkg/logger"
	"github.com/lanort/pedidos/pkg/metrics"
)

// DefaultItemDelay paces per-line requests.
const DefaultItemDelay = 200 * time.Millisecond

// Sequential sends one request per line, in cart order. Each request after the
// first waits delay past the previous response, however long that response took.
// A failed line is counted and the loop moves on; only cancellation stops it.
type Sequential struct {
	client  Submitter
	delay   time.Duration
	metrics *metrics.Pipeline
	logg    *logger.Logger
}

func NewSequential(client Submitter, delay time.Duration, m *metrics.Pipeline, logg *logger.Logger) *Sequential {
	if delay < 0 {
		delay = 0
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Sequential{client: client, delay: delay, metrics: m, logg: logg}
}

func (s *Sequential) Kind() enums.StrategyKind {
	return enums.StrategySequential
}

func (s *Sequential) Submit(ctx context.Context, order Order) (Outcome, error) {
	outcome := Outcome{Strategy: enums.StrategySequential, OrderNumber: order.Number}

	for i := range order.Lines {
		if i > 0 {
			if err := s.pause(ctx); err != nil {
				return outcome, err
			}
		}
		lineCtx := s.logg.WithFields(ctx, map[string]any{"item_number": i + 1, "product_code": order.Lines[i].Code})

		res, err := s.client.Submit(ctx, order.ItemForm(i))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return outcome, ctxErr
		}
		switch {
		case err != nil:
			outcome.Failed++
			outcome.Errors = append(outcome.Errors, err.Error())
			s.metrics.IncItemSend(metrics.OutcomeFailure)
			s.logg.Error(lineCtx, "order item request failed", err)
		case !res.Success:
			outcome.Failed++
			outcome.Errors = append(outcome.Errors, res.Error)
			s.metrics.IncItemSend(metrics.OutcomeFailure)
			s.logg.Warn(s.logg.WithField(lineCtx, "reason", res.Error), "order item rejected")
		default:
			outcome.Sent++
			s.metrics.IncItemSend(metrics.OutcomeSuccess)
		}
	}

	total := len(order.Lines)
	switch {
	case outcome.Sent == total:
		outcome.State = enums.SubmissionSucceeded
		outcome.Message = successMessage(order.Number, total)
	case outcome.Sent > 0:
		outcome.State = enums.SubmissionPartiallyFailed
		outcome.Message = fmt.Sprintf("⚠️ Pedido %s enviado parcialmente: %d de %d item(ns) enviados, %d com erro", order.Number, outcome.Sent, total, outcome.Failed)
	default:
		outcome.State = enums.SubmissionFailed
		outcome.Message = failureMessage("nenhum item foi enviado")
	}
	return outcome, nil
}

// pause blocks for delay from now. The gap limiter starts drained so the wait is
// measured from the previous response rather than the previous request.
func (s *Sequential) pause(ctx context.Context) error {
	if s.delay == 0 {
		return ctx.Err()
	}
	gap := rate.NewLimiter(rate.Every(s.delay), 1)
	gap.Allow()
	if err := gap.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("pausing before next item: %w", err)
	}
	return nil
}
