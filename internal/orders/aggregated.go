package orders

import (
	"context"

	"github.com/lanort/pedidos/pkg/enums"
	pkgerrors "github.com/lanort/pedidos/pkg/errors"
)

// Aggregated sends every line in a single request.
type Aggregated struct {
	client          Submitter
	serverNumbering bool
	batchMode       bool
}

// NewAggregated builds the single-request strategy. With serverNumbering the
// client number is left out and the number assigned by the backend is adopted.
func NewAggregated(client Submitter, serverNumbering, batchMode bool) *Aggregated {
	return &Aggregated{client: client, serverNumbering: serverNumbering, batchMode: batchMode}
}

func (a *Aggregated) Kind() enums.StrategyKind {
	return enums.StrategyAggregated
}

func (a *Aggregated) Submit(ctx context.Context, order Order) (Outcome, error) {
	outcome := Outcome{Strategy: enums.StrategyAggregated, OrderNumber: order.Number}

	form, err := order.AggregatedForm(!a.serverNumbering, a.batchMode)
	if err != nil {
		return outcome, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order items")
	}
	res, err := a.client.Submit(ctx, form)
	if err != nil {
		return outcome, err
	}
	if !res.Success {
		outcome.State = enums.SubmissionFailed
		outcome.Failed = len(order.Lines)
		outcome.Message = failureMessage(res.Error)
		outcome.Errors = []string{res.Error}
		return outcome, nil
	}

	if a.serverNumbering && res.OrderNumber != "" {
		outcome.OrderNumber = res.OrderNumber
	}
	outcome.State = enums.SubmissionSucceeded
	outcome.Sent = len(order.Lines)
	outcome.Message = successMessage(outcome.OrderNumber, outcome.Sent)
	return outcome, nil
}
