package orders

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/lanort/pedidos/pkg/enums"
	"github.com/lanort/pedidos/pkg/logger"
	"github.com/lanort/pedidos/pkg/metrics"
	"github.com/lanort/pedidos/pkg/sheetapi"
)

// Submitter posts one order form.
type Submitter interface {
	Submit(ctx context.Context, form url.Values) (*sheetapi.SubmitResult, error)
}

// Prober reads the backend contract version.
type Prober interface {
	Probe(ctx context.Context) (float64, error)
}

// Outcome is the result of a delivered submission. Sent and Failed count order lines.
type Outcome struct {
	State       enums.SubmissionState `json:"state"`
	Strategy    enums.StrategyKind    `json:"strategy"`
	OrderNumber string                `json:"orderNumber"`
	Sent        int                   `json:"sent"`
	Failed      int                   `json:"failed"`
	Message     string                `json:"message"`
	Errors      []string              `json:"errors,omitempty"`
}

// Strategy delivers an order to the backend. A returned error means the request
// could not be completed at the transport level; how much of the order the backend
// kept is then unknown.
type Strategy interface {
	Kind() enums.StrategyKind
	Submit(ctx context.Context, order Order) (Outcome, error)
}

func successMessage(number string, lines int) string {
	return fmt.Sprintf("✅ Pedido %s finalizado com %d item(ns)!", number, lines)
}

func failureMessage(reason string) string {
	return fmt.Sprintf("Erro ao salvar pedido: %s", reason)
}

// Client is the backend surface the strategies need.
type Client interface {
	Submitter
	Prober
}

// StrategyOptions tunes the strategies built by NewStrategy.
type StrategyOptions struct {
	ItemDelay        time.Duration
	VersionThreshold float64
	ProbeTimeout     time.Duration
	ServerNumbering  bool
	BatchMode        bool
}

// NewStrategy builds the strategy named by kind.
func NewStrategy(kind enums.StrategyKind, client Client, opts StrategyOptions, m *metrics.Pipeline, logg *logger.Logger) (Strategy, error) {
	if client == nil {
		return nil, fmt.Errorf("order client required")
	}
	aggregated := NewAggregated(client, opts.ServerNumbering, opts.BatchMode)
	sequential := NewSequential(client, opts.ItemDelay, m, logg)
	switch kind {
	case enums.StrategyAggregated:
		return aggregated, nil
	case enums.StrategySequential:
		return sequential, nil
	case enums.StrategyProbed:
		threshold := opts.VersionThreshold
		if threshold <= 0 {
			threshold = DefaultVersionThreshold
		}
		return NewProbed(client, threshold, opts.ProbeTimeout, aggregated, sequential, logg), nil
	}
	return nil, fmt.Errorf("unknown order strategy %q", kind)
}
