package orders

import (
	"context"
	"time"

	"github.com/lanort/pedidos/pkg/enums"
	"github.com/lanort/pedidos/pkg/logger"
)

// DefaultVersionThreshold is the first backend version that accepts aggregated orders.
const DefaultVersionThreshold = 2

// SelectStrategy probes the backend and returns the strategy its version supports.
// A failed probe optimistically selects the aggregated strategy.
func SelectStrategy(ctx context.Context, prober Prober, threshold float64, timeout time.Duration, logg *logger.Logger) enums.StrategyKind {
	if logg == nil {
		logg = logger.Nop()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	version, err := prober.Probe(ctx)
	if err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "version probe failed, using aggregated submission")
		return enums.StrategyAggregated
	}
	if version >= threshold {
		return enums.StrategyAggregated
	}
	logg.Info(logg.WithField(ctx, "backend_version", version), "backend predates aggregated orders, using sequential submission")
	return enums.StrategySequential
}

// Probed picks between aggregated and sequential delivery on every submission.
type Probed struct {
	prober     Prober
	threshold  float64
	timeout    time.Duration
	aggregated Strategy
	sequential Strategy
	logg       *logger.Logger
}

func NewProbed(prober Prober, threshold float64, timeout time.Duration, aggregated, sequential Strategy, logg *logger.Logger) *Probed {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Probed{
		prober:     prober,
		threshold:  threshold,
		timeout:    timeout,
		aggregated: aggregated,
		sequential: sequential,
		logg:       logg,
	}
}

func (p *Probed) Kind() enums.StrategyKind {
	return enums.StrategyProbed
}

func (p *Probed) Submit(ctx context.Context, order Order) (Outcome, error) {
	if SelectStrategy(ctx, p.prober, p.threshold, p.timeout, p.logg) == enums.StrategySequential {
		return p.sequential.Submit(ctx, order)
	}
	return p.aggregated.Submit(ctx, order)
}
