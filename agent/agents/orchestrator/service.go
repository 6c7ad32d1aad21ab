package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/contract"
	nodex "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/nodes/orchestrator"
	statex "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/state"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidOrderID   = nodex.ErrInvalidOrderID
	ErrInvalidOrderText = nodex.ErrInvalidOrderText
)

type Config struct {
	// Parallelism bounds concurrent worker executions in a batch. Values
	// below 2 process orders one at a time.
	Parallelism int
}

type Orchestrator struct {
	router contractx.Router
	log    *statex.OrderLog

	mu      sync.RWMutex
	workers map[string]contractx.Worker
	cards   []contractx.CapabilityCard

	parallelism int
	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
}

var _ nodex.WorkerSet = (*Orchestrator)(nil)

func New(router contractx.Router, orders *statex.OrderLog, cfg Config) (*Orchestrator, error) {
	if router == nil {
		return nil, errors.New("router is required")
	}
	if orders == nil {
		orders = statex.NewOrderLog()
	}

	parallelism := cfg.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}

	o := &Orchestrator{
		router:      router,
		log:         orders,
		workers:     make(map[string]contractx.Worker, 4),
		parallelism: parallelism,
		now:         time.Now,
	}

	graphRunner, err := o.compileProcessOrderGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// RegisterWorkers adds workers to the routable set. The call is all or
// nothing: any invalid or duplicate card rejects the whole batch.
func (o *Orchestrator) RegisterWorkers(workers ...contractx.Worker) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	pending := make(map[string]struct{}, len(workers))
	cards := make([]contractx.CapabilityCard, 0, len(workers))
	for _, w := range workers {
		if w == nil {
			return fmt.Errorf("%w: worker is nil", contractx.ErrValidation)
		}
		card := w.Card()
		id := strings.TrimSpace(card.ID)
		if id == "" {
			return fmt.Errorf("%w: worker card id is required", contractx.ErrValidation)
		}
		if len(card.Tags()) == 0 {
			return fmt.Errorf("%w: worker %s advertises no tags", contractx.ErrValidation, id)
		}
		if _, ok := o.workers[id]; ok {
			return fmt.Errorf("%w: %s", contractx.ErrDuplicateWorkerID, id)
		}
		if _, ok := pending[id]; ok {
			return fmt.Errorf("%w: %s", contractx.ErrDuplicateWorkerID, id)
		}
		pending[id] = struct{}{}
		card.ID = id
		cards = append(cards, card)
	}

	for i, w := range workers {
		o.workers[cards[i].ID] = w
		o.cards = append(o.cards, cards[i])
		log.Info().
			Str("worker_id", cards[i].ID).
			Str("worker_name", cards[i].DisplayName).
			Int("skills", len(cards[i].Skills)).
			Msg("worker registered")
	}
	return nil
}

// Cards returns the registered cards in registration order.
func (o *Orchestrator) Cards() []contractx.CapabilityCard {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := make([]contractx.CapabilityCard, len(o.cards))
	for i, c := range o.cards {
		out[i] = c.Clone()
	}
	return out
}

func (o *Orchestrator) Worker(id string) (contractx.Worker, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	w, ok := o.workers[id]
	return w, ok
}

// ProcessOrder routes, executes and records a single order.
func (o *Orchestrator) ProcessOrder(ctx context.Context, order contractx.Order) (contractx.CompletedOrder, error) {
	completed, err := o.run(ctx, order)
	if err != nil {
		return contractx.CompletedOrder{}, err
	}

	added, err := o.log.Append(completed)
	if err != nil {
		return contractx.CompletedOrder{}, err
	}
	return added[0], nil
}

func (o *Orchestrator) run(ctx context.Context, order contractx.Order) (contractx.CompletedOrder, error) {
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{Order: order})
	if err != nil {
		return contractx.CompletedOrder{}, err
	}
	return out.Completed, nil
}

type BatchReport struct {
	RunID    string
	Outcomes []contractx.OrderOutcome
}

func (r BatchReport) Completed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status() == contractx.OrderCompleted {
			n++
		}
	}
	return n
}

func (r BatchReport) Failed() int {
	return len(r.Outcomes) - r.Completed()
}

// ProcessBatch processes orders and reports one outcome per order, in
// submission order. A failed order never stops the batch. Completed orders
// are appended to the log in submission order whatever the parallelism.
func (o *Orchestrator) ProcessBatch(ctx context.Context, orders []contractx.Order) (BatchReport, error) {
	report := BatchReport{
		RunID:    uuid.NewString(),
		Outcomes: make([]contractx.OrderOutcome, len(orders)),
	}
	for i, order := range orders {
		report.Outcomes[i] = contractx.OrderOutcome{Index: i, Order: order}
	}

	logger := log.With().Str("run_id", report.RunID).Logger()
	logger.Info().
		Int("orders", len(orders)).
		Int("parallelism", o.parallelism).
		Msg("processing order batch")

	if o.parallelism <= 1 {
		for i := range report.Outcomes {
			o.processOutcome(ctx, &report.Outcomes[i])
			if report.Outcomes[i].Err != nil {
				continue
			}
			added, err := o.log.Append(*report.Outcomes[i].Completed)
			if err != nil {
				report.Outcomes[i].Completed = nil
				report.Outcomes[i].Err = err
				continue
			}
			report.Outcomes[i].Completed = &added[0]
		}
	} else {
		var g errgroup.Group
		g.SetLimit(o.parallelism)
		for i := range report.Outcomes {
			outcome := &report.Outcomes[i]
			g.Go(func() error {
				o.processOutcome(ctx, outcome)
				return nil
			})
		}
		_ = g.Wait()

		if err := o.appendInOrder(report.Outcomes); err != nil {
			return report, err
		}
	}

	for _, outcome := range report.Outcomes {
		if outcome.Err != nil {
			logger.Warn().
				Err(outcome.Err).
				Str("order_id", outcome.Order.ID).
				Int("index", outcome.Index).
				Msg("order failed")
		}
	}
	logger.Info().
		Int("completed", report.Completed()).
		Int("failed", report.Failed()).
		Msg("order batch finished")
	return report, nil
}

func (o *Orchestrator) processOutcome(ctx context.Context, outcome *contractx.OrderOutcome) {
	if err := ctx.Err(); err != nil {
		outcome.Err = err
		return
	}
	completed, err := o.run(ctx, outcome.Order)
	if err != nil {
		outcome.Err = err
		return
	}
	outcome.Completed = &completed
}

// appendInOrder records every completed outcome in one Append call so
// sequence numbers follow submission order.
func (o *Orchestrator) appendInOrder(outcomes []contractx.OrderOutcome) error {
	entries := make([]contractx.CompletedOrder, 0, len(outcomes))
	indexes := make([]int, 0, len(outcomes))
	for i, outcome := range outcomes {
		if outcome.Err == nil && outcome.Completed != nil {
			entries = append(entries, *outcome.Completed)
			indexes = append(indexes, i)
		}
	}
	if len(entries) == 0 {
		return nil
	}

	added, err := o.log.Append(entries...)
	if err != nil {
		return fmt.Errorf("record batch: %w", err)
	}
	for j, i := range indexes {
		entry := added[j]
		outcomes[i].Completed = &entry
	}
	return nil
}

// Summarize returns every recorded order, oldest first.
func (o *Orchestrator) Summarize() []contractx.CompletedOrder {
	return o.log.Entries()
}
