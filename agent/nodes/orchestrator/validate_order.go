package orchestratornode

import (
	"context"
	"errors"
	"strings"
	"time"

	contractx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/contract"
)

var (
	ErrInvalidOrderID   = errors.New("order id is empty")
	ErrInvalidOrderText = errors.New("order description is empty")
	ErrNoWorker         = errors.New("routed worker is missing")
)

// WorkerSet is the routable view the pipeline needs from the orchestrator.
type WorkerSet interface {
	Cards() []contractx.CapabilityCard
	Worker(id string) (contractx.Worker, bool)
}

type GraphInput struct {
	Order contractx.Order
}

type GraphOutput struct {
	Completed contractx.CompletedOrder
}

type GraphState struct {
	Order     contractx.Order
	StartedAt time.Time

	Card   contractx.CapabilityCard
	Worker contractx.Worker
	Result contractx.PreparationResult
}

func ValidateOrder(ctx context.Context, in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := strings.TrimSpace(in.Order.ID)
	if id == "" {
		return nil, ErrInvalidOrderID
	}
	text := strings.TrimSpace(in.Order.Description)
	if text == "" {
		return nil, ErrInvalidOrderText
	}

	return &GraphState{
		Order:     contractx.Order{ID: id, Description: text},
		StartedAt: nowFn().UTC(),
	}, nil
}
