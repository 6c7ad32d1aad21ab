package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/contract"
)

func DispatchWorker(
	ctx context.Context,
	in *GraphState,
	workers WorkerSet,
) (*GraphState, error) {
	if in == nil || in.Card.ID == "" {
		return nil, ErrNoWorker
	}

	worker, ok := workers.Worker(in.Card.ID)
	if !ok {
		return nil, fmt.Errorf("%w: id=%s", contractx.ErrWorkerNotFound, in.Card.ID)
	}

	res, err := worker.Execute(ctx, in.Order)
	if err != nil {
		return nil, fmt.Errorf("worker %s: %w", in.Card.ID, err)
	}

	in.Worker = worker
	in.Result = res
	return in, nil
}
