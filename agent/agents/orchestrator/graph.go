package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	nodex "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/nodes/orchestrator"
)

func (o *Orchestrator) compileProcessOrderGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_order",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateOrder(ctx, in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_order: %w", err)
	}

	if err := graph.AddLambdaNode("route_order",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RouteOrder(ctx, in, o.router, o)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node route_order: %w", err)
	}

	if err := graph.AddLambdaNode("dispatch_worker",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.DispatchWorker(ctx, in, o)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node dispatch_worker: %w", err)
	}

	if err := graph.AddLambdaNode("build_completion",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.BuildCompletion(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node build_completion: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_order"},
		{"validate_order", "route_order"},
		{"route_order", "dispatch_worker"},
		{"dispatch_worker", "build_completion"},
		{"build_completion", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.process_order"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
