package contract

import "context"

type Router interface {
	Select(ctx context.Context, description string, candidates []CapabilityCard) (string, error)
}

type Worker interface {
	Card() CapabilityCard
	Execute(ctx context.Context, order Order) (PreparationResult, error)
}

type ToolInvoker interface {
	Invoke(ctx context.Context, tool string, args map[string]any) (ToolResult, error)
}

// ToolGateway hands out the shared tool session, connecting it on first use.
type ToolGateway interface {
	Invoker(ctx context.Context) (ToolInvoker, error)
}
