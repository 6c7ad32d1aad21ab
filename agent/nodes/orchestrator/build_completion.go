package orchestratornode

import (
	"strings"
	"time"

	contractx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/contract"
)

func BuildCompletion(in *GraphState, nowFn func() time.Time) (GraphOutput, error) {
	if in == nil || in.Worker == nil {
		return GraphOutput{}, ErrNoWorker
	}

	text := strings.TrimSpace(in.Result.Text)
	if text == "" {
		text = "N/A"
	}

	return GraphOutput{
		Completed: contractx.CompletedOrder{
			OrderID:        in.Order.ID,
			Description:    in.Order.Description,
			ChosenWorkerID: in.Card.ID,
			WorkerName:     in.Card.DisplayName,
			SkillsUsed:     in.Card.SkillNames(),
			Status:         contractx.OrderCompleted,
			ResultText:     text,
			CompletedAt:    nowFn().UTC(),
		},
	}, nil
}
