package orchestratornode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/contract"
	"github.com/rs/zerolog/log"
)

func RouteOrder(
	ctx context.Context,
	in *GraphState,
	router contractx.Router,
	workers WorkerSet,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	candidates := workers.Cards()
	id, err := router.Select(ctx, in.Order.Description, candidates)
	if err != nil {
		return nil, err
	}

	var card *contractx.CapabilityCard
	for i := range candidates {
		if candidates[i].ID == id {
			card = &candidates[i]
			break
		}
	}
	if card == nil {
		return nil, fmt.Errorf("%w: router chose %q which is not registered", contractx.ErrUnknownAgent, id)
	}

	log.Info().
		Str("order_id", in.Order.ID).
		Str("worker_id", card.ID).
		Str("worker_name", card.DisplayName).
		Str("skills", strings.Join(card.SkillNames(), ", ")).
		Str("tags", strings.Join(card.Tags(), ", ")).
		Msg("order routed to worker")

	in.Card = *card
	return in, nil
}
