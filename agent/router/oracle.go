package router

import (
	"context"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/contract"
	"github.com/rs/zerolog/log"
)

// Oracle asks a chat model which card should take the order and maps the
// answered display name back to a card id.
type Oracle struct {
	runner compose.Runnable[map[string]any, *schema.Message]
}

var _ contractx.Router = (*Oracle)(nil)

func NewOracle(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (*Oracle, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: router prompt", contractx.ErrPromptMissing)
	}

	runner, err := compileOracleGraph(ctx, chatModel, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: compile router graph: %v", contractx.ErrModelInvoke, err)
	}
	return &Oracle{runner: runner}, nil
}

func compileOracleGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("User prompt: {user_prompt}\nAvailable agents:\n{agent_cards}\nAnswer:"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add router prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add router model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add router edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add router edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add router edge model->end: %w", err)
	}

	return graph.Compile(ctx, compose.WithGraphName("router.oracle_graph"))
}

func (o *Oracle) Select(ctx context.Context, description string, candidates []contractx.CapabilityCard) (string, error) {
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: description=%q", contractx.ErrNoCandidate, description)
	}

	msg, err := o.runner.Invoke(ctx, map[string]any{
		"user_prompt": description,
		"agent_cards": RenderCards(candidates),
	})
	if err != nil {
		return "", fmt.Errorf("%w: router invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return "", fmt.Errorf("%w: router returned no message", contractx.ErrModelInvoke)
	}

	id, err := MatchName(msg.Content, candidates)
	if err != nil {
		return "", err
	}

	log.Debug().
		Str("component", "router").
		Str("strategy", "oracle").
		Str("answer", msg.Content).
		Str("worker_id", id).
		Msg("order routed")
	return id, nil
}

// MatchName maps a model answer to a card id. Surrounding whitespace and
// quotes are ignored; a case-insensitive match is accepted only when it is
// unique.
func MatchName(answer string, candidates []contractx.CapabilityCard) (string, error) {
	name := strings.TrimSpace(answer)
	name = strings.Trim(name, "\"'“”")
	name = strings.TrimSpace(name)

	for _, card := range candidates {
		if card.DisplayName == name {
			return card.ID, nil
		}
	}

	var folded []string
	for _, card := range candidates {
		if strings.EqualFold(card.DisplayName, name) {
			folded = append(folded, card.ID)
		}
	}
	if len(folded) == 1 {
		return folded[0], nil
	}

	return "", fmt.Errorf("%w: answer=%q", contractx.ErrUnknownAgent, answer)
}
