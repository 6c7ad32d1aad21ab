package router

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/contract"
	llmx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/llm"
	promptx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/prompt"
)

type Strategy string

const (
	StrategyLexical Strategy = "lexical"
	StrategyOracle  Strategy = "oracle"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyLexical:
		return StrategyLexical, nil
	case StrategyOracle:
		return StrategyOracle, nil
	default:
		return "", fmt.Errorf("%w: unknown router strategy %q", contractx.ErrValidation, s)
	}
}

// New builds the router for strategy. cfg is only read for the oracle.
func New(ctx context.Context, strategy Strategy, cfg *llmx.Config) (contractx.Router, error) {
	switch strategy {
	case StrategyLexical:
		return Lexical{}, nil
	case StrategyOracle:
		if cfg == nil {
			return nil, errors.New("llm config is required for the oracle router")
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		modelCfg := cfg.OpenRouterFor(contractx.AgentTypeRouter)
		chatModel, err := modelCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: create router model: %v", contractx.ErrModelInvoke, err)
		}
		return NewOracle(ctx, chatModel, promptx.LoadPromptSet().Router)
	default:
		return nil, fmt.Errorf("%w: unknown router strategy %q", contractx.ErrValidation, strategy)
	}
}
