package toolserver

import (
	"context"
	"fmt"
	"strings"
	"time"

	contractx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
)

const (
	ServerName    = "restaurant-tools"
	ServerVersion = "1.0.0"
)

type Config struct {
	Latency time.Duration `envconfig:"LATENCY" split_words:"true" default:"100ms"`
}

// NewServer builds the MCP server exposing the kitchen tools.
func NewServer(cfg Config) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	s.AddTools(Catalog(cfg)...)
	return s
}

// Serve runs the server on stdin/stdout until the client closes the stream.
func Serve(cfg Config) error {
	log.Info().Str("server", ServerName).Msg("starting restaurant tool server on stdio")
	return server.ServeStdio(NewServer(cfg))
}

func Catalog(cfg Config) []server.ServerTool {
	h := handlers{latency: cfg.Latency}
	return []server.ServerTool{
		{
			Tool: mcp.NewTool(contractx.ToolLogPreparationStart,
				mcp.WithDescription("Log that an agent started preparing an item."),
				mcp.WithString("item_name", mcp.Required(), mcp.Description("Item being prepared")),
				mcp.WithString("agent_name", mcp.Required(), mcp.Description("Agent preparing the item")),
			),
			Handler: h.logPreparationStart,
		},
		{
			Tool: mcp.NewTool(contractx.ToolLogPreparationComplete,
				mcp.WithDescription("Log that an agent finished preparing an item."),
				mcp.WithString("item_name", mcp.Required(), mcp.Description("Item that was prepared")),
				mcp.WithString("agent_name", mcp.Required(), mcp.Description("Agent that prepared the item")),
				mcp.WithNumber("preparation_time", mcp.Required(), mcp.Description("Preparation time in seconds")),
			),
			Handler: h.logPreparationComplete,
		},
		{
			Tool: mcp.NewTool(contractx.ToolValidateIngredients,
				mcp.WithDescription("Check that ingredients are available in inventory."),
				mcp.WithArray("ingredients",
					mcp.Required(),
					mcp.Description("Ingredients to validate"),
					mcp.Items(map[string]any{"type": "string"}),
				),
			),
			Handler: h.validateIngredients,
		},
		{
			Tool: mcp.NewTool(contractx.ToolGetQualityScore,
				mcp.WithDescription("Score an item by how close its preparation time was to the ideal."),
				mcp.WithString("item_type", mcp.Required(), mcp.Description("hamburguesa, pizza or hotdog")),
				mcp.WithNumber("preparation_time", mcp.Required(), mcp.Description("Preparation time in seconds")),
			),
			Handler: h.getQualityScore,
		},
	}
}

type handlers struct {
	latency time.Duration
}

func (h handlers) logPreparationStart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	item, err := requireString(args, "item_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	agent, err := requireString(args, "agent_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	msg := fmt.Sprintf("[MCP LOG] %s ha iniciado la preparación de: %s", agent, item)
	return h.reply(ctx, msg)
}

func (h handlers) logPreparationComplete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	item, err := requireString(args, "item_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	agent, err := requireString(args, "agent_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	seconds, err := requireNumber(args, "preparation_time")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	msg := fmt.Sprintf("[MCP LOG] %s completó %s en %.1fs", agent, item, seconds)
	return h.reply(ctx, msg)
}

func (h handlers) validateIngredients(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ingredients, err := requireStrings(req.GetArguments(), "ingredients")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var msg string
	if missing := MissingIngredients(ingredients); len(missing) > 0 {
		msg = "[MCP LOG] Ingredientes faltantes: " + strings.Join(missing, ", ")
	} else {
		msg = "[MCP LOG] Todos los ingredientes disponibles: " + strings.Join(ingredients, ", ")
	}
	return h.reply(ctx, msg)
}

func (h handlers) getQualityScore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	itemType, err := requireString(args, "item_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	seconds, err := requireNumber(args, "preparation_time")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	grade := QualityFor(itemType, seconds)
	msg := fmt.Sprintf("[MCP LOG] Score de calidad para %s: %s (%d/100)", itemType, grade.Label, grade.Score)
	return h.reply(ctx, msg)
}

func (h handlers) reply(ctx context.Context, msg string) (*mcp.CallToolResult, error) {
	log.Info().Str("server", ServerName).Msg(msg)
	if err := sleep(ctx, h.latency); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(msg), nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func requireString(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%s is empty", key)
	}
	return s, nil
}

func requireNumber(args map[string]any, key string) (float64, error) {
	raw, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%s must be a number", key)
	}
}

func requireStrings(args map[string]any, key string) ([]string, error) {
	raw, ok := args[key]
	if !ok {
		return nil, fmt.Errorf("%s is required", key)
	}
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s must contain only strings", key)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be an array of strings", key)
	}
}
