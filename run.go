package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	orchestratorx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/agents/orchestrator"
	workerx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/agents/worker"
	contractx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/contract"
	llmx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/llm"
	routerx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/router"
	statex "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/state"
	"github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/toolserver"
	"github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/toolsession"
	configx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var runFlags struct {
	orders    string
	strategy  string
	parallel  int
	timeScale float64
	noTools   bool
	inProcess bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Route and prepare a batch of orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		conf, err := configx.New[AppConfig]("RESTAURANT", configx.WithEnvFile(envFile))
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyRunFlags(cmd, conf)

		return runBatch(ctx, cmd, *conf)
	},
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.orders, "orders", "", "YAML file with the orders to process (default: demo orders)")
	f.StringVar(&runFlags.strategy, "strategy", "", "router strategy: lexical or oracle")
	f.IntVar(&runFlags.parallel, "parallel", 0, "number of orders prepared concurrently")
	f.Float64Var(&runFlags.timeScale, "time-scale", 0, "multiplier applied to preparation step durations")
	f.BoolVar(&runFlags.noTools, "no-tools", false, "run without the MCP tool server")
	f.BoolVar(&runFlags.inProcess, "in-process", false, "serve the MCP tools inside this process")
}

// applyRunFlags lets explicitly set flags win over the environment.
func applyRunFlags(cmd *cobra.Command, conf *AppConfig) {
	f := cmd.Flags()
	if f.Changed("orders") {
		conf.OrdersFile = runFlags.orders
	}
	if f.Changed("strategy") {
		conf.RouterStrategy = runFlags.strategy
	}
	if f.Changed("parallel") {
		conf.Parallelism = runFlags.parallel
	}
	if f.Changed("time-scale") {
		conf.StepTimeScale = runFlags.timeScale
	}
	if f.Changed("no-tools") {
		conf.ToolsEnabled = !runFlags.noTools
	}
	if f.Changed("in-process") {
		conf.ToolsInProcess = runFlags.inProcess
	}
}

func runBatch(ctx context.Context, cmd *cobra.Command, conf AppConfig) error {
	orders, err := loadOrders(conf.OrdersFile)
	if err != nil {
		return err
	}

	router, err := buildRouter(ctx, conf)
	if err != nil {
		return err
	}

	registry, err := buildToolRegistry(conf)
	if err != nil {
		return err
	}

	workerOpts := []workerx.Option{workerx.WithTimeScale(conf.StepTimeScale)}
	if registry != nil {
		defer registry.Release()
		workerOpts = append(workerOpts, workerx.WithToolGateway(registry))
	}

	roster, err := workerx.NewRoster(workerOpts...)
	if err != nil {
		return err
	}
	workers := make([]contractx.Worker, 0, len(roster))
	for _, w := range roster {
		workers = append(workers, w)
	}

	orch, err := orchestratorx.New(router, statex.NewOrderLog(), orchestratorx.Config{Parallelism: conf.Parallelism})
	if err != nil {
		return err
	}
	if err := orch.RegisterWorkers(workers...); err != nil {
		return err
	}

	log.Info().
		Int("orders", len(orders)).
		Int("workers", len(workers)).
		Str("strategy", conf.RouterStrategy).
		Bool("tools", registry != nil).
		Msg("processing orders")

	report, err := orch.ProcessBatch(ctx, orders)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printSummary(out, report)
	printDiscovery(out, orch.Cards())

	if failed := report.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d orders failed", failed, len(report.Outcomes))
	}
	return nil
}

func buildRouter(ctx context.Context, conf AppConfig) (contractx.Router, error) {
	strategy, err := routerx.ParseStrategy(conf.RouterStrategy)
	if err != nil {
		return nil, err
	}

	var llmConf *llmx.Config
	if strategy == routerx.StrategyOracle {
		llmConf, err = configx.New[llmx.Config]("OPENROUTER", configx.WithEnvFile(envFile))
		if err != nil {
			return nil, fmt.Errorf("load llm config: %w", err)
		}
	}
	return routerx.New(ctx, strategy, llmConf)
}

// buildToolRegistry returns nil when tools are disabled. The registry dials
// lazily, so an unreachable tool server only degrades the results.
func buildToolRegistry(conf AppConfig) (*toolsession.Registry, error) {
	if !conf.ToolsEnabled {
		return nil, nil
	}

	if conf.ToolsInProcess {
		tsConf, err := configx.New[toolserver.Config]("TOOLSERVER", configx.WithEnvFile(envFile))
		if err != nil {
			return nil, fmt.Errorf("load tool server config: %w", err)
		}
		return toolsession.NewRegistry(toolsession.InProcessDialer{Server: toolserver.NewServer(*tsConf)}), nil
	}

	command, args, err := conf.toolCommand()
	if err != nil {
		return nil, fmt.Errorf("resolve tool server command: %w", err)
	}
	if conf.ToolsCommand == "" && envFile != "" {
		args = append(args, "--env", envFile)
	}
	dialer := toolsession.StdioDialer{
		Command: command,
		Args:    args,
		Env:     []string{"LOG_STDERR=true"},
	}
	return toolsession.NewRegistry(dialer), nil
}
