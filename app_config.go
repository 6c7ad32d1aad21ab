package main

import (
	"os"
	"strings"
)

type AppConfig struct {
	RouterStrategy string   `envconfig:"ROUTER_STRATEGY" split_words:"true" default:"lexical"`
	ToolsEnabled   bool     `envconfig:"TOOLS_ENABLED" split_words:"true" default:"true"`
	ToolsInProcess bool     `envconfig:"TOOLS_IN_PROCESS" split_words:"true" default:"false"`
	ToolsCommand   string   `envconfig:"TOOLS_COMMAND" split_words:"true"`
	ToolsArgs      []string `envconfig:"TOOLS_ARGS" split_words:"true"`
	StepTimeScale  float64  `envconfig:"STEP_TIME_SCALE" split_words:"true" default:"1.0"`
	Parallelism    int      `envconfig:"PARALLELISM" split_words:"true" default:"1"`
	OrdersFile     string   `envconfig:"ORDERS_FILE" split_words:"true"`
}

// toolCommand returns the tool server command line. Without an explicit
// command the current binary is re-executed in toolserver mode.
func (c AppConfig) toolCommand() (string, []string, error) {
	if cmd := strings.TrimSpace(c.ToolsCommand); cmd != "" {
		return cmd, c.ToolsArgs, nil
	}
	self, err := os.Executable()
	if err != nil {
		return "", nil, err
	}
	return self, []string{"toolserver"}, nil
}
