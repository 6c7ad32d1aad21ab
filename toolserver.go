package main

import (
	"fmt"

	"github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/toolserver"
	configx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/pkg/config"
	"github.com/spf13/cobra"
)

// toolserverCmd speaks MCP on stdout, so logging goes to stderr.
var toolserverCmd = &cobra.Command{
	Use:   "toolserver",
	Short: "Serve the restaurant MCP tools over stdio",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger(true)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := configx.New[toolserver.Config]("TOOLSERVER", configx.WithEnvFile(envFile))
		if err != nil {
			return fmt.Errorf("load tool server config: %w", err)
		}
		return toolserver.Serve(*conf)
	},
}
