package main

import (
	"os"

	configx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/pkg/config"
	logx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/pkg/logger"
	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "restaurant",
	Short: "Capability-routed virtual restaurant",
	Long: `restaurant routes free-text food orders to specialized kitchen workers.

Each worker advertises a capability card (skills, tags, example requests).
Orders are matched against the cards, prepared step by step, and reported
on through a shared MCP tool server session.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger(false)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to .env file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(cardsCmd)
	rootCmd.AddCommand(toolserverCmd)
	rootCmd.AddCommand(versionCmd)
}

// initLogger re-reads LOG_* after --env is known. forceStderr keeps stdout
// free for protocol traffic.
func initLogger(forceStderr bool) error {
	conf, err := configx.New[logx.Config]("LOG", configx.WithEnvFile(envFile))
	if err != nil {
		return err
	}
	if forceStderr {
		conf.Stderr = true
	}
	logx.Init(*conf)
	return nil
}
